package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubobjectDescriptorUnmarshal(t *testing.T) {
	t.Run("new link descriptor decodes typed data", func(t *testing.T) {
		raw := `{
			"object_id": -1,
			"row": 2,
			"column": 1,
			"object_type": "link",
			"attributes": {"owner_id": 7, "object_type": "link", "object_name": "Go blog"},
			"data": {"link": "https://go.dev/blog"}
		}`
		var desc SubobjectDescriptor
		require.NoError(t, json.Unmarshal([]byte(raw), &desc))

		assert.True(t, desc.IsNew())
		assert.True(t, desc.HasUpdate())
		assert.Equal(t, 2, desc.Row)
		assert.Equal(t, 1, desc.Column)
		require.NotNil(t, desc.Attrs)
		assert.Equal(t, "Go blog", desc.Attrs.Name)

		link, ok := desc.Data.(*LinkData)
		require.True(t, ok)
		assert.Equal(t, "https://go.dev/blog", link.URL)
	})

	t.Run("tri-state flags default to inherit", func(t *testing.T) {
		var desc SubobjectDescriptor
		require.NoError(t, json.Unmarshal([]byte(`{"object_id": 5}`), &desc))

		assert.Equal(t, ShowDescriptionInherit, desc.ShowDescriptionComposite)
		assert.Equal(t, ShowDescriptionInherit, desc.ShowDescriptionAsLinkComposite)
		assert.False(t, desc.IsNew())
		assert.False(t, desc.HasUpdate())
		assert.Nil(t, desc.Data)
	})

	t.Run("explicit tri-state values survive", func(t *testing.T) {
		var desc SubobjectDescriptor
		raw := `{"object_id": 5, "show_description_composite": "yes", "show_description_as_link_composite": "no"}`
		require.NoError(t, json.Unmarshal([]byte(raw), &desc))

		assert.Equal(t, ShowDescriptionYes, desc.ShowDescriptionComposite)
		assert.Equal(t, ShowDescriptionNo, desc.ShowDescriptionAsLinkComposite)
	})

	t.Run("data without known type is rejected", func(t *testing.T) {
		raw := `{"object_id": -1, "object_type": "video", "data": {"x": 1}}`
		var desc SubobjectDescriptor
		assert.Error(t, json.Unmarshal([]byte(raw), &desc))
	})
}

func TestParentUpsertUnmarshal(t *testing.T) {
	raw := `{
		"object_id": 10,
		"subobjects": [
			{"object_id": 3, "row": 0, "column": 0},
			{"object_id": -2, "row": 1, "column": 0, "object_type": "markdown",
				"attributes": {"object_type": "markdown", "object_name": "Note"},
				"data": {"raw_text": "# Note"}}
		],
		"deleted_subobjects": [{"object_id": 4, "is_full_delete": true}],
		"composite_properties": {"display_mode": "chapters", "numerate_chapters": true}
	}`

	var p ParentUpsert
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, int64(10), p.ParentID)
	require.Len(t, p.Subobjects, 2)
	assert.Equal(t, int64(3), p.Subobjects[0].ObjectID)
	assert.True(t, p.Subobjects[1].IsNew())
	require.Len(t, p.DeletedSubobjects, 1)
	assert.True(t, p.DeletedSubobjects[0].FullDelete)
	assert.Equal(t, DisplayModeChapters, p.Properties.DisplayMode)
	assert.True(t, p.Properties.NumerateChapters)
}

func TestIDRemappingResolve(t *testing.T) {
	remap := IDRemapping{-1: 101, -2: 102}

	assert.Equal(t, int64(101), remap.Resolve(-1))
	assert.Equal(t, int64(102), remap.Resolve(-2))
	assert.Equal(t, int64(55), remap.Resolve(55), "real ids pass through unchanged")
}

func TestSubobjectDescriptorItem(t *testing.T) {
	desc := SubobjectDescriptor{
		ObjectID:                       -1,
		Row:                            3,
		Column:                         2,
		SelectedTab:                    1,
		IsExpanded:                     true,
		ShowDescriptionComposite:       ShowDescriptionYes,
		ShowDescriptionAsLinkComposite: ShowDescriptionInherit,
	}

	item := desc.Item(10, 42)
	assert.Equal(t, int64(10), item.ObjectID)
	assert.Equal(t, int64(42), item.SubobjectID)
	assert.Equal(t, 3, item.Row)
	assert.Equal(t, 2, item.Column)
	assert.Equal(t, 1, item.SelectedTab)
	assert.True(t, item.IsExpanded)
	assert.Equal(t, ShowDescriptionYes, item.ShowDescriptionComposite)
}
