// Add command creates a single object outside of any hierarchy.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/binder/pkg/types"
)

var (
	addType        string
	addName        string
	addDescription string
	addData        string
	addPublished   bool
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new object",
	Long: `Add creates a single object of the given type. Non-composite types
take their payload from --data as JSON; composite objects take none and
start empty.

Example:
  binder add --type link --name "Go blog" --data '{"link": "https://go.dev/blog"}'
  binder add --type markdown --name "Notes" --data '{"raw_text": "# Notes"}'
  binder add --type composite --name "Reading list"`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addType, "type", "", "object type: link, markdown, to_do_list, composite (required)")
	addCmd.Flags().StringVar(&addName, "name", "", "object name (required)")
	addCmd.Flags().StringVar(&addDescription, "description", "", "object description")
	addCmd.Flags().StringVar(&addData, "data", "", "type-specific payload as JSON")
	addCmd.Flags().BoolVar(&addPublished, "published", false, "mark the object published")
	_ = addCmd.MarkFlagRequired("type")
	_ = addCmd.MarkFlagRequired("name")
}

func runAdd(cmd *cobra.Command, args []string) error {
	attrs := types.ObjectAttrs{
		OwnerID:     configUserID,
		ObjectType:  addType,
		IsPublished: addPublished,
		Name:        addName,
		Description: addDescription,
	}

	var data types.ObjectData
	if addType != types.ObjectTypeComposite {
		if addData == "" {
			fmt.Fprintf(os.Stderr, "add: --data is required for type %q\n", addType)
			os.Exit(exitUserError)
		}
		var err error
		data, err = types.DecodeData(addType, json.RawMessage(addData))
		if err != nil {
			fmt.Fprintln(os.Stderr, "add:", err)
			os.Exit(exitUserError)
		}
	} else if addData != "" {
		fmt.Fprintln(os.Stderr, "add: composite objects take no --data")
		os.Exit(exitUserError)
	}

	backend, err := attachBackend()
	if err != nil {
		fmt.Fprintln(os.Stderr, "add:", err)
		os.Exit(exitSysError)
	}
	defer backend.Detach()

	id, err := backend.AddObject(cmd.Context(), attrs, data)
	if err != nil {
		if errors.Is(err, types.ErrInvalidObjectType) || errors.Is(err, types.ErrInvalidData) || errors.Is(err, types.ErrInvalidName) {
			fmt.Fprintln(os.Stderr, "add:", err)
			os.Exit(exitUserError)
		}
		fmt.Fprintln(os.Stderr, "add:", err)
		os.Exit(exitSysError)
	}

	if flagJSON {
		return printJSON(map[string]int64{"object_id": id})
	}
	fmt.Printf("Created %s object: %d\n", addType, id)
	return nil
}
