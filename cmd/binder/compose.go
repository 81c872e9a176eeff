// Compose command applies hierarchy changes from a payload file.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/binder/pkg/types"
)

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Modify composite hierarchies",
}

var composeApplyCmd = &cobra.Command{
	Use:   "apply <payload.json>",
	Short: "Apply a batch of composite changes atomically",
	Long: `Apply reads a JSON payload describing changes to one or more
composite parents and applies all of them in a single transaction.
The payload is an array of parent entries; a single entry may be given
without the enclosing array. New subobjects use negative placeholder
ids, and the mapping from placeholders to assigned ids is printed on
success.

Example:
  binder compose apply changes.json`,
	Args: cobra.ExactArgs(1),
	RunE: runComposeApply,
}

func init() {
	composeCmd.AddCommand(composeApplyCmd)
}

func runComposeApply(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, "compose apply:", err)
		os.Exit(exitUserError)
	}

	parents, err := decodePayload(raw)
	if err != nil {
		fmt.Fprintln(os.Stderr, "compose apply:", err)
		os.Exit(exitUserError)
	}

	backend, err := attachBackend()
	if err != nil {
		fmt.Fprintln(os.Stderr, "compose apply:", err)
		os.Exit(exitSysError)
	}
	defer backend.Detach()

	engine := newEngine(backend)
	remap, err := engine.Upsert(cmd.Context(), parents)
	if err != nil {
		var validation *types.ValidationError
		var notFound *types.NotFoundError
		var forbidden *types.ForbiddenError
		switch {
		case errors.As(err, &validation):
			fmt.Fprintln(os.Stderr, "invalid payload:", validation)
			os.Exit(exitUserError)
		case errors.As(err, &notFound):
			fmt.Fprintf(os.Stderr, "objects not found: %v\n", notFound.IDs)
			os.Exit(exitUserError)
		case errors.As(err, &forbidden):
			fmt.Fprintf(os.Stderr, "not authorized to modify: %v\n", forbidden.IDs)
			os.Exit(exitUserError)
		default:
			fmt.Fprintln(os.Stderr, "compose apply:", err)
			os.Exit(exitSysError)
		}
	}

	if flagJSON {
		return printJSON(remap)
	}
	if len(remap) == 0 {
		fmt.Println("Applied; no new objects created")
		return nil
	}
	fmt.Println("Applied; assigned ids:")
	for placeholder, id := range remap {
		fmt.Printf("  %d -> %d\n", placeholder, id)
	}
	return nil
}

// decodePayload accepts either an array of parent entries or a single entry.
func decodePayload(raw []byte) ([]types.ParentUpsert, error) {
	var parents []types.ParentUpsert
	if err := json.Unmarshal(raw, &parents); err == nil {
		return parents, nil
	}

	var single types.ParentUpsert
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return []types.ParentUpsert{single}, nil
}
