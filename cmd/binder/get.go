// Get command retrieves a single object by id.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/binder/pkg/types"
)

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get an object by id",
	Long: `Get retrieves an object with its type-specific payload. Composite
objects are printed with their display properties instead of a payload.

Example:
  binder get 42`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		fmt.Fprintf(os.Stderr, "invalid object id %q\n", args[0])
		os.Exit(exitUserError)
	}

	backend, err := attachBackend()
	if err != nil {
		fmt.Fprintln(os.Stderr, "get:", err)
		os.Exit(exitSysError)
	}
	defer backend.Detach()

	obj, data, err := backend.GetObject(cmd.Context(), id)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "object %d not found\n", id)
			os.Exit(exitUserError)
		}
		fmt.Fprintln(os.Stderr, "get:", err)
		os.Exit(exitSysError)
	}

	out := map[string]any{"object": obj}
	if obj.IsComposite() {
		props, err := backend.CompositeProps(cmd.Context(), id)
		if err != nil {
			fmt.Fprintln(os.Stderr, "get:", err)
			os.Exit(exitSysError)
		}
		out["composite_properties"] = props
	} else {
		out["data"] = data
	}

	return printJSON(out)
}
