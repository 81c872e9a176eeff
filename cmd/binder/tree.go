// Tree command walks a composite hierarchy.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/binder/pkg/types"
)

var treeCmd = &cobra.Command{
	Use:   "tree <id>",
	Short: "List all objects reachable from a composite",
	Long: `Tree walks the hierarchy below the given composite object and prints
the reachable object ids, split into composites and leaves. The walk
tolerates cycles and stops at the configured depth bound.

Example:
  binder tree 42
  binder tree 42 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runTree,
}

func runTree(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		fmt.Fprintf(os.Stderr, "invalid object id %q\n", args[0])
		os.Exit(exitUserError)
	}

	backend, err := attachBackend()
	if err != nil {
		fmt.Fprintln(os.Stderr, "tree:", err)
		os.Exit(exitSysError)
	}
	defer backend.Detach()

	engine := newEngine(backend)
	result, err := engine.Subtree(cmd.Context(), id)
	if err != nil {
		var notFound *types.NotFoundError
		var forbidden *types.ForbiddenError
		switch {
		case errors.As(err, &notFound):
			fmt.Fprintf(os.Stderr, "object %d not found\n", id)
			os.Exit(exitUserError)
		case errors.As(err, &forbidden):
			fmt.Fprintf(os.Stderr, "not authorized to read %d\n", id)
			os.Exit(exitUserError)
		case errors.Is(err, types.ErrNotComposite):
			fmt.Fprintf(os.Stderr, "object %d is not a composite\n", id)
			os.Exit(exitUserError)
		default:
			fmt.Fprintln(os.Stderr, "tree:", err)
			os.Exit(exitSysError)
		}
	}

	if flagJSON {
		return printJSON(result)
	}
	fmt.Println("composites:", result.CompositeIDs)
	fmt.Println("leaves:    ", result.NonCompositeIDs)
	return nil
}
