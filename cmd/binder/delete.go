// Delete command removes objects, optionally with their exclusive children.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/binder/pkg/types"
)

var flagSubobjects bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete objects by id",
	Long: `Delete removes the named objects. With --subobjects, children of
deleted composites that appear in no other composite are removed as well.

Example:
  binder delete 42
  binder delete 42 43 --subobjects`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVar(&flagSubobjects, "subobjects", false, "also delete exclusive children of deleted composites")
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			fmt.Fprintf(os.Stderr, "invalid object id %q\n", arg)
			os.Exit(exitUserError)
		}
		ids = append(ids, id)
	}

	backend, err := attachBackend()
	if err != nil {
		fmt.Fprintln(os.Stderr, "delete:", err)
		os.Exit(exitSysError)
	}
	defer backend.Detach()

	engine := newEngine(backend)
	deleted, err := engine.Delete(cmd.Context(), ids, flagSubobjects)
	if err != nil {
		var notFound *types.NotFoundError
		var forbidden *types.ForbiddenError
		switch {
		case errors.As(err, &notFound):
			fmt.Fprintf(os.Stderr, "objects not found: %v\n", notFound.IDs)
			os.Exit(exitUserError)
		case errors.As(err, &forbidden):
			fmt.Fprintf(os.Stderr, "not authorized to delete: %v\n", forbidden.IDs)
			os.Exit(exitUserError)
		default:
			fmt.Fprintln(os.Stderr, "delete:", err)
			os.Exit(exitSysError)
		}
	}

	if flagJSON {
		return printJSON(map[string][]int64{"deleted": deleted})
	}
	fmt.Printf("Deleted %d object(s): %v\n", len(deleted), deleted)
	return nil
}
