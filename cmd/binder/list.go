// List command enumerates stored objects.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/binder/pkg/types"
)

var listType string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List objects, optionally filtered by type",
	Long: `List prints all stored objects ordered by id.

Example:
  binder list
  binder list --type composite
  binder list --type link --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listType, "type", "", "restrict to one object type")
}

func runList(cmd *cobra.Command, args []string) error {
	if listType != "" && !types.ValidObjectType(listType) {
		fmt.Fprintf(os.Stderr, "unknown object type %q (valid: link, markdown, to_do_list, composite)\n", listType)
		os.Exit(exitUserError)
	}

	backend, err := attachBackend()
	if err != nil {
		fmt.Fprintln(os.Stderr, "list:", err)
		os.Exit(exitSysError)
	}
	defer backend.Detach()

	objects, err := backend.ListObjects(cmd.Context(), listType)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list:", err)
		os.Exit(exitSysError)
	}

	if flagJSON {
		return printJSON(objects)
	}

	for _, obj := range objects {
		fmt.Printf("%d\t%s\t%s\n", obj.ObjectID, obj.ObjectType, obj.Name)
	}
	return nil
}
