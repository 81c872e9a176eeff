// Export and import commands move the store through JSONL snapshots.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Export the store to a JSONL snapshot directory",
	Long: `Export writes every table as a JSONL file plus a manifest into the
given directory. Files are written atomically.

Example:
  binder export ./snapshot`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "export:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		if err := backend.ExportJSONL(cmd.Context(), args[0]); err != nil {
			fmt.Fprintln(os.Stderr, "export:", err)
			os.Exit(exitSysError)
		}

		fmt.Println("Exported snapshot to", args[0])
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Import a JSONL snapshot directory into the store",
	Long: `Import loads table rows from a snapshot directory in a single
transaction. Existing rows with matching ids are replaced.

Example:
  binder import ./snapshot`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "import:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		if err := backend.ImportJSONL(cmd.Context(), args[0]); err != nil {
			fmt.Fprintln(os.Stderr, "import:", err)
			os.Exit(exitSysError)
		}

		fmt.Println("Imported snapshot from", args[0])
		return nil
	},
}
