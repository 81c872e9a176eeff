// Init command for the binder CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagSeed bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize binder storage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Resolve config directory (flag > env > default) and ensure it
		// exists with a default config.yaml.
		configDir, err := resolveConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}
		if err := ensureConfigDir(configDir); err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}
		if err := ensureDefaultConfigFile(configDir); err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}

		// Attach backend (creates the data directory and schema).
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		dataDir, err := resolveDataDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}

		fmt.Println("Binder initialized successfully")
		fmt.Println("  config:", configDir)
		fmt.Println("  data:  ", dataDir)

		if flagSeed {
			rootID, err := backend.Seed(cmd.Context())
			if err != nil {
				fmt.Fprintln(os.Stderr, "seed:", err)
				os.Exit(exitSysError)
			}
			fmt.Println("  seeded root composite:", rootID)
		}
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&flagSeed, "seed", false, "populate the store with sample objects")
}
