// Version command for the binder CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/binder/pkg/binder"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the binder version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("binder", binder.Version)
	},
}
