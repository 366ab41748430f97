package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/slotshift/pkg/slotshift"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the slotshift version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "slotshift v%s\nmodule: %s\n", slotshift.Version, slotshift.ModulePath)
	},
}
