package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/sprout"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of sprout",
	// No configuration is needed to print the version.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sprout version %s\n", strings.TrimSpace(sprout.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
