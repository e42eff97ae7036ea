package main

import (
	"github.com/aretw0/sprout/internal/cli"
	"github.com/spf13/cobra"
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Bootstrap the project",
	Long: `Runs every phase in order: system packages, git identity, Node dependencies,
Python virtual environment and .env file. Failed commands are recorded and the run
continues, unless --strict is set. A missing package.json stops the run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunUp(cmd.Context(), app)
	},
}

func init() {
	rootCmd.AddCommand(upCmd)
	upCmd.Flags().String("metrics-textfile", "", "Write run metrics in node-exporter textfile format to this path")

	// 'up' is the default command.
	rootCmd.Flags().AddFlagSet(upCmd.Flags())
	rootCmd.RunE = upCmd.RunE
}
