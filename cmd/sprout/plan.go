package main

import (
	"strings"

	"github.com/aretw0/sprout/internal/cli"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the commands a run would issue",
	Long:  `Resolves the full command list for this host and project without running anything.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		return cli.RunPlan(cmd.Context(), app, format)
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().StringP("format", "f", "table", "Output format: "+strings.Join(cli.PlanFormats, ", "))
}
