package main

import (
	"github.com/aretw0/sprout/internal/cli"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recorded runs",
}

var historyListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List recorded runs, newest first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		limit, _ := cmd.Flags().GetInt("limit")
		if app.Config.JSON {
			format = "json"
		}
		return cli.ListHistory(cmd.Context(), app, format, limit)
	},
}

var historyInspectCmd = &cobra.Command{
	Use:   "inspect <id>",
	Short: "Show the report of a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if app.Config.JSON {
			format = "json"
		}
		return cli.InspectRun(cmd.Context(), app, args[0], format)
	},
}

var historyRemoveCmd = &cobra.Command{
	Use:     "rm [id...]",
	Aliases: []string{"remove"},
	Short:   "Remove recorded runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		return cli.RemoveRuns(cmd.Context(), app, args, all)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyInspectCmd, historyRemoveCmd)

	historyListCmd.Flags().StringP("format", "f", "table", "Output format: table, json or yaml")
	historyListCmd.Flags().IntP("limit", "n", 0, "Show at most n runs (0 = all)")
	historyInspectCmd.Flags().StringP("format", "f", "table", "Output format: table, json, yaml or mermaid")
	historyRemoveCmd.Flags().Bool("all", false, "Remove every recorded run")
}
