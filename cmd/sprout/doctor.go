package main

import (
	"github.com/aretw0/sprout/internal/cli"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the tools and files the bootstrap needs",
	Long:  `Prints a checklist of package managers, tools and project manifests. Exits 1 when a run would stop with an error.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if app.Config.JSON {
			format = "json"
		}
		return cli.RunDoctor(cmd.Context(), app, format)
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().StringP("format", "f", "text", "Output format: text or json")
}
