package main

import (
	"github.com/aretw0/sprout/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP status API",
	Long: `Serves recorded runs, the current plan, the doctor checklist and Prometheus
metrics over HTTP. The API is read-only: it never starts a bootstrap.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Serve(cmd.Context(), app)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
}
