package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/sprout/internal/cli"
	"github.com/aretw0/sprout/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	app     *cli.App
)

var rootCmd = &cobra.Command{
	Use:   "sprout",
	Short: "Sprout bootstraps a Node + Python development environment",
	Long: `Sprout installs system packages, configures git, installs Node and Python
dependencies and creates a .env file. Every step is safe to run again.

Running sprout without a subcommand is the same as 'sprout up'.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		app, err = cli.NewApp(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		if cfg.ConfigFile != "" {
			app.Logger.Debug("config loaded", "file", cfg.ConfigFile)
		}
		return nil
	},
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	ctx := cli.NewSignalContext(context.Background())
	defer ctx.Cancel()

	err := rootCmd.ExecuteContext(ctx)
	if app != nil {
		if cerr := app.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", cerr)
		}
	}

	var exitErr *cli.ExitError
	if err != nil && !errors.As(err, &exitErr) && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return cli.ExitCode(err)
}

func init() {
	// Persistent flags (available to all commands)
	pf := rootCmd.PersistentFlags()
	pf.String("dir", ".", "Project directory to bootstrap")
	pf.StringVar(&cfgFile, "config", "", "Config file (default: sprout.yaml in the project directory)")
	pf.Bool("debug", false, "Enable debug logging on stderr")
	pf.BoolP("yes", "y", false, "Never prompt; unanswered questions are skipped")
	pf.Bool("strict", false, "Stop at the first failing command")
	pf.Bool("dry-run", false, "Record commands instead of running them")
	pf.StringSlice("skip", nil, "Phases to skip (system, git, node, python, env)")
	pf.Bool("json", false, "Print machine-readable JSON on stdout")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.String("store", "file", "Report store: file, memory or redis")
	pf.String("redis", "", "Redis address for the redis store (host:port)")
}
