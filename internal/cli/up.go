package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/sprout/internal/presentation/tui"
	"github.com/aretw0/sprout/pkg/domain"
)

// RunUp bootstraps the configured project.
func RunUp(ctx context.Context, a *App) error {
	out := a.progress()
	if !a.Config.JSON {
		tui.PrintBanner(out)
	}

	engine, err := a.Engine()
	if err != nil {
		return err
	}

	report, runErr := engine.Run(ctx)
	if report == nil {
		return runErr
	}

	a.writeTextfile()

	if a.Config.JSON {
		if err := tui.RenderStructured(a.Out, report, "json"); err != nil {
			return err
		}
	} else if report.DryRun {
		fmt.Fprintln(out)
		tui.RenderPlan(out, report)
	} else {
		printSystemMessage(out, "Run %s recorded (%s). Inspect it with 'sprout history inspect %s'.", report.ID, report.Status, report.ID)
	}

	return runError(a, runErr)
}

// runError reports a run error on stderr and maps it to an exit code.
func runError(a *App, err error) error {
	switch {
	case err == nil:
		return nil
	case isInterrupted(err):
		printSystemMessage(a.Err, "Interrupted.")
		return &ExitError{Code: ExitInterrupted, Err: err}
	case domain.IsTerminal(err):
		fmt.Fprintf(a.Err, "Error: %v\n", err)
		return &ExitError{Code: ExitFailure, Err: err}
	}
	return err
}

func (a *App) writeTextfile() {
	path := a.Config.Metrics.Textfile
	if path == "" {
		return
	}
	if err := a.Metrics.WriteTextfile(path); err != nil {
		a.Logger.Warn("failed to write metrics textfile", "path", path, "error", err)
	}
}
