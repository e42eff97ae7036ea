package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/sprout/internal/presentation/tui"
	"github.com/aretw0/sprout/pkg/doctor"
)

// RunDoctor prints the environment checklist. It fails when a check predicts
// a terminal error.
func RunDoctor(ctx context.Context, a *App, format string) error {
	engine, err := a.Engine()
	if err != nil {
		return err
	}
	results := engine.Doctor(ctx)

	var ok bool
	switch format {
	case "", "text":
		fmt.Fprintf(a.Out, "Platform: %s\nProject:  %s\n\n", engine.Platform(), engine.Settings().ProjectDir)
		ok = doctor.PrintChecklist(a.Out, results)
	case "json":
		ok = doctor.OK(results)
		out := doctor.JSONOutput{Platform: engine.Platform(), Checks: results, OK: ok}
		if err := tui.RenderStructured(a.Out, out, "json"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q (want text or json)", format)
	}

	if !ok {
		return &ExitError{Code: ExitFailure}
	}
	return nil
}
