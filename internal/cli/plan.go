package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/sprout/internal/presentation/graph"
	"github.com/aretw0/sprout/internal/presentation/tui"
)

// PlanFormats lists the accepted --format values of plan.
var PlanFormats = []string{"table", "json", "yaml", "mermaid"}

// RunPlan prints the commands a run would issue. A plan that would stop early
// is still a successful plan.
func RunPlan(ctx context.Context, a *App, format string) error {
	engine, err := a.Engine()
	if err != nil {
		return err
	}

	report, err := engine.Plan(ctx)
	if report == nil || isInterrupted(err) {
		return runError(a, err)
	}

	switch format {
	case "", "table":
		tui.RenderPlan(a.Out, report)
	case "json", "yaml":
		return tui.RenderStructured(a.Out, report, format)
	case "mermaid":
		fmt.Fprint(a.Out, graph.GenerateMermaid(report))
	default:
		return fmt.Errorf("unsupported format %q (want table, json, yaml or mermaid)", format)
	}
	return nil
}
