package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/sprout/internal/presentation/graph"
	"github.com/aretw0/sprout/internal/presentation/tui"
	"github.com/aretw0/sprout/pkg/domain"
	"github.com/aretw0/sprout/pkg/ports"
)

// ListHistory prints the recorded runs, newest first.
func ListHistory(ctx context.Context, a *App, format string, limit int) error {
	reports, err := ports.LoadAll(ctx, a.Store())
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if limit > 0 && len(reports) > limit {
		reports = reports[:limit]
	}

	switch format {
	case "", "table":
		tui.RenderHistory(a.Out, reports)
		return nil
	case "json", "yaml":
		return tui.RenderStructured(a.Out, reports, format)
	}
	return fmt.Errorf("unsupported format %q (want table, json or yaml)", format)
}

// InspectRun prints one recorded run.
func InspectRun(ctx context.Context, a *App, id, format string) error {
	report, err := a.Store().Load(ctx, id)
	if errors.Is(err, domain.ErrReportNotFound) {
		return fmt.Errorf("run %q not found", id)
	}
	if err != nil {
		return fmt.Errorf("load run: %w", err)
	}

	switch format {
	case "", "table":
		tui.RenderReport(a.Out, report)
		return nil
	case "json", "yaml":
		return tui.RenderStructured(a.Out, report, format)
	case "mermaid":
		fmt.Fprint(a.Out, graph.GenerateMermaid(report))
		return nil
	}
	return fmt.Errorf("unsupported format %q (want table, json, yaml or mermaid)", format)
}

// RemoveRuns deletes the given runs, or every run when all is set.
func RemoveRuns(ctx context.Context, a *App, ids []string, all bool) error {
	if all {
		var err error
		ids, err = a.Store().List(ctx)
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}
	}
	if len(ids) == 0 {
		return fmt.Errorf("no run IDs given (use --all to remove every run)")
	}

	for _, id := range ids {
		if err := a.Store().Delete(ctx, id); err != nil {
			return fmt.Errorf("remove run %s: %w", id, err)
		}
		a.Logger.Debug("run removed", "run_id", id)
	}
	printSystemMessage(a.Out, "Removed %d run(s).", len(ids))
	return nil
}
