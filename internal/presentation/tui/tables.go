package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aretw0/sprout/pkg/domain"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// RenderPlan prints the commands a run would issue, grouped by phase.
func RenderPlan(w io.Writer, r *domain.Report) {
	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Phase", "Command", "Note"})

	n := 0
	for _, p := range r.Phases {
		if len(p.Commands) == 0 {
			t.AppendRow(table.Row{"-", p.Phase, "", p.Reason})
			continue
		}
		for _, c := range p.Commands {
			n++
			note := ""
			if c.Query {
				note = "query"
			}
			t.AppendRow(table.Row{n, p.Phase, c.Command.String(), note})
		}
	}
	t.Render()

	if r.Error != "" {
		fmt.Fprintf(w, "Run would stop: %s\n", r.Error)
	}
	fmt.Fprintf(w, "(%d commands)\n", n)
}

// RenderReport prints one row per phase of a finished run.
func RenderReport(w io.Writer, r *domain.Report) {
	fmt.Fprintf(w, "Run %s  %s  %s  %s\n", r.ID, r.Platform, StatusLabel(r.Status), r.ProjectDir)

	t := newTable(w)
	t.AppendHeader(table.Row{"Phase", "Status", "Commands", "Failed", "Duration", "Reason"})
	for _, p := range r.Phases {
		t.AppendRow(table.Row{
			p.Phase,
			StatusLabel(p.Status),
			len(p.Commands),
			len(p.FailedCommands()),
			p.Duration.Round(time.Millisecond),
			p.Reason,
		})
	}
	t.Render()

	if r.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", r.Error)
	}
}

// RenderHistory prints a summary row per stored report.
func RenderHistory(w io.Writer, reports []*domain.Report) {
	if len(reports) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Started", "Status", "Platform", "Phases", "Project"})
	for _, r := range reports {
		t.AppendRow(table.Row{
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			StatusLabel(r.Status),
			r.Platform,
			len(r.Phases),
			r.ProjectDir,
		})
	}
	t.Render()
}

// RenderStructured encodes v as indented JSON or YAML.
func RenderStructured(w io.Writer, v any, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported format %q", format)
}
