package tui

import (
	"bytes"
	"testing"
	"time"

	"github.com/aretw0/sprout/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *domain.Report {
	return &domain.Report{
		ID:         "run-1",
		ProjectDir: "/work/app",
		Platform:   domain.PlatformLinux,
		Status:     domain.StatusAborted,
		Error:      "node: package.json: project manifest not found",
		StartedAt:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Phases: []domain.PhaseResult{
			{Phase: domain.PhaseSystem, Status: domain.StatusSuccess, Commands: []domain.CommandResult{
				{Command: domain.NewCommand("sudo", "apt", "update")},
			}},
			{Phase: domain.PhaseGit, Status: domain.StatusSkipped, Reason: "git not found"},
			{Phase: domain.PhaseNode, Status: domain.StatusAborted},
		},
	}
}

func TestRenderPlan(t *testing.T) {
	var buf bytes.Buffer
	RenderPlan(&buf, sampleReport())

	out := buf.String()
	assert.Contains(t, out, "sudo apt update")
	assert.Contains(t, out, "git not found")
	assert.Contains(t, out, "Run would stop: node: package.json: project manifest not found")
	assert.Contains(t, out, "(1 commands)")
}

func TestRenderReport(t *testing.T) {
	var buf bytes.Buffer
	RenderReport(&buf, sampleReport())

	out := buf.String()
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "system")
	assert.Contains(t, out, "Error: node: package.json")
}

func TestRenderHistory(t *testing.T) {
	var buf bytes.Buffer
	RenderHistory(&buf, nil)
	assert.Contains(t, buf.String(), "No runs recorded.")

	buf.Reset()
	RenderHistory(&buf, []*domain.Report{sampleReport()})
	assert.Contains(t, buf.String(), "run-1")
	assert.Contains(t, buf.String(), "/work/app")
}

func TestRenderStructured(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderStructured(&buf, sampleReport(), "json"))
	assert.Contains(t, buf.String(), `"id": "run-1"`)

	buf.Reset()
	require.NoError(t, RenderStructured(&buf, sampleReport(), "yaml"))
	assert.Contains(t, buf.String(), "id: run-1")
	assert.Contains(t, buf.String(), "phase: system")

	assert.Error(t, RenderStructured(&buf, sampleReport(), "toml"))
}
