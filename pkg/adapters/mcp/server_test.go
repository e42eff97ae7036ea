package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aretw0/sprout/pkg/adapters/memory"
	"github.com/aretw0/sprout/pkg/doctor"
	"github.com/aretw0/sprout/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEngine struct {
	report *domain.Report
	err    error
	checks []doctor.Result
}

func (e *stubEngine) Plan(context.Context) (*domain.Report, error) { return e.report, e.err }
func (e *stubEngine) Doctor(context.Context) []doctor.Result      { return e.checks }
func (e *stubEngine) Platform() domain.Platform                    { return domain.PlatformDarwin }

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func seeded(t *testing.T) *Server {
	t.Helper()
	store := memory.NewStore()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, st := range []domain.Status{domain.StatusSuccess, domain.StatusAborted, domain.StatusSuccess} {
		require.NoError(t, store.Save(context.Background(), &domain.Report{
			ID:        []string{"a", "b", "c"}[i],
			Status:    st,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			Phases:    []domain.PhaseResult{{Phase: domain.PhaseSystem, Status: st}},
		}))
	}
	return NewServer(&stubEngine{}, store, "0.1.0\n")
}

func TestHandlePlan(t *testing.T) {
	report := &domain.Report{
		DryRun: true,
		Error:  "node: project manifest not found",
		Phases: []domain.PhaseResult{{
			Phase:    domain.PhaseSystem,
			Commands: []domain.CommandResult{{Command: domain.NewCommand("sudo", "apt", "update")}},
		}},
	}
	s := NewServer(&stubEngine{report: report, err: domain.ErrManifestMissing}, nil, "dev")

	resp, err := s.handlePlan(context.Background(), callRequest(nil), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"sudo apt update"}, resp.Commands)
	assert.Equal(t, domain.ErrManifestMissing.Error(), resp.Stops)

	s = NewServer(&stubEngine{err: context.Canceled}, nil, "dev")
	_, err = s.handlePlan(context.Background(), callRequest(nil), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHandleDoctor(t *testing.T) {
	s := NewServer(&stubEngine{checks: []doctor.Result{doctor.Warn("tool: npm", "not found")}}, nil, "dev")

	out, err := s.handleDoctor(context.Background(), callRequest(nil), nil)
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Equal(t, domain.PlatformDarwin, out.Platform)
	assert.Len(t, out.Checks, 1)
}

func TestHandleListRuns(t *testing.T) {
	s := seeded(t)

	t.Run("All Newest First", func(t *testing.T) {
		res, err := s.handleListRuns(context.Background(), callRequest(nil))
		require.NoError(t, err)
		require.False(t, res.IsError)

		var runs []struct{ ID string }
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &runs))
		require.Len(t, runs, 3)
		assert.Equal(t, "c", runs[0].ID)
	})

	t.Run("Status And Limit", func(t *testing.T) {
		// JSON numbers arrive as float64.
		res, err := s.handleListRuns(context.Background(), callRequest(map[string]any{"status": "success", "limit": 1.0}))
		require.NoError(t, err)

		var runs []struct{ ID string }
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &runs))
		require.Len(t, runs, 1)
		assert.Equal(t, "c", runs[0].ID)
	})

	t.Run("Invalid Arguments", func(t *testing.T) {
		res, err := s.handleListRuns(context.Background(), callRequest(map[string]any{"limit": map[string]any{"x": 1}}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})

	t.Run("No Store", func(t *testing.T) {
		res, err := NewServer(&stubEngine{}, nil, "dev").handleListRuns(context.Background(), callRequest(nil))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})
}

func TestHandleGetRun(t *testing.T) {
	s := seeded(t)

	t.Run("JSON", func(t *testing.T) {
		res, err := s.handleGetRun(context.Background(), callRequest(map[string]any{"id": "b"}))
		require.NoError(t, err)
		require.False(t, res.IsError)

		var report domain.Report
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &report))
		assert.Equal(t, domain.StatusAborted, report.Status)
	})

	t.Run("Mermaid", func(t *testing.T) {
		res, err := s.handleGetRun(context.Background(), callRequest(map[string]any{"id": "a", "format": "mermaid"}))
		require.NoError(t, err)
		assert.Contains(t, resultText(t, res), "graph TD")
	})

	t.Run("Missing", func(t *testing.T) {
		res, err := s.handleGetRun(context.Background(), callRequest(map[string]any{"id": "zzz"}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})

	t.Run("Requires ID", func(t *testing.T) {
		res, err := s.handleGetRun(context.Background(), callRequest(nil))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})
}
