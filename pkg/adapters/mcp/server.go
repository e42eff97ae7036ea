package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/sprout/internal/presentation/graph"
	"github.com/aretw0/sprout/pkg/doctor"
	"github.com/aretw0/sprout/pkg/domain"
	"github.com/aretw0/sprout/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// Engine defines what the MCP server may ask of sprout.
// Only read-only operations are exposed to agents.
type Engine interface {
	Plan(ctx context.Context) (*domain.Report, error)
	Doctor(ctx context.Context) []doctor.Result
	Platform() domain.Platform
}

// PlanResponse is the structured result of the plan tool.
type PlanResponse struct {
	Commands []string       `json:"commands" jsonschema_description:"Command lines a run would issue, in order"`
	Report   *domain.Report `json:"report" jsonschema_description:"The dry-run report"`
	Stops    string         `json:"stops,omitempty" jsonschema_description:"Terminal error the run would stop at"`
}

type listRunsArgs struct {
	Status string `mapstructure:"status"`
	Limit  int    `mapstructure:"limit"`
}

type getRunArgs struct {
	ID     string `mapstructure:"id"`
	Format string `mapstructure:"format"`
}

// Server wraps the sprout Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	store     ports.ReportStore
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. store may be nil.
func NewServer(engine Engine, store ports.ReportStore, version string) *Server {
	s := &Server{
		engine:    engine,
		store:     store,
		mcpServer: server.NewMCPServer("sprout-mcp", strings.TrimSpace(version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: plan
	s.mcpServer.AddTool(mcp.NewTool("plan",
		mcp.WithDescription("List the commands a bootstrap run would issue for this project, without running them."),
		mcp.WithOutputSchema[PlanResponse](),
	), mcp.NewStructuredToolHandler(s.handlePlan))

	// TOOL: doctor
	s.mcpServer.AddTool(mcp.NewTool("doctor",
		mcp.WithDescription("Check which tools and project files the bootstrap depends on are present."),
		mcp.WithOutputSchema[doctor.JSONOutput](),
	), mcp.NewStructuredToolHandler(s.handleDoctor))

	// TOOL: list_runs
	s.mcpServer.AddTool(mcp.NewTool("list_runs",
		mcp.WithDescription("List recorded bootstrap runs, newest first."),
		mcp.WithString("status", mcp.Description("Only runs with this status"),
			mcp.Enum(string(domain.StatusSuccess), string(domain.StatusFailed), string(domain.StatusAborted))),
		mcp.WithNumber("limit", mcp.Description("Maximum number of runs to return (default all)")),
	), s.handleListRuns)

	// TOOL: get_run
	s.mcpServer.AddTool(mcp.NewTool("get_run",
		mcp.WithDescription("Get the full report of a recorded run."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Run ID")),
		mcp.WithString("format", mcp.Description("json (default) or mermaid"), mcp.Enum("json", "mermaid")),
	), s.handleGetRun)
}

func (s *Server) handlePlan(ctx context.Context, _ mcp.CallToolRequest, _ map[string]any) (PlanResponse, error) {
	report, err := s.engine.Plan(ctx)
	if report == nil {
		return PlanResponse{}, fmt.Errorf("plan failed: %w", err)
	}

	resp := PlanResponse{Report: report, Commands: []string{}}
	for _, c := range report.Commands() {
		resp.Commands = append(resp.Commands, c.String())
	}
	if err != nil {
		resp.Stops = err.Error()
	}
	return resp, nil
}

func (s *Server) handleDoctor(ctx context.Context, _ mcp.CallToolRequest, _ map[string]any) (doctor.JSONOutput, error) {
	results := s.engine.Doctor(ctx)
	return doctor.JSONOutput{
		Platform: s.engine.Platform(),
		Checks:   results,
		OK:       doctor.OK(results),
	}, nil
}

func (s *Server) handleListRuns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listRunsArgs
	if err := decodeArgs(request, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if s.store == nil {
		return mcp.NewToolResultError("no report store configured"), nil
	}

	reports, err := ports.LoadAll(ctx, s.store)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}

	type entry struct {
		ID        string        `json:"id"`
		Status    domain.Status `json:"status"`
		Error     string        `json:"error,omitempty"`
		StartedAt time.Time     `json:"started_at"`
	}
	out := []entry{}
	for _, r := range reports {
		if args.Status != "" && string(r.Status) != args.Status {
			continue
		}
		if args.Limit > 0 && len(out) >= args.Limit {
			break
		}
		out = append(out, entry{ID: r.ID, Status: r.Status, Error: r.Error, StartedAt: r.StartedAt})
	}

	jsonBytes, _ := json.Marshal(out)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleGetRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args getRunArgs
	if err := decodeArgs(request, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if args.ID == "" {
		return mcp.NewToolResultError("id is required"), nil
	}
	if s.store == nil {
		return mcp.NewToolResultError("no report store configured"), nil
	}

	report, err := s.store.Load(ctx, args.ID)
	if errors.Is(err, domain.ErrReportNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("run %q not found", args.ID)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}

	switch args.Format {
	case "", "json":
		jsonBytes, _ := json.Marshal(report)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	case "mermaid":
		return mcp.NewToolResultText(graph.GenerateMermaid(report)), nil
	}
	return mcp.NewToolResultError(fmt.Sprintf("unsupported format %q", args.Format)), nil
}

// decodeArgs maps loosely typed tool arguments onto a struct.
// JSON numbers arrive as float64, so weak typing is enabled.
func decodeArgs(request mcp.CallToolRequest, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(request.GetArguments()); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func (s *Server) registerResources() {
	// EXPOSE: sprout://doctor
	s.mcpServer.AddResource(mcp.NewResource("sprout://doctor", "Environment Checklist",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		out, _ := s.handleDoctor(ctx, mcp.CallToolRequest{}, nil)
		jsonBytes, _ := json.Marshal(out)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "sprout://doctor",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
