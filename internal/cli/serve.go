package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/sprout"
	httpAdapter "github.com/aretw0/sprout/pkg/adapters/http"
	"github.com/aretw0/sprout/pkg/adapters/mcp"
)

// Serve runs the HTTP status API until ctx is cancelled.
func Serve(ctx context.Context, a *App) error {
	engine, err := a.Engine()
	if err != nil {
		return err
	}

	handler := httpAdapter.NewHandler(engine,
		httpAdapter.WithStore(a.Store()),
		httpAdapter.WithGatherer(a.Metrics.Registry()),
		httpAdapter.WithVersion(sprout.Version),
		httpAdapter.WithLogger(a.Logger),
	)

	addr := fmt.Sprintf(":%d", a.Config.Serve.Port)
	printSystemMessage(a.Err, "Serving status API for %s on %s", engine.Settings().ProjectDir, addr)
	if err := httpAdapter.ListenAndServe(ctx, addr, handler, a.Logger); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	printSystemMessage(a.Err, "Server stopped gracefully")
	return nil
}

// ServeMCP runs the Model Context Protocol server on the given transport.
func ServeMCP(ctx context.Context, a *App, transport string) error {
	engine, err := a.Engine()
	if err != nil {
		return err
	}
	srv := mcp.NewServer(engine, a.Store(), sprout.Version)

	switch transport {
	case "stdio":
		// Stdout carries JSON-RPC; logs already go to stderr.
		a.Logger.Info("Starting sprout MCP Server (Stdio)")
		return srv.ServeStdio()
	case "sse":
		a.Logger.Info("Starting sprout MCP Server (SSE)", "port", a.Config.Serve.Port)
		return srv.ServeSSE(ctx, a.Config.Serve.Port)
	}
	return fmt.Errorf("unknown transport %q (supported: stdio, sse)", transport)
}
