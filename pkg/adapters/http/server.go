package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/sprout/api"
	"github.com/aretw0/sprout/internal/presentation/graph"
	"github.com/aretw0/sprout/pkg/doctor"
	"github.com/aretw0/sprout/pkg/domain"
	"github.com/aretw0/sprout/pkg/ports"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Engine is the part of the sprout engine the status API can call.
// Nothing reachable over HTTP starts a process that changes the host.
type Engine interface {
	Plan(ctx context.Context) (*domain.Report, error)
	Doctor(ctx context.Context) []doctor.Result
	Platform() domain.Platform
}

// RunSummary is one entry of GET /runs.
type RunSummary struct {
	ID         string          `json:"id"`
	ProjectDir string          `json:"project_dir"`
	Platform   domain.Platform `json:"platform"`
	Status     domain.Status   `json:"status"`
	Error      string          `json:"error,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Phases     int             `json:"phases"`
}

// Server serves the status API.
type Server struct {
	Engine   Engine
	Store    ports.ReportStore
	Gatherer prometheus.Gatherer
	Version  string
	Logger   *slog.Logger

	doc *openapi3.T
}

// Option configures the Server.
type Option func(*Server)

// WithStore exposes stored reports under /runs.
func WithStore(s ports.ReportStore) Option {
	return func(srv *Server) {
		srv.Store = s
	}
}

// WithGatherer exposes metrics under /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(srv *Server) {
		srv.Gatherer = g
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(srv *Server) {
		srv.Version = strings.TrimSpace(v)
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(srv *Server) {
		srv.Logger = l
	}
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{Engine: engine, Version: "dev"}
	for _, opt := range opts {
		opt(s)
	}
	if s.Logger == nil {
		s.Logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	if doc, err := api.Load(); err != nil {
		s.Logger.Error("OpenAPI spec unavailable, requests are not validated", "error", err)
	} else if router, err := legacy.NewRouter(doc); err != nil {
		s.Logger.Error("OpenAPI router unavailable, requests are not validated", "error", err)
	} else {
		s.doc = doc
		r.Use(s.validateRequest(router))
	}

	// API description
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(api.Spec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/plan", s.GetPlan)
	r.Get("/doctor", s.GetDoctor)
	r.Route("/runs", func(r chi.Router) {
		r.Get("/", s.ListRuns)
		r.Get("/{id}", s.GetRun)
		r.Get("/{id}/graph", s.GetRunGraph)
	})
	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Sprout Status API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// validateRequest rejects requests whose parameters do not match the OpenAPI
// description. Paths the description does not know are left to the router.
func (s *Server) validateRequest(router routers.Router) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options:    &openapi3filter.Options{AuthenticationFunc: openapi3filter.NoopAuthenticationFunc},
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				s.Logger.Debug("Request rejected", "path", r.URL.Path, "error", err)
				s.writeError(w, http.StatusBadRequest, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.doc != nil && s.doc.Info != nil {
		apiVersion = s.doc.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "sprout-http",
		"version":     s.Version,
		"api_version": apiVersion,
		"platform":    string(s.Engine.Platform()),
	})
}

// GetPlan handles the GET /plan request.
// A plan that would stop early is still a valid answer.
func (s *Server) GetPlan(w http.ResponseWriter, r *http.Request) {
	report, err := s.Engine.Plan(r.Context())
	if report == nil {
		http.Error(w, fmt.Sprintf("Plan error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("Plan failed", "error", err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// GetDoctor handles the GET /doctor request.
func (s *Server) GetDoctor(w http.ResponseWriter, r *http.Request) {
	results := s.Engine.Doctor(r.Context())
	s.writeJSON(w, http.StatusOK, doctor.JSONOutput{
		Platform: s.Engine.Platform(),
		Checks:   results,
		OK:       doctor.OK(results),
	})
}

// ListRuns handles the GET /runs request. ?status= filters by run status.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		http.Error(w, "No report store configured", http.StatusNotFound)
		return
	}

	var status string
	if err := runtime.BindQueryParameter("form", true, false, "status", r.URL.Query(), &status); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid format for parameter status: %w", err))
		return
	}

	reports, err := ports.LoadAll(r.Context(), s.Store)
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("ListRuns failed", "error", err)
		return
	}

	runs := make([]RunSummary, 0, len(reports))
	for _, rep := range reports {
		if status != "" && string(rep.Status) != status {
			continue
		}
		runs = append(runs, RunSummary{
			ID:         rep.ID,
			ProjectDir: rep.ProjectDir,
			Platform:   rep.Platform,
			Status:     rep.Status,
			Error:      rep.Error,
			StartedAt:  rep.StartedAt,
			FinishedAt: rep.FinishedAt,
			Phases:     len(rep.Phases),
		})
	}
	s.writeJSON(w, http.StatusOK, runs)
}

// GetRun handles the GET /runs/{id} request.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	report, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// GetRunGraph handles the GET /runs/{id}/graph request with a Mermaid flowchart.
func (s *Server) GetRunGraph(w http.ResponseWriter, r *http.Request) {
	report, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(graph.GenerateMermaid(report)))
}

func (s *Server) loadRun(w http.ResponseWriter, r *http.Request) (*domain.Report, bool) {
	if s.Store == nil {
		http.Error(w, "No report store configured", http.StatusNotFound)
		return nil, false
	}

	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid format for parameter id: %w", err))
		return nil, false
	}

	report, err := s.Store.Load(r.Context(), id)
	if errors.Is(err, domain.ErrReportNotFound) {
		http.Error(w, fmt.Sprintf("Run %q not found", id), http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Load error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("Load run failed", "run_id", id, "error", err)
		return nil, false
	}
	return report, true
}

func (s *Server) writeError(w http.ResponseWriter, code int, err error) {
	s.writeJSON(w, code, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("Response encode failed", "error", err)
	}
}

// ListenAndServe serves handler on addr until ctx is cancelled, then shuts down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Status API listening", "address", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}
