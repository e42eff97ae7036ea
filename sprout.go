package sprout

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/sprout/internal/logging"
	"github.com/aretw0/sprout/pkg/adapters/process"
	"github.com/aretw0/sprout/pkg/bootstrap"
	"github.com/aretw0/sprout/pkg/doctor"
	"github.com/aretw0/sprout/pkg/domain"
	"github.com/aretw0/sprout/pkg/observability"
	"github.com/aretw0/sprout/pkg/ports"
	"github.com/aretw0/sprout/pkg/prompt"
)

// DefaultLockTTL bounds how long a crashed run can hold the project lock.
const DefaultLockTTL = 30 * time.Minute

// Engine is the high-level entry point for the sprout library.
// It wraps the bootstrapper with persistence, locking and metrics.
type Engine struct {
	settings bootstrap.Settings
	runner   ports.CommandRunner
	prompter ports.Prompter
	store    ports.ReportStore
	locker   ports.DistributedLocker
	lockTTL  time.Duration
	hooks    domain.LifecycleHooks
	metrics  *observability.Metrics
	renderer bootstrap.Renderer
	logger   *slog.Logger
	out      io.Writer
	Name     string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithSettings replaces the bootstrap settings. The project directory passed to New wins.
func WithSettings(s bootstrap.Settings) Option {
	return func(e *Engine) {
		e.settings = s
	}
}

// WithPlatform overrides host detection.
func WithPlatform(p domain.Platform) Option {
	return func(e *Engine) {
		e.settings.Platform = p
	}
}

// WithRunner injects the command runner. Defaults to real processes rooted at the project.
func WithRunner(r ports.CommandRunner) Option {
	return func(e *Engine) {
		e.runner = r
	}
}

// WithPrompter injects the source of interactive answers.
func WithPrompter(p ports.Prompter) Option {
	return func(e *Engine) {
		e.prompter = p
	}
}

// WithStore persists every non dry-run report.
func WithStore(s ports.ReportStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithLocker serializes runs for the same project across machines.
func WithLocker(l ports.DistributedLocker, ttl time.Duration) Option {
	return func(e *Engine) {
		e.locker = l
		e.lockTTL = ttl
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithMetrics records phase, command and run metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithRenderer sets how the next-steps block is rendered.
func WithRenderer(r bootstrap.Renderer) Option {
	return func(e *Engine) {
		e.renderer = r
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithOutput sets the writer for progress lines.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) {
		e.out = w
	}
}

// New initializes an Engine for the project at projectDir.
func New(projectDir string, opts ...Option) (*Engine, error) {
	eng := &Engine{
		settings: bootstrap.DefaultSettings(),
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if projectDir == "" {
		projectDir = "."
	}
	absPath, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("project directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project directory: %s is not a directory", absPath)
	}
	eng.settings.ProjectDir = absPath
	eng.Name = filepath.Base(absPath)

	if eng.runner == nil {
		eng.runner = process.NewRunner(process.WithBaseDir(absPath))
	}
	if eng.prompter == nil {
		eng.prompter = prompt.New(nil, eng.out)
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	eng.logger = eng.logger.With("project", eng.Name)
	if eng.lockTTL <= 0 {
		eng.lockTTL = DefaultLockTTL
	}

	return eng, nil
}

// Settings returns the effective bootstrap settings.
func (e *Engine) Settings() bootstrap.Settings {
	return e.settings
}

// Platform returns the platform the engine bootstraps for.
func (e *Engine) Platform() domain.Platform {
	return e.settings.Platform
}

// Store returns the report store, or nil when runs are not persisted.
func (e *Engine) Store() ports.ReportStore {
	return e.store
}

// Run bootstraps the project. In dry-run mode commands are only recorded.
// The report is returned even when err is non-nil, unless the lock could not be taken.
func (e *Engine) Run(ctx context.Context) (*domain.Report, error) {
	if e.locker != nil {
		unlock, err := e.locker.Lock(ctx, e.settings.ProjectDir, e.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("lock project: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				e.logger.Warn("failed to release project lock", "error", err)
			}
		}()
	}

	settings := e.settings
	runner := e.runner
	if settings.DryRun {
		// A dry run never asks questions.
		settings.Interactive = false
		runner = process.NewRecorder(e.runner)
	}

	hooks := e.hooks
	if e.metrics != nil {
		hooks = domain.ChainHooks(e.hooks, e.metrics.Hooks())
	}

	b := bootstrap.New(
		bootstrap.WithSettings(settings),
		bootstrap.WithRunner(runner),
		bootstrap.WithPrompter(e.prompter),
		bootstrap.WithOutput(e.out),
		bootstrap.WithLogger(e.logger),
		bootstrap.WithLifecycleHooks(hooks),
		bootstrap.WithRenderer(e.renderer),
	)
	report, runErr := b.Run(ctx)

	if e.metrics != nil {
		e.metrics.ObserveReport(report)
	}

	if e.store != nil && !e.settings.DryRun {
		// Interrupted runs are still recorded.
		if err := e.store.Save(context.WithoutCancel(ctx), report); err != nil {
			e.logger.Error("failed to save report", "run_id", report.ID, "error", err)
			if runErr == nil {
				return report, fmt.Errorf("save report: %w", err)
			}
		}
	}

	return report, runErr
}

// Plan resolves the commands a run would issue without executing any of them.
// Read-only lookups such as the git identity still query the host.
// Nobody is prompted and the report is not persisted.
func (e *Engine) Plan(ctx context.Context) (*domain.Report, error) {
	s := e.settings
	s.DryRun = true
	s.Interactive = false

	b := bootstrap.New(
		bootstrap.WithSettings(s),
		bootstrap.WithRunner(process.NewRecorder(e.runner)),
		bootstrap.WithPrompter(prompt.Static{}),
		bootstrap.WithOutput(io.Discard),
		bootstrap.WithLogger(e.logger),
	)
	return b.Run(ctx)
}

// Doctor probes the tools and files the bootstrap depends on.
func (e *Engine) Doctor(ctx context.Context) []doctor.Result {
	return doctor.Check(ctx, e.runner, e.settings)
}
