package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/sprout"
	"github.com/aretw0/sprout/internal/config"
	"github.com/aretw0/sprout/internal/platform"
	"github.com/aretw0/sprout/internal/presentation/tui"
	"github.com/aretw0/sprout/pkg/adapters/file"
	"github.com/aretw0/sprout/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/sprout/pkg/adapters/redis"
	"github.com/aretw0/sprout/pkg/domain"
	"github.com/aretw0/sprout/pkg/observability"
	"github.com/aretw0/sprout/pkg/persistence/middleware"
	"github.com/aretw0/sprout/pkg/ports"
	"github.com/aretw0/sprout/pkg/prompt"
)

// App holds everything a command needs, built once from the resolved configuration.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Platform domain.Platform
	Metrics  *observability.Metrics

	// Out receives reports and structured output; Err receives logs and, in JSON mode, progress.
	Out io.Writer
	Err io.Writer

	store   ports.ReportStore
	locker  ports.DistributedLocker
	closers []func() error
}

// NewApp wires the store, metrics and logger described by cfg.
func NewApp(cfg *config.Config, stdout, stderr io.Writer) (*App, error) {
	logger, err := createLogger(cfg, stderr)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Platform: platform.Detect(),
		Out:      stdout,
		Err:      stderr,
	}

	if err := a.openStore(); err != nil {
		return nil, err
	}

	a.Metrics = observability.NewMetrics()
	a.Metrics.MustRegister(observability.NewReportCollector(a.store, logger))
	return a, nil
}

func (a *App) openStore() error {
	cfg := a.Config
	switch cfg.Store.Driver {
	case config.DriverFile:
		a.store = file.New(cfg.StorePath())
	case config.DriverMemory:
		a.store = memory.NewStore()
	case config.DriverRedis:
		var opts []redisAdapter.Option
		if cfg.Store.TTL > 0 {
			opts = append(opts, redisAdapter.WithTTL(cfg.Store.TTL))
		}
		st := redisAdapter.New(cfg.Store.RedisAddr, cfg.Store.RedisPassword, cfg.Store.RedisDB, opts...)
		a.store = st
		a.locker = redisAdapter.NewLocker(st.Client(), redisAdapter.LockPrefix)
		a.closers = append(a.closers, st.Close)
	default:
		return fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if cfg.Store.Redact {
		a.store = middleware.NewRedactMiddleware(middleware.DefaultRedactPatterns)(a.store)
	}
	a.Logger.Debug("report store ready", "driver", cfg.Store.Driver)
	return nil
}

// Store returns the configured report store.
func (a *App) Store() ports.ReportStore {
	return a.store
}

// progress is where bootstrap progress lines go. JSON mode keeps stdout machine-readable.
func (a *App) progress() io.Writer {
	if a.Config.JSON {
		return a.Err
	}
	return a.Out
}

// Engine builds a sprout engine for the configured project.
func (a *App) Engine(extra ...sprout.Option) (*sprout.Engine, error) {
	settings, err := a.Config.Settings(a.Platform)
	if err != nil {
		return nil, err
	}

	out := a.progress()
	opts := []sprout.Option{
		sprout.WithSettings(settings),
		sprout.WithStore(a.store),
		sprout.WithMetrics(a.Metrics),
		sprout.WithLogger(a.Logger),
		sprout.WithOutput(out),
		sprout.WithPrompter(prompt.New(nil, out)),
	}
	if a.locker != nil {
		opts = append(opts, sprout.WithLocker(a.locker, a.Config.Store.LockTTL))
	}
	if a.Config.Debug {
		opts = append(opts, sprout.WithLifecycleHooks(createDebugHooks(a.Logger)))
	}
	if !a.Config.JSON {
		opts = append(opts, sprout.WithRenderer(tui.NewRenderer()))
	}
	opts = append(opts, extra...)

	engine, err := sprout.New(a.Config.ProjectDir, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}

// Close releases store connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
