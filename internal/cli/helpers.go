package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/sprout/internal/config"
	"github.com/aretw0/sprout/internal/logging"
	"github.com/aretw0/sprout/pkg/domain"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInterrupted = 130
)

// ExitError carries the process exit code of a command that already reported its failure.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if isInterrupted(err) {
		return ExitInterrupted
	}
	return ExitFailure
}

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the diagnostic logger. It always writes to stderr so
// progress lines and structured output on stdout stay clean.
func createLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	if cfg.Debug {
		return logging.NewWithWriter(w, slog.LevelDebug), nil
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(w, level), nil
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPhaseStart: func(ctx context.Context, e *domain.PhaseEvent) {
			logger.Debug("Enter Phase", "phase", e.Phase, "run_id", e.RunID)
		},
		OnPhaseEnd: func(ctx context.Context, e *domain.PhaseEvent) {
			logger.Debug("Leave Phase", "phase", e.Phase, "status", e.Status, "duration", e.Duration)
		},
		OnCommandStart: func(ctx context.Context, e *domain.CommandEvent) {
			logger.Debug("Command Start", "phase", e.Phase, "command", e.Command.String())
		},
		OnCommandEnd: func(ctx context.Context, e *domain.CommandEvent) {
			if e.IsError {
				logger.Debug("Command End (Error)", "command", e.Command.String(), "exit_code", e.ExitCode)
			} else {
				logger.Debug("Command End (Success)", "command", e.Command.String(), "duration", e.Duration)
			}
		},
	}
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}
