package bootstrap

import (
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/sprout/internal/platform"
	"github.com/aretw0/sprout/pkg/domain"
	"github.com/aretw0/sprout/pkg/ports"
)

// PythonSettings configures the Python phase.
type PythonSettings struct {
	// Interpreter creates the venv. Empty selects python3, or python on Windows.
	Interpreter string `mapstructure:"interpreter"`
	VenvDir     string `mapstructure:"venv_dir"`
	// Fallback is installed when the project has no requirements.txt.
	// An empty list selects DefaultFallback.
	Fallback []string `mapstructure:"fallback"`
}

// GitSettings pre-supplies the git identity.
type GitSettings struct {
	Name  string `mapstructure:"name"`
	Email string `mapstructure:"email"`
}

// Settings holds every knob of a bootstrap run.
type Settings struct {
	ProjectDir  string
	Platform    domain.Platform
	DryRun      bool
	Strict      bool
	Interactive bool
	Skip        []domain.PhaseName
	Python      PythonSettings
	Git         GitSettings
	// Packages overrides the package list per manager (apt, dnf, brew, choco).
	Packages map[string][]string
}

// DefaultFallback is the package set installed into a venv without requirements.txt.
var DefaultFallback = []string{"requests", "python-dotenv"}

// DefaultSettings returns the settings for the current directory and host.
func DefaultSettings() Settings {
	return Settings{
		ProjectDir:  ".",
		Platform:    platform.Detect(),
		Interactive: true,
		Python: PythonSettings{
			VenvDir:  "venv",
			Fallback: append([]string(nil), DefaultFallback...),
		},
	}
}

// Renderer turns markdown into terminal output.
type Renderer func(markdown string) (string, error)

// Option configures a Bootstrapper.
type Option func(*Bootstrapper)

// WithSettings replaces the run settings.
func WithSettings(s Settings) Option {
	return func(b *Bootstrapper) {
		b.settings = s
	}
}

// WithRunner sets the command runner. Defaults to a process runner rooted at the project directory.
func WithRunner(r ports.CommandRunner) Option {
	return func(b *Bootstrapper) {
		b.runner = r
	}
}

// WithPrompter sets the source of git identity answers.
func WithPrompter(p ports.Prompter) Option {
	return func(b *Bootstrapper) {
		b.prompter = p
	}
}

// WithOutput sets the writer for user-facing progress lines.
func WithOutput(w io.Writer) Option {
	return func(b *Bootstrapper) {
		b.out = w
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bootstrapper) {
		b.logger = l
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(h domain.LifecycleHooks) Option {
	return func(b *Bootstrapper) {
		b.hooks = h
	}
}

// WithRenderer sets how the next-steps block is rendered.
func WithRenderer(r Renderer) Option {
	return func(b *Bootstrapper) {
		b.renderer = r
	}
}

// WithRunID fixes the report ID instead of generating one.
func WithRunID(id string) Option {
	return func(b *Bootstrapper) {
		b.runID = id
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Bootstrapper) {
		b.now = now
	}
}
