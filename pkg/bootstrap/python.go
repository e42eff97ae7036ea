package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/sprout/pkg/domain"
)

// Interpreter returns the configured Python interpreter or the platform default.
func (s Settings) Interpreter() string {
	if s.Python.Interpreter != "" {
		return s.Python.Interpreter
	}
	if s.Platform == domain.PlatformWindows {
		return "python"
	}
	return "python3"
}

// VenvDir returns the virtual environment directory relative to the project.
func (s Settings) VenvDir() string {
	if s.Python.VenvDir != "" {
		return s.Python.VenvDir
	}
	return "venv"
}

// PipPath returns the venv's pip, relative to the project directory.
func (s Settings) PipPath() string {
	if s.Platform == domain.PlatformWindows {
		return filepath.Join(s.VenvDir(), "Scripts", "pip")
	}
	return filepath.Join(s.VenvDir(), "bin", "pip")
}

// FallbackPackages returns the non-blank configured fallback set, or DefaultFallback.
func (s Settings) FallbackPackages() []string {
	var pkgs []string
	for _, p := range s.Python.Fallback {
		if p = strings.TrimSpace(p); p != "" {
			pkgs = append(pkgs, p)
		}
	}
	if len(pkgs) == 0 {
		return append([]string(nil), DefaultFallback...)
	}
	return pkgs
}

// installPython creates the virtual environment and installs Python dependencies into it.
func (b *Bootstrapper) installPython(ctx context.Context, p *phase) error {
	p.say("\nSetting up Python environment...")

	venv := domain.NewCommand(b.settings.Interpreter(), "-m", "venv", b.settings.VenvDir())
	if err := p.run(venv); err != nil {
		return err
	}
	if len(p.result.FailedCommands()) > 0 {
		p.fail(fmt.Sprintf("could not create virtual environment %s", b.settings.VenvDir()))
		return nil
	}

	pip := b.settings.PipPath()
	if p.exists("requirements.txt") {
		return p.run(domain.NewCommand(pip, "install", "-r", "requirements.txt"))
	}

	p.say("No requirements.txt found, installing basic dependencies...")
	args := append([]string{"install"}, b.settings.FallbackPackages()...)
	return p.run(domain.NewCommand(pip, args...))
}
