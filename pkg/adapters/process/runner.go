package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/aretw0/sprout/pkg/domain"
)

// Runner implements ports.CommandRunner by executing local processes.
// Commands inherit the user's terminal so package managers can ask for passwords.
type Runner struct {
	baseDir string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	env     []string
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// WithStdio overrides the streams attached to commands started with Run.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) RunnerOption {
	return func(r *Runner) {
		r.stdin = stdin
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithEnv appends KEY=VALUE pairs to the inherited environment.
func WithEnv(env ...string) RunnerOption {
	return func(r *Runner) {
		r.env = append(r.env, env...)
	}
}

// NewRunner creates a new Process Runner attached to the current terminal.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LookPath resolves name against PATH. Relative paths (e.g. venv/bin/pip) are
// resolved against the base directory and must point to an existing file.
func (r *Runner) LookPath(name string) (string, error) {
	if filepath.Base(name) != name {
		path := r.resolve(name)
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%s: %w", name, exec.ErrNotFound)
		}
		return path, nil
	}
	return exec.LookPath(name)
}

// Run executes cmd with the configured stdio and waits for it to exit.
func (r *Runner) Run(ctx context.Context, cmd domain.Command) domain.CommandResult {
	c := r.command(ctx, cmd)
	c.Stdin = r.stdin
	c.Stdout = r.stdout
	c.Stderr = r.stderr

	start := time.Now()
	err := c.Run()
	return r.result(cmd, err, time.Since(start), "")
}

// Output executes cmd and returns its standard output.
// Standard error is captured and attached to the result on failure.
func (r *Runner) Output(ctx context.Context, cmd domain.Command) (string, domain.CommandResult) {
	c := r.command(ctx, cmd)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()
	return stdout.String(), r.result(cmd, err, time.Since(start), stderr.String())
}

func (r *Runner) command(ctx context.Context, cmd domain.Command) *exec.Cmd {
	name := cmd.Name
	if filepath.Base(name) != name {
		name = r.resolve(name)
	}
	c := exec.CommandContext(ctx, name, cmd.Args...)
	c.Dir = r.baseDir
	if cmd.Dir != "" {
		c.Dir = r.resolve(cmd.Dir)
	}
	if len(r.env) > 0 {
		c.Env = append(c.Environ(), r.env...)
	}
	return c
}

func (r *Runner) resolve(path string) string {
	if filepath.IsAbs(path) || r.baseDir == "" {
		return path
	}
	return filepath.Join(r.baseDir, path)
}

func (r *Runner) result(cmd domain.Command, err error, d time.Duration, stderr string) domain.CommandResult {
	res := domain.CommandResult{Command: cmd, Duration: d}
	if err == nil {
		return res
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		res.ExitCode = exitErr.ExitCode()
		if stderr != "" {
			res.Error = fmt.Sprintf("exit status %d. Stderr: %s", res.ExitCode, stderr)
		}
		return res
	}

	// Not started, or killed by a signal.
	res.ExitCode = -1
	res.Error = err.Error()
	return res
}
