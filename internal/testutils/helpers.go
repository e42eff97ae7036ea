// Package testutils holds shared test doubles and fixtures.
package testutils

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/sprout/pkg/domain"
	"github.com/stretchr/testify/require"
)

// FakeRunner is a scripted ports.CommandRunner.
// Binaries are unavailable unless registered with Have; commands exit 0 unless
// scripted with Fail; Output returns text scripted with Respond.
type FakeRunner struct {
	mu        sync.Mutex
	available map[string]bool
	exitCodes map[string]int
	outputs   map[string]string
	calls     []domain.Command
	onRun     func(domain.Command)
}

// NewFakeRunner creates a runner where only the given binaries are installed.
func NewFakeRunner(binaries ...string) *FakeRunner {
	f := &FakeRunner{
		available: make(map[string]bool),
		exitCodes: make(map[string]int),
		outputs:   make(map[string]string),
	}
	f.Have(binaries...)
	return f
}

// Have marks binaries as invocable.
func (f *FakeRunner) Have(binaries ...string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range binaries {
		f.available[b] = true
	}
	return f
}

// Fail makes the command whose rendered line equals line exit with code.
func (f *FakeRunner) Fail(line string, code int) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exitCodes[line] = code
	return f
}

// Respond scripts the standard output of the command whose rendered line equals line.
func (f *FakeRunner) Respond(line, stdout string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outputs[line] = stdout
	return f
}

// OnRun registers a side effect executed for each invoked command.
func (f *FakeRunner) OnRun(fn func(domain.Command)) *FakeRunner {
	f.onRun = fn
	return f
}

// LookPath resolves registered binaries only.
func (f *FakeRunner) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.available[name] {
		return filepath.Join("/fake/bin", name), nil
	}
	return "", fmt.Errorf("%s: %w", name, exec.ErrNotFound)
}

// Run records cmd and returns its scripted exit code.
func (f *FakeRunner) Run(_ context.Context, cmd domain.Command) domain.CommandResult {
	return f.invoke(cmd)
}

// Output records cmd and returns its scripted output.
func (f *FakeRunner) Output(_ context.Context, cmd domain.Command) (string, domain.CommandResult) {
	res := f.invoke(cmd)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outputs[cmd.String()], res
}

func (f *FakeRunner) invoke(cmd domain.Command) domain.CommandResult {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	code := f.exitCodes[cmd.String()]
	onRun := f.onRun
	f.mu.Unlock()

	if onRun != nil {
		onRun(cmd)
	}
	return domain.CommandResult{Command: cmd, ExitCode: code}
}

// Calls returns the issued commands in order.
func (f *FakeRunner) Calls() []domain.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Command, len(f.calls))
	copy(out, f.calls)
	return out
}

// Lines returns the issued commands rendered as command lines.
func (f *FakeRunner) Lines() []string {
	calls := f.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.String()
	}
	return lines
}

// ScriptedPrompter answers questions from a fixed list.
type ScriptedPrompter struct {
	IsInteractive bool
	Answers       []string
	Asked         []string
}

// Interactive reports the scripted interactivity.
func (p *ScriptedPrompter) Interactive() bool { return p.IsInteractive }

// Ask pops the next answer. Running out of answers behaves like closed input.
func (p *ScriptedPrompter) Ask(_ context.Context, question string) (string, error) {
	p.Asked = append(p.Asked, question)
	if len(p.Answers) == 0 {
		return "", fmt.Errorf("no scripted answer for %q: %w", question, io.EOF)
	}
	a := p.Answers[0]
	p.Answers = p.Answers[1:]
	return strings.TrimSpace(a), nil
}

// SetupProject creates a temporary project directory containing files
// (relative path -> contents) and returns its absolute path.
func SetupProject(t *testing.T, files map[string]string) string {
	t.Helper()

	dir, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}
