package bootstrap

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/aretw0/sprout/internal/testutils"
	"github.com/aretw0/sprout/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(name string, args ...string) string {
	return domain.NewCommand(name, args...).String()
}

var aptSequence = []string{
	line("sudo", "apt", "update"),
	line("sudo", "apt", "upgrade", "-y"),
	line("sudo", "apt", "install", "-y", "git", "nodejs", "npm", "python3-pip", "python3-venv", "sudo"),
	line("sudo", "npm", "install", "-g", "npm@latest"),
}

func newTestBootstrapper(dir string, plat domain.Platform, runner *testutils.FakeRunner, mutate func(*Settings), opts ...Option) (*Bootstrapper, *bytes.Buffer) {
	settings := DefaultSettings()
	settings.ProjectDir = dir
	settings.Platform = plat
	if mutate != nil {
		mutate(&settings)
	}

	var out bytes.Buffer
	base := []Option{
		WithSettings(settings),
		WithRunner(runner),
		WithPrompter(&testutils.ScriptedPrompter{}),
		WithOutput(&out),
		WithRunID("test-run"),
	}
	return New(append(base, opts...)...), &out
}

func skip(phases ...domain.PhaseName) func(*Settings) {
	return func(s *Settings) { s.Skip = phases }
}

func TestBootstrapper_EmptyDirOnLinuxWithApt(t *testing.T) {
	dir := testutils.SetupProject(t, nil)
	runner := testutils.NewFakeRunner("apt", "git", "npm")

	b, out := newTestBootstrapper(dir, domain.PlatformLinux, runner, nil)
	report, err := b.Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrManifestMissing)
	assert.True(t, domain.IsTerminal(err))

	expected := append(append([]string{}, aptSequence...),
		line("git", "config", "--global", "--get", "user.name"),
		line("git", "config", "--global", "--get", "user.email"),
	)
	assert.Equal(t, expected, runner.Lines())

	assert.Equal(t, domain.StatusAborted, report.Status)
	assert.Equal(t, "test-run", report.ID)
	require.Len(t, report.Phases, 3, "python and env must not run after a terminal error")
	assert.Equal(t, domain.StatusSuccess, report.Phases[0].Status)
	assert.Equal(t, domain.StatusSkipped, report.Phases[1].Status)
	assert.Equal(t, domain.StatusAborted, report.Phases[2].Status)

	assert.Contains(t, out.String(), "Starting project setup...")
	assert.Contains(t, out.String(), "Error: package.json not found. Please ensure you're in the correct directory.")
	assert.NotContains(t, out.String(), "Setup completed")

	_, statErr := os.Stat(filepath.Join(dir, EnvFileName))
	assert.True(t, os.IsNotExist(statErr), ".env must not be written after abort")
}

func TestBootstrapper_FullRun(t *testing.T) {
	dir := testutils.SetupProject(t, map[string]string{
		"package.json":      "{}",
		"package-lock.json": "{}",
		"requirements.txt":  "flask\n",
	})
	runner := testutils.NewFakeRunner("apt", "git", "npm").
		Respond(line("git", "config", "--global", "--get", "user.name"), "Ada\n").
		Respond(line("git", "config", "--global", "--get", "user.email"), "ada@example.com\n")

	b, out := newTestBootstrapper(dir, domain.PlatformLinux, runner, nil)
	report, err := b.Run(context.Background())
	require.NoError(t, err)

	expected := append(append([]string{}, aptSequence...),
		line("git", "config", "--global", "--get", "user.name"),
		line("git", "config", "--global", "--get", "user.email"),
		line("npm", "install", "-g", "npm@latest"),
		line("npm", "install"),
		line("npm", "install", "--dev"),
		line("npm", "fund"),
		line("python3", "-m", "venv", "venv"),
		line(filepath.Join("venv", "bin", "pip"), "install", "-r", "requirements.txt"),
	)
	assert.Equal(t, expected, runner.Lines())

	assert.Equal(t, domain.StatusSuccess, report.Status)
	require.Len(t, report.Phases, 5)
	for i, name := range domain.Phases() {
		assert.Equal(t, name, report.Phases[i].Phase)
	}

	text := out.String()
	assert.Contains(t, text, "Updating package lists...")
	assert.Contains(t, text, "Upgrading system packages...")
	assert.Contains(t, text, "Installing required packages...")
	assert.Contains(t, text, "Updating npm to latest version...")
	assert.Contains(t, text, "Installing Node.js dependencies...")
	assert.Contains(t, text, "Checking for package funding opportunities...")
	assert.Contains(t, text, "Setup completed successfully!")
	assert.Contains(t, text, "1. Update the .env file with your API keys")
	assert.Contains(t, text, "2. Run 'npm run dev' to start the development server")
	assert.Contains(t, text, "3. Visit http://localhost:3000 to view your application")
}

func TestBootstrapper_WindowsWithoutChoco(t *testing.T) {
	dir := testutils.SetupProject(t, map[string]string{"package.json": "{}"})
	runner := testutils.NewFakeRunner("git", "npm", "python")

	b, out := newTestBootstrapper(dir, domain.PlatformWindows, runner, nil)
	report, err := b.Run(context.Background())

	assert.ErrorIs(t, err, domain.ErrPackageManagerMissing)
	assert.Empty(t, runner.Calls(), "no command may run before the terminal error")
	assert.Equal(t, domain.StatusAborted, report.Status)
	require.Len(t, report.Phases, 1)
	assert.Contains(t, out.String(), "Please install Chocolatey package manager for Windows first.")
	assert.Contains(t, out.String(), "Visit: https://chocolatey.org/install")
}

func TestBootstrapper_PlatformRouting(t *testing.T) {
	t.Run("Windows with choco", func(t *testing.T) {
		runner := testutils.NewFakeRunner("choco")
		b, _ := newTestBootstrapper(t.TempDir(), domain.PlatformWindows, runner,
			skip(domain.PhaseGit, domain.PhaseNode, domain.PhasePython, domain.PhaseEnv))
		_, err := b.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{
			line("choco", "upgrade", "all", "-y"),
			line("choco", "install", "-y", "git", "nodejs", "python3", "python3-venv", "sudo"),
			line("npm", "install", "-g", "npm@latest"),
		}, runner.Lines())
	})

	t.Run("Linux prefers apt over dnf", func(t *testing.T) {
		runner := testutils.NewFakeRunner("apt", "dnf")
		b, _ := newTestBootstrapper(t.TempDir(), domain.PlatformLinux, runner,
			skip(domain.PhaseGit, domain.PhaseNode, domain.PhasePython, domain.PhaseEnv))
		_, err := b.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, aptSequence, runner.Lines())
	})

	t.Run("Linux with dnf", func(t *testing.T) {
		runner := testutils.NewFakeRunner("dnf")
		b, _ := newTestBootstrapper(t.TempDir(), domain.PlatformLinux, runner,
			skip(domain.PhaseGit, domain.PhaseNode, domain.PhasePython, domain.PhaseEnv))
		_, err := b.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{
			line("sudo", "dnf", "check-update"),
			line("sudo", "dnf", "upgrade", "-y"),
			line("sudo", "dnf", "install", "-y", "git", "nodejs", "npm", "python3-pip", "python3-venv", "sudo"),
			line("sudo", "npm", "install", "-g", "npm@latest"),
		}, runner.Lines())
	})

	t.Run("Linux without package manager", func(t *testing.T) {
		runner := testutils.NewFakeRunner()
		b, _ := newTestBootstrapper(t.TempDir(), domain.PlatformLinux, runner,
			skip(domain.PhaseGit, domain.PhaseNode, domain.PhasePython, domain.PhaseEnv))
		report, err := b.Run(context.Background())
		require.NoError(t, err)
		assert.Empty(t, runner.Calls())
		assert.Equal(t, domain.StatusSkipped, report.Phases[0].Status)
	})

	t.Run("Darwin installs Homebrew first", func(t *testing.T) {
		runner := testutils.NewFakeRunner()
		b, out := newTestBootstrapper(t.TempDir(), domain.PlatformDarwin, runner,
			skip(domain.PhaseGit, domain.PhaseNode, domain.PhasePython, domain.PhaseEnv))
		_, err := b.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{
			HomebrewInstaller.String(),
			line("brew", "update"),
			line("brew", "upgrade"),
			line("brew", "install", "git", "node", "python3", "python3-venv", "sudo"),
			line("npm", "install", "-g", "npm@latest"),
		}, runner.Lines())
		assert.Contains(t, out.String(), "Installing Homebrew...")
	})

	t.Run("Darwin with brew", func(t *testing.T) {
		runner := testutils.NewFakeRunner("brew")
		b, _ := newTestBootstrapper(t.TempDir(), domain.PlatformDarwin, runner,
			skip(domain.PhaseGit, domain.PhaseNode, domain.PhasePython, domain.PhaseEnv))
		_, err := b.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, line("brew", "update"), runner.Lines()[0])
	})

	t.Run("Unknown platform", func(t *testing.T) {
		runner := testutils.NewFakeRunner("apt", "brew", "choco")
		b, _ := newTestBootstrapper(t.TempDir(), domain.PlatformUnknown, runner,
			skip(domain.PhaseGit, domain.PhaseNode, domain.PhasePython, domain.PhaseEnv))
		report, err := b.Run(context.Background())
		require.NoError(t, err)
		assert.Empty(t, runner.Calls())
		assert.Equal(t, domain.StatusSkipped, report.Phases[0].Status)
	})

	t.Run("Package override", func(t *testing.T) {
		runner := testutils.NewFakeRunner("apt")
		b, _ := newTestBootstrapper(t.TempDir(), domain.PlatformLinux, runner, func(s *Settings) {
			s.Skip = []domain.PhaseName{domain.PhaseGit, domain.PhaseNode, domain.PhasePython, domain.PhaseEnv}
			s.Packages = map[string][]string{"apt": {"git", "curl"}}
		})
		_, err := b.Run(context.Background())
		require.NoError(t, err)
		assert.Contains(t, runner.Lines(), line("sudo", "apt", "install", "-y", "git", "curl"))
	})
}

func TestBootstrapper_BestEffortContinuation(t *testing.T) {
	dir := testutils.SetupProject(t, map[string]string{"package.json": "{}"})
	runner := testutils.NewFakeRunner("apt", "npm").
		Fail(line("sudo", "apt", "update"), 100)

	b, out := newTestBootstrapper(dir, domain.PlatformLinux, runner, skip(domain.PhasePython))
	report, err := b.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, aptSequence, runner.Lines()[:4], "remaining system commands still run")
	assert.Contains(t, runner.Lines(), line("npm", "install"))
	assert.Equal(t, domain.StatusFailed, report.Status)

	sys, ok := report.Phase(domain.PhaseSystem)
	require.True(t, ok)
	assert.Equal(t, domain.StatusFailed, sys.Status)
	require.Len(t, sys.FailedCommands(), 1)
	assert.Equal(t, 100, sys.FailedCommands()[0].ExitCode)

	assert.Contains(t, out.String(), "Setup completed with errors:")
	assert.Contains(t, out.String(), "system: sudo apt update (exit 100)")
	assert.Contains(t, out.String(), "Next steps:")
}

func TestBootstrapper_StrictStopsOnFirstFailure(t *testing.T) {
	dir := testutils.SetupProject(t, map[string]string{"package.json": "{}"})
	runner := testutils.NewFakeRunner("apt").
		Fail(line("sudo", "apt", "update"), 100)

	b, _ := newTestBootstrapper(dir, domain.PlatformLinux, runner, func(s *Settings) { s.Strict = true })
	report, err := b.Run(context.Background())

	assert.ErrorIs(t, err, domain.ErrCommandFailed)
	assert.Equal(t, []string{line("sudo", "apt", "update")}, runner.Lines())
	assert.Equal(t, domain.StatusAborted, report.Status)
	assert.Len(t, report.Phases, 1)
}

func TestBootstrapper_SkipConfiguredPhases(t *testing.T) {
	runner := testutils.NewFakeRunner("apt", "git")
	b, _ := newTestBootstrapper(t.TempDir(), domain.PlatformLinux, runner,
		skip(domain.PhaseSystem, domain.PhaseGit, domain.PhaseNode, domain.PhasePython, domain.PhaseEnv))

	report, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, runner.Calls())
	require.Len(t, report.Phases, 5)
	for _, p := range report.Phases {
		assert.Equal(t, domain.StatusSkipped, p.Status)
		assert.Equal(t, "disabled by configuration", p.Reason)
	}
}

func TestBootstrapper_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runner := testutils.NewFakeRunner("apt").OnRun(func(c domain.Command) {
		if c.String() == line("sudo", "apt", "update") {
			cancel()
		}
	})

	b, _ := newTestBootstrapper(t.TempDir(), domain.PlatformLinux, runner, nil)
	report, err := b.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{line("sudo", "apt", "update")}, runner.Lines())
	assert.Equal(t, domain.StatusAborted, report.Status)
}

func TestBootstrapper_LifecycleHooks(t *testing.T) {
	dir := testutils.SetupProject(t, map[string]string{".env": "X=1\n"})
	runner := testutils.NewFakeRunner("apt")

	var phaseStarts, phaseEnds, cmdStarts, cmdEnds int
	var statuses []domain.Status
	hooks := domain.LifecycleHooks{
		OnPhaseStart:   func(context.Context, *domain.PhaseEvent) { phaseStarts++ },
		OnPhaseEnd:     func(_ context.Context, e *domain.PhaseEvent) { phaseEnds++; statuses = append(statuses, e.Status) },
		OnCommandStart: func(context.Context, *domain.CommandEvent) { cmdStarts++ },
		OnCommandEnd: func(_ context.Context, e *domain.CommandEvent) {
			cmdEnds++
			assert.Equal(t, "test-run", e.RunID)
		},
	}

	b, _ := newTestBootstrapper(dir, domain.PlatformLinux, runner,
		skip(domain.PhaseGit, domain.PhaseNode, domain.PhasePython),
		WithLifecycleHooks(hooks))
	_, err := b.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, phaseStarts)
	assert.Equal(t, 5, phaseEnds)
	assert.Equal(t, 4, cmdStarts)
	assert.Equal(t, 4, cmdEnds)
	assert.Equal(t, domain.StatusSuccess, statuses[0])
	assert.Equal(t, domain.StatusSkipped, statuses[4])
}

func TestBootstrapper_RendererAndClock(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	runner := testutils.NewFakeRunner()
	b, out := newTestBootstrapper(t.TempDir(), domain.PlatformUnknown, runner,
		skip(domain.PhaseGit, domain.PhaseNode, domain.PhasePython, domain.PhaseEnv),
		WithRenderer(func(md string) (string, error) { return "RENDERED\n", nil }),
		WithClock(func() time.Time { return start }))

	report, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "RENDERED")
	assert.NotContains(t, out.String(), "1. Update the .env file")
	assert.True(t, report.StartedAt.Equal(start))
}

func TestSettings_PipPath(t *testing.T) {
	s := DefaultSettings()
	s.Platform = domain.PlatformWindows
	assert.Equal(t, filepath.Join("venv", "Scripts", "pip"), s.PipPath())

	s.Platform = domain.PlatformLinux
	s.Python.VenvDir = ".venv"
	assert.Equal(t, filepath.Join(".venv", "bin", "pip"), s.PipPath())

	if runtime.GOOS != "windows" {
		assert.Equal(t, ".venv/bin/pip", s.PipPath())
	}
}
