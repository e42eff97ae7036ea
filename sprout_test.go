package sprout_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/sprout"
	"github.com/aretw0/sprout/internal/testutils"
	"github.com/aretw0/sprout/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/sprout/pkg/adapters/redis"
	"github.com/aretw0/sprout/pkg/bootstrap"
	"github.com/aretw0/sprout/pkg/doctor"
	"github.com/aretw0/sprout/pkg/domain"
	"github.com/aretw0/sprout/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nodeProject = map[string]string{
	"package.json":      `{"name":"demo"}`,
	"package-lock.json": `{}`,
	"requirements.txt":  "requests\n",
}

func newEngine(t *testing.T, dir string, runner *testutils.FakeRunner, opts ...sprout.Option) (*sprout.Engine, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	base := []sprout.Option{
		sprout.WithPlatform(domain.PlatformLinux),
		sprout.WithRunner(runner),
		sprout.WithPrompter(&testutils.ScriptedPrompter{}),
		sprout.WithOutput(&out),
	}
	eng, err := sprout.New(dir, append(base, opts...)...)
	require.NoError(t, err)
	return eng, &out
}

func TestNew(t *testing.T) {
	t.Run("Resolves Project Directory", func(t *testing.T) {
		dir := testutils.SetupProject(t, nil)
		eng, _ := newEngine(t, dir, testutils.NewFakeRunner())

		assert.Equal(t, dir, eng.Settings().ProjectDir)
		assert.Equal(t, domain.PlatformLinux, eng.Platform())
		assert.Nil(t, eng.Store())
	})

	t.Run("Missing Directory", func(t *testing.T) {
		_, err := sprout.New(t.TempDir() + "/nope")
		assert.Error(t, err)
	})

	t.Run("File Instead Of Directory", func(t *testing.T) {
		dir := testutils.SetupProject(t, map[string]string{"package.json": "{}"})
		_, err := sprout.New(dir + "/package.json")
		assert.Error(t, err)
	})
}

func TestEngine_Run(t *testing.T) {
	t.Run("Persists Report And Records Metrics", func(t *testing.T) {
		dir := testutils.SetupProject(t, nodeProject)
		runner := testutils.NewFakeRunner("apt", "git", "npm").
			Respond("git config --global --get user.name", "Ada\n").
			Respond("git config --global --get user.email", "ada@example.com\n")
		store := memory.NewStore()
		metrics := observability.NewMetrics()

		eng, out := newEngine(t, dir, runner, sprout.WithStore(store), sprout.WithMetrics(metrics))
		report, err := eng.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, domain.StatusSuccess, report.Status)
		assert.Contains(t, out.String(), "Setup completed successfully!")

		saved, err := store.Load(context.Background(), report.ID)
		require.NoError(t, err)
		assert.Equal(t, report.Status, saved.Status)
		assert.Len(t, saved.Phases, len(domain.Phases()))

		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Runs.WithLabelValues("success")))
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PhaseResults.WithLabelValues("node", "success")))
	})

	t.Run("Terminal Error Is Still Persisted", func(t *testing.T) {
		dir := testutils.SetupProject(t, nil)
		runner := testutils.NewFakeRunner("apt", "git", "npm")
		store := memory.NewStore()

		eng, _ := newEngine(t, dir, runner, sprout.WithStore(store))
		report, err := eng.Run(context.Background())

		require.ErrorIs(t, err, domain.ErrManifestMissing)
		saved, loadErr := store.Load(context.Background(), report.ID)
		require.NoError(t, loadErr)
		assert.Equal(t, domain.StatusAborted, saved.Status)
	})

	t.Run("Dry Run Executes Nothing", func(t *testing.T) {
		dir := testutils.SetupProject(t, nodeProject)
		runner := testutils.NewFakeRunner("apt", "git", "npm")
		store := memory.NewStore()

		settings := bootstrap.DefaultSettings()
		settings.DryRun = true
		settings.Platform = domain.PlatformLinux
		eng, _ := newEngine(t, dir, runner, sprout.WithSettings(settings), sprout.WithStore(store))

		report, err := eng.Run(context.Background())
		require.NoError(t, err)
		assert.True(t, report.DryRun)
		assert.NotEmpty(t, report.Commands())
		for _, c := range runner.Calls() {
			assert.Equal(t, "git", c.Name, "only read-only lookups reach the host: %s", c)
		}

		ids, err := store.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, ids)
		assert.NoFileExists(t, dir+"/.env")
	})

	t.Run("Dry Run Keeps A Configured Identity", func(t *testing.T) {
		dir := testutils.SetupProject(t, nodeProject)
		runner := testutils.NewFakeRunner("apt", "git", "npm").
			Respond("git config --global --get user.name", "Ada\n").
			Respond("git config --global --get user.email", "ada@example.com\n")
		prompter := &testutils.ScriptedPrompter{IsInteractive: true, Answers: []string{"X", "x@y"}}

		settings := bootstrap.DefaultSettings()
		settings.DryRun = true
		settings.Platform = domain.PlatformLinux
		eng, _ := newEngine(t, dir, runner, sprout.WithSettings(settings), sprout.WithPrompter(prompter))

		report, err := eng.Run(context.Background())
		require.NoError(t, err)
		assert.Empty(t, prompter.Asked)

		git, ok := report.Phase(domain.PhaseGit)
		require.True(t, ok)
		assert.Equal(t, domain.StatusSkipped, git.Status)
		assert.Equal(t, "git identity already configured", git.Reason)
		for _, c := range report.Commands() {
			assert.NotContains(t, c.String(), "git config --global user.", "a dry run must not plan an identity overwrite")
		}

		planned, err := eng.Plan(context.Background())
		require.NoError(t, err)
		plannedGit, _ := planned.Phase(domain.PhaseGit)
		assert.Equal(t, "git identity already configured", plannedGit.Reason)
	})

	t.Run("Hooks Are Chained With Metrics", func(t *testing.T) {
		dir := testutils.SetupProject(t, nodeProject)
		runner := testutils.NewFakeRunner("apt", "git", "npm")
		var phases []domain.PhaseName

		eng, _ := newEngine(t, dir, runner,
			sprout.WithMetrics(observability.NewMetrics()),
			sprout.WithLifecycleHooks(domain.LifecycleHooks{
				OnPhaseEnd: func(_ context.Context, e *domain.PhaseEvent) {
					phases = append(phases, e.Phase)
				},
			}),
		)
		_, err := eng.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.Phases(), phases)
	})
}

func TestEngine_RunLocking(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	locker := redisAdapter.NewLocker(client, redisAdapter.LockPrefix)

	t.Run("Lock Is Released After Run", func(t *testing.T) {
		dir := testutils.SetupProject(t, nodeProject)
		eng, _ := newEngine(t, dir, testutils.NewFakeRunner("apt", "git", "npm"), sprout.WithLocker(locker, time.Minute))

		_, err := eng.Run(context.Background())
		require.NoError(t, err)
		assert.Empty(t, mr.Keys())
	})

	t.Run("Held Lock Blocks Until Context Ends", func(t *testing.T) {
		dir := testutils.SetupProject(t, nodeProject)
		unlock, err := locker.Lock(context.Background(), dir, time.Minute)
		require.NoError(t, err)
		defer func() { _ = unlock(context.Background()) }()

		runner := testutils.NewFakeRunner("apt", "git", "npm")
		eng, _ := newEngine(t, dir, runner, sprout.WithLocker(locker, time.Minute))

		ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
		defer cancel()
		report, err := eng.Run(ctx)

		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Nil(t, report)
		assert.Empty(t, runner.Calls())
	})
}

func TestEngine_Plan(t *testing.T) {
	dir := testutils.SetupProject(t, nodeProject)
	runner := testutils.NewFakeRunner("apt", "git", "npm")
	store := memory.NewStore()

	eng, out := newEngine(t, dir, runner, sprout.WithStore(store))
	report, err := eng.Plan(context.Background())

	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, []string{
		"git config --global --get user.name",
		"git config --global --get user.email",
	}, runner.Lines())
	assert.Empty(t, out.String())

	var lines []string
	for _, c := range report.Commands() {
		lines = append(lines, c.String())
	}
	assert.Contains(t, lines, "sudo apt update")
	assert.Contains(t, lines, "npm install")
	assert.Contains(t, lines, "python3 -m venv venv")

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestEngine_Doctor(t *testing.T) {
	dir := testutils.SetupProject(t, nil)
	eng, _ := newEngine(t, dir, testutils.NewFakeRunner("git"))

	results := eng.Doctor(context.Background())
	require.NotEmpty(t, results)
	assert.False(t, doctor.OK(results))
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, sprout.Version)
}
