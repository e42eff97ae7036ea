package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/sprout/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunReportStoreContract runs a suite of tests to verify that a ReportStore implementation
// adheres to the defined interface contract.
func RunReportStoreContract(t *testing.T, store ReportStore) {
	ctx := context.Background()
	base := "contract-" + time.Now().Format("20060102150405")

	newReport := func(id string) *domain.Report {
		return &domain.Report{
			ID:         id,
			ProjectDir: "/tmp/project",
			Platform:   domain.PlatformLinux,
			Status:     domain.StatusFailed,
			StartedAt:  time.Now().UTC().Truncate(time.Second),
			Phases: []domain.PhaseResult{
				{
					Phase:  domain.PhaseSystem,
					Status: domain.StatusFailed,
					Commands: []domain.CommandResult{
						{Command: domain.NewCommand("sudo", "apt", "update"), ExitCode: 100},
					},
				},
			},
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		report := newReport(base)

		err := store.Save(ctx, report)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, base)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, report.ID, loaded.ID)
		assert.Equal(t, report.Status, loaded.Status)
		assert.Equal(t, report.Platform, loaded.Platform)
		require.Len(t, loaded.Phases, 1)
		require.Len(t, loaded.Phases[0].Commands, 1)
		assert.Equal(t, 100, loaded.Phases[0].Commands[0].ExitCode)
		assert.True(t, report.StartedAt.Equal(loaded.StartedAt))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+base)
		assert.ErrorIs(t, err, domain.ErrReportNotFound)
	})

	t.Run("Save requires an ID", func(t *testing.T) {
		err := store.Save(ctx, &domain.Report{})
		assert.Error(t, err)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, newReport(base))
		require.NoError(t, err)

		err = store.Delete(ctx, base)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, base)
		assert.ErrorIs(t, err, domain.ErrReportNotFound, "Load after Delete should return ErrReportNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := base + "-1"
		id2 := base + "-2"
		require.NoError(t, store.Save(ctx, newReport(id1)))
		require.NoError(t, store.Save(ctx, newReport(id2)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
