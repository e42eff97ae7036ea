package ports

import (
	"context"
	"errors"
	"sort"

	"github.com/aretw0/sprout/pkg/domain"
)

// ReportStore defines the interface for persisting run reports.
type ReportStore interface {
	// Save persists the report under report.ID.
	Save(ctx context.Context, report *domain.Report) error

	// Load retrieves a report by ID.
	// Returns domain.ErrReportNotFound if the report does not exist.
	Load(ctx context.Context, id string) (*domain.Report, error)

	// Delete removes a report. Deleting a missing report is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of stored reports. Order is not guaranteed.
	List(ctx context.Context) ([]string, error)
}

// LoadAll loads every stored report, newest first.
// Reports deleted between List and Load are ignored.
func LoadAll(ctx context.Context, store ReportStore) ([]*domain.Report, error) {
	ids, err := store.List(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]*domain.Report, 0, len(ids))
	for _, id := range ids {
		r, err := store.Load(ctx, id)
		if errors.Is(err, domain.ErrReportNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].StartedAt.After(reports[j].StartedAt)
	})
	return reports, nil
}
