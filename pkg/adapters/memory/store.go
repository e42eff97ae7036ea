package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/aretw0/sprout/pkg/domain"
)

// Store implements ports.ReportStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Report
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Report),
	}
}

// Save persists the report in memory.
func (s *Store) Save(ctx context.Context, report *domain.Report) error {
	if report.ID == "" {
		return errors.New("report ID cannot be empty")
	}

	copied := clone(report)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[report.ID] = copied
	return nil
}

// Load retrieves the report from memory.
func (s *Store) Load(ctx context.Context, id string) (*domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.data[id]
	if !ok {
		return nil, domain.ErrReportNotFound
	}

	// Copy on read so callers can't mutate stored reports through the pointer.
	return clone(report), nil
}

// Delete removes the report.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the stored report IDs sorted lexically.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func clone(r *domain.Report) *domain.Report {
	c := *r
	c.Phases = make([]domain.PhaseResult, len(r.Phases))
	for i, p := range r.Phases {
		p.Commands = append([]domain.CommandResult(nil), p.Commands...)
		c.Phases[i] = p
	}
	return &c
}
