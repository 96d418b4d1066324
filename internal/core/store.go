package core

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// ErrReportNotFound is returned for unknown report ids.
var ErrReportNotFound = errors.New("report not found")

// ReportStore persists reports.
type ReportStore interface {
	Save(ctx context.Context, r *Report) error
	Get(ctx context.Context, id string) (*Report, error)
	List(ctx context.Context) ([]ReportSummary, error)
	Delete(ctx context.Context, id string) error

	// PurgeBefore deletes reports created before cutoff and returns how many
	// were removed.
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// MemoryStore keeps reports in process memory. It is used when no database
// is configured and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]*Report
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reports: make(map[string]*Report)}
}

func (m *MemoryStore) Save(_ context.Context, r *Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reports[r.ID]; ok {
		return fmt.Errorf("save report %s: duplicate key", r.ID)
	}
	m.reports[r.ID] = r
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.reports[id]
	if !ok {
		return nil, fmt.Errorf("get report %s: %w", id, ErrReportNotFound)
	}
	return r, nil
}

// List returns summaries, newest first.
func (m *MemoryStore) List(_ context.Context) ([]ReportSummary, error) {
	m.mu.RLock()
	out := make([]ReportSummary, 0, len(m.reports))
	for _, r := range m.reports {
		out = append(out, r.Summary())
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b ReportSummary) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reports[id]; !ok {
		return fmt.Errorf("delete report %s: %w", id, ErrReportNotFound)
	}
	delete(m.reports, id)
	return nil
}

func (m *MemoryStore) PurgeBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, r := range m.reports {
		if r.CreatedAt.Before(cutoff) {
			delete(m.reports, id)
			n++
		}
	}
	return n, nil
}
