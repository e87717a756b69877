package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/metaval/internal/core/domain"
	"github.com/custodia-labs/metaval/internal/core/ports/driven"
)

// Ensure ReportStore implements the interface.
var _ driven.ReportStore = (*ReportStore)(nil)

// ReportStore is an in-memory implementation of driven.ReportStore.
type ReportStore struct {
	mu      sync.RWMutex
	results map[string]domain.ValidationResult
}

// NewReportStore creates a new in-memory report store.
func NewReportStore() *ReportStore {
	return &ReportStore{
		results: make(map[string]domain.ValidationResult),
	}
}

// Save stores or replaces a result.
func (s *ReportStore) Save(_ context.Context, result *domain.ValidationResult) error {
	if result == nil || result.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.ID] = *result
	return nil
}

// Get retrieves a result by ID.
func (s *ReportStore) Get(_ context.Context, id string) (*domain.ValidationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &result, nil
}

// List returns summaries, newest first. A limit of zero means no limit.
func (s *ReportStore) List(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]domain.HistoryEntry, 0, len(s.results))
	for i := range s.results {
		r := s.results[i]
		entries = append(entries, domain.NewHistoryEntry(&r))
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].ValidatedAt.Equal(entries[j].ValidatedAt) {
			return entries[i].ValidatedAt.After(entries[j].ValidatedAt)
		}
		return entries[i].ID < entries[j].ID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Delete removes a result.
func (s *ReportStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.results[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.results, id)
	return nil
}
