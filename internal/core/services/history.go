package services

import (
	"context"

	"github.com/custodia-labs/metaval/internal/core/domain"
	"github.com/custodia-labs/metaval/internal/core/ports/driven"
	"github.com/custodia-labs/metaval/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService reads recorded validation results.
type HistoryService struct {
	store driven.ReportStore
}

// NewHistoryService creates a new history service.
func NewHistoryService(store driven.ReportStore) *HistoryService {
	return &HistoryService{store: store}
}

// List returns summaries, newest first.
func (s *HistoryService) List(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	if limit < 0 {
		return nil, domain.ErrInvalidInput
	}
	return s.store.List(ctx, limit)
}

// Get returns a recorded result by ID.
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.ValidationResult, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.store.Get(ctx, id)
}

// Delete removes a recorded result.
func (s *HistoryService) Delete(ctx context.Context, id string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	if id == "" {
		return domain.ErrInvalidInput
	}
	return s.store.Delete(ctx, id)
}
