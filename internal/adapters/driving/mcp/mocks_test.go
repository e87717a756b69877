package mcp

import (
	"context"

	"github.com/custodia-labs/metaval/internal/core/domain"
)

// mockValidationService is a mock implementation of driving.ValidationService.
type mockValidationService struct {
	result *domain.ValidationResult
	err    error

	lastRaw  *domain.RawDocument
	lastOpts domain.ValidateOptions
}

func (m *mockValidationService) Validate(
	_ context.Context,
	_ *domain.Object,
	opts domain.ValidateOptions,
) (*domain.ValidationResult, error) {
	m.lastOpts = opts
	return m.result, m.err
}

func (m *mockValidationService) ValidateRaw(
	_ context.Context,
	raw *domain.RawDocument,
	opts domain.ValidateOptions,
) (*domain.ValidationResult, error) {
	m.lastRaw = raw
	m.lastOpts = opts
	return m.result, m.err
}

func (m *mockValidationService) ValidateBatch(
	_ context.Context,
	raws []domain.RawDocument,
	_ domain.ValidateOptions,
) ([]domain.BatchItem, error) {
	items := make([]domain.BatchItem, len(raws))
	for i := range raws {
		items[i] = domain.BatchItem{Source: raws[i].URI, Result: m.result, Err: m.err}
	}
	return items, nil
}

// mockProfileService is a mock implementation of driving.ProfileService.
type mockProfileService struct {
	profiles []domain.ProfileSummary
	profile  *domain.ProfileSummary
	ref      domain.ProfileRef
	err      error
}

func (m *mockProfileService) List(_ context.Context) ([]domain.ProfileSummary, error) {
	return m.profiles, m.err
}

func (m *mockProfileService) Get(_ context.Context, _ string) (*domain.ProfileSummary, error) {
	return m.profile, m.err
}

func (m *mockProfileService) Resolve(_ context.Context, _ *domain.Object) (domain.ProfileRef, error) {
	return m.ref, m.err
}

func (m *mockProfileService) ResolveRaw(_ context.Context, _ *domain.RawDocument) (domain.ProfileRef, error) {
	return m.ref, m.err
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	entries []domain.HistoryEntry
	result  *domain.ValidationResult
	err     error
}

func (m *mockHistoryService) List(_ context.Context, _ int) ([]domain.HistoryEntry, error) {
	return m.entries, m.err
}

func (m *mockHistoryService) Get(_ context.Context, _ string) (*domain.ValidationResult, error) {
	return m.result, m.err
}

func (m *mockHistoryService) Delete(_ context.Context, _ string) error {
	return m.err
}

func validResult() *domain.ValidationResult {
	report := &domain.CompletenessReport{
		ProfileName:    "Dataset",
		ProfileVersion: "1.0-RELEASE",
		Minimum:        domain.NewLevelReport(),
		Recommended:    domain.NewLevelReport(),
		Optional:       domain.NewLevelReport(),
		Valid:          true,
	}
	report.Minimum.Implemented = []string{"name"}
	return &domain.ValidationResult{
		ID: "res-1",
		Profile: domain.ProfileRef{
			Name:       "Dataset",
			Version:    "1.0-RELEASE",
			Resolution: domain.ResolutionConformance,
		},
		Report: report,
	}
}
