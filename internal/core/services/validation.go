package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/metaval/internal/core/domain"
	"github.com/custodia-labs/metaval/internal/core/ports/driven"
	"github.com/custodia-labs/metaval/internal/core/ports/driving"
	"github.com/custodia-labs/metaval/internal/logger"
)

// Ensure ValidationService implements the interface.
var _ driving.ValidationService = (*ValidationService)(nil)

// ValidationService runs the validation pipeline:
// predicate stripping, profile resolution, structural validation,
// date checks and the completeness report.
type ValidationService struct {
	profiles driven.ProfileStore
	rules    driven.RuleStore
	registry driven.NormaliserRegistry
	reports  driven.ReportStore

	resolver   *ProfileResolver
	structural *StructuralValidator
	dates      *DateChecker
	reporter   *CompletenessReporter

	vocab       domain.VocabularySettings
	concurrency int
	now         func() time.Time
}

// NewValidationService creates the pipeline. reports may be nil, in which
// case results are never recorded.
func NewValidationService(
	profiles driven.ProfileStore,
	rules driven.RuleStore,
	validator driven.SchemaValidator,
	parser driven.DateParser,
	registry driven.NormaliserRegistry,
	reports driven.ReportStore,
	settings domain.AppSettings,
) *ValidationService {
	concurrency := settings.Validation.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &ValidationService{
		profiles:    profiles,
		rules:       rules,
		registry:    registry,
		reports:     reports,
		resolver:    NewProfileResolver(profiles, settings.Vocabulary),
		structural:  NewStructuralValidator(validator),
		dates:       NewDateChecker(rules, parser),
		reporter:    NewCompletenessReporter(),
		vocab:       settings.Vocabulary,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// Validate validates a parsed document. The document is mutated.
func (s *ValidationService) Validate(
	ctx context.Context,
	doc *domain.Object,
	opts domain.ValidateOptions,
) (*domain.ValidationResult, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}
	return s.run(ctx, &domain.NormalisedDocument{Document: doc}, "", opts)
}

// ValidateRaw parses raw bytes and validates them.
func (s *ValidationService) ValidateRaw(
	ctx context.Context,
	raw *domain.RawDocument,
	opts domain.ValidateOptions,
) (*domain.ValidationResult, error) {
	if s.registry == nil {
		return nil, domain.ErrNotImplemented
	}
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	nd, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", raw.URI, err)
	}
	return s.run(ctx, nd, raw.URI, opts)
}

// ValidateBatch validates independent documents concurrently. Each item
// carries its own result or error; the returned error is only set when the
// context is cancelled.
func (s *ValidationService) ValidateBatch(
	ctx context.Context,
	raws []domain.RawDocument,
	opts domain.ValidateOptions,
) ([]domain.BatchItem, error) {
	items := make([]domain.BatchItem, len(raws))
	limit := opts.Concurrency
	if limit < 1 {
		limit = s.concurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range raws {
		raw := raws[i]
		items[i].Source = raw.URI
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				items[i].Err = err
				return err
			}
			result, err := s.ValidateRaw(gctx, &raw, opts)
			items[i].Result = result
			items[i].Err = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return items, err
	}
	return items, nil
}

// run is the pipeline proper. nd is owned by this call.
func (s *ValidationService) run(
	ctx context.Context,
	nd *domain.NormalisedDocument,
	source string,
	opts domain.ValidateOptions,
) (*domain.ValidationResult, error) {
	if s.profiles == nil || s.rules == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc := nd.Document
	warnings := append([]string{}, nd.Warnings...)

	predicate := VendorPredicate(doc, s.vocab.VendorDomains)
	if predicate != "" {
		logger.Debug("Stripping vocabulary prefix %q", predicate)
		StripPredicate(doc, predicate)
	}

	schema, err := s.loadSchema(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	ref := schema.Ref
	if ref.Claim != nil && ref.Resolution != domain.ResolutionConformance {
		warnings = append(warnings, fmt.Sprintf(
			"The profile the data claims to conform to, %s %s, does not exist; validated against %s %s instead.",
			ref.Claim.Name, ref.Claim.Version, ref.Name, ref.Version))
	}
	logger.Info("Validating against profile %s %s", ref.Name, ref.Version)

	original := doc.KeySet()
	structural, err := s.structural.Validate(ctx, doc, schema, nd.Flagged)
	if err != nil {
		return nil, err
	}
	surviving := doc.KeySet()
	errored := original.Minus(surviving).Sorted()

	dateWarnings, err := s.dates.Check(doc)
	if err != nil {
		return nil, err
	}

	result := &domain.ValidationResult{
		ID:                uuid.New().String(),
		Source:            source,
		Profile:           ref,
		ErrorMessages:     structural.Messages,
		ErroredProperties: errored,
		DateWarnings:      dateWarnings,
		Warnings:          warnings,
	}

	list, err := s.profiles.LoadMarginality(ctx, ref.Name, ref.Version)
	switch {
	case errors.Is(err, domain.ErrMarginalityNotFound):
		logger.Warn("No marginality list for %s %s; the completeness report is skipped", ref.Name, ref.Version)
	case err != nil:
		return nil, fmt.Errorf("loading marginality list: %w", err)
	default:
		structuralProps, err := s.rules.StructuralProperties()
		if err != nil {
			return nil, fmt.Errorf("loading structural properties: %w", err)
		}
		result.Report = s.reporter.Report(ReportInput{
			Original:   original,
			Surviving:  surviving,
			List:       list,
			Profile:    ref,
			Structural: structuralProps,
			Messages:   structural.Messages,
		})
	}
	result.ValidatedAt = s.now()

	if opts.Record && s.reports != nil {
		if err := s.reports.Save(ctx, result); err != nil {
			logger.Warn("Recording result %s: %v", result.ID, err)
		}
	}
	return result, nil
}

// loadSchema loads the explicit schema or resolves one from the document.
func (s *ValidationService) loadSchema(
	ctx context.Context,
	doc *domain.Object,
	opts domain.ValidateOptions,
) (*domain.Schema, error) {
	if opts.SchemaPath != "" {
		schema, err := s.profiles.LoadSchemaFile(ctx, opts.SchemaPath)
		if err != nil {
			return nil, fmt.Errorf("loading schema %s: %w", opts.SchemaPath, err)
		}
		explicit := *schema
		explicit.Ref.Resolution = domain.ResolutionExplicit
		return &explicit, nil
	}

	ref, err := s.resolver.Resolve(ctx, doc)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			logger.Info("The profile schema does not yet exist in the profile directory; build it before validating this document.")
		}
		return nil, err
	}
	schema, err := s.profiles.LoadSchema(ctx, ref.Name, ref.Version)
	if err != nil {
		return nil, fmt.Errorf("loading schema %s: %w", ref, err)
	}
	ref.Path = schema.Ref.Path
	resolved := *schema
	resolved.Ref = ref
	return &resolved, nil
}
