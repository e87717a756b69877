package services

import (
	"strings"

	"github.com/custodia-labs/metaval/internal/core/domain"
	"github.com/custodia-labs/metaval/internal/logger"
)

// ReportInput is what the completeness reporter reconciles.
type ReportInput struct {
	// Original holds the document's top-level properties before validation.
	Original domain.PropertySet

	// Surviving holds the properties left after structural validation.
	Surviving domain.PropertySet

	// List is the marginality list of the profile version.
	List domain.MarginalityList

	// Profile identifies the profile version.
	Profile domain.ProfileRef

	// Structural names properties never reported as extra.
	Structural domain.PropertySet

	// Messages are the formatted structural error messages.
	Messages []string
}

// CompletenessReporter builds completeness reports.
type CompletenessReporter struct{}

// NewCompletenessReporter creates a reporter.
func NewCompletenessReporter() *CompletenessReporter {
	return &CompletenessReporter{}
}

// Report reconciles the original and surviving properties against the
// marginality list. A level with no listed properties reports nothing.
// The document is valid iff nothing at the Minimum level is missing or
// errored.
func (r *CompletenessReporter) Report(in ReportInput) *domain.CompletenessReport {
	errored := in.Original.Minus(in.Surviving)

	report := &domain.CompletenessReport{
		ProfileName:    in.Profile.Name,
		ProfileVersion: in.Profile.Version,
		Minimum:        domain.NewLevelReport(),
		Recommended:    domain.NewLevelReport(),
		Optional:       domain.NewLevelReport(),
		ErrorMessages:  in.Messages,
	}
	if report.ErrorMessages == nil {
		report.ErrorMessages = []string{}
	}

	logger.Section("Properties Marginality Report")
	for _, level := range domain.Levels() {
		listed := domain.NewPropertySet(in.List.Properties(level)...)
		logger.Info("Marginality: %s", level)
		if len(listed) == 0 {
			logger.Info("There are no %s properties in this profile.", level.Key())
			continue
		}

		lr := domain.LevelReport{
			Missing:     listed.Minus(in.Original).Sorted(),
			Implemented: listed.Intersect(in.Original).Sorted(),
			Error:       listed.Intersect(errored).Sorted(),
		}
		report.SetLevel(level, lr)
		logLevel(level, lr)
	}

	report.Valid = len(report.Minimum.Missing) == 0 && len(report.Minimum.Error) == 0

	extra := in.Original.Minus(in.List.All())
	if in.Structural != nil {
		extra = extra.Minus(in.Structural)
	}
	report.ExtraProperties = extra.Sorted()
	if len(report.ExtraProperties) == 0 {
		logger.Info("There is no property name in the metadata outside of the profile.")
	} else {
		logger.Info("These properties names are in the metadata but not in the profile: %s",
			strings.Join(report.ExtraProperties, ", "))
	}
	return report
}

func logLevel(level domain.Level, lr domain.LevelReport) {
	if len(lr.Missing) > 0 {
		logger.Error("%s properties that are missing: %s", level, strings.Join(lr.Missing, ", "))
	} else {
		logger.Info("The data has all the %s properties.", level.Key())
	}
	if len(lr.Error) > 0 {
		logger.Error("%s properties that have errors: %s", level, strings.Join(lr.Error, ", "))
	} else {
		logger.Success("Implemented %s properties have no errors.", level.Key())
	}
}
