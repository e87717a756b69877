package domain

import (
	"strings"
	"time"
)

// ErrorKind classifies a structural validation error.
type ErrorKind string

// Structural error kinds.
const (
	// ErrorKindRequired is a required property that is absent.
	ErrorKindRequired ErrorKind = "required"

	// ErrorKindAlternation is an anyOf/oneOf failure.
	ErrorKindAlternation ErrorKind = "alternation"

	// ErrorKindPattern is a pattern or property-name pattern failure.
	ErrorKindPattern ErrorKind = "pattern"

	// ErrorKindOther is any other violation.
	ErrorKindOther ErrorKind = "other"
)

// ValidationError is one structural violation reported by a schema validator.
type ValidationError struct {
	// SchemaPath is the path to the violated rule inside the schema,
	// e.g. ["properties", "name", "type"].
	SchemaPath []string

	// InstancePath is the path to the offending value in the document.
	InstancePath []string

	// Keyword is the JSON Schema keyword that failed.
	Keyword string

	// Kind classifies the violation.
	Kind ErrorKind

	// Message is the validator's message.
	Message string

	// Property is the missing property name for required errors.
	Property string

	// Hint is the validityCheck annotation of the violated rule, if any.
	Hint string
}

// SchemaPathString joins the schema path with "/".
func (e ValidationError) SchemaPathString() string {
	return strings.Join(e.SchemaPath, "/")
}

// InstancePathString joins the instance path with "/".
func (e ValidationError) InstancePathString() string {
	return strings.Join(e.InstancePath, "/")
}

// ValidateOptions controls a validation run.
type ValidateOptions struct {
	// SchemaPath is an explicit schema file. The profile name is its parent
	// directory and the version its file stem. Empty means resolve from
	// the document.
	SchemaPath string

	// Record persists the result when a report store is configured.
	Record bool

	// Concurrency bounds batch validation. Zero uses the configured default.
	Concurrency int
}

// ValidationResult is the outcome of validating one document.
type ValidationResult struct {
	// ID identifies the run in validation history.
	ID string `json:"id"`

	// Source is where the document came from.
	Source string `json:"source,omitempty"`

	// Profile is the profile version validated against.
	Profile ProfileRef `json:"profile"`

	// ErrorMessages are the formatted structural messages, in order.
	ErrorMessages []string `json:"error_messages"`

	// ErroredProperties are the properties removed by structural validation.
	ErroredProperties []string `json:"errored_properties"`

	// DateWarnings come from the semantic date checks.
	DateWarnings []string `json:"date_warnings"`

	// Warnings come from parsing and resolution.
	Warnings []string `json:"warnings"`

	// Report is nil when the profile version has no marginality list.
	Report *CompletenessReport `json:"report"`

	// ValidatedAt is when the run finished.
	ValidatedAt time.Time `json:"validated_at"`
}

// MarginalityMissing reports whether the run degraded for lack of a
// marginality list.
func (r *ValidationResult) MarginalityMissing() bool {
	return r.Report == nil
}

// Valid reports whether the document satisfies the Minimum level.
// A degraded result is never valid.
func (r *ValidationResult) Valid() bool {
	return r.Report != nil && r.Report.Valid
}

// BatchItem is one entry of a batch validation.
type BatchItem struct {
	Source string
	Result *ValidationResult
	Err    error
}

// HistoryEntry is a stored validation result summary.
type HistoryEntry struct {
	ID             string    `json:"id"`
	Source         string    `json:"source"`
	ProfileName    string    `json:"profile_name"`
	ProfileVersion string    `json:"profile_version"`
	Valid          bool      `json:"valid"`
	Degraded       bool      `json:"degraded"`
	ErrorCount     int       `json:"error_count"`
	ValidatedAt    time.Time `json:"validated_at"`
}

// NewHistoryEntry summarises a result.
func NewHistoryEntry(r *ValidationResult) HistoryEntry {
	return HistoryEntry{
		ID:             r.ID,
		Source:         r.Source,
		ProfileName:    r.Profile.Name,
		ProfileVersion: r.Profile.Version,
		Valid:          r.Valid(),
		Degraded:       r.MarginalityMissing(),
		ErrorCount:     len(r.ErrorMessages),
		ValidatedAt:    r.ValidatedAt,
	}
}
