package driven

import "github.com/custodia-labs/metaval/internal/core/domain"

// RuleStore provides the rule files used by the semantic checker and the
// completeness reporter. Implementations may load them from files or fall
// back to embedded defaults.
type RuleStore interface {
	// DatePairs returns the start/end property pairs to check.
	DatePairs() ([]domain.DatePairRule, error)

	// StructuralProperties returns property names (e.g. "@context",
	// "@type") that are never reported as extra properties.
	StructuralProperties() (domain.PropertySet, error)

	// Reload clears any cached rules, forcing fresh loads on next access.
	Reload()
}
