// Package domain defines the core business entities for metaval.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Object: An ordered metadata document (JSON-LD style record)
//   - ProfileRef: The profile and version a document is validated against
//   - MarginalityList: Minimum/Recommended/Optional property lists
//   - ValidationResult: The outcome of one validation run
//   - CompletenessReport: The per-level Missing/Implemented/Error breakdown
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
