// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ProfileStore: Versioned profile schemas and marginality lists
//   - RuleStore: Date-pair rules and the structural property allow-list
//   - SchemaValidator: JSON Schema (Draft 7) validation
//   - DateParser: Lenient date parsing for semantic checks
//   - Normaliser: Parses raw bytes into an ordered document
//   - NormaliserRegistry: Selects appropriate normaliser
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ReportStore: Validation history. Without it, results are not recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
