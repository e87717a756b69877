// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The validation pipeline is assembled here from its stages:
// predicate normalisation, profile resolution, structural validation,
// semantic date checks and the completeness report.
package services
