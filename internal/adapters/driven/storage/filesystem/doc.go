// Package filesystem reads profile schemas and marginality lists from the
// profile directories.
//
// Layout:
//
//	<schema_dir>/<Profile>/<version><schema_ext>
//	<marginality_dir>/<Profile>/<version><marginality_ext>
//
// Schemas are JSON. Marginality lists are JSON or YAML objects with
// minimum, recommended and optional arrays; keys are case-insensitive.
package filesystem
