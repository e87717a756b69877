package domain

import "strings"

// Level is a marginality level of a profile property.
type Level string

// Marginality levels, in reporting order.
const (
	LevelMinimum     Level = "Minimum"
	LevelRecommended Level = "Recommended"
	LevelOptional    Level = "Optional"
)

// Levels returns all levels in reporting order.
func Levels() []Level {
	return []Level{LevelMinimum, LevelRecommended, LevelOptional}
}

// Key returns the lowercase key used in marginality files.
func (l Level) Key() string {
	return strings.ToLower(string(l))
}

// ParseLevel maps a marginality file key to a Level, case-insensitively.
func ParseLevel(s string) (Level, bool) {
	for _, l := range Levels() {
		if strings.EqualFold(s, string(l)) {
			return l, true
		}
	}
	return "", false
}

// MarginalityList maps each level to the property names it lists.
type MarginalityList map[Level][]string

// Properties returns the names listed for a level.
func (m MarginalityList) Properties(l Level) []string {
	return m[l]
}

// All returns every listed property across levels.
func (m MarginalityList) All() PropertySet {
	s := make(PropertySet)
	for _, names := range m {
		s.Add(names...)
	}
	return s
}

// Resolution records how a ProfileRef was chosen.
type Resolution string

// Resolution kinds.
const (
	// ResolutionExplicit means the caller supplied the schema path.
	ResolutionExplicit Resolution = "explicit"

	// ResolutionConformance means the document's conformance link named a
	// stored profile version.
	ResolutionConformance Resolution = "conformance"

	// ResolutionClaimFallback means the document claimed a version that is
	// not stored, so one was selected from the claimed profile.
	ResolutionClaimFallback Resolution = "claim_fallback"

	// ResolutionTypeFallback means the profile was derived from @type.
	ResolutionTypeFallback Resolution = "type_fallback"
)

// ProfileClaim is the profile a document claims through its conformance link.
type ProfileClaim struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ProfileRef identifies the profile version a document is validated against.
type ProfileRef struct {
	Name       string        `json:"name"`
	Version    string        `json:"version"`
	Path       string        `json:"path,omitempty"`
	Resolution Resolution    `json:"resolution"`
	Claim      *ProfileClaim `json:"claim,omitempty"`
}

// IsZero reports whether the reference is unset.
func (r ProfileRef) IsZero() bool {
	return r.Name == "" && r.Version == "" && r.Path == ""
}

// String returns "Name/Version".
func (r ProfileRef) String() string {
	return r.Name + "/" + r.Version
}

// Schema is a stored profile JSON Schema.
type Schema struct {
	// Ref identifies where the schema came from.
	Ref ProfileRef

	// Raw is the decoded schema document. Treat it as read-only; it may
	// be shared through a cache.
	Raw map[string]any

	// Variant distinguishes derived copies of the same stored schema,
	// such as the schema.org property-name override. Empty for the
	// stored schema itself.
	Variant string
}

// CacheKey identifies the schema for compiled-schema caches.
func (s *Schema) CacheKey() string {
	key := s.Ref.Path
	if key == "" {
		key = s.Ref.String()
	}
	if s.Variant != "" {
		key += "#" + s.Variant
	}
	return key
}

// WithOverride returns a copy whose top-level keys are replaced by
// override. Raw is copied shallowly; nested values stay shared.
func (s *Schema) WithOverride(variant string, override map[string]any) *Schema {
	raw := make(map[string]any, len(s.Raw)+len(override))
	for k, v := range s.Raw {
		raw[k] = v
	}
	for k, v := range override {
		raw[k] = v
	}
	return &Schema{Ref: s.Ref, Raw: raw, Variant: variant}
}

// ProfileSummary describes a stored profile and its versions.
type ProfileSummary struct {
	Name     string   `json:"name"`
	Versions []string `json:"versions"`

	// Selected is the version used when a document names none.
	Selected string `json:"selected"`
}
