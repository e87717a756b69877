package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/custodia-labs/metaval/internal/core/domain"
	"github.com/custodia-labs/metaval/internal/core/ports/driven"
	"github.com/custodia-labs/metaval/internal/logger"
)

// urlLike matches the conformance link forms accepted as profile URLs.
var urlLike = regexp.MustCompile(`(?i)^(?:https?://|www\d{0,3}\.|[a-z0-9.\-]+\.[a-z]{2,4}/)\S+$`)

// maxSuggestions bounds the "did you mean" list.
const maxSuggestions = 3

// ProfileResolver determines which stored profile version a document targets.
type ProfileResolver struct {
	store driven.ProfileStore
	vocab domain.VocabularySettings
}

// NewProfileResolver creates a resolver over a profile store.
func NewProfileResolver(store driven.ProfileStore, vocab domain.VocabularySettings) *ProfileResolver {
	return &ProfileResolver{store: store, vocab: vocab}
}

// Resolve picks the profile version for doc. A conformance link naming a
// stored version wins. Otherwise a version is selected from the claimed
// profile or from the document's @type. Fails with a
// *domain.ProfileNotFoundError when no candidate names a stored profile.
func (r *ProfileResolver) Resolve(ctx context.Context, doc *domain.Object) (domain.ProfileRef, error) {
	if r.store == nil {
		return domain.ProfileRef{}, domain.ErrNotImplemented
	}

	claim := r.Claim(doc)
	var candidates []string
	if claim != nil {
		exists, err := r.store.Exists(ctx, claim.Name, claim.Version)
		if err != nil {
			return domain.ProfileRef{}, fmt.Errorf("checking claimed profile: %w", err)
		}
		if exists {
			return domain.ProfileRef{
				Name:       claim.Name,
				Version:    claim.Version,
				Resolution: domain.ResolutionConformance,
				Claim:      claim,
			}, nil
		}
		logger.Warn("The profile the data claims to conform to, %s %s, does not exist. "+
			"The most recent release or draft of the same profile will be used instead.", claim.Name, claim.Version)
		candidates = append(candidates, claim.Name)
	}
	candidates = appendUnique(candidates, TypeCandidates(doc)...)

	if len(candidates) == 0 {
		logger.Info("The metadata has neither a conformance link nor a type")
		return domain.ProfileRef{}, &domain.ProfileNotFoundError{Claim: claim}
	}

	profiles, err := r.store.ListProfiles(ctx)
	if err != nil {
		return domain.ProfileRef{}, fmt.Errorf("listing profiles: %w", err)
	}
	stored := domain.NewPropertySet(profiles...)

	for _, name := range candidates {
		if !stored.Has(name) {
			continue
		}
		versions, err := r.store.ListVersions(ctx, name)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return domain.ProfileRef{}, fmt.Errorf("listing versions of %s: %w", name, err)
		}
		version, ok := domain.SelectVersion(versions)
		if !ok {
			continue
		}
		resolution := domain.ResolutionTypeFallback
		if claim != nil && name == claim.Name {
			resolution = domain.ResolutionClaimFallback
		}
		logger.Debug("Selected %s %s from %d stored version(s)", name, version, len(versions))
		return domain.ProfileRef{
			Name:       name,
			Version:    version,
			Resolution: resolution,
			Claim:      claim,
		}, nil
	}

	logger.Info("This metadata is of type: %s, none is an existing profile type.", strings.Join(candidates, ", "))
	return domain.ProfileRef{}, &domain.ProfileNotFoundError{
		Tried:       candidates,
		Claim:       claim,
		Suggestions: Suggest(candidates, profiles),
	}
}

// Claim returns the profile a document claims through its first
// conformance key carrying a registry link, or nil.
func (r *ProfileResolver) Claim(doc *domain.Object) *domain.ProfileClaim {
	for _, key := range r.vocab.ConformsToKeys {
		v, ok := doc.Get(key)
		if !ok {
			continue
		}
		if claim := ParseConformance(v, r.vocab.RegistryDomain); claim != nil {
			return claim
		}
	}
	return nil
}

// ParseConformance extracts (name, version) from a conformance value. The
// value may be a string, an object of values or an array; the last string
// containing the registry domain is used. The link must look like a URL
// and, once split on "/" with empty segments dropped, carry the profile
// name and version as its fourth and fifth segments.
func ParseConformance(v domain.Value, registry string) *domain.ProfileClaim {
	link := ""
	consider := func(item domain.Value) {
		if s, ok := item.(domain.Scalar); ok {
			if str, ok := s.Str(); ok && strings.Contains(str, registry) {
				link = str
			}
		}
	}
	switch t := v.(type) {
	case domain.Scalar:
		consider(t)
	case *domain.Object:
		for _, k := range t.Keys() {
			item, _ := t.Get(k)
			consider(item)
		}
	case domain.Array:
		for _, item := range t {
			consider(item)
		}
	}

	if link == "" || !urlLike.MatchString(link) {
		return nil
	}
	var segments []string
	for _, s := range strings.Split(link, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) < 5 {
		return nil
	}
	return &domain.ProfileClaim{Name: segments[3], Version: segments[4]}
}

// TypeCandidates returns the profile names suggested by @type, in order.
func TypeCandidates(doc *domain.Object) []string {
	v, ok := doc.Get(typeKey)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case domain.Scalar:
		if s, ok := t.Str(); ok && s != "" {
			return []string{s}
		}
	case domain.Array:
		var out []string
		for _, item := range t {
			if s, ok := item.(domain.Scalar); ok {
				if str, ok := s.Str(); ok && str != "" {
					out = appendUnique(out, str)
				}
			}
		}
		return out
	}
	return nil
}

// Suggest returns stored profile names close to any of the tried names,
// nearest first.
func Suggest(tried, profiles []string) []string {
	type scored struct {
		name string
		dist int
	}
	best := make(map[string]int)
	for _, t := range tried {
		lt := strings.ToLower(t)
		limit := len(t) / 3
		if limit < 2 {
			limit = 2
		}
		for _, p := range profiles {
			d := levenshtein.ComputeDistance(lt, strings.ToLower(p))
			if d == 0 && p == t {
				continue
			}
			if d <= limit {
				if prev, ok := best[p]; !ok || d < prev {
					best[p] = d
				}
			}
		}
	}

	list := make([]scored, 0, len(best))
	for name, d := range best {
		list = append(list, scored{name, d})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dist != list[j].dist {
			return list[i].dist < list[j].dist
		}
		return list[i].name < list[j].name
	})
	out := make([]string, 0, maxSuggestions)
	for i := 0; i < len(list) && i < maxSuggestions; i++ {
		out = append(out, list[i].name)
	}
	return out
}

func appendUnique(list []string, items ...string) []string {
	for _, item := range items {
		found := false
		for _, existing := range list {
			if existing == item {
				found = true
				break
			}
		}
		if !found {
			list = append(list, item)
		}
	}
	return list
}
