package domain

import "sort"

// PropertySet is a set of property names.
type PropertySet map[string]struct{}

// NewPropertySet creates a set from the given names.
func NewPropertySet(names ...string) PropertySet {
	s := make(PropertySet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s PropertySet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Add inserts names into the set.
func (s PropertySet) Add(names ...string) {
	for _, n := range names {
		s[n] = struct{}{}
	}
}

// Minus returns the names in s that are not in other.
func (s PropertySet) Minus(other PropertySet) PropertySet {
	out := make(PropertySet)
	for n := range s {
		if !other.Has(n) {
			out[n] = struct{}{}
		}
	}
	return out
}

// Intersect returns the names present in both sets.
func (s PropertySet) Intersect(other PropertySet) PropertySet {
	out := make(PropertySet)
	for n := range s {
		if other.Has(n) {
			out[n] = struct{}{}
		}
	}
	return out
}

// Sorted returns the names in lexical order. Never nil.
func (s PropertySet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
