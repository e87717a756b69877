package domain

import (
	"sort"
	"strconv"
	"strings"
)

// releaseMarker identifies published profile versions.
const releaseMarker = "RELEASE"

// Version is a parsed profile version name such as "1.0-RELEASE" or
// "0.3-DRAFT-2019_06_14". The numeric prefix is dot-separated integers;
// a name without one is malformed and sorts below every valid version.
type Version struct {
	// Raw is the name as stored.
	Raw string

	// Numbers holds the numeric components.
	Numbers []int

	// Qualifier is the word after the numeric prefix (e.g. "RELEASE").
	Qualifier string

	// Suffix is whatever follows the qualifier (e.g. a date).
	Suffix string
}

// ParseVersion parses a version name. It never fails; malformed names
// produce a Version with no Numbers.
func ParseVersion(s string) Version {
	v := Version{Raw: s}
	head, rest, _ := strings.Cut(s, "-")
	v.Qualifier, v.Suffix, _ = strings.Cut(rest, "-")

	if head == "" {
		return v
	}
	parts := strings.Split(head, ".")
	numbers := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || strings.HasPrefix(p, "+") {
			return Version{Raw: s, Qualifier: v.Qualifier, Suffix: v.Suffix}
		}
		numbers = append(numbers, n)
	}
	v.Numbers = numbers
	return v
}

// Valid reports whether the name had a numeric prefix.
func (v Version) Valid() bool {
	return len(v.Numbers) > 0
}

// IsRelease reports whether the version is a published release.
func (v Version) IsRelease() bool {
	return strings.Contains(v.Raw, releaseMarker)
}

// String returns the raw name.
func (v Version) String() string {
	return v.Raw
}

// CompareVersions returns -1, 0 or 1 as a is lower than, equal to or
// greater than b. Numeric components compare left to right with missing
// components treated as zero. Ties fall back to lexical order of the raw
// names so the ordering is total.
func CompareVersions(a, b Version) int {
	switch {
	case a.Valid() && !b.Valid():
		return 1
	case !a.Valid() && b.Valid():
		return -1
	}

	n := len(a.Numbers)
	if len(b.Numbers) > n {
		n = len(b.Numbers)
	}
	for i := 0; i < n; i++ {
		x, y := component(a.Numbers, i), component(b.Numbers, i)
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	return strings.Compare(a.Raw, b.Raw)
}

func component(nums []int, i int) int {
	if i < len(nums) {
		return nums[i]
	}
	return 0
}

// SortVersions sorts versions from greatest to lowest.
func SortVersions(vs []Version) {
	sort.SliceStable(vs, func(i, j int) bool {
		return CompareVersions(vs[i], vs[j]) > 0
	})
}

// SelectVersion picks the version to validate against when a document does
// not name one: the greatest release, or the greatest version overall when
// no release exists. Returns false for an empty list.
func SelectVersion(names []string) (string, bool) {
	if len(names) == 0 {
		return "", false
	}
	var releases, all []Version
	for _, n := range names {
		v := ParseVersion(n)
		all = append(all, v)
		if v.IsRelease() {
			releases = append(releases, v)
		}
	}
	if len(releases) > 0 {
		SortVersions(releases)
		return releases[0].Raw, true
	}
	SortVersions(all)
	return all[0].Raw, true
}
