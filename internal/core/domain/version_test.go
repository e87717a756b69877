package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestParseVersion tests parsing of version names
func TestParseVersion(t *testing.T) {
	tests := []struct {
		in        string
		numbers   []int
		qualifier string
		suffix    string
		valid     bool
	}{
		{"1.0-RELEASE", []int{1, 0}, "RELEASE", "", true},
		{"0.3-DRAFT-2019_06_14", []int{0, 3}, "DRAFT", "2019_06_14", true},
		{"1.0.1", []int{1, 0, 1}, "", "", true},
		{"2", []int{2}, "", "", true},
		{"latest", nil, "", "", false},
		{"v1.0-RELEASE", nil, "RELEASE", "", false},
		{"", nil, "", "", false},
		{"1..0", nil, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v := ParseVersion(tt.in)
			assert.Equal(t, tt.in, v.Raw)
			assert.Equal(t, tt.numbers, v.Numbers)
			assert.Equal(t, tt.qualifier, v.Qualifier)
			assert.Equal(t, tt.suffix, v.Suffix)
			assert.Equal(t, tt.valid, v.Valid())
		})
	}
}

// TestVersion_IsRelease tests release detection
func TestVersion_IsRelease(t *testing.T) {
	assert.True(t, ParseVersion("1.0-RELEASE").IsRelease())
	assert.True(t, ParseVersion("0.1-RELEASE-2019_06_19").IsRelease())
	assert.False(t, ParseVersion("2.0-DRAFT").IsRelease())
}

// TestCompareVersions tests the total order
func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0-RELEASE", "0.3-RELEASE", 1},
		{"0.3-RELEASE", "1.0-RELEASE", -1},
		{"0.10-DRAFT", "0.9-DRAFT", 1},
		{"1.0", "1.0.0", -1},
		{"1.0-DRAFT", "1.0-RELEASE", -1},
		{"latest", "0.1-DRAFT", -1},
		{"0.1-DRAFT", "latest", 1},
		{"alpha", "beta", -1},
		{"1.0-RELEASE", "1.0-RELEASE", 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareVersions(ParseVersion(tt.a), ParseVersion(tt.b)))
		})
	}
}

// TestSortVersions tests descending ordering
func TestSortVersions(t *testing.T) {
	names := []string{"0.2-DRAFT", "junk", "1.0-RELEASE", "0.10-DRAFT", "0.3-RELEASE"}
	vs := make([]Version, len(names))
	for i, n := range names {
		vs[i] = ParseVersion(n)
	}

	SortVersions(vs)

	got := make([]string, len(vs))
	for i, v := range vs {
		got[i] = v.String()
	}
	assert.Equal(t, []string{"1.0-RELEASE", "0.10-DRAFT", "0.3-RELEASE", "0.2-DRAFT", "junk"}, got)
}

// TestSelectVersion tests release preference
func TestSelectVersion(t *testing.T) {
	tests := []struct {
		name   string
		in     []string
		want   string
		wantOK bool
	}{
		{"greatest release wins", []string{"0.3-RELEASE", "1.0-RELEASE"}, "1.0-RELEASE", true},
		{"release beats newer draft", []string{"0.3-RELEASE", "2.0-DRAFT"}, "0.3-RELEASE", true},
		{"drafts only", []string{"0.1-DRAFT", "2.0-DRAFT"}, "2.0-DRAFT", true},
		{"single", []string{"0.1-DRAFT"}, "0.1-DRAFT", true},
		{"empty", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectVersion(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
