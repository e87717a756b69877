// Package dates parses free-form date strings with araddon/dateparse.
package dates

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/custodia-labs/metaval/internal/core/domain"
	"github.com/custodia-labs/metaval/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.DateParser = (*Parser)(nil)

// Parser parses dates in any common layout. Values without a zone are
// read in the parser's location.
type Parser struct {
	loc *time.Location
}

// NewParser creates a parser reading zone-less values as UTC.
func NewParser() *Parser {
	return &Parser{loc: time.UTC}
}

// NewParserIn creates a parser reading zone-less values in loc.
func NewParserIn(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	return &Parser{loc: loc}
}

// Parse parses value. Impossible calendar dates are rejected.
func (p *Parser) Parse(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", domain.ErrInvalidInput)
	}
	t, err := dateparse.ParseIn(value, p.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return t, nil
}
