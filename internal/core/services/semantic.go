package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/metaval/internal/core/domain"
	"github.com/custodia-labs/metaval/internal/core/ports/driven"
	"github.com/custodia-labs/metaval/internal/logger"
)

const badDateFormat = "has incorrect data format, months should be between 1 and 12, date should be between 1 and 31"

// DateChecker runs the cross-property date-pair checks.
type DateChecker struct {
	rules  driven.RuleStore
	parser driven.DateParser
}

// NewDateChecker creates a date checker.
func NewDateChecker(rules driven.RuleStore, parser driven.DateParser) *DateChecker {
	return &DateChecker{rules: rules, parser: parser}
}

// Check returns a warning for every unparsable date in a rule pair and for
// every pair whose start is after its end. Every object of the document is
// visited, including objects inside arrays. The document is not modified.
func (c *DateChecker) Check(doc *domain.Object) ([]string, error) {
	if c.rules == nil || c.parser == nil {
		return nil, domain.ErrNotImplemented
	}
	rules, err := c.rules.DatePairs()
	if err != nil {
		return nil, fmt.Errorf("loading date rules: %w", err)
	}

	w := &dateWalk{rules: rules, parser: c.parser, warnings: []string{}}
	w.object(doc, nil)
	return w.warnings, nil
}

// dateWalk accumulates warnings for one Check call.
type dateWalk struct {
	rules    []domain.DatePairRule
	parser   driven.DateParser
	warnings []string
}

func (w *dateWalk) object(obj *domain.Object, path []string) {
	for _, rule := range w.rules {
		w.checkPair(obj, path, rule)
	}
	for _, key := range obj.Keys() {
		v, _ := obj.Get(key)
		w.value(v, childPath(path, key))
	}
}

func (w *dateWalk) value(v domain.Value, path []string) {
	switch t := v.(type) {
	case *domain.Object:
		w.object(t, path)
	case domain.Array:
		for i, item := range t {
			w.value(item, indexPath(path, i))
		}
	}
}

func (w *dateWalk) checkPair(obj *domain.Object, path []string, rule domain.DatePairRule) {
	startRaw, hasStart := obj.Get(rule.Start)
	endRaw, hasEnd := obj.Get(rule.End)

	var start, end time.Time
	var startOK, endOK bool
	if hasStart {
		start, startOK = w.parse(startRaw)
		if !startOK {
			w.warn(path, "In property %q, %q %s", rule.Start, display(startRaw), badDateFormat)
		}
	}
	if hasEnd {
		end, endOK = w.parse(endRaw)
		if !endOK {
			w.warn(path, "In property %q, %q %s", rule.End, display(endRaw), badDateFormat)
		}
	}
	if startOK && endOK && start.After(end) {
		w.warn(path, "%q : %s is after %q : %s, please double check.",
			rule.Start, display(startRaw), rule.End, display(endRaw))
	}
}

func (w *dateWalk) parse(v domain.Value) (time.Time, bool) {
	s, ok := v.(domain.Scalar)
	if !ok {
		return time.Time{}, false
	}
	var text string
	switch t := s.V.(type) {
	case string:
		text = t
	case json.Number:
		text = t.String()
	default:
		return time.Time{}, false
	}
	parsed, err := w.parser.Parse(strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

func (w *dateWalk) warn(path []string, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if len(path) > 0 {
		msg = fmt.Sprintf("Inside property %s, %s", strings.Join(path, "."), msg)
	}
	logger.Info("%s", msg)
	w.warnings = append(w.warnings, msg)
}

// display renders a value for a warning.
func display(v domain.Value) string {
	if s, ok := v.(domain.Scalar); ok {
		if str, ok := s.Str(); ok {
			return str
		}
		return fmt.Sprint(s.V)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func childPath(path []string, key string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, key)
}

// indexPath appends an array index to the last path segment.
func indexPath(path []string, i int) []string {
	out := make([]string, len(path))
	copy(out, path)
	idx := "[" + strconv.Itoa(i) + "]"
	if len(out) == 0 {
		return []string{idx}
	}
	out[len(out)-1] += idx
	return out
}
