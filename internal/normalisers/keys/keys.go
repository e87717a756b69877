// Package keys applies the property-name rules shared by every metadata
// normaliser: whitespace trimming, NFC normalisation, flagging of names
// with unexpected characters and last-value-wins duplicate handling.
package keys

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/metaval/internal/core/domain"
	"github.com/custodia-labs/metaval/internal/logger"
)

// unexpected matches any character schema.org never uses in property names.
var unexpected = regexp.MustCompile(`[^a-zA-Z@$]`)

// exemptMarker names keys that are allowed to contain any character.
const exemptMarker = "conformsTo"

// Collector builds objects while recording recovered key problems.
// A Collector is used for one document and is not safe for concurrent use.
type Collector struct {
	warnings []string
	flagged  domain.PropertySet
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{flagged: make(domain.PropertySet)}
}

// Put stores v under rawKey on obj. path is the key path of obj inside the
// document and is used in warnings.
func (c *Collector) Put(obj *domain.Object, path []string, rawKey string, v domain.Value) {
	key := Clean(rawKey)
	if key != rawKey {
		c.warn("Please remove the whitespace(s) in property name %q; the validator will proceed with %q", rawKey, key)
	}
	if Unexpected(key) && !c.flagged.Has(key) {
		c.flagged.Add(key)
		c.warn("Property name %q contains non alphabetic characters; schema.org has no such property so it will not be validated", key)
	}
	if obj.Set(key, v) {
		c.warn("Duplicate property: %s; the last value will be used", joinPath(path, key))
	}
}

// Result packages the collected document.
func (c *Collector) Result(doc *domain.Object) *domain.NormalisedDocument {
	warnings := c.warnings
	if warnings == nil {
		warnings = []string{}
	}
	return &domain.NormalisedDocument{
		Document: doc,
		Warnings: warnings,
		Flagged:  c.flagged,
	}
}

func (c *Collector) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Info("%s", msg)
	c.warnings = append(c.warnings, msg)
}

// Clean trims surrounding whitespace and applies NFC normalisation.
func Clean(key string) string {
	return norm.NFC.String(strings.TrimSpace(key))
}

// Unexpected reports whether key contains characters outside [a-zA-Z@$].
// Conformance keys are exempt.
func Unexpected(key string) bool {
	if strings.Contains(key, exemptMarker) {
		return false
	}
	return unexpected.MatchString(key)
}

func joinPath(path []string, key string) string {
	if len(path) == 0 {
		return key
	}
	return strings.Join(path, ".") + "." + key
}
