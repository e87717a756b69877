package services

import (
	"strings"

	"github.com/custodia-labs/metaval/internal/core/domain"
)

const (
	contextKey = "@context"
	typeKey    = "@type"
)

// VendorPredicate derives the vocabulary prefix to strip from a document.
// When @context is an array holding an object whose value points at one of
// the vendor domains, the prefix is that object's key plus ":". The last
// matching entry wins. Returns "" when nothing matches.
func VendorPredicate(doc *domain.Object, vendorDomains []string) string {
	ctxValue, ok := doc.Get(contextKey)
	if !ok {
		return ""
	}
	entries, ok := ctxValue.(domain.Array)
	if !ok {
		return ""
	}

	predicate := ""
	for _, entry := range entries {
		obj, ok := entry.(*domain.Object)
		if !ok {
			continue
		}
		for _, key := range obj.Keys() {
			value, ok := obj.GetString(key)
			if ok && pointsAtVendor(value, vendorDomains) {
				predicate = key + ":"
			}
		}
	}
	return predicate
}

func pointsAtVendor(value string, domains []string) bool {
	for _, d := range domains {
		if strings.Contains(value, "http://"+d+"/") || strings.Contains(value, "https://"+d+"/") {
			return true
		}
	}
	return false
}

// StripPredicate removes predicate from string values of every object that
// carries @type, recursing through nested objects and arrays. The document
// is mutated in place. An empty predicate is a no-op and stripping is
// idempotent.
func StripPredicate(doc *domain.Object, predicate string) {
	if predicate == "" || doc == nil {
		return
	}
	stripObject(doc, predicate)
}

func stripObject(obj *domain.Object, predicate string) {
	typed := obj.Has(typeKey)
	for _, key := range obj.Keys() {
		v, _ := obj.Get(key)
		switch t := v.(type) {
		case domain.Scalar:
			if s, ok := t.Str(); ok && typed && strings.Contains(s, predicate) {
				obj.Set(key, domain.Scalar{V: strings.ReplaceAll(s, predicate, "")})
			}
		case *domain.Object:
			stripObject(t, predicate)
		case domain.Array:
			stripArray(t, predicate, typed)
		}
	}
}

// stripArray mutates arr in place. String elements are stripped only when
// the owning object carries @type.
func stripArray(arr domain.Array, predicate string, typed bool) {
	for i, item := range arr {
		switch t := item.(type) {
		case domain.Scalar:
			if s, ok := t.Str(); ok && typed && strings.Contains(s, predicate) {
				arr[i] = domain.Scalar{V: strings.ReplaceAll(s, predicate, "")}
			}
		case *domain.Object:
			stripObject(t, predicate)
		case domain.Array:
			stripArray(t, predicate, typed)
		}
	}
}
