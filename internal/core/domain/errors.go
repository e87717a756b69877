package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown document or normaliser type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Validation Errors.

	// ErrProfileNotFound indicates no stored profile matches the document.
	// The profile has to be built before the document can be validated.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrMarginalityNotFound indicates the profile version has no
	// marginality list. The pipeline degrades instead of failing.
	ErrMarginalityNotFound = errors.New("marginality list not found")

	// ErrSchemaInvalid indicates a stored profile schema could not be compiled.
	ErrSchemaInvalid = errors.New("invalid profile schema")

	// ErrMalformedDocument indicates the input could not be parsed at all.
	ErrMalformedDocument = errors.New("malformed document")
)

// ProfileNotFoundError describes a failed profile resolution.
// It matches ErrProfileNotFound with errors.Is.
type ProfileNotFoundError struct {
	// Tried lists the profile names that were looked up.
	Tried []string

	// Claim is the profile the document claimed, if any.
	Claim *ProfileClaim

	// Suggestions are stored profile names close to the tried ones.
	Suggestions []string
}

// Error implements error.
func (e *ProfileNotFoundError) Error() string {
	var b strings.Builder
	b.WriteString(ErrProfileNotFound.Error())
	if len(e.Tried) > 0 {
		fmt.Fprintf(&b, ": %s", strings.Join(e.Tried, ", "))
	} else {
		b.WriteString(": document names no profile")
	}
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return b.String()
}

// Is reports whether target is ErrProfileNotFound.
func (e *ProfileNotFoundError) Is(target error) bool {
	return target == ErrProfileNotFound
}
