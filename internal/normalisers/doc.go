// Package normalisers provides implementations of the Normaliser interface
// for metadata record formats. Each normaliser knows how to parse a specific
// MIME type into an ordered document.
//
// Normalisers are registered with the Registry at startup.
package normalisers
