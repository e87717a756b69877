package domain

// Supported input MIME types.
const (
	MIMETypeJSONLD = "application/ld+json"
	MIMETypeJSON   = "application/json"
	MIMETypeYAML   = "application/yaml"
)

// RawDocument represents the opaque bytes of a metadata record.
// It is the input before normalisation.
type RawDocument struct {
	// URI is the original location (file path, "-" for stdin, etc).
	URI string

	// MIMEType is the content type (e.g., "application/ld+json").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}

// NormalisedDocument is a parsed metadata record plus what parsing found.
type NormalisedDocument struct {
	// Document is the parsed record.
	Document *Object

	// Warnings describe recovered parsing problems (duplicate keys,
	// untrimmed keys, unexpected characters).
	Warnings []string

	// Flagged holds property names whose keys contain unexpected
	// characters. Structural errors on them are not reported.
	Flagged PropertySet
}
