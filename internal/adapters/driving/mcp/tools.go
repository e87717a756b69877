package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/metaval/internal/core/domain"
)

// ValidateInput is the input schema for the validate tool.
type ValidateInput struct {
	Document   string `json:"document" jsonschema:"the metadata record as JSON-LD or YAML text"`
	Format     string `json:"format,omitempty" jsonschema:"json or yaml; detected from the content when empty"`
	SchemaPath string `json:"schema_path,omitempty" jsonschema:"validate against this schema file instead of resolving the profile"`
	Record     bool   `json:"record,omitempty" jsonschema:"store the result in the validation history"`
}

// ValidateOutput is the output schema for the validate tool.
type ValidateOutput struct {
	ID                string                     `json:"id"`
	Profile           string                     `json:"profile"`
	Version           string                     `json:"version"`
	Resolution        string                     `json:"resolution"`
	Valid             bool                       `json:"valid"`
	Degraded          bool                       `json:"degraded"`
	ErrorMessages     []string                   `json:"error_messages"`
	ErroredProperties []string                   `json:"errored_properties"`
	DateWarnings      []string                   `json:"date_warnings"`
	Warnings          []string                   `json:"warnings"`
	Report            *domain.CompletenessReport `json:"report,omitempty"`
}

// ResolveInput is the input schema for the resolve_profile tool.
type ResolveInput struct {
	Document string `json:"document" jsonschema:"the metadata record as JSON-LD or YAML text"`
	Format   string `json:"format,omitempty" jsonschema:"json or yaml; detected from the content when empty"`
}

// ResolveOutput is the output schema for the resolve_profile tool.
type ResolveOutput struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	Resolution   string `json:"resolution"`
	ClaimName    string `json:"claim_name,omitempty"`
	ClaimVersion string `json:"claim_version,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "validate",
		Description: "Validate a metadata record against its community profile and report property completeness",
	}, s.handleValidate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "resolve_profile",
		Description: "Determine which profile and version a metadata record targets",
	}, s.handleResolve)
}

// handleValidate handles the validate tool invocation.
func (s *Server) handleValidate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ValidateInput,
) (_ *mcp.CallToolResult, _ ValidateOutput, err error) {
	defer func(start time.Time) { observeTool("validate", start, err) }(time.Now())

	raw, err := rawDocument(input.Document, input.Format)
	if err != nil {
		return nil, ValidateOutput{}, err
	}

	opts := domain.ValidateOptions{SchemaPath: input.SchemaPath, Record: input.Record}
	result, err := s.ports.Validation.ValidateRaw(ctx, raw, opts)
	if err != nil {
		return nil, ValidateOutput{}, err
	}
	observeResult(result)

	output := ValidateOutput{
		ID:                result.ID,
		Profile:           result.Profile.Name,
		Version:           result.Profile.Version,
		Resolution:        string(result.Profile.Resolution),
		Valid:             result.Valid(),
		Degraded:          result.MarginalityMissing(),
		ErrorMessages:     orEmpty(result.ErrorMessages),
		ErroredProperties: orEmpty(result.ErroredProperties),
		DateWarnings:      orEmpty(result.DateWarnings),
		Warnings:          orEmpty(result.Warnings),
		Report:            result.Report,
	}

	return nil, output, nil
}

// handleResolve handles the resolve_profile tool invocation.
func (s *Server) handleResolve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ResolveInput,
) (_ *mcp.CallToolResult, _ ResolveOutput, err error) {
	defer func(start time.Time) { observeTool("resolve_profile", start, err) }(time.Now())

	if s.ports.Profile == nil {
		return nil, ResolveOutput{}, ErrMissingProfileService
	}
	raw, err := rawDocument(input.Document, input.Format)
	if err != nil {
		return nil, ResolveOutput{}, err
	}

	ref, err := s.ports.Profile.ResolveRaw(ctx, raw)
	if err != nil {
		return nil, ResolveOutput{}, err
	}

	output := ResolveOutput{
		Name:       ref.Name,
		Version:    ref.Version,
		Resolution: string(ref.Resolution),
	}
	if ref.Claim != nil {
		output.ClaimName = ref.Claim.Name
		output.ClaimVersion = ref.Claim.Version
	}
	return nil, output, nil
}

// rawDocument wraps tool input text. An empty format leaves detection
// to the normaliser registry.
func rawDocument(text, format string) (*domain.RawDocument, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: document is empty", domain.ErrInvalidInput)
	}
	raw := &domain.RawDocument{URI: "mcp:document", Content: []byte(text)}
	switch strings.ToLower(format) {
	case "":
	case "json", "jsonld", "json-ld":
		raw.MIMEType = domain.MIMETypeJSONLD
	case "yaml", "yml":
		raw.MIMEType = domain.MIMETypeYAML
	default:
		return nil, fmt.Errorf("%w: unknown format %q", domain.ErrInvalidInput, format)
	}
	return raw, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
