package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/metaval/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for metaval resources.
	uriScheme = "metaval://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing profiles.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "profiles",
		Name:        "profiles",
		Description: "Stored profiles with their versions and the version selected by default",
		MIMEType:    "application/json",
	}, s.handleProfilesResource)

	// Template for a single profile.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "profiles/{name}",
		Name:        "profile",
		Description: "Versions of a specific profile",
		MIMEType:    "application/json",
	}, s.handleProfileResource)

	// Template for recorded validation results.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "history/{id}",
		Name:        "validation-result",
		Description: "A recorded validation result",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

// handleProfilesResource returns every stored profile.
func (s *Server) handleProfilesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Profile == nil {
		return jsonResult(req.Params.URI, "[]"), nil
	}

	profiles, err := s.ports.Profile.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	if profiles == nil {
		profiles = []domain.ProfileSummary{}
	}

	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling profiles: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

// handleProfileResource returns one profile.
func (s *Server) handleProfileResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Profile == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract name from URI: metaval://profiles/{name}
	name := extractSegment(req.Params.URI, "profiles/")
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	profile, err := s.ports.Profile.Get(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}

	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling profile: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

// handleHistoryResource returns a recorded validation result.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract id from URI: metaval://history/{id}
	id := extractSegment(req.Params.URI, "history/")
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	result, err := s.ports.History.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting validation result: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling validation result: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

func jsonResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

// extractSegment returns the single path segment after metaval://<kind>,
// or "" when the URI has another shape.
func extractSegment(uri, kind string) string {
	prefix := uriScheme + kind
	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	rest := strings.TrimPrefix(uri, prefix)
	if strings.Contains(rest, "/") {
		return ""
	}
	return rest
}
