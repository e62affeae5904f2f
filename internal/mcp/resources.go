package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"hostpanel/internal/domain"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	hostsURI        = "hostpanel://hosts"
	hostURIPrefix   = "hostpanel://hosts/"
	databasesSuffix = "/databases"
)

func (s *Server) registerResources() {
	// ── hostpanel://hosts ──────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		hostsURI,
		"Database Hosts",
		mcp.WithMIMEType("application/json"),
	), s.handleHostsResource)

	// ── hostpanel://hosts/{hostId}/databases ───────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			hostURIPrefix+"{hostId}"+databasesSuffix,
			"Databases on a Host",
		),
		s.handleHostDatabasesResource,
	)
}

func (s *Server) handleHostsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	hosts, err := s.hosts.ListHosts()
	if err != nil {
		return nil, err
	}

	type hostSummary struct {
		ID     string                `json:"id"`
		Name   string                `json:"name"`
		Driver domain.DatabaseDriver `json:"driver"`
	}

	summaries := make([]hostSummary, len(hosts))
	for i, h := range hosts {
		summaries[i] = hostSummary{ID: h.ID, Name: h.Name, Driver: h.Driver}
	}
	return jsonResource(hostsURI, summaries)
}

func (s *Server) handleHostDatabasesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	hostID := hostIDFromURI(uri)
	if hostID == "" {
		return nil, fmt.Errorf("could not extract hostId from URI: %s", uri)
	}

	state, note := s.browser.Open(ctx, hostID)
	if note != nil {
		return nil, fmt.Errorf("%s: %s", note.Title, note.Body)
	}
	return jsonResource(uri, state.Databases)
}

// hostIDFromURI extracts the host ID from "hostpanel://hosts/{id}/databases".
func hostIDFromURI(uri string) string {
	rest, ok := strings.CutPrefix(uri, hostURIPrefix)
	if !ok {
		return ""
	}
	id, ok := strings.CutSuffix(rest, databasesSuffix)
	if !ok || strings.Contains(id, "/") {
		return ""
	}
	return id
}
