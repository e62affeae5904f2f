package mcpserver

import (
	"context"
	"fmt"
	"strconv"

	"hostpanel/internal/domain"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerAnnouncementTools() {
	// ── list_announcements ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_announcements",
		mcp.WithDescription("List announcements. With activeOnly, only those currently shown to serverId."),
		mcp.WithString("activeOnly", mcp.Description("\"true\" to list only live announcements")),
		mcp.WithNumber("serverId", mcp.Description("Server ID the announcements must target (with activeOnly)")),
		readOnly,
	), s.handleListAnnouncements)

	// ── create_announcement ────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_announcement",
		mcp.WithDescription("Create an announcement shown to server owners"),
		mcp.WithString("title", mcp.Description("Title, at most 255 characters"), mcp.Required()),
		mcp.WithString("message", mcp.Description("Message, at most 2000 characters"), mcp.Required()),
		mcp.WithString("type", mcp.Description("info, warning, maintenance or critical"), mcp.Required()),
		mcp.WithNumber("createdBy", mcp.Description("ID of the creating admin"), mcp.Required()),
		mcp.WithString("active", mcp.Description("\"false\" to create it disabled")),
	), s.handleCreateAnnouncement)
}

func (s *Server) registerNodeTools() {
	// ── node_warnings ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("node_warnings",
		mcp.WithDescription("List nodes with resource usage above their warning thresholds"),
		readOnly,
	), s.handleNodeWarnings)

	// ── check_nodes ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("check_nodes",
		mcp.WithDescription("Re-check every node against its thresholds and store the result"),
	), s.handleCheckNodes)
}

func (s *Server) handleListAnnouncements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	if !getBool(args, "activeOnly") {
		all, err := s.announcements.List()
		if err != nil {
			return nil, fmt.Errorf("list announcements: %w", err)
		}
		if all == nil {
			all = []domain.Announcement{}
		}
		return jsonResult(all)
	}
	active, err := s.announcements.ActiveFor(int64(getFloat(args, "serverId", 0)))
	if err != nil {
		return nil, fmt.Errorf("active announcements: %w", err)
	}
	return jsonResult(active)
}

func (s *Server) handleCreateAnnouncement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	a := &domain.Announcement{
		Title:     req.GetString("title", ""),
		Message:   req.GetString("message", ""),
		Type:      domain.AnnouncementType(req.GetString("type", "")),
		CreatedBy: int64(getFloat(args, "createdBy", 0)),
		IsActive:  true,
	}
	if _, ok := args["active"]; ok {
		a.IsActive = getBool(args, "active")
	}
	if err := s.announcements.Create(a); err != nil {
		if domain.IsValidationError(err) {
			return textResult(err.Error()), nil
		}
		return nil, fmt.Errorf("create announcement: %w", err)
	}
	return jsonResult(a)
}

func (s *Server) handleNodeWarnings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rows, err := s.nodes.Warnings()
	if err != nil {
		return nil, fmt.Errorf("node warnings: %w", err)
	}
	return jsonResult(rows)
}

func (s *Server) handleCheckNodes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	flagged, err := s.nodes.CheckAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("check nodes: %w", err)
	}
	return textResult(strconv.Itoa(flagged) + " node(s) with resource warnings"), nil
}
