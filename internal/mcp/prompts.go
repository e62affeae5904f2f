package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("explore_database",
		mcp.WithPromptDescription("Walk through the databases and tables of a host and summarize its schema"),
		mcp.WithArgument("hostId",
			mcp.ArgumentDescription("Database host ID"),
			mcp.RequiredArgument(),
		),
	), s.handleExplorePrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("node_health_report",
		mcp.WithPromptDescription("Summarize node resource warnings and suggest an announcement when maintenance is needed"),
	), s.handleNodeHealthPrompt)
}

func (s *Server) handleExplorePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	hostID := req.Params.Arguments["hostId"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Explore database host %s", hostID),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Explore the database host "%s". Follow these steps:

1. Use list_databases to see its databases and table counts
2. For each database that has tables, use list_tables
3. For the largest tables, use describe_table and fetch_table_page to sample rows
4. Summarize the schema: what each database holds, its key tables and primary keys

Only read data. Do not run execute_query with statements that change data.`, hostID),
				},
			},
		},
	}, nil
}

func (s *Server) handleNodeHealthPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Node health report",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: `Report on node health. Follow these steps:

1. Use check_nodes to refresh the warning flags
2. Use node_warnings to list flagged nodes with their severity and summary
3. Group the nodes by severity, critical first
4. If any node is critical, draft a maintenance announcement with create_announcement (type "maintenance")`,
				},
			},
		},
	}, nil
}
