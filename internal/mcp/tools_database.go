package mcpserver

import (
	"context"
	"fmt"

	"hostpanel/internal/domain"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerDatabaseTools() {
	s.mcp.AddTool(mcp.NewTool("list_db_hosts",
		mcp.WithDescription("List the registered database hosts"),
		readOnly,
	), s.handleListHosts)

	s.mcp.AddTool(mcp.NewTool("list_databases",
		mcp.WithDescription("List the databases of a host with their table counts. System schemas are hidden."),
		mcp.WithString("hostId", mcp.Description("Database host ID"), mcp.Required()),
		readOnly,
	), s.handleListDatabases)

	s.mcp.AddTool(mcp.NewTool("list_tables",
		mcp.WithDescription("List the tables of a database with their row counts"),
		mcp.WithString("hostId", mcp.Description("Database host ID"), mcp.Required()),
		mcp.WithString("database", mcp.Description("Database name"), mcp.Required()),
		readOnly,
	), s.handleListTables)

	s.mcp.AddTool(mcp.NewTool("describe_table",
		mcp.WithDescription("Get the column definitions of a table"),
		mcp.WithString("hostId", mcp.Description("Database host ID"), mcp.Required()),
		mcp.WithString("database", mcp.Description("Database name"), mcp.Required()),
		mcp.WithString("table", mcp.Description("Table name"), mcp.Required()),
		readOnly,
	), s.handleDescribeTable)

	s.mcp.AddTool(mcp.NewTool("fetch_table_page",
		mcp.WithDescription(fmt.Sprintf("Fetch the first %d rows of a table with its schema and total row count", domain.PageSize)),
		mcp.WithString("hostId", mcp.Description("Database host ID"), mcp.Required()),
		mcp.WithString("database", mcp.Description("Database name"), mcp.Required()),
		mcp.WithString("table", mcp.Description("Table name"), mcp.Required()),
		readOnly,
	), s.handleFetchTablePage)

	s.mcp.AddTool(mcp.NewTool("execute_query",
		mcp.WithDescription("Run one SQL statement against a database. Statements starting with a denied verb (DROP, TRUNCATE, DELETE, UPDATE by default) are blocked."),
		mcp.WithString("hostId", mcp.Description("Database host ID"), mcp.Required()),
		mcp.WithString("database", mcp.Description("Database name (optional, defaults to the host default)")),
		mcp.WithString("query", mcp.Description("SQL statement to execute"), mcp.Required()),
	), s.handleExecuteQuery)

	s.mcp.AddTool(mcp.NewTool("query_history",
		mcp.WithDescription("List recently executed statements, newest first"),
		mcp.WithString("hostId", mcp.Description("Database host ID (optional, all hosts when empty)")),
		mcp.WithNumber("limit", mcp.Description("Maximum entries (default 20)")),
		readOnly,
	), s.handleQueryHistory)
}

func (s *Server) handleListHosts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hosts, err := s.hosts.ListHosts()
	if err != nil {
		return nil, fmt.Errorf("list hosts: %w", err)
	}
	if hosts == nil {
		hosts = []domain.DatabaseHost{}
	}
	return jsonResult(hosts)
}

func (s *Server) handleListDatabases(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := requireArgs(req, "hostId")
	if err != nil {
		return nil, err
	}
	state, note := s.browser.Open(ctx, args["hostId"])
	return jsonResult(notified{Result: state.Databases, Notification: note})
}

func (s *Server) handleListTables(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := requireArgs(req, "hostId", "database")
	if err != nil {
		return nil, err
	}
	state, note := s.browser.SelectDatabase(ctx, domain.BrowserState{HostID: args["hostId"]}, args["database"])
	return jsonResult(notified{Result: state.Tables, Notification: note})
}

func (s *Server) handleDescribeTable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := requireArgs(req, "hostId", "database", "table")
	if err != nil {
		return nil, err
	}
	cred, err := s.hosts.Credential(args["hostId"])
	if err != nil {
		return nil, fmt.Errorf("load host: %w", err)
	}
	cols, err := s.browser.Browser().DescribeTable(ctx, cred, args["database"], args["table"])
	if err != nil {
		return nil, fmt.Errorf("describe table: %w", err)
	}
	return jsonResult(cols)
}

func (s *Server) handleFetchTablePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := requireArgs(req, "hostId", "database", "table")
	if err != nil {
		return nil, err
	}
	state := domain.BrowserState{HostID: args["hostId"]}.WithDatabase(args["database"])
	state, note := s.browser.SelectTable(ctx, state, args["table"])
	if state.Page == nil {
		return jsonResult(notified{Notification: note})
	}
	return jsonResult(notified{Result: state.Page, Notification: note})
}

func (s *Server) handleExecuteQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := requireArgs(req, "hostId", "query")
	if err != nil {
		return nil, err
	}
	state := domain.BrowserState{HostID: args["hostId"], SelectedDatabase: req.GetString("database", "")}

	s.logger.Info("mcp execute_query", "host", state.HostID, "query", truncate(args["query"], 100))
	next, note := s.browser.ExecuteQuery(ctx, state, args["query"])
	if next.Result == nil {
		return jsonResult(notified{Notification: note})
	}
	return jsonResult(notified{Result: next.Result, Notification: note})
}

func (s *Server) handleQueryHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := int(getFloat(req.GetArguments(), "limit", 20))
	entries, err := s.browser.History(req.GetString("hostId", ""), limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	if entries == nil {
		entries = []domain.QueryLogEntry{}
	}
	return jsonResult(entries)
}
