package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/bascanada/auth0logs/pkg/config"
	httpPkg "github.com/bascanada/auth0logs/pkg/http"
	"github.com/bascanada/auth0logs/pkg/management"
	"github.com/bascanada/auth0logs/pkg/ty"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Starts a MCP server",
	Long:  `Starts a MCP server over stdio, exposing the contexts, log search and log retrieval as tools.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		bundle, err := BuildMCPServer(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := server.ServeStdio(bundle.Server); err != nil {
			fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
			os.Exit(1)
		}
	},
}

// MCPServerBundle exposes the server and its handlers so tests can call them directly.
type MCPServerBundle struct {
	Server       *server.MCPServer
	ToolHandlers map[string]server.ToolHandlerFunc
}

func BuildMCPServer(cfg *config.ContextConfig) (*MCPServerBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	return buildMCPServer(cfg, cfg.Factory()), nil
}

func buildMCPServer(cfg *config.ContextConfig, factory config.LogsFactory) *MCPServerBundle {
	s := server.NewMCPServer(httpPkg.ClientName, httpPkg.Version, server.WithToolCapabilities(false))
	bundle := &MCPServerBundle{Server: s, ToolHandlers: map[string]server.ToolHandlerFunc{}}

	add := func(tool mcp.Tool, handler server.ToolHandlerFunc) {
		s.AddTool(tool, handler)
		bundle.ToolHandlers[tool.Name] = handler
	}

	add(mcp.NewTool("list_contexts",
		mcp.WithDescription("List the configured contexts, each one is a tenant plus default search parameters."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		type contextInfo struct {
			ID          string                  `json:"id"`
			Tenant      string                  `json:"tenant"`
			Domain      string                  `json:"domain"`
			Description string                  `json:"description,omitempty"`
			Search      management.SearchParams `json:"search"`
			Current     bool                    `json:"current,omitempty"`
		}
		infos := []contextInfo{}
		for _, id := range contextNames(cfg) {
			c := cfg.Contexts[id]
			infos = append(infos, contextInfo{
				ID:          id,
				Tenant:      c.Tenant,
				Domain:      cfg.Tenants[c.Tenant].Options.GetString("domain"),
				Description: c.Description,
				Search:      c.Search,
				Current:     id == cfg.CurrentContext,
			})
		}
		return jsonResult(infos)
	})

	add(mcp.NewTool("search_logs",
		mcp.WithDescription("Search the log events of an Auth0 tenant. Use either q (Lucene syntax, e.g. type:f AND user_name:\"a@b.com\") with page/per_page, or from with take for checkpoint pagination."),
		mcp.WithString("contextId", mcp.Required(), mcp.Description("Context to search, see list_contexts")),
		mcp.WithString("q", mcp.Description("Query in Lucene query string syntax")),
		mcp.WithString("where", mcp.Description("Filter expression ANDed with q, e.g. type=f AND date>=2024-03-01. Operators: = != ~= !~= > >= < <= exists(field)")),
		mcp.WithNumber("page", mcp.Description("Page number, zero based")),
		mcp.WithNumber("per_page", mcp.Description("Amount of entries per page, default 50")),
		mcp.WithString("sort", mcp.Description("Sort field, date:1 ascending or date:-1 descending")),
		mcp.WithBoolean("include_totals", mcp.Description("Include the query summary, default true")),
		mcp.WithArray("fields", mcp.Description("Fields to include or exclude"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithBoolean("include_fields", mcp.Description("Whether fields are included (true) or excluded (false), default true")),
		mcp.WithString("from", mcp.Description("Log event id to start from")),
		mcp.WithNumber("take", mcp.Description("Amount of entries to retrieve when using from")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("contextId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		logs, params, err := factory(id)
		if err != nil {
			return contextError(cfg, id, err), nil
		}

		overrides := searchParamsFromArguments(request.GetArguments())
		params.MergeInto(&overrides)
		if err := applyWhere(&params, request.GetString("where", "")); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := logs.Search(ctx, params)
		if err != nil {
			return mcp.NewToolResultErrorFromErr("search failed", err), nil
		}
		return jsonResult(result)
	})

	add(mcp.NewTool("get_log",
		mcp.WithDescription("Retrieve a single log event by its log_id."),
		mcp.WithString("contextId", mcp.Required(), mcp.Description("Context of the tenant, see list_contexts")),
		mcp.WithString("id", mcp.Required(), mcp.Description("log_id of the event")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("contextId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		logID, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		logs, _, err := factory(id)
		if err != nil {
			return contextError(cfg, id, err), nil
		}

		entry, err := logs.Get(ctx, logID)
		if err != nil {
			if httpPkg.IsNotFound(err) {
				return mcp.NewToolResultErrorf("log %s not found", logID), nil
			}
			return mcp.NewToolResultErrorFromErr("get failed", err), nil
		}
		return jsonResult(entry)
	})

	return bundle
}

// searchParamsFromArguments reads the search_logs arguments. Numbers arrive
// as float64 from JSON.
func searchParamsFromArguments(args map[string]any) management.SearchParams {
	mi := ty.MI(args)
	p := management.SearchParams{
		Sort: mi.GetString("sort"),
		Q:    mi.GetString("q"),
		From: mi.GetString("from"),
	}

	if v, ok := args["page"].(float64); ok {
		p.Page = ty.OptWrap(int(v))
	}
	if v, ok := args["per_page"].(float64); ok {
		p.PerPage = ty.OptWrap(int(v))
	}
	if v, ok := args["take"].(float64); ok {
		p.Take = ty.OptWrap(int(v))
	}
	if v, ok := args["include_totals"].(bool); ok {
		p.IncludeTotals = ty.OptWrap(v)
	}
	if v, ok := args["include_fields"].(bool); ok {
		p.IncludeFields = ty.OptWrap(v)
	}
	if raw, ok := args["fields"].([]any); ok {
		for _, f := range raw {
			if s, ok := f.(string); ok && s != "" {
				p.Fields = append(p.Fields, s)
			}
		}
	}
	return p
}

func contextError(cfg *config.ContextConfig, id string, err error) *mcp.CallToolResult {
	if similar := suggestSimilar(id, contextNames(cfg), 3); len(similar) > 0 {
		return mcp.NewToolResultErrorf("%v (did you mean %v?)", err, similar)
	}
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	s, err := ty.ToJSONString(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(s), nil
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
