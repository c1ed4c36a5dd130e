package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Register adds the seven PRP tools to the server. Sync tools are always
// registered; they report the Notion integration as unavailable when no
// token is configured.
func Register(s *server.MCPServer, h *Handler) {
	s.AddTool(mcp.NewTool("parse_youtube_prp",
		mcp.WithDescription("Parse a YouTube video into a structured PRP (Product Requirements Prompt) with an ordered task list, persist it, and optionally sync it to Notion."),
		mcp.WithInputSchema[ParseArgs](),
	), h.ParseYoutubePRP)

	s.AddTool(mcp.NewTool("list_parsed_prps",
		mcp.WithDescription("List previously parsed PRPs with per-status task counts. Supports filtering by creator and sync status, and pagination."),
		mcp.WithInputSchema[ListArgs](),
	), h.ListParsedPRPs)

	s.AddTool(mcp.NewTool("get_prp_details",
		mcp.WithDescription("Fetch one parsed PRP: video info, the full PRP content, sync metadata, and (by default) the ordered task list."),
		mcp.WithInputSchema[DetailsArgs](),
	), h.GetPRPDetails)

	s.AddTool(mcp.NewTool("extract_tasks",
		mcp.WithDescription("Ask the model for additional implementation tasks beyond the stored ones and append them to the PRP. Requires allow-list membership."),
		mcp.WithInputSchema[ExtractTasksArgs](),
	), h.ExtractTasks)

	s.AddTool(mcp.NewTool("update_task_status",
		mcp.WithDescription("Move a task between pending, in_progress, completed, and blocked. Requires allow-list membership."),
		mcp.WithInputSchema[UpdateTaskStatusArgs](),
	), h.UpdateTaskStatus)

	s.AddTool(mcp.NewTool("sync_to_notion",
		mcp.WithDescription("Mirror a parsed PRP into a Notion database as a structured page. Already-synced PRPs are not duplicated. Requires allow-list membership."),
		mcp.WithInputSchema[SyncArgs](),
	), h.SyncToNotion)

	s.AddTool(mcp.NewTool("check_notion_sync_status",
		mcp.WithDescription("Report the Notion sync state of parsed PRPs, aggregated by status."),
		mcp.WithInputSchema[SyncStatusArgs](),
	), h.CheckNotionSyncStatus)
}
