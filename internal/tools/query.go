package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jonathan/prp-extractor/internal/db"
	"github.com/jonathan/prp-extractor/internal/types"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListArgs are the arguments of list_parsed_prps.
type ListArgs struct {
	CreatedBy  string `json:"created_by" jsonschema:"description=Only PRPs created by this user"`
	SyncStatus string `json:"sync_status" jsonschema:"enum=not_synced,enum=syncing,enum=synced,enum=failed,description=Only PRPs in this sync state"`
	Limit      int    `json:"limit" jsonschema:"default=20,description=Page size (1-100)"`
	Offset     int    `json:"offset" jsonschema:"default=0,description=Rows to skip"`
}

type listResponse struct {
	Total   int             `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
	HasMore bool            `json:"hasMore"`
	PRPs    []db.PRPSummary `json:"prps"`
}

// ListParsedPRPs returns a filtered, paginated page of PRP summaries.
func (h *Handler) ListParsedPRPs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args ListArgs
	if err := request.BindArguments(&args); err != nil {
		return errorResult(&InvalidInputError{Field: "arguments", Message: err.Error()}, nil), nil
	}
	if args.Limit == 0 {
		args.Limit = defaultPageSize
	}
	if args.Limit < 1 || args.Limit > maxPageSize {
		return errorResult(&InvalidInputError{Field: "limit", Message: fmt.Sprintf("must be between 1 and %d", maxPageSize)}, nil), nil
	}
	if args.Offset < 0 {
		return errorResult(&InvalidInputError{Field: "offset", Message: "must not be negative"}, nil), nil
	}
	syncStatus := types.SyncStatus(args.SyncStatus)
	if args.SyncStatus != "" && !syncStatus.Valid() {
		return errorResult(&InvalidInputError{Field: "sync_status", Message: "unknown sync status"}, nil), nil
	}

	prps, total, err := h.store.ListSummaries(ctx, db.SummaryFilter{
		CreatedBy:  args.CreatedBy,
		SyncStatus: syncStatus,
	}, args.Limit, args.Offset)
	if err != nil {
		return errorResult(err, map[string]any{"operation": "list prps"}), nil
	}
	if prps == nil {
		prps = []db.PRPSummary{}
	}

	return successResult(fmt.Sprintf("found %d PRPs", total), listResponse{
		Total:   total,
		Limit:   args.Limit,
		Offset:  args.Offset,
		HasMore: args.Offset+args.Limit < total,
		PRPs:    prps,
	}), nil
}

// DetailsArgs are the arguments of get_prp_details.
type DetailsArgs struct {
	PRPID        string `json:"prp_id" jsonschema:"required,description=PRP to fetch"`
	IncludeTasks *bool  `json:"include_tasks" jsonschema:"default=true,description=Include the ordered task list (default true)"`
}

type prpDetails struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	YoutubeURL   string            `json:"youtube_url"`
	VideoID      string            `json:"video_id"`
	VideoTitle   string            `json:"video_title"`
	ChannelTitle string            `json:"channel_title"`
	PublishedAt  *time.Time        `json:"published_at,omitempty"`
	Duration     string            `json:"duration"`
	CreatedBy    string            `json:"created_by"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Content      *types.PRPContent `json:"content"`
}

type syncDetails struct {
	Status   types.SyncStatus `json:"status"`
	PageID   *string          `json:"notion_page_id,omitempty"`
	SyncedAt *time.Time       `json:"synced_at,omitempty"`
	Error    *string          `json:"error,omitempty"`
}

type detailsResponse struct {
	PRP   prpDetails   `json:"prp"`
	Tasks []db.PRPTask `json:"tasks,omitempty"`
	Sync  syncDetails  `json:"sync"`
}

// GetPRPDetails returns one PRP with its decoded content, sync metadata,
// and optionally its ordered task list.
func (h *Handler) GetPRPDetails(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args DetailsArgs
	if err := request.BindArguments(&args); err != nil {
		return errorResult(&InvalidInputError{Field: "arguments", Message: err.Error()}, nil), nil
	}
	prpID, err := uuid.Parse(args.PRPID)
	if err != nil {
		return errorResult(&InvalidInputError{Field: "prp_id", Message: "must be a UUID"}, nil), nil
	}

	details := map[string]any{"operation": "get prp details", "prp_id": args.PRPID}

	prp, err := h.store.GetPRP(ctx, prpID)
	if err != nil {
		return errorResult(err, details), nil
	}
	content, err := prp.DecodeContent()
	if err != nil {
		return errorResult(err, details), nil
	}

	resp := detailsResponse{
		PRP: prpDetails{
			ID:           prp.ID.String(),
			Name:         prp.Name,
			YoutubeURL:   prp.YoutubeURL,
			VideoID:      prp.VideoID,
			VideoTitle:   prp.VideoTitle,
			ChannelTitle: prp.ChannelTitle,
			PublishedAt:  prp.PublishedAt,
			Duration:     prp.Duration,
			CreatedBy:    prp.CreatedBy,
			CreatedAt:    prp.CreatedAt,
			UpdatedAt:    prp.UpdatedAt,
			Content:      content,
		},
		Sync: syncDetails{
			Status:   prp.SyncStatus,
			PageID:   prp.NotionPageID,
			SyncedAt: prp.SyncedAt,
			Error:    prp.SyncError,
		},
	}
	if args.IncludeTasks == nil || *args.IncludeTasks {
		tasks, err := h.store.GetTasks(ctx, prpID)
		if err != nil {
			return errorResult(err, details), nil
		}
		resp.Tasks = tasks
	}

	return successResult("PRP details retrieved", resp), nil
}

// SyncStatusArgs are the arguments of check_notion_sync_status.
type SyncStatusArgs struct {
	PRPIDs     []string `json:"prp_ids" jsonschema:"description=Restrict the check to these PRP ids"`
	SyncStatus string   `json:"sync_status" jsonschema:"enum=not_synced,enum=syncing,enum=synced,enum=failed,description=Only PRPs in this sync state"`
}

type syncStatusResponse struct {
	Total  int                      `json:"total"`
	Counts map[types.SyncStatus]int `json:"counts"`
	PRPs   []db.SyncRow             `json:"prps"`
}

// CheckNotionSyncStatus reports the sync state of a filtered set of PRPs,
// aggregated by status.
func (h *Handler) CheckNotionSyncStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args SyncStatusArgs
	if err := request.BindArguments(&args); err != nil {
		return errorResult(&InvalidInputError{Field: "arguments", Message: err.Error()}, nil), nil
	}
	syncStatus := types.SyncStatus(args.SyncStatus)
	if args.SyncStatus != "" && !syncStatus.Valid() {
		return errorResult(&InvalidInputError{Field: "sync_status", Message: "unknown sync status"}, nil), nil
	}
	var prpIDs []uuid.UUID
	for _, raw := range args.PRPIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return errorResult(&InvalidInputError{Field: "prp_ids", Message: fmt.Sprintf("%q is not a UUID", raw)}, nil), nil
		}
		prpIDs = append(prpIDs, id)
	}

	rows, err := h.store.ListSyncStates(ctx, prpIDs, syncStatus)
	if err != nil {
		return errorResult(err, map[string]any{"operation": "check sync status"}), nil
	}
	if rows == nil {
		rows = []db.SyncRow{}
	}

	counts := make(map[types.SyncStatus]int)
	for _, row := range rows {
		counts[row.SyncStatus]++
	}

	return successResult(fmt.Sprintf("checked %d PRPs", len(rows)), syncStatusResponse{
		Total:  len(rows),
		Counts: counts,
		PRPs:   rows,
	}), nil
}
