package tools

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jonathan/prp-extractor/internal/db"
	"github.com/jonathan/prp-extractor/internal/notion"
	"github.com/jonathan/prp-extractor/internal/types"
)

// SyncArgs are the arguments of sync_to_notion.
type SyncArgs struct {
	PRPID          string `json:"prp_id" jsonschema:"required,description=PRP to sync"`
	DatabaseID     string `json:"database_id" jsonschema:"description=Target Notion database (falls back to the configured default)"`
	UpdateExisting bool   `json:"update_existing" jsonschema:"description=Patch the existing page's properties instead of refusing to re-sync (default false)"`
}

type syncResponse struct {
	PRPID        string           `json:"prp_id"`
	NotionPageID string           `json:"notion_page_id,omitempty"`
	SyncStatus   types.SyncStatus `json:"sync_status"`
}

// SyncToNotion mirrors a parsed PRP into a Notion database. An
// already-synced PRP is not duplicated: without update_existing the stored
// page is reported as is, with it only the page properties are patched.
// Every branch writes the outcome back to the PRP's sync state.
func (h *Handler) SyncToNotion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requirePrivilege("sync_to_notion"); err != nil {
		return errorResult(err, map[string]any{"operation": "sync to notion"}), nil
	}

	var args SyncArgs
	if err := request.BindArguments(&args); err != nil {
		return errorResult(&InvalidInputError{Field: "arguments", Message: err.Error()}, nil), nil
	}
	prpID, err := uuid.Parse(args.PRPID)
	if err != nil {
		return errorResult(&InvalidInputError{Field: "prp_id", Message: "must be a UUID"}, nil), nil
	}
	if h.syncer == nil {
		return errorResult(&NotConfiguredError{Integration: "Notion"}, nil), nil
	}
	databaseID := args.DatabaseID
	if databaseID == "" {
		databaseID = h.defaultDB
	}
	if databaseID == "" {
		return errorResult(&InvalidInputError{Field: "database_id", Message: "required when no default Notion database is configured"}, nil), nil
	}

	details := map[string]any{"operation": "sync to notion", "prp_id": args.PRPID}

	prp, err := h.store.GetPRP(ctx, prpID)
	if err != nil {
		return errorResult(err, details), nil
	}
	content, err := prp.DecodeContent()
	if err != nil {
		return errorResult(err, details), nil
	}
	tasks, err := h.store.GetTasks(ctx, prpID)
	if err != nil {
		return errorResult(err, details), nil
	}

	// Already synced and no update requested: report the existing page,
	// preferring a live lookup over the stored id, and create nothing.
	if prp.NotionPageID != nil && !args.UpdateExisting {
		pageID := *prp.NotionPageID
		if found, lookupErr := h.syncer.FindPageByPRPID(ctx, databaseID, prp.ID.String()); lookupErr == nil && found != "" {
			pageID = found
		}
		return successResult("PRP is already synced to Notion; pass update_existing to refresh it", syncResponse{
			PRPID:        prp.ID.String(),
			NotionPageID: pageID,
			SyncStatus:   prp.SyncStatus,
		}), nil
	}

	if err := h.markSyncing(ctx, prpID); err != nil {
		return errorResult(err, details), nil
	}

	var (
		pageID  string
		syncErr error
		message string
	)
	existing := ""
	if args.UpdateExisting {
		if prp.NotionPageID != nil {
			existing = *prp.NotionPageID
		} else if found, lookupErr := h.syncer.FindPageByPRPID(ctx, databaseID, prp.ID.String()); lookupErr == nil {
			existing = found
		}
	}
	if existing != "" {
		pageID = existing
		syncErr = h.syncer.UpdatePage(ctx, existing, notion.PropertyPatch{
			Name:       prp.Name,
			VideoTitle: prp.VideoTitle,
			TaskCount:  len(tasks),
			SyncStatus: types.SyncStatusSynced,
		})
		message = "Notion page updated"
	} else {
		pageID, syncErr = h.syncer.CreatePage(ctx, databaseID, content, notion.SourceInfo{
			PRPID:        prp.ID.String(),
			URL:          prp.YoutubeURL,
			VideoTitle:   prp.VideoTitle,
			ChannelTitle: prp.ChannelTitle,
			CreatedBy:    prp.CreatedBy,
			TaskCount:    len(tasks),
			SyncStatus:   types.SyncStatusSynced,
		})
		message = "PRP synced to Notion"
	}

	if syncErr != nil {
		if recordErr := h.recordFailed(ctx, prpID, syncErr); recordErr != nil {
			// The failure record itself could not be written. Surface the
			// storage error rather than masking the inconsistency; the
			// original sync failure travels in the details.
			details["sync_error"] = publicMessage(syncErr)
			return errorResult(recordErr, details), nil
		}
		return errorResult(syncErr, details), nil
	}
	if err := h.recordSynced(ctx, prpID, pageID); err != nil {
		details["notion_page_id"] = pageID
		return errorResult(err, details), nil
	}

	return successResult(message, syncResponse{
		PRPID:        prp.ID.String(),
		NotionPageID: pageID,
		SyncStatus:   types.SyncStatusSynced,
	}), nil
}

// syncNew creates a Notion page for a freshly parsed PRP and records the
// outcome. Used by the inline auto-sync path of parse_youtube_prp.
func (h *Handler) syncNew(ctx context.Context, prp *db.ParsedPRP, content *types.PRPContent, taskCount int, databaseID string) (string, types.SyncStatus, error) {
	if err := h.markSyncing(ctx, prp.ID); err != nil {
		return "", prp.SyncStatus, err
	}
	pageID, err := h.syncer.CreatePage(ctx, databaseID, content, notion.SourceInfo{
		PRPID:        prp.ID.String(),
		URL:          prp.YoutubeURL,
		VideoTitle:   prp.VideoTitle,
		ChannelTitle: prp.ChannelTitle,
		CreatedBy:    prp.CreatedBy,
		TaskCount:    taskCount,
		SyncStatus:   types.SyncStatusSynced,
	})
	if err != nil {
		if recordErr := h.recordFailed(ctx, prp.ID, err); recordErr != nil {
			h.logger.Error().Err(recordErr).Str("prp_id", prp.ID.String()).Msg("failed to record sync failure")
		}
		return "", types.SyncStatusFailed, err
	}
	if err := h.recordSynced(ctx, prp.ID, pageID); err != nil {
		return pageID, types.SyncStatusSyncing, err
	}
	return pageID, types.SyncStatusSynced, nil
}

func (h *Handler) markSyncing(ctx context.Context, prpID uuid.UUID) error {
	return h.store.UpdateSyncState(ctx, prpID, db.SyncStateUpdate{Status: types.SyncStatusSyncing})
}

func (h *Handler) recordSynced(ctx context.Context, prpID uuid.UUID, pageID string) error {
	now := time.Now().UTC()
	return h.store.UpdateSyncState(ctx, prpID, db.SyncStateUpdate{
		Status:   types.SyncStatusSynced,
		PageID:   &pageID,
		SyncedAt: &now,
	})
}

func (h *Handler) recordFailed(ctx context.Context, prpID uuid.UUID, syncErr error) error {
	msg := publicMessage(syncErr)
	return h.store.UpdateSyncState(ctx, prpID, db.SyncStateUpdate{
		Status: types.SyncStatusFailed,
		Error:  &msg,
	})
}
