package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jonathan/prp-extractor/internal/db"
	"github.com/jonathan/prp-extractor/internal/types"
	"github.com/jonathan/prp-extractor/internal/youtube"
)

// ParseArgs are the arguments of parse_youtube_prp.
type ParseArgs struct {
	YoutubeURL       string `json:"youtube_url" jsonschema:"required,description=YouTube video URL (watch / youtu.be / embed forms)"`
	NotionDatabaseID string `json:"notion_database_id" jsonschema:"description=Notion database to sync into when auto_sync is set"`
	AutoSync         bool   `json:"auto_sync" jsonschema:"description=Sync the parsed PRP to Notion immediately (default false)"`
}

type parseResponse struct {
	PRPID        string           `json:"prp_id"`
	PRPName      string           `json:"prp_name"`
	VideoTitle   string           `json:"video_title"`
	ChannelTitle string           `json:"channel_title"`
	TaskCount    int              `json:"task_count"`
	NotionPageID string           `json:"notion_page_id,omitempty"`
	SyncStatus   types.SyncStatus `json:"sync_status"`
}

// ParseYoutubePRP runs the full pipeline: resolve the video id, fetch
// metadata and transcript, extract a structured PRP, persist it with its
// initial tasks, and optionally sync to Notion inline. An inline sync
// failure is recorded on the PRP but does not fail the parse; the PRP
// already exists at that point.
func (h *Handler) ParseYoutubePRP(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args ParseArgs
	if err := request.BindArguments(&args); err != nil {
		return errorResult(&InvalidInputError{Field: "arguments", Message: err.Error()}, nil), nil
	}

	videoID, err := youtube.ExtractVideoID(args.YoutubeURL)
	if err != nil {
		return errorResult(err, map[string]any{"operation": "parse url", "youtube_url": args.YoutubeURL}), nil
	}

	logger := h.logger.With().Str("tool", "parse_youtube_prp").Str("video_id", videoID).Logger()

	start := time.Now()
	meta, err := h.videos.GetVideoMetadata(ctx, videoID)
	if err != nil {
		return errorResult(err, map[string]any{"operation": "fetch metadata", "video_id": videoID}), nil
	}
	transcript := h.videos.GetTranscript(ctx, videoID, meta.Description)
	logger.Info().Dur("elapsed", time.Since(start)).Str("title", meta.Title).Msg("fetched video")

	start = time.Now()
	content, err := h.extractor.ParsePRP(ctx, transcript, meta)
	if err != nil {
		return errorResult(err, map[string]any{"operation": "extract prp", "video_id": videoID}), nil
	}
	logger.Info().Dur("elapsed", time.Since(start)).Int("tasks", len(content.Tasks)).Msg("extracted prp")

	raw, err := json.Marshal(content)
	if err != nil {
		return errorResult(&db.StorageError{Op: "encode content", Cause: err}, map[string]any{"operation": "persist prp"}), nil
	}
	publishedAt := meta.PublishedAt
	prp, tasks, err := h.store.InsertPRP(ctx, db.NewPRP{
		Name:             content.Name,
		YoutubeURL:       args.YoutubeURL,
		VideoID:          videoID,
		VideoTitle:       meta.Title,
		VideoDescription: meta.Description,
		ChannelTitle:     meta.ChannelTitle,
		PublishedAt:      &publishedAt,
		Duration:         meta.Duration,
		Transcript:       transcript,
		Content:          raw,
		CreatedBy:        h.username,
	}, content.Tasks)
	if err != nil {
		return errorResult(err, map[string]any{"operation": "persist prp", "video_id": videoID}), nil
	}
	logger.Info().Str("prp_id", prp.ID.String()).Msg("persisted prp")

	resp := parseResponse{
		PRPID:        prp.ID.String(),
		PRPName:      prp.Name,
		VideoTitle:   prp.VideoTitle,
		ChannelTitle: prp.ChannelTitle,
		TaskCount:    len(tasks),
		SyncStatus:   prp.SyncStatus,
	}
	message := "PRP parsed successfully"

	if args.AutoSync {
		databaseID := args.NotionDatabaseID
		if databaseID == "" {
			databaseID = h.defaultDB
		}
		switch {
		case h.syncer == nil || databaseID == "":
			message = "PRP parsed successfully; Notion sync skipped (not configured)"
		default:
			pageID, status, syncErr := h.syncNew(ctx, prp, content, len(tasks), databaseID)
			resp.SyncStatus = status
			resp.NotionPageID = pageID
			if syncErr != nil {
				logger.Warn().Err(syncErr).Msg("inline sync failed")
				message = "PRP parsed successfully, but Notion sync failed"
			} else {
				message = "PRP parsed and synced to Notion"
			}
		}
	}

	return successResult(message, resp), nil
}
