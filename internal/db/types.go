package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/prp-extractor/internal/types"
)

// ParsedPRP is a persisted PRP row.
type ParsedPRP struct {
	ID               uuid.UUID        `json:"id"`
	Name             string           `json:"name"`
	YoutubeURL       string           `json:"youtube_url"`
	VideoID          string           `json:"video_id"`
	VideoTitle       string           `json:"video_title"`
	VideoDescription string           `json:"video_description"`
	ChannelTitle     string           `json:"channel_title"`
	PublishedAt      *time.Time       `json:"published_at,omitempty"`
	Duration         string           `json:"duration"`
	Transcript       string           `json:"transcript"`
	Content          json.RawMessage  `json:"content"`
	CreatedBy        string           `json:"created_by"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	NotionPageID     *string          `json:"notion_page_id,omitempty"`
	SyncStatus       types.SyncStatus `json:"notion_sync_status"`
	SyncedAt         *time.Time       `json:"notion_synced_at,omitempty"`
	SyncError        *string          `json:"notion_sync_error,omitempty"`
}

// DecodeContent deserializes the stored structured PRP document.
func (p *ParsedPRP) DecodeContent() (*types.PRPContent, error) {
	var content types.PRPContent
	if err := json.Unmarshal(p.Content, &content); err != nil {
		return nil, &StorageError{Op: "decode content", Cause: err}
	}
	return &content, nil
}

// NewPRP carries the fields for a PRP insert.
type NewPRP struct {
	Name             string
	YoutubeURL       string
	VideoID          string
	VideoTitle       string
	VideoDescription string
	ChannelTitle     string
	PublishedAt      *time.Time
	Duration         string
	Transcript       string
	Content          json.RawMessage
	CreatedBy        string
}

// PRPTask is a persisted task row.
type PRPTask struct {
	ID          uuid.UUID        `json:"id"`
	PRPID       uuid.UUID        `json:"prp_id"`
	Order       int              `json:"order"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Type        types.TaskType   `json:"type"`
	FilePath    *string          `json:"file_path,omitempty"`
	Pseudocode  *string          `json:"pseudocode,omitempty"`
	Status      types.TaskStatus `json:"status"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	CompletedBy *string          `json:"completed_by,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// PRPSummary is one row of the derived prp_summaries view: identifying fields
// plus per-status task counts. It is recomputed by the database on every read.
type PRPSummary struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	YoutubeURL      string           `json:"youtube_url"`
	VideoID         string           `json:"video_id"`
	VideoTitle      string           `json:"video_title"`
	ChannelTitle    string           `json:"channel_title"`
	CreatedBy       string           `json:"created_by"`
	CreatedAt       time.Time        `json:"created_at"`
	SyncStatus      types.SyncStatus `json:"notion_sync_status"`
	TaskCount       int              `json:"task_count"`
	PendingCount    int              `json:"pending_count"`
	InProgressCount int              `json:"in_progress_count"`
	CompletedCount  int              `json:"completed_count"`
	BlockedCount    int              `json:"blocked_count"`
}

// SummaryFilter narrows a summary listing.
type SummaryFilter struct {
	CreatedBy  string
	SyncStatus types.SyncStatus
}

// TaskStatusChange is the result of a task status update: the updated row,
// what it transitioned from, and the parent PRP's name for response
// composition.
type TaskStatusChange struct {
	Task      PRPTask
	OldStatus types.TaskStatus
	PRPName   string
}

// SyncStateUpdate describes a sync-state write. On success set Status to
// synced with PageID and SyncedAt; on failure set Status to failed with Error,
// leaving PageID and SyncedAt untouched.
type SyncStateUpdate struct {
	Status   types.SyncStatus
	PageID   *string
	SyncedAt *time.Time
	Error    *string
}

// SyncRow is the per-PRP slice of sync state returned by sync-status checks.
type SyncRow struct {
	ID         uuid.UUID        `json:"id"`
	Name       string           `json:"name"`
	VideoTitle string           `json:"video_title"`
	SyncStatus types.SyncStatus `json:"notion_sync_status"`
	PageID     *string          `json:"notion_page_id,omitempty"`
	SyncedAt   *time.Time       `json:"notion_synced_at,omitempty"`
	SyncError  *string          `json:"notion_sync_error,omitempty"`
}
