// Package tools exposes the PRP pipeline as MCP tools: parsing YouTube
// videos into PRP documents, listing and inspecting them, growing their
// task lists, and mirroring them to Notion.
package tools

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan/prp-extractor/internal/auth"
	"github.com/jonathan/prp-extractor/internal/db"
	"github.com/jonathan/prp-extractor/internal/notion"
	"github.com/jonathan/prp-extractor/internal/types"
	"github.com/jonathan/prp-extractor/internal/youtube"
)

// Store is the persistence surface the handlers depend on.
type Store interface {
	InsertPRP(ctx context.Context, prp db.NewPRP, initialTasks []types.PRPTaskInput) (*db.ParsedPRP, []db.PRPTask, error)
	GetPRP(ctx context.Context, id uuid.UUID) (*db.ParsedPRP, error)
	ListSummaries(ctx context.Context, filter db.SummaryFilter, limit, offset int) ([]db.PRPSummary, int, error)
	GetTasks(ctx context.Context, prpID uuid.UUID) ([]db.PRPTask, error)
	AppendTasks(ctx context.Context, prpID uuid.UUID, inputs []types.PRPTaskInput) ([]db.PRPTask, error)
	UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, newStatus types.TaskStatus, actingUser string) (*db.TaskStatusChange, error)
	UpdateSyncState(ctx context.Context, prpID uuid.UUID, update db.SyncStateUpdate) error
	ListSyncStates(ctx context.Context, prpIDs []uuid.UUID, syncStatus types.SyncStatus) ([]db.SyncRow, error)
}

// VideoSource fetches video metadata and transcripts.
type VideoSource interface {
	GetVideoMetadata(ctx context.Context, videoID string) (*youtube.Metadata, error)
	GetTranscript(ctx context.Context, videoID, description string) string
}

// PRPExtractor turns transcripts into structured PRP documents.
type PRPExtractor interface {
	ParsePRP(ctx context.Context, transcript string, meta *youtube.Metadata) (*types.PRPContent, error)
	ExtractMoreTasks(ctx context.Context, content *types.PRPContent, currentCount, maxCount int) ([]types.PRPTaskInput, error)
}

// PageSyncer mirrors PRP documents into a Notion database.
type PageSyncer interface {
	CreatePage(ctx context.Context, databaseID string, content *types.PRPContent, src notion.SourceInfo) (string, error)
	UpdatePage(ctx context.Context, pageID string, patch notion.PropertyPatch) error
	FindPageByPRPID(ctx context.Context, databaseID, prpID string) (string, error)
}

// Handler carries the collaborators shared by all tool handlers. Each
// invocation is an independent unit of work; all state lives in the store.
type Handler struct {
	store     Store
	videos    VideoSource
	extractor PRPExtractor
	syncer    PageSyncer
	authz     auth.Authorizer
	username  string
	defaultDB string
	logger    zerolog.Logger
}

// Options configures a Handler.
type Options struct {
	Store     Store
	Videos    VideoSource
	Extractor PRPExtractor
	// Syncer may be nil when no Notion token is configured; sync tools
	// then report the integration as unavailable.
	Syncer     PageSyncer
	Authorizer auth.Authorizer
	// Username identifies the caller of this server process.
	Username string
	// DefaultDatabaseID is the Notion database used when a tool call
	// does not name one.
	DefaultDatabaseID string
	Logger            zerolog.Logger
}

// NewHandler creates the tool handler set.
func NewHandler(opts Options) *Handler {
	return &Handler{
		store:     opts.Store,
		videos:    opts.Videos,
		extractor: opts.Extractor,
		syncer:    opts.Syncer,
		authz:     opts.Authorizer,
		username:  opts.Username,
		defaultDB: opts.DefaultDatabaseID,
		logger:    opts.Logger,
	}
}

// requirePrivilege returns a ForbiddenError when the configured caller is
// not on the allow-list. It runs before any external call or database write.
func (h *Handler) requirePrivilege(tool string) error {
	if h.authz == nil || !h.authz.IsPrivileged(h.username) {
		return &ForbiddenError{Username: h.username, Tool: tool}
	}
	return nil
}
