package tools

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/prp-extractor/internal/db"
	"github.com/jonathan/prp-extractor/internal/notion"
	"github.com/jonathan/prp-extractor/internal/types"
	"github.com/jonathan/prp-extractor/internal/youtube"
)

// fakeStore is an in-memory Store that mimics the ordering and
// completion-stamping behavior of the real one.
type fakeStore struct {
	prps    map[uuid.UUID]*db.ParsedPRP
	tasks   map[uuid.UUID][]db.PRPTask
	created []uuid.UUID

	summaries  []db.PRPSummary
	totalCount int

	syncWrites []db.SyncStateUpdate
	// failSyncWriteOn makes UpdateSyncState fail for that target status.
	failSyncWriteOn types.SyncStatus

	insertCalls int
	writeCalls  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		prps:  make(map[uuid.UUID]*db.ParsedPRP),
		tasks: make(map[uuid.UUID][]db.PRPTask),
	}
}

func (f *fakeStore) InsertPRP(_ context.Context, prp db.NewPRP, initialTasks []types.PRPTaskInput) (*db.ParsedPRP, []db.PRPTask, error) {
	f.insertCalls++
	f.writeCalls++
	now := time.Now().UTC()
	row := &db.ParsedPRP{
		ID:           uuid.New(),
		Name:         prp.Name,
		YoutubeURL:   prp.YoutubeURL,
		VideoID:      prp.VideoID,
		VideoTitle:   prp.VideoTitle,
		ChannelTitle: prp.ChannelTitle,
		Duration:     prp.Duration,
		Transcript:   prp.Transcript,
		Content:      prp.Content,
		CreatedBy:    prp.CreatedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
		SyncStatus:   types.SyncStatusNotSynced,
	}
	f.prps[row.ID] = row
	f.created = append(f.created, row.ID)
	var tasks []db.PRPTask
	for i, input := range initialTasks {
		tasks = append(tasks, taskFromInput(row.ID, i+1, input))
	}
	f.tasks[row.ID] = tasks
	return row, tasks, nil
}

func taskFromInput(prpID uuid.UUID, order int, input types.PRPTaskInput) db.PRPTask {
	now := time.Now().UTC()
	return db.PRPTask{
		ID:          uuid.New(),
		PRPID:       prpID,
		Order:       order,
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		Status:      types.TaskStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (f *fakeStore) GetPRP(_ context.Context, id uuid.UUID) (*db.ParsedPRP, error) {
	prp, ok := f.prps[id]
	if !ok {
		return nil, &db.NotFoundError{Kind: "prp", ID: id.String()}
	}
	copied := *prp
	return &copied, nil
}

func (f *fakeStore) ListSummaries(_ context.Context, _ db.SummaryFilter, limit, offset int) ([]db.PRPSummary, int, error) {
	if offset >= len(f.summaries) {
		return nil, f.totalCount, nil
	}
	end := offset + limit
	if end > len(f.summaries) {
		end = len(f.summaries)
	}
	return f.summaries[offset:end], f.totalCount, nil
}

func (f *fakeStore) GetTasks(_ context.Context, prpID uuid.UUID) ([]db.PRPTask, error) {
	return f.tasks[prpID], nil
}

func (f *fakeStore) AppendTasks(_ context.Context, prpID uuid.UUID, inputs []types.PRPTaskInput) ([]db.PRPTask, error) {
	f.writeCalls++
	if _, ok := f.prps[prpID]; !ok {
		return nil, &db.NotFoundError{Kind: "prp", ID: prpID.String()}
	}
	existing := f.tasks[prpID]
	var added []db.PRPTask
	for i, input := range inputs {
		added = append(added, taskFromInput(prpID, len(existing)+i+1, input))
	}
	f.tasks[prpID] = append(existing, added...)
	return added, nil
}

func (f *fakeStore) UpdateTaskStatus(_ context.Context, taskID uuid.UUID, newStatus types.TaskStatus, actingUser string) (*db.TaskStatusChange, error) {
	f.writeCalls++
	for prpID, tasks := range f.tasks {
		for i, task := range tasks {
			if task.ID != taskID {
				continue
			}
			old := task.Status
			task.Status = newStatus
			if newStatus == types.TaskStatusCompleted {
				now := time.Now().UTC()
				task.CompletedAt = &now
				task.CompletedBy = &actingUser
			}
			f.tasks[prpID][i] = task
			return &db.TaskStatusChange{Task: task, OldStatus: old, PRPName: f.prps[prpID].Name}, nil
		}
	}
	return nil, &db.NotFoundError{Kind: "task", ID: taskID.String()}
}

func (f *fakeStore) UpdateSyncState(_ context.Context, prpID uuid.UUID, update db.SyncStateUpdate) error {
	f.writeCalls++
	if f.failSyncWriteOn != "" && update.Status == f.failSyncWriteOn {
		return &db.StorageError{Op: "update sync state"}
	}
	prp, ok := f.prps[prpID]
	if !ok {
		return &db.NotFoundError{Kind: "prp", ID: prpID.String()}
	}
	prp.SyncStatus = update.Status
	if update.PageID != nil {
		prp.NotionPageID = update.PageID
	}
	if update.SyncedAt != nil {
		prp.SyncedAt = update.SyncedAt
	}
	prp.SyncError = update.Error
	f.syncWrites = append(f.syncWrites, update)
	return nil
}

func (f *fakeStore) ListSyncStates(_ context.Context, prpIDs []uuid.UUID, syncStatus types.SyncStatus) ([]db.SyncRow, error) {
	var rows []db.SyncRow
	for _, id := range f.created {
		prp := f.prps[id]
		if len(prpIDs) > 0 && !containsID(prpIDs, id) {
			continue
		}
		if syncStatus != "" && prp.SyncStatus != syncStatus {
			continue
		}
		rows = append(rows, db.SyncRow{
			ID:         prp.ID,
			Name:       prp.Name,
			VideoTitle: prp.VideoTitle,
			SyncStatus: prp.SyncStatus,
			PageID:     prp.NotionPageID,
			SyncedAt:   prp.SyncedAt,
			SyncError:  prp.SyncError,
		})
	}
	return rows, nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

type fakeVideos struct {
	meta       *youtube.Metadata
	metaErr    error
	transcript string
	calls      int
}

func (f *fakeVideos) GetVideoMetadata(_ context.Context, videoID string) (*youtube.Metadata, error) {
	f.calls++
	if f.metaErr != nil {
		return nil, f.metaErr
	}
	meta := *f.meta
	meta.ID = videoID
	return &meta, nil
}

func (f *fakeVideos) GetTranscript(_ context.Context, _, description string) string {
	f.calls++
	if f.transcript != "" {
		return f.transcript
	}
	return description
}

type fakeExtractor struct {
	content   *types.PRPContent
	parseErr  error
	moreTasks []types.PRPTaskInput
	moreErr   error
	calls     int
}

func (f *fakeExtractor) ParsePRP(_ context.Context, _ string, _ *youtube.Metadata) (*types.PRPContent, error) {
	f.calls++
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	return f.content, nil
}

func (f *fakeExtractor) ExtractMoreTasks(_ context.Context, _ *types.PRPContent, _, maxCount int) ([]types.PRPTaskInput, error) {
	f.calls++
	if f.moreErr != nil {
		return nil, f.moreErr
	}
	if len(f.moreTasks) > maxCount {
		return f.moreTasks[:maxCount], nil
	}
	return f.moreTasks, nil
}

type fakeSyncer struct {
	createID  string
	createErr error
	updateErr error
	findID    string
	findErr   error

	createCalls int
	updateCalls int
	findCalls   int
	lastPatch   notion.PropertyPatch
}

func (f *fakeSyncer) CreatePage(_ context.Context, _ string, _ *types.PRPContent, _ notion.SourceInfo) (string, error) {
	f.createCalls++
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.createID, nil
}

func (f *fakeSyncer) UpdatePage(_ context.Context, _ string, patch notion.PropertyPatch) error {
	f.updateCalls++
	f.lastPatch = patch
	return f.updateErr
}

func (f *fakeSyncer) FindPageByPRPID(_ context.Context, _, _ string) (string, error) {
	f.findCalls++
	if f.findErr != nil {
		return "", f.findErr
	}
	return f.findID, nil
}

func callReq(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

// decodeResult unpacks the JSON envelope from a tool result. For success
// envelopes it returns the message and data; for error envelopes the error
// text and details.
func decodeResult(t *testing.T, res *mcp.CallToolResult) (string, map[string]any) {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")

	if res.IsError {
		var env errorEnvelope
		require.NoError(t, json.Unmarshal([]byte(text.Text), &env))
		return env.Error, env.Details
	}
	var env struct {
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &env))
	return env.Message, env.Data
}

func sampleContent(taskCount int) *types.PRPContent {
	content := &types.PRPContent{
		Name:            "Build a CLI gardener",
		Description:     "A tool that waters plants on a schedule",
		Goal:            "Ship a watering scheduler",
		Why:             []string{"plants keep dying"},
		What:            "A daemon with a cron-like schedule",
		SuccessCriteria: []string{"plants survive a month"},
	}
	for i := 0; i < taskCount; i++ {
		content.Tasks = append(content.Tasks, types.PRPTaskInput{
			Title:       "Task " + string(rune('A'+i)),
			Description: "do the thing",
			Type:        types.TaskTypeCreate,
		})
	}
	return content
}

func newTestHandler(store *fakeStore, videos *fakeVideos, extractor *fakeExtractor, syncer PageSyncer, username string) *Handler {
	opts := Options{
		Store:             store,
		Videos:            videos,
		Extractor:         extractor,
		Authorizer:        allowOnly("alice"),
		Username:          username,
		DefaultDatabaseID: "default-db",
		Logger:            zerolog.Nop(),
	}
	if syncer != nil {
		opts.Syncer = syncer
	}
	return NewHandler(opts)
}

type allowOnly string

func (a allowOnly) IsPrivileged(username string) bool { return username == string(a) }
