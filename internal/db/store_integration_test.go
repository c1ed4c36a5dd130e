package db

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/prp-extractor/internal/types"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	store, err := Connect(ctx, databaseURL)
	require.NoError(t, err)
	require.NoError(t, store.EnsureSchema(ctx))
	t.Cleanup(store.Close)
	return store
}

func testContent() json.RawMessage {
	return json.RawMessage(`{
		"name": "demo",
		"goal": "ship it",
		"why": ["because"],
		"success_criteria": ["works"],
		"tasks": [{"title": "do it", "type": "create"}]
	}`)
}

func insertTestPRP(t *testing.T, store *Store, createdBy string, taskCount int) (*ParsedPRP, []PRPTask) {
	t.Helper()
	inputs := make([]types.PRPTaskInput, 0, taskCount)
	for i := 0; i < taskCount; i++ {
		inputs = append(inputs, types.PRPTaskInput{
			Title: fmt.Sprintf("Task %d", i+1),
			Type:  types.TaskTypeCreate,
		})
	}

	prp, tasks, err := store.InsertPRP(context.Background(), NewPRP{
		Name:       "demo " + uuid.NewString(),
		YoutubeURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		VideoID:    "dQw4w9WgXcQ",
		VideoTitle: "Demo video",
		Content:    testContent(),
		CreatedBy:  createdBy,
	}, inputs)
	require.NoError(t, err)
	return prp, tasks
}

func TestIntegration_InsertAndGetPRP(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	prp, tasks := insertTestPRP(t, store, "alice", 3)
	assert.Equal(t, types.SyncStatusNotSynced, prp.SyncStatus)
	require.Len(t, tasks, 3)
	for i, task := range tasks {
		assert.Equal(t, i+1, task.Order)
		assert.Equal(t, types.TaskStatusPending, task.Status)
		assert.Nil(t, task.CompletedAt)
		assert.Nil(t, task.CompletedBy)
	}

	got, err := store.GetPRP(ctx, prp.ID)
	require.NoError(t, err)
	assert.Equal(t, prp.ID, got.ID)
	assert.JSONEq(t, string(prp.Content), string(got.Content))

	gotTasks, err := store.GetTasks(ctx, prp.ID)
	require.NoError(t, err)
	require.Len(t, gotTasks, 3)
	for i, task := range gotTasks {
		assert.Equal(t, i+1, task.Order)
	}
}

func TestIntegration_GetPRPNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetPRP(context.Background(), uuid.New())
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestIntegration_AppendTasksContinuesOrder(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	prp, _ := insertTestPRP(t, store, "alice", 3)

	appended, err := store.AppendTasks(ctx, prp.ID, []types.PRPTaskInput{
		{Title: "Extra 1", Type: types.TaskTypeTest},
		{Title: "Extra 2", Type: types.TaskTypeDocument},
	})
	require.NoError(t, err)
	require.Len(t, appended, 2)
	assert.Equal(t, 4, appended[0].Order)
	assert.Equal(t, 5, appended[1].Order)

	all, err := store.GetTasks(ctx, prp.ID)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i, task := range all {
		assert.Equal(t, i+1, task.Order, "orders must be contiguous with no gaps")
	}
}

func TestIntegration_AppendTasksMissingPRP(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.AppendTasks(context.Background(), uuid.New(), []types.PRPTaskInput{
		{Title: "x", Type: types.TaskTypeOther},
	})
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestIntegration_UpdateTaskStatusCompletionCoupling(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	prp, tasks := insertTestPRP(t, store, "alice", 1)
	taskID := tasks[0].ID

	change, err := store.UpdateTaskStatus(ctx, taskID, types.TaskStatusInProgress, "bob")
	require.NoError(t, err)
	assert.Equal(t, types.TaskStatusPending, change.OldStatus)
	assert.Equal(t, types.TaskStatusInProgress, change.Task.Status)
	assert.Equal(t, prp.Name, change.PRPName)
	assert.Nil(t, change.Task.CompletedAt)
	assert.Nil(t, change.Task.CompletedBy)

	change, err = store.UpdateTaskStatus(ctx, taskID, types.TaskStatusCompleted, "bob")
	require.NoError(t, err)
	require.NotNil(t, change.Task.CompletedAt)
	require.NotNil(t, change.Task.CompletedBy)
	assert.Equal(t, "bob", *change.Task.CompletedBy)

	// Moving away from completed keeps the prior completion metadata.
	change, err = store.UpdateTaskStatus(ctx, taskID, types.TaskStatusBlocked, "carol")
	require.NoError(t, err)
	assert.Equal(t, types.TaskStatusCompleted, change.OldStatus)
	require.NotNil(t, change.Task.CompletedAt)
	require.NotNil(t, change.Task.CompletedBy)
	assert.Equal(t, "bob", *change.Task.CompletedBy)
}

func TestIntegration_UpdateTaskStatusNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.UpdateTaskStatus(context.Background(), uuid.New(), types.TaskStatusCompleted, "bob")
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestIntegration_SyncStateTransitions(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	prp, _ := insertTestPRP(t, store, "alice", 1)

	// Failure first: error recorded, page id and synced-at untouched.
	syncErr := "notion pages.create failed: HTTP 502: bad gateway"
	require.NoError(t, store.UpdateSyncState(ctx, prp.ID, SyncStateUpdate{
		Status: types.SyncStatusFailed,
		Error:  &syncErr,
	}))

	got, err := store.GetPRP(ctx, prp.ID)
	require.NoError(t, err)
	assert.Equal(t, types.SyncStatusFailed, got.SyncStatus)
	require.NotNil(t, got.SyncError)
	assert.Equal(t, syncErr, *got.SyncError)
	assert.Nil(t, got.NotionPageID)
	assert.Nil(t, got.SyncedAt)

	// Success: page id and timestamp set, error cleared.
	pageID := "page-123"
	now := time.Now().UTC()
	require.NoError(t, store.UpdateSyncState(ctx, prp.ID, SyncStateUpdate{
		Status:   types.SyncStatusSynced,
		PageID:   &pageID,
		SyncedAt: &now,
	}))

	got, err = store.GetPRP(ctx, prp.ID)
	require.NoError(t, err)
	assert.Equal(t, types.SyncStatusSynced, got.SyncStatus)
	require.NotNil(t, got.NotionPageID)
	assert.Equal(t, pageID, *got.NotionPageID)
	assert.NotNil(t, got.SyncedAt)
	assert.Nil(t, got.SyncError)

	// Re-sync failure: error recorded again, prior page id retained.
	require.NoError(t, store.UpdateSyncState(ctx, prp.ID, SyncStateUpdate{
		Status: types.SyncStatusFailed,
		Error:  &syncErr,
	}))
	got, err = store.GetPRP(ctx, prp.ID)
	require.NoError(t, err)
	assert.Equal(t, types.SyncStatusFailed, got.SyncStatus)
	require.NotNil(t, got.NotionPageID)
	assert.Equal(t, pageID, *got.NotionPageID)
}

func TestIntegration_ListSummariesPagination(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	creator := "paginator-" + uuid.NewString()
	for i := 0; i < 21; i++ {
		insertTestPRP(t, store, creator, 2)
	}

	page, total, err := store.ListSummaries(ctx, SummaryFilter{CreatedBy: creator}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 21, total)
	assert.Len(t, page, 20)
	for _, sum := range page {
		assert.Equal(t, creator, sum.CreatedBy)
		assert.Equal(t, 2, sum.TaskCount)
		assert.Equal(t, 2, sum.PendingCount)
	}

	rest, total, err := store.ListSummaries(ctx, SummaryFilter{CreatedBy: creator}, 20, 20)
	require.NoError(t, err)
	assert.Equal(t, 21, total)
	assert.Len(t, rest, 1)
}

func TestIntegration_ListSyncStatesFilter(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	prpA, _ := insertTestPRP(t, store, "alice", 1)
	prpB, _ := insertTestPRP(t, store, "alice", 1)

	errMsg := "boom"
	require.NoError(t, store.UpdateSyncState(ctx, prpB.ID, SyncStateUpdate{
		Status: types.SyncStatusFailed,
		Error:  &errMsg,
	}))

	rows, err := store.ListSyncStates(ctx, []uuid.UUID{prpA.ID, prpB.ID}, types.SyncStatusFailed)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, prpB.ID, rows[0].ID)

	rows, err = store.ListSyncStates(ctx, []uuid.UUID{prpA.ID, prpB.ID}, "")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
