package db

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/prp-extractor/internal/types"
)

func TestDecodeContent(t *testing.T) {
	raw := json.RawMessage(`{
		"name": "demo",
		"goal": "ship it",
		"why": ["because"],
		"success_criteria": ["works"],
		"tasks": [{"title": "do it", "type": "create"}]
	}`)
	prp := &ParsedPRP{Content: raw}

	content, err := prp.DecodeContent()
	require.NoError(t, err)
	assert.Equal(t, "demo", content.Name)
	assert.Len(t, content.Tasks, 1)
}

func TestDecodeContentCorrupt(t *testing.T) {
	prp := &ParsedPRP{Content: json.RawMessage(`{broken`)}

	_, err := prp.DecodeContent()
	var storageErr *StorageError
	assert.ErrorAs(t, err, &storageErr)
}

func TestStorageErrorSanitized(t *testing.T) {
	cause := assert.AnError
	err := &StorageError{Op: "insert prp", Cause: cause}

	// The public message names the operation only; the driver error stays
	// behind Unwrap.
	assert.Equal(t, "database operation failed: insert prp", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestNotFoundError(t *testing.T) {
	err := &NotFoundError{Kind: "task", ID: "abc"}
	assert.Equal(t, "task not found: abc", err.Error())
}

func TestSchemaDeclaresConstraints(t *testing.T) {
	// The schema carries the data-model invariants; spot-check the ones the
	// store relies on.
	assert.Contains(t, schemaSQL, "ON DELETE CASCADE")
	assert.Contains(t, schemaSQL, "UNIQUE (prp_id, task_order)")
	assert.Contains(t, schemaSQL, "CREATE OR REPLACE VIEW prp_summaries")
	for _, status := range []types.SyncStatus{types.SyncStatusNotSynced, types.SyncStatusSyncing, types.SyncStatusSynced, types.SyncStatusFailed} {
		assert.Contains(t, schemaSQL, string(status))
	}
}
