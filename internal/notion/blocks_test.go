package notion

import (
	"fmt"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/prp-extractor/internal/types"
)

func sampleContent() *types.PRPContent {
	return &types.PRPContent{
		Name:            "Build a webhook relay",
		Description:     "Relay GitHub webhooks",
		Goal:            "Reliable fan-out",
		Why:             []string{"Polling wastes quota", "Webhooks are push-based"},
		What:            "An HTTP service forwarding payloads",
		SuccessCriteria: []string{"Payloads arrive within 5s"},
		Tasks: []types.PRPTaskInput{
			{Title: "Create listener", Description: "basic server", Type: types.TaskTypeCreate},
			{Title: "Verify signatures", Type: types.TaskTypeModify, FilePath: "internal/hook/verify.go"},
			{Title: "Sketch retry loop", Type: types.TaskTypeDesign, Pseudocode: "for attempt := 0; ..."},
		},
	}
}

func sampleSource() SourceInfo {
	return SourceInfo{
		PRPID:        "9b30d4e7-9215-4a7c-9df1-9e4c8c1f2a11",
		URL:          "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		VideoTitle:   "Building a webhook relay",
		ChannelTitle: "Infra Talks",
		CreatedBy:    "alice",
		TaskCount:    3,
		SyncStatus:   types.SyncStatusSynced,
	}
}

func blockTypes(blocks []notionapi.Block) []notionapi.BlockType {
	out := make([]notionapi.BlockType, len(blocks))
	for i, b := range blocks {
		out[i] = b.GetType()
	}
	return out
}

func TestBuildPageBlocksOrderedSequence(t *testing.T) {
	blocks := buildPageBlocks(sampleContent(), sampleSource())
	kinds := blockTypes(blocks)

	want := []notionapi.BlockType{
		notionapi.BlockTypeHeading1,         // PRP name
		notionapi.BlockTypeParagraph,        // description
		notionapi.BlockTypeHeading2,         // Video Information
		notionapi.BlockTypeParagraph,        // video title
		notionapi.BlockTypeParagraph,        // channel
		notionapi.BlockTypeParagraph,        // link
		notionapi.BlockTypeHeading2,         // Goal
		notionapi.BlockTypeParagraph,        // goal text
		notionapi.BlockTypeHeading2,         // Why
		notionapi.BlockTypeBulletedListItem, // why 1
		notionapi.BlockTypeBulletedListItem, // why 2
		notionapi.BlockTypeHeading2,         // What
		notionapi.BlockTypeParagraph,        // what text
		notionapi.BlockTypeHeading2,         // Success Criteria
		notionapi.BlockTypeToDo,             // criterion 1
		notionapi.BlockTypeHeading2,         // Tasks
		notionapi.BlockTypeHeading3,         // task 1
		notionapi.BlockTypeParagraph,        // task 1 description
		notionapi.BlockTypeHeading3,         // task 2
		notionapi.BlockTypeCallout,          // task 2 file path
		notionapi.BlockTypeHeading3,         // task 3
		notionapi.BlockTypeCode,             // task 3 pseudocode
	}
	assert.Equal(t, want, kinds)
}

func TestBuildPageBlocksCeiling(t *testing.T) {
	content := sampleContent()
	content.Tasks = nil
	for i := 0; i < 120; i++ {
		content.Tasks = append(content.Tasks, types.PRPTaskInput{
			Title:       fmt.Sprintf("Task %d", i+1),
			Description: "d",
			Type:        types.TaskTypeOther,
		})
	}

	blocks := buildPageBlocks(content, sampleSource())
	assert.Len(t, blocks, maxBlocksPerCreate)
}

func TestBuildPageProperties(t *testing.T) {
	src := sampleSource()
	props := buildPageProperties(sampleContent(), src)

	for _, key := range []string{"Name", "Source URL", "Video Title", "Channel", "Created By", "PRP ID", "Task Count", "Status"} {
		assert.Contains(t, props, key)
	}

	prpID, ok := props["PRP ID"].(notionapi.RichTextProperty)
	require.True(t, ok)
	require.Len(t, prpID.RichText, 1)
	assert.Equal(t, src.PRPID, prpID.RichText[0].Text.Content)

	count, ok := props["Task Count"].(notionapi.NumberProperty)
	require.True(t, ok)
	assert.Equal(t, float64(3), count.Number)

	status, ok := props["Status"].(notionapi.SelectProperty)
	require.True(t, ok)
	assert.Equal(t, "Synced", status.Select.Name)
}

func TestBuildPatchProperties(t *testing.T) {
	props := buildPatchProperties(PropertyPatch{
		Name:       "Renamed",
		VideoTitle: "New title",
		TaskCount:  7,
		SyncStatus: types.SyncStatusFailed,
	})

	assert.Len(t, props, 4)
	assert.Contains(t, props, "Name")
	assert.Contains(t, props, "Video Title")
	assert.Contains(t, props, "Task Count")
	assert.Contains(t, props, "Status")
	// Re-sync patches never touch content blocks or provenance properties.
	assert.NotContains(t, props, "Source URL")
	assert.NotContains(t, props, "PRP ID")

	status := props["Status"].(notionapi.SelectProperty)
	assert.Equal(t, "Failed", status.Select.Name)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Synced", statusLabel(types.SyncStatusSynced))
	assert.Equal(t, "Failed", statusLabel(types.SyncStatusFailed))
	assert.Equal(t, "Syncing", statusLabel(types.SyncStatusSyncing))
	assert.Equal(t, "Not Synced", statusLabel(types.SyncStatusNotSynced))
}
