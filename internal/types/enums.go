package types

// TaskType categorizes the kind of work a PRP task describes.
type TaskType string

// Task type constants cover the categories the extraction model may assign.
const (
	TaskTypeCreate   TaskType = "create"
	TaskTypeModify   TaskType = "modify"
	TaskTypeTest     TaskType = "test"
	TaskTypeDeploy   TaskType = "deploy"
	TaskTypeAnalyze  TaskType = "analyze"
	TaskTypeDesign   TaskType = "design"
	TaskTypeDocument TaskType = "document"
	TaskTypeResearch TaskType = "research"
	TaskTypeReview   TaskType = "review"
	TaskTypeOther    TaskType = "other"
)

// Valid reports whether t is a known task type.
func (t TaskType) Valid() bool {
	switch t {
	case TaskTypeCreate, TaskTypeModify, TaskTypeTest, TaskTypeDeploy,
		TaskTypeAnalyze, TaskTypeDesign, TaskTypeDocument, TaskTypeResearch,
		TaskTypeReview, TaskTypeOther:
		return true
	}
	return false
}

// TaskStatus is the lifecycle state of a single PRP task.
type TaskStatus string

// Task status constants.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusBlocked    TaskStatus = "blocked"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusBlocked:
		return true
	}
	return false
}

// SyncStatus tracks whether a PRP has been mirrored to Notion.
type SyncStatus string

// Sync status constants.
const (
	SyncStatusNotSynced SyncStatus = "not_synced"
	SyncStatusSyncing   SyncStatus = "syncing"
	SyncStatusSynced    SyncStatus = "synced"
	SyncStatusFailed    SyncStatus = "failed"
)

// Valid reports whether s is a known sync status.
func (s SyncStatus) Valid() bool {
	switch s {
	case SyncStatusNotSynced, SyncStatusSyncing, SyncStatusSynced, SyncStatusFailed:
		return true
	}
	return false
}

// DocRefType is the kind of documentation reference attached to a PRP context.
type DocRefType string

// Documentation reference types.
const (
	DocRefURL     DocRefType = "url"
	DocRefFile    DocRefType = "file"
	DocRefDocfile DocRefType = "docfile"
)

// Valid reports whether d is a known documentation reference type.
func (d DocRefType) Valid() bool {
	switch d {
	case DocRefURL, DocRefFile, DocRefDocfile:
		return true
	}
	return false
}
