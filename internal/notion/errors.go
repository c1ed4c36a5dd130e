package notion

import "fmt"

// DatabaseNotFoundError indicates the target Notion database does not exist or
// the integration has no access to it.
type DatabaseNotFoundError struct {
	DatabaseID string
}

func (e *DatabaseNotFoundError) Error() string {
	return fmt.Sprintf("notion database not found: %s", e.DatabaseID)
}

// UpstreamError represents a non-retryable failure from the Notion API.
type UpstreamError struct {
	Op         string
	StatusCode int
	Message    string
	Cause      error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("notion %s failed: HTTP %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("notion %s failed: %s", e.Op, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}
