package youtube

import "fmt"

// InvalidURLError indicates the supplied URL does not match any known YouTube
// URL shape. It is raised locally, before any network call.
type InvalidURLError struct {
	URL string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid YouTube URL: %s", e.URL)
}

// NotFoundError indicates the video does not exist or is not visible to the
// API key.
type NotFoundError struct {
	VideoID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("video not found: %s", e.VideoID)
}

// UpstreamError represents a non-retryable failure from the YouTube Data API.
type UpstreamError struct {
	Op         string
	StatusCode int
	Message    string
	Cause      error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("youtube %s failed: HTTP %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("youtube %s failed: %s", e.Op, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}
