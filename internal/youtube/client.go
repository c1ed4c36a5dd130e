// Package youtube provides the video metadata client for the PRP pipeline.
// It wraps the YouTube Data API v3 for metadata and caption-track discovery.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/jonathan/prp-extractor/internal/retry"
)

// TranscriptUnavailableLabel prefixes the fallback transcript built from the
// video description when caption text cannot be downloaded.
const TranscriptUnavailableLabel = "[Transcript unavailable - using video description]"

// Metadata holds the subset of video information the pipeline needs.
type Metadata struct {
	ID           string
	Title        string
	Description  string
	ChannelTitle string
	PublishedAt  time.Time
	// Duration is the compact human rendering, e.g. "1h 2m 3s".
	Duration string
}

// Client fetches video metadata and transcripts from the Data API.
type Client struct {
	service *yt.Service
	policy  retry.Policy
	logger  zerolog.Logger
}

// NewClient creates a metadata client authenticated with an API key.
func NewClient(ctx context.Context, apiKey string, logger zerolog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}
	service, err := yt.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &Client{
		service: service,
		policy:  retry.DefaultPolicy(),
		logger:  logger,
	}, nil
}

// GetVideoMetadata fetches the snippet and duration for a video.
// Missing videos fail with *NotFoundError; transport failures are retried and
// otherwise surface as *UpstreamError.
func (c *Client) GetVideoMetadata(ctx context.Context, videoID string) (*Metadata, error) {
	var resp *yt.VideoListResponse
	err := retry.Do(ctx, c.policy, "videos.list", isTransient, func(ctx context.Context) error {
		var callErr error
		resp, callErr = c.service.Videos.List([]string{"snippet", "contentDetails"}).
			Id(videoID).
			Context(ctx).
			Do()
		return classify("videos.list", callErr)
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Items) == 0 {
		return nil, &NotFoundError{VideoID: videoID}
	}

	item := resp.Items[0]
	meta := &Metadata{
		ID:           videoID,
		Title:        item.Snippet.Title,
		Description:  item.Snippet.Description,
		ChannelTitle: item.Snippet.ChannelTitle,
		Duration:     FormatDuration(item.ContentDetails.Duration),
	}
	if ts, parseErr := time.Parse(time.RFC3339, item.Snippet.PublishedAt); parseErr == nil {
		meta.PublishedAt = ts
	}
	return meta, nil
}

// GetTranscript returns the best-effort transcript for a video. Caption tracks
// are discovered via captions.list, but downloading caption text requires
// owner-level OAuth scope an API key does not carry, so the description is
// always returned as a labeled fallback. A failure here degrades extraction
// quality but never fails the pipeline.
func (c *Client) GetTranscript(ctx context.Context, videoID, description string) string {
	var resp *yt.CaptionListResponse
	err := retry.Do(ctx, c.policy, "captions.list", isTransient, func(ctx context.Context) error {
		var callErr error
		resp, callErr = c.service.Captions.List([]string{"snippet"}, videoID).
			Context(ctx).
			Do()
		return classify("captions.list", callErr)
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("video_id", videoID).Msg("caption track discovery failed")
	} else if resp != nil {
		c.logger.Debug().Str("video_id", videoID).Int("caption_tracks", len(resp.Items)).Msg("caption tracks discovered")
	}

	return fmt.Sprintf("%s\n\n%s", TranscriptUnavailableLabel, description)
}

// classify maps a Data API error onto the pipeline error taxonomy.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 429 || isQuotaError(apiErr):
			return &retry.RateLimitError{Op: op, RetryAfter: retryAfter(apiErr), Cause: err}
		case apiErr.Code == 404:
			return &UpstreamError{Op: op, StatusCode: 404, Message: "resource not found", Cause: err}
		default:
			return &UpstreamError{Op: op, StatusCode: apiErr.Code, Message: apiErr.Message, Cause: err}
		}
	}
	return &UpstreamError{Op: op, Message: "request failed", Cause: err}
}

// isTransient treats server-side failures and bare transport errors as
// retryable; 4xx responses (other than rate limits, handled separately) are
// final.
func isTransient(err error) bool {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.StatusCode == 0 || upstream.StatusCode >= 500
	}
	return false
}

func isQuotaError(apiErr *googleapi.Error) bool {
	if apiErr.Code != 403 {
		return false
	}
	for _, item := range apiErr.Errors {
		if strings.Contains(item.Reason, "ateLimit") || strings.Contains(item.Reason, "uotaExceeded") {
			return true
		}
	}
	return false
}

func retryAfter(apiErr *googleapi.Error) time.Duration {
	if apiErr.Header == nil {
		return 0
	}
	if v := apiErr.Header.Get("Retry-After"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			return d
		}
	}
	return 0
}
