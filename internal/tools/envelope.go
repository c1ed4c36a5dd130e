package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jonathan/prp-extractor/internal/db"
	"github.com/jonathan/prp-extractor/internal/llm"
	"github.com/jonathan/prp-extractor/internal/notion"
	"github.com/jonathan/prp-extractor/internal/retry"
	"github.com/jonathan/prp-extractor/internal/youtube"
)

// successEnvelope is the uniform shape of every successful tool response.
type successEnvelope struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// errorEnvelope is the uniform shape of every failed tool response. Errors
// cross the tool boundary as results, never as protocol errors.
type errorEnvelope struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

func successResult(message string, data any) *mcp.CallToolResult {
	payload, err := json.Marshal(successEnvelope{Message: message, Data: data})
	if err != nil {
		return mcp.NewToolResultError(`{"error":"failed to encode response"}`)
	}
	return mcp.NewToolResultText(string(payload))
}

func errorResult(err error, details map[string]any) *mcp.CallToolResult {
	env := errorEnvelope{Error: publicMessage(err), Details: details}
	payload, mErr := json.Marshal(env)
	if mErr != nil {
		return mcp.NewToolResultError(`{"error":"failed to encode response"}`)
	}
	return mcp.NewToolResultError(string(payload))
}

// publicMessage maps an internal error to a caller-safe summary. Raw
// transport errors, connection strings, and credentials never reach the
// caller; each error kind has a fixed public rendering.
func publicMessage(err error) string {
	var (
		invalidURL  *youtube.InvalidURLError
		videoMissed *youtube.NotFoundError
		forbidden   *ForbiddenError
		badInput    *InvalidInputError
		notWired    *NotConfiguredError
		notFound    *db.NotFoundError
		storage     *db.StorageError
		badFormat   *llm.InvalidResponseFormatError
		malformed   *llm.MalformedExtractionError
		dbMissed    *notion.DatabaseNotFoundError
		rateLimited *retry.RateLimitError
	)
	switch {
	case errors.As(err, &invalidURL):
		return invalidURL.Error()
	case errors.As(err, &videoMissed):
		return fmt.Sprintf("video not found: %s", videoMissed.VideoID)
	case errors.As(err, &forbidden):
		return "you are not authorized to perform this operation"
	case errors.As(err, &badInput):
		return badInput.Error()
	case errors.As(err, &notWired):
		return notWired.Error()
	case errors.As(err, &notFound):
		return notFound.Error()
	case errors.As(err, &storage):
		return storage.Error()
	case errors.As(err, &badFormat):
		return "the extraction model returned output that is not valid JSON"
	case errors.As(err, &malformed):
		return fmt.Sprintf("the extracted PRP is incomplete: %s", strings.Join(malformed.Violations, "; "))
	case errors.As(err, &dbMissed):
		return fmt.Sprintf("Notion database not found: %s", dbMissed.DatabaseID)
	case errors.As(err, &rateLimited):
		return "an upstream service is rate limiting requests, try again later"
	}

	var ytUpstream *youtube.UpstreamError
	if errors.As(err, &ytUpstream) {
		return "the YouTube API request failed"
	}
	var llmUpstream *llm.UpstreamError
	if errors.As(err, &llmUpstream) {
		return "the extraction model request failed"
	}
	var notionUpstream *notion.UpstreamError
	if errors.As(err, &notionUpstream) {
		return "the Notion API request failed"
	}
	return "an internal error occurred"
}
