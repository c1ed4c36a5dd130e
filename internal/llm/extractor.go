package llm

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/prp-extractor/internal/prompts"
	"github.com/jonathan/prp-extractor/internal/retry"
	"github.com/jonathan/prp-extractor/internal/types"
	"github.com/jonathan/prp-extractor/internal/youtube"
)

//go:embed prp_schema.json
var prpSchemaJSON []byte

// Extractor turns transcripts into structured PRP content via the LLM client.
type Extractor struct {
	client Client
	policy retry.Policy
	schema *gojsonschema.Schema
}

// NewExtractor builds an Extractor around an LLM client.
func NewExtractor(client Client) (*Extractor, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(prpSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to compile PRP content schema: %w", err)
	}
	return &Extractor{
		client: client,
		policy: retry.DefaultPolicy(),
		schema: schema,
	}, nil
}

// ParsePRP extracts a full PRP document from a transcript and its video
// metadata. The raw model output is schema-validated before any field is
// accessed; JSON-syntax failures surface as *InvalidResponseFormatError and
// shape mismatches as *MalformedExtractionError. Neither is retried.
func (e *Extractor) ParsePRP(ctx context.Context, transcript string, meta *youtube.Metadata) (*types.PRPContent, error) {
	template := prompts.MustGet("extraction.json", "extract-prp")
	prompt := prompts.Format(template, map[string]string{
		"Title":       meta.Title,
		"Channel":     meta.ChannelTitle,
		"Duration":    meta.Duration,
		"Description": meta.Description,
		"Transcript":  transcript,
	})

	raw, err := e.generate(ctx, prompt, TierAdvanced)
	if err != nil {
		return nil, err
	}

	return e.decodeContent(raw)
}

// ExtractMoreTasks asks for up to maxCount additional tasks for an existing
// PRP. The returned list is truncated to maxCount; items missing a title,
// description or type are defaulted rather than failing the batch.
func (e *Extractor) ExtractMoreTasks(ctx context.Context, content *types.PRPContent, currentCount, maxCount int) ([]types.PRPTaskInput, error) {
	template := prompts.MustGet("extraction.json", "extract-more-tasks")
	prompt := prompts.Format(template, map[string]string{
		"Name":      content.Name,
		"Goal":      content.Goal,
		"What":      content.What,
		"TaskCount": strconv.Itoa(currentCount),
		"MaxTasks":  strconv.Itoa(maxCount),
	})

	raw, err := e.generate(ctx, prompt, TierLite)
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, &InvalidResponseFormatError{Cause: err}
	}
	if len(items) > maxCount {
		items = items[:maxCount]
	}

	tasks := make([]types.PRPTaskInput, 0, len(items))
	for i, item := range items {
		var task types.PRPTaskInput
		// A partially malformed item falls back to placeholders instead of
		// failing the whole batch.
		_ = json.Unmarshal(item, &task)
		if task.Title == "" {
			task.Title = fmt.Sprintf("Task %d", currentCount+i+1)
			task.Description = ""
		}
		if !task.Type.Valid() {
			task.Type = types.TaskTypeOther
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// generate runs one model call under the shared retry policy.
func (e *Extractor) generate(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	var raw string
	err := retry.Do(ctx, e.policy, "generate", isTransient, func(ctx context.Context) error {
		var callErr error
		raw, callErr = e.client.GenerateJSON(ctx, prompt, tier)
		return callErr
	})
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(raw), nil
}

// decodeContent validates raw model JSON against the PRP schema and decodes it.
func (e *Extractor) decodeContent(raw string) (*types.PRPContent, error) {
	var probe any
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return nil, &InvalidResponseFormatError{Cause: err}
	}

	result, err := e.schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, &InvalidResponseFormatError{Cause: err}
	}
	if !result.Valid() {
		violations := make([]string, 0, len(result.Errors()))
		for _, ve := range result.Errors() {
			violations = append(violations, fmt.Sprintf("%s: %s", ve.Field(), ve.Description()))
		}
		return nil, &MalformedExtractionError{Violations: violations}
	}

	var content types.PRPContent
	if err := json.Unmarshal([]byte(raw), &content); err != nil {
		return nil, &InvalidResponseFormatError{Cause: err}
	}
	if err := content.Validate(); err != nil {
		return nil, &MalformedExtractionError{Violations: []string{err.Error()}}
	}
	return &content, nil
}

// isTransient reports whether an LLM upstream failure is worth retrying.
// Decode failures are typed and final by construction.
func isTransient(err error) bool {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.StatusCode == 0 || upstream.StatusCode >= 500
	}
	return false
}
