package llm

import (
	"fmt"
	"strings"
)

// UpstreamError represents a failure from the generative-AI API.
type UpstreamError struct {
	Op         string
	StatusCode int
	Message    string
	Cause      error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("llm %s failed: HTTP %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("llm %s failed: %s", e.Op, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// InvalidResponseFormatError indicates the model's response was not syntactically
// valid JSON. It is never retried.
type InvalidResponseFormatError struct {
	Cause error
}

func (e *InvalidResponseFormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("model response is not valid JSON: %v", e.Cause)
	}
	return "model response is not valid JSON"
}

func (e *InvalidResponseFormatError) Unwrap() error {
	return e.Cause
}

// MalformedExtractionError indicates the model returned valid JSON that does
// not match the PRP content shape. It is never retried and never coerced.
type MalformedExtractionError struct {
	Violations []string
}

func (e *MalformedExtractionError) Error() string {
	if len(e.Violations) == 0 {
		return "extracted PRP does not match the expected shape"
	}
	return fmt.Sprintf("extracted PRP does not match the expected shape: %s", strings.Join(e.Violations, "; "))
}
