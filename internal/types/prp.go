// Package types provides type definitions for structured data used throughout the PRP extraction pipeline.
package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// PRPContent is the structured Product Requirements Prompt document extracted
// from a video transcript. It is stored serialized on its parent PRP row and
// is never persisted independently.
type PRPContent struct {
	Name            string         `json:"name" validate:"required,min=1"`
	Description     string         `json:"description"`
	Goal            string         `json:"goal" validate:"required,min=1"`
	Why             []string       `json:"why" validate:"required,min=1,dive,min=1"`
	What            string         `json:"what"`
	SuccessCriteria []string       `json:"success_criteria" validate:"required,min=1,dive,min=1"`
	Context         PRPContext     `json:"context"`
	Tasks           []PRPTaskInput `json:"tasks" validate:"required,min=1,dive"`
}

// PRPContext carries supporting references extracted alongside the PRP body.
type PRPContext struct {
	Documentation []DocRef `json:"documentation" validate:"dive"`
	CodebaseTree  string   `json:"codebase_tree,omitempty"`
	Gotchas       []string `json:"gotchas"`
}

// DocRef is a single documentation pointer in a PRP context.
type DocRef struct {
	Type DocRefType `json:"type" validate:"required,oneof=url file docfile"`
	Path string     `json:"path" validate:"required"`
	Why  string     `json:"why"`
}

// PRPTaskInput is a task-shaped value before persistence assigns identity and
// order. The extraction client produces these; the store turns them into rows.
type PRPTaskInput struct {
	Title       string   `json:"title" validate:"required,min=1"`
	Description string   `json:"description"`
	Type        TaskType `json:"type" validate:"required"`
	FilePath    string   `json:"file_path,omitempty"`
	Pseudocode  string   `json:"pseudocode,omitempty"`
}

// Validate checks the PRPContent against the shape contract: required free-text
// fields present, rationale and success-criteria lists non-empty, documentation
// references well-typed, and at least one task with a known type.
func (c *PRPContent) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	for i, task := range c.Tasks {
		if !task.Type.Valid() {
			return fmt.Errorf("tasks[%d].type: unknown task type %q", i, task.Type)
		}
	}
	return nil
}
