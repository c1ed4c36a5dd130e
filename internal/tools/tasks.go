package tools

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jonathan/prp-extractor/internal/db"
	"github.com/jonathan/prp-extractor/internal/types"
)

// ExtractTasksArgs are the arguments of extract_tasks.
type ExtractTasksArgs struct {
	PRPID    string `json:"prp_id" jsonschema:"required,description=PRP to extend with more tasks"`
	MaxTasks int    `json:"max_tasks" jsonschema:"default=20,description=Maximum number of new tasks (1-100)"`
}

type extractTasksResponse struct {
	PRPID      string       `json:"prp_id"`
	NewTasks   []db.PRPTask `json:"new_tasks"`
	AddedCount int          `json:"added_count"`
	TotalCount int          `json:"total_count"`
}

// ExtractTasks asks the model for additional tasks beyond the ones already
// stored and appends them, continuing the existing task ordering.
func (h *Handler) ExtractTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requirePrivilege("extract_tasks"); err != nil {
		return errorResult(err, map[string]any{"operation": "extract tasks"}), nil
	}

	var args ExtractTasksArgs
	if err := request.BindArguments(&args); err != nil {
		return errorResult(&InvalidInputError{Field: "arguments", Message: err.Error()}, nil), nil
	}
	prpID, err := uuid.Parse(args.PRPID)
	if err != nil {
		return errorResult(&InvalidInputError{Field: "prp_id", Message: "must be a UUID"}, nil), nil
	}
	if args.MaxTasks == 0 {
		args.MaxTasks = defaultPageSize
	}
	if args.MaxTasks < 1 || args.MaxTasks > maxPageSize {
		return errorResult(&InvalidInputError{Field: "max_tasks", Message: fmt.Sprintf("must be between 1 and %d", maxPageSize)}, nil), nil
	}

	details := map[string]any{"operation": "extract tasks", "prp_id": args.PRPID}

	prp, err := h.store.GetPRP(ctx, prpID)
	if err != nil {
		return errorResult(err, details), nil
	}
	content, err := prp.DecodeContent()
	if err != nil {
		return errorResult(err, details), nil
	}
	existing, err := h.store.GetTasks(ctx, prpID)
	if err != nil {
		return errorResult(err, details), nil
	}

	inputs, err := h.extractor.ExtractMoreTasks(ctx, content, len(existing), args.MaxTasks)
	if err != nil {
		return errorResult(err, details), nil
	}
	if len(inputs) == 0 {
		return successResult("no additional tasks were identified", extractTasksResponse{
			PRPID:      prp.ID.String(),
			NewTasks:   []db.PRPTask{},
			TotalCount: len(existing),
		}), nil
	}

	added, err := h.store.AppendTasks(ctx, prpID, inputs)
	if err != nil {
		return errorResult(err, details), nil
	}
	h.logger.Info().Str("tool", "extract_tasks").Str("prp_id", prp.ID.String()).Int("added", len(added)).Msg("appended tasks")

	return successResult(fmt.Sprintf("added %d tasks", len(added)), extractTasksResponse{
		PRPID:      prp.ID.String(),
		NewTasks:   added,
		AddedCount: len(added),
		TotalCount: len(existing) + len(added),
	}), nil
}

// UpdateTaskStatusArgs are the arguments of update_task_status.
type UpdateTaskStatusArgs struct {
	TaskID string `json:"task_id" jsonschema:"required,description=Task to update"`
	Status string `json:"status" jsonschema:"required,enum=pending,enum=in_progress,enum=completed,enum=blocked,description=New task status"`
}

type updateTaskStatusResponse struct {
	Task      db.PRPTask       `json:"task"`
	OldStatus types.TaskStatus `json:"old_status"`
	NewStatus types.TaskStatus `json:"new_status"`
	PRPName   string           `json:"prp_name"`
}

// UpdateTaskStatus transitions a task's lifecycle state. Completion stamps
// completed_at and completed_by; other transitions leave them untouched.
func (h *Handler) UpdateTaskStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requirePrivilege("update_task_status"); err != nil {
		return errorResult(err, map[string]any{"operation": "update task status"}), nil
	}

	var args UpdateTaskStatusArgs
	if err := request.BindArguments(&args); err != nil {
		return errorResult(&InvalidInputError{Field: "arguments", Message: err.Error()}, nil), nil
	}
	taskID, err := uuid.Parse(args.TaskID)
	if err != nil {
		return errorResult(&InvalidInputError{Field: "task_id", Message: "must be a UUID"}, nil), nil
	}
	status := types.TaskStatus(args.Status)
	if !status.Valid() {
		return errorResult(&InvalidInputError{Field: "status", Message: "unknown task status"}, nil), nil
	}

	change, err := h.store.UpdateTaskStatus(ctx, taskID, status, h.username)
	if err != nil {
		return errorResult(err, map[string]any{"operation": "update task status", "task_id": args.TaskID}), nil
	}

	return successResult(fmt.Sprintf("task moved from %s to %s", change.OldStatus, change.Task.Status), updateTaskStatusResponse{
		Task:      change.Task,
		OldStatus: change.OldStatus,
		NewStatus: change.Task.Status,
		PRPName:   change.PRPName,
	}), nil
}
