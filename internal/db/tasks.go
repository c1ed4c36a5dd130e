package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/prp-extractor/internal/types"
)

const taskColumns = `id, prp_id, task_order, title, description, task_type,
	file_path, pseudocode, status, completed_at, completed_by, created_at, updated_at`

func scanTask(row rowScanner) (PRPTask, error) {
	var t PRPTask
	err := row.Scan(
		&t.ID, &t.PRPID, &t.Order, &t.Title, &t.Description, &t.Type,
		&t.FilePath, &t.Pseudocode, &t.Status, &t.CompletedAt, &t.CompletedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// insertTask inserts one task row at the given order within a transaction.
func insertTask(ctx context.Context, tx pgx.Tx, prpID uuid.UUID, order int, input types.PRPTaskInput) (PRPTask, error) {
	row := tx.QueryRow(ctx, `
		INSERT INTO prp_tasks (prp_id, task_order, title, description, task_type, file_path, pseudocode)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''))
		RETURNING `+taskColumns,
		prpID, order, input.Title, input.Description, input.Type, input.FilePath, input.Pseudocode,
	)
	return scanTask(row)
}

// GetTasks returns a PRP's tasks ordered by task order ascending.
func (s *Store) GetTasks(ctx context.Context, prpID uuid.UUID) ([]PRPTask, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM prp_tasks WHERE prp_id = $1 ORDER BY task_order ASC`, prpID)
	if err != nil {
		return nil, &StorageError{Op: "get tasks", Cause: err}
	}
	defer rows.Close()

	var tasks []PRPTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, &StorageError{Op: "scan task", Cause: err}
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// AppendTasks inserts a batch of new tasks in one transaction, continuing the
// order sequence at (current max order + 1). The parent row's updated_at is
// refreshed as part of the same unit.
func (s *Store) AppendTasks(ctx context.Context, prpID uuid.UUID, inputs []types.PRPTaskInput) ([]PRPTask, error) {
	var tasks []PRPTask

	err := s.withTx(ctx, "append tasks", func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM parsed_prps WHERE id = $1)`, prpID).Scan(&exists); err != nil {
			return &StorageError{Op: "append tasks", Cause: err}
		}
		if !exists {
			return &NotFoundError{Kind: "prp", ID: prpID.String()}
		}

		var maxOrder int
		if err := tx.QueryRow(ctx,
			`SELECT COALESCE(MAX(task_order), 0) FROM prp_tasks WHERE prp_id = $1`, prpID).Scan(&maxOrder); err != nil {
			return &StorageError{Op: "append tasks", Cause: err}
		}

		tasks = make([]PRPTask, 0, len(inputs))
		for i, input := range inputs {
			task, err := insertTask(ctx, tx, prpID, maxOrder+i+1, input)
			if err != nil {
				return &StorageError{Op: "append tasks", Cause: err}
			}
			tasks = append(tasks, task)
		}

		if _, err := tx.Exec(ctx, `UPDATE parsed_prps SET updated_at = NOW() WHERE id = $1`, prpID); err != nil {
			return &StorageError{Op: "append tasks", Cause: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateTaskStatus updates a task's status in one transaction and reads back
// the parent PRP's name. Completion metadata is set only when the new status
// is completed; any other transition leaves completed_at/completed_by as they
// were.
func (s *Store) UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, newStatus types.TaskStatus, actingUser string) (*TaskStatusChange, error) {
	var change TaskStatusChange

	err := s.withTx(ctx, "update task status", func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`SELECT status FROM prp_tasks WHERE id = $1 FOR UPDATE`, taskID).Scan(&change.OldStatus)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return &NotFoundError{Kind: "task", ID: taskID.String()}
			}
			return &StorageError{Op: "update task status", Cause: err}
		}

		row := tx.QueryRow(ctx, `
			UPDATE prp_tasks SET
				status = $2,
				completed_at = CASE WHEN $2 = 'completed' THEN NOW() ELSE completed_at END,
				completed_by = CASE WHEN $2 = 'completed' THEN $3 ELSE completed_by END,
				updated_at = NOW()
			WHERE id = $1
			RETURNING `+taskColumns,
			taskID, newStatus, actingUser,
		)
		change.Task, err = scanTask(row)
		if err != nil {
			return &StorageError{Op: "update task status", Cause: err}
		}

		err = tx.QueryRow(ctx,
			`SELECT name FROM parsed_prps WHERE id = $1`, change.Task.PRPID).Scan(&change.PRPName)
		if err != nil {
			return &StorageError{Op: "read parent prp name", Cause: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &change, nil
}
