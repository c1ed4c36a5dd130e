package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/prp-extractor/internal/types"
)

const prpColumns = `id, name, youtube_url, video_id, video_title, video_description,
	channel_title, published_at, duration, transcript, content, created_by,
	created_at, updated_at, notion_page_id, notion_sync_status, notion_synced_at, notion_sync_error`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPRP(row rowScanner) (*ParsedPRP, error) {
	var p ParsedPRP
	err := row.Scan(
		&p.ID, &p.Name, &p.YoutubeURL, &p.VideoID, &p.VideoTitle, &p.VideoDescription,
		&p.ChannelTitle, &p.PublishedAt, &p.Duration, &p.Transcript, &p.Content, &p.CreatedBy,
		&p.CreatedAt, &p.UpdatedAt, &p.NotionPageID, &p.SyncStatus, &p.SyncedAt, &p.SyncError,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// InsertPRP inserts a PRP row and its initial task batch in one transaction.
// Initial tasks get order 1..N in input order.
func (s *Store) InsertPRP(ctx context.Context, prp NewPRP, initialTasks []types.PRPTaskInput) (*ParsedPRP, []PRPTask, error) {
	var inserted *ParsedPRP
	var tasks []PRPTask

	err := s.withTx(ctx, "insert prp", func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO parsed_prps (name, youtube_url, video_id, video_title, video_description,
				channel_title, published_at, duration, transcript, content, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING `+prpColumns,
			prp.Name, prp.YoutubeURL, prp.VideoID, prp.VideoTitle, prp.VideoDescription,
			prp.ChannelTitle, prp.PublishedAt, prp.Duration, prp.Transcript, prp.Content, prp.CreatedBy,
		)
		var err error
		inserted, err = scanPRP(row)
		if err != nil {
			return &StorageError{Op: "insert prp", Cause: err}
		}

		tasks = make([]PRPTask, 0, len(initialTasks))
		for i, input := range initialTasks {
			task, err := insertTask(ctx, tx, inserted.ID, i+1, input)
			if err != nil {
				return &StorageError{Op: "insert initial tasks", Cause: err}
			}
			tasks = append(tasks, task)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return inserted, tasks, nil
}

// GetPRP fetches a single PRP row by id.
func (s *Store) GetPRP(ctx context.Context, id uuid.UUID) (*ParsedPRP, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+prpColumns+` FROM parsed_prps WHERE id = $1`, id)
	prp, err := scanPRP(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Kind: "prp", ID: id.String()}
		}
		return nil, &StorageError{Op: "get prp", Cause: err}
	}
	return prp, nil
}

// ListSummaries returns a filtered, paginated page of the prp_summaries view,
// newest first, plus the total number of matching rows.
func (s *Store) ListSummaries(ctx context.Context, filter SummaryFilter, limit, offset int) ([]PRPSummary, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	argNum := 1

	if filter.CreatedBy != "" {
		where += fmt.Sprintf(" AND created_by = $%d", argNum)
		args = append(args, filter.CreatedBy)
		argNum++
	}
	if filter.SyncStatus != "" {
		where += fmt.Sprintf(" AND notion_sync_status = $%d", argNum)
		args = append(args, filter.SyncStatus)
		argNum++
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM prp_summaries`+where, args...).Scan(&total); err != nil {
		return nil, 0, &StorageError{Op: "count summaries", Cause: err}
	}

	query := `SELECT id, name, youtube_url, video_id, video_title, channel_title,
		created_by, created_at, notion_sync_status,
		task_count, pending_count, in_progress_count, completed_count, blocked_count
		FROM prp_summaries` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, &StorageError{Op: "list summaries", Cause: err}
	}
	defer rows.Close()

	summaries := make([]PRPSummary, 0, limit)
	for rows.Next() {
		var sum PRPSummary
		if err := rows.Scan(
			&sum.ID, &sum.Name, &sum.YoutubeURL, &sum.VideoID, &sum.VideoTitle, &sum.ChannelTitle,
			&sum.CreatedBy, &sum.CreatedAt, &sum.SyncStatus,
			&sum.TaskCount, &sum.PendingCount, &sum.InProgressCount, &sum.CompletedCount, &sum.BlockedCount,
		); err != nil {
			return nil, 0, &StorageError{Op: "scan summary", Cause: err}
		}
		summaries = append(summaries, sum)
	}
	return summaries, total, nil
}

// UpdateSyncState writes a single PRP's sync state. On success the error
// column is cleared; on failure the page id and synced-at columns keep their
// prior values.
func (s *Store) UpdateSyncState(ctx context.Context, prpID uuid.UUID, update SyncStateUpdate) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE parsed_prps SET
			notion_sync_status = $2,
			notion_page_id = COALESCE($3, notion_page_id),
			notion_synced_at = COALESCE($4, notion_synced_at),
			notion_sync_error = CASE WHEN $2 = 'synced' THEN NULL ELSE COALESCE($5, notion_sync_error) END,
			updated_at = NOW()
		WHERE id = $1`,
		prpID, update.Status, update.PageID, update.SyncedAt, update.Error,
	)
	if err != nil {
		return &StorageError{Op: "update sync state", Cause: err}
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Kind: "prp", ID: prpID.String()}
	}
	return nil
}

// ListSyncStates returns the sync-state slice of PRPs, optionally narrowed to
// a set of ids and/or one sync status.
func (s *Store) ListSyncStates(ctx context.Context, prpIDs []uuid.UUID, syncStatus types.SyncStatus) ([]SyncRow, error) {
	query := `SELECT id, name, video_title, notion_sync_status, notion_page_id, notion_synced_at, notion_sync_error
		FROM parsed_prps WHERE 1=1`
	args := []any{}
	argNum := 1

	if len(prpIDs) > 0 {
		query += fmt.Sprintf(" AND id = ANY($%d)", argNum)
		args = append(args, prpIDs)
		argNum++
	}
	if syncStatus != "" {
		query += fmt.Sprintf(" AND notion_sync_status = $%d", argNum)
		args = append(args, syncStatus)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, &StorageError{Op: "list sync states", Cause: err}
	}
	defer rows.Close()

	var states []SyncRow
	for rows.Next() {
		var row SyncRow
		if err := rows.Scan(&row.ID, &row.Name, &row.VideoTitle, &row.SyncStatus, &row.PageID, &row.SyncedAt, &row.SyncError); err != nil {
			return nil, &StorageError{Op: "scan sync state", Cause: err}
		}
		states = append(states, row)
	}
	return states, nil
}
