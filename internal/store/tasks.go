package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"scribe/internal/subtitle"
)

const taskColumns = `id, source_url, status, progress, keep_audio, transcript, timings_json, audio_path, error_message, created_at, updated_at`

const defaultListLimit = 100

// Upsert writes the full task record, inserting or replacing by id.
func (s *Store) Upsert(ctx context.Context, task *Task) error {
	if task == nil {
		return fmt.Errorf("upsert task: nil task")
	}
	if task.ID == "" {
		return fmt.Errorf("upsert task: empty id")
	}

	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now

	timingsJSON, err := marshalTimings(task.Timings)
	if err != nil {
		return fmt.Errorf("encode timings for task %s: %w", task.ID, err)
	}

	_, err = s.execWithRetry(ctx, `
INSERT INTO tasks (`+taskColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    source_url = excluded.source_url,
    status = excluded.status,
    progress = excluded.progress,
    keep_audio = excluded.keep_audio,
    transcript = excluded.transcript,
    timings_json = excluded.timings_json,
    audio_path = excluded.audio_path,
    error_message = excluded.error_message,
    updated_at = excluded.updated_at`,
		task.ID,
		task.SourceURL,
		string(task.Status),
		nullableString(task.Progress),
		boolToInt(task.KeepAudio),
		nullableString(task.Transcript),
		timingsJSON,
		nullableString(task.AudioPath),
		nullableString(task.ErrorMessage),
		formatTime(task.CreatedAt),
		formatTime(task.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert task %s: %w", task.ID, err)
	}
	return nil
}

// GetByID returns the task with the given id, or nil when absent.
func (s *Store) GetByID(ctx context.Context, id string) (*Task, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return task, nil
}

// ListRecent returns up to limit tasks, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]*Task, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan task row: %w", scanErr)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task rows: %w", err)
	}
	return tasks, nil
}

// ListActive returns tasks that still need polling, oldest first.
func (s *Store) ListActive(ctx context.Context) ([]*Task, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE status IN (?, ?) ORDER BY created_at ASC`,
		string(StatusSubmitted), string(StatusProcessing))
	if err != nil {
		return nil, fmt.Errorf("list active tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan task row: %w", scanErr)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task rows: %w", err)
	}
	return tasks, nil
}

// ClearAudioPath removes the stored audio path for a task.
func (s *Store) ClearAudioPath(ctx context.Context, id string) error {
	_, err := s.execWithRetry(ctx, `UPDATE tasks SET audio_path = NULL, updated_at = ? WHERE id = ?`,
		formatTime(time.Now().UTC()), id)
	if err != nil {
		return fmt.Errorf("clear audio path for task %s: %w", id, err)
	}
	return nil
}

// Delete removes the task with the given id.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.execWithRetry(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

// DeleteOlderThan removes tasks created before now minus age and
// returns how many rows were deleted.
func (s *Store) DeleteOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := formatTime(time.Now().UTC().Add(-age))
	res, err := s.execWithRetry(ctx, `DELETE FROM tasks WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete tasks older than %s: %w", age, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted tasks: %w", err)
	}
	return int(affected), nil
}

// Stats returns the number of tasks per status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM tasks GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("query task stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int, len(allStatuses))
	for rows.Next() {
		var (
			raw   string
			count int
		)
		if err := rows.Scan(&raw, &count); err != nil {
			return nil, fmt.Errorf("scan stats row: %w", err)
		}
		if status, ok := ParseStatus(raw); ok {
			stats[status] = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stats rows: %w", err)
	}
	return stats, nil
}

func marshalTimings(timings []subtitle.CharTiming) (any, error) {
	if len(timings) == 0 {
		return nil, nil
	}
	encoded, err := json.Marshal(timings)
	if err != nil {
		return nil, err
	}
	return string(encoded), nil
}
