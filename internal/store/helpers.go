package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"scribe/internal/subtitle"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*Task, error) {
	var (
		task         Task
		status       string
		progress     sql.NullString
		keepAudio    int
		transcript   sql.NullString
		timingsJSON  sql.NullString
		audioPath    sql.NullString
		errorMessage sql.NullString
		createdAt    string
		updatedAt    string
	)

	err := row.Scan(
		&task.ID,
		&task.SourceURL,
		&status,
		&progress,
		&keepAudio,
		&transcript,
		&timingsJSON,
		&audioPath,
		&errorMessage,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	parsed, ok := ParseStatus(status)
	if !ok {
		return nil, fmt.Errorf("task %s has unknown status %q", task.ID, status)
	}
	task.Status = parsed
	task.Progress = progress.String
	task.KeepAudio = keepAudio != 0
	task.Transcript = transcript.String
	task.AudioPath = audioPath.String
	task.ErrorMessage = errorMessage.String

	if timingsJSON.Valid && timingsJSON.String != "" {
		var timings []subtitle.CharTiming
		if err := json.Unmarshal([]byte(timingsJSON.String), &timings); err != nil {
			return nil, fmt.Errorf("decode timings for task %s: %w", task.ID, err)
		}
		task.Timings = timings
	}

	task.CreatedAt, err = parseTimeString(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at for task %s: %w", task.ID, err)
	}
	task.UpdatedAt, err = parseTimeString(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at for task %s: %w", task.ID, err)
	}

	return &task, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func formatTime(value time.Time) string {
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
