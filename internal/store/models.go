package store

import (
	"strings"
	"time"

	"scribe/internal/subtitle"
)

// Status represents the lifecycle of a task.
type Status string

const (
	StatusCreated    Status = "created"
	StatusSubmitted  Status = "submitted"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

var allStatuses = []Status{
	StatusCreated,
	StatusSubmitted,
	StatusProcessing,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether a status admits no further polling.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// IsActive reports whether a status keeps the task in the polling pool.
func (s Status) IsActive() bool {
	return s == StatusSubmitted || s == StatusProcessing
}

// Task is one transcription job tracked end-to-end, local and remote.
//
// Transcript and Timings are set together when the remote job completes;
// AudioPath is only set for completed tasks created with KeepAudio.
type Task struct {
	ID           string
	SourceURL    string
	Status       Status
	Progress     string
	KeepAudio    bool
	Transcript   string
	Timings      []subtitle.CharTiming
	AudioPath    string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SetFailed marks the task failed with the given message.
func (t *Task) SetFailed(message string) {
	t.Status = StatusFailed
	t.ErrorMessage = message
	t.Progress = message
}

// SetCompleted records the transcript and its character timings together.
func (t *Task) SetCompleted(transcript string, timings []subtitle.CharTiming) {
	t.Status = StatusCompleted
	t.Transcript = transcript
	t.Timings = timings
	t.Progress = "completed"
	t.ErrorMessage = ""
}

// HasResult reports whether the task carries a transcript with timings.
func (t *Task) HasResult() bool {
	return t.Transcript != "" && len(t.Timings) > 0
}
