package remote

import (
	"context"
	"io"
	"time"

	"scribe/internal/subtitle"
)

// State is the remote-reported phase of a polled task.
type State string

const (
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// SubmitRequest carries everything the service needs to start a job.
type SubmitRequest struct {
	URL             string
	KeepAudio       bool
	EncryptedSecret string
}

// PollResult is one decoded status response. State selects which of the
// remaining fields are meaningful: Progress for processing, Transcript,
// Timings and AudioRef for completed, Message for failed.
type PollResult struct {
	State      State
	Progress   string
	Transcript string
	Timings    []subtitle.CharTiming
	AudioRef   *string
	Message    string
}

// Client is the orchestrator's view of the transcription service.
type Client interface {
	// Submit starts a job and returns the service-assigned task id.
	// A rejected submission wraps ErrSubmission.
	Submit(ctx context.Context, req SubmitRequest) (string, error)

	// Poll fetches the current status of a task. Transport failures
	// wrap ErrTransient so callers can retry on the next tick.
	Poll(ctx context.Context, taskID string) (PollResult, error)

	// FetchAudio streams the retained audio blob for a completed task.
	// ref is the reference reported at completion; an empty ref falls
	// back to the conventional audio endpoint. Wraps ErrNotAvailable
	// when the service no longer holds the blob.
	FetchAudio(ctx context.Context, taskID, ref string) (io.ReadCloser, error)

	// DeleteAudio removes the retained blob on the service side.
	// Deleting an already-removed blob is not an error.
	DeleteAudio(ctx context.Context, taskID string) error

	// Cleanup asks the service to discard tasks older than maxAge and
	// returns how many it removed.
	Cleanup(ctx context.Context, maxAge time.Duration) (int, error)
}
