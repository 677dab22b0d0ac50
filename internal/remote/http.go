package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"scribe/internal/config"
	"scribe/internal/logging"
	"scribe/internal/subtitle"
)

// HTTPDoer describes the HTTP client used to reach the service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPClient implements Client against the service's JSON API.
type HTTPClient struct {
	baseURL        string
	client         HTTPDoer
	logger         *slog.Logger
	requestTimeout time.Duration
	fetchTimeout   time.Duration
}

// NewHTTPClient builds a client from config. A nil doer uses a dedicated
// http.Client without its own timeout; deadlines come from per-call
// contexts instead.
func NewHTTPClient(cfg *config.Config, doer HTTPDoer, logger *slog.Logger) *HTTPClient {
	if doer == nil {
		doer = &http.Client{}
	}
	return &HTTPClient{
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.Remote.BaseURL), "/"),
		client:         doer,
		logger:         logging.NewComponentLogger(logger, "remote"),
		requestTimeout: time.Duration(cfg.Remote.RequestTimeout) * time.Second,
		fetchTimeout:   time.Duration(cfg.Remote.FetchTimeout) * time.Second,
	}
}

type submitPayload struct {
	URL                 string `json:"url"`
	KeepAudio           bool   `json:"keep_audio"`
	EncryptedCookieData string `json:"encrypted_cookie_data,omitempty"`
}

type submitResponse struct {
	TaskID string `json:"task_id"`
	Error  string `json:"error"`
}

func (c *HTTPClient) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	ctx, cancel := c.withTimeout(ctx, c.requestTimeout)
	defer cancel()

	payload := submitPayload{
		URL:                 req.URL,
		KeepAudio:           req.KeepAudio,
		EncryptedCookieData: req.EncryptedSecret,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode submit payload: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/api/process", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: submit: %w", ErrTransient, err)
	}
	defer resp.Body.Close()

	var decoded submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: decode submit response: %w", ErrSubmission, err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		msg := decoded.Error
		if msg == "" {
			msg = resp.Status
		}
		return "", fmt.Errorf("%w: %s", ErrSubmission, msg)
	}
	if decoded.TaskID == "" {
		return "", fmt.Errorf("%w: service returned no task id", ErrSubmission)
	}
	return decoded.TaskID, nil
}

type statusResponse struct {
	Status   string           `json:"status"`
	Progress string           `json:"progress"`
	Error    string           `json:"error"`
	Result   *statusResultDoc `json:"result"`
}

type statusResultDoc struct {
	Text          string                `json:"text"`
	Transcription string                `json:"transcription"`
	Timestamp     []subtitle.CharTiming `json:"timestamp"`
	AudioURL      *string               `json:"audio_url"`
}

func (c *HTTPClient) Poll(ctx context.Context, taskID string) (PollResult, error) {
	ctx, cancel := c.withTimeout(ctx, c.requestTimeout)
	defer cancel()

	httpReq, err := c.newRequest(ctx, http.MethodGet, "/api/status/"+taskID, nil)
	if err != nil {
		return PollResult{}, err
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return PollResult{}, fmt.Errorf("%w: poll %s: %w", ErrTransient, taskID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return PollResult{}, fmt.Errorf("%w: poll %s returned %d", ErrTransient, taskID, resp.StatusCode)
	}

	var decoded statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return PollResult{}, fmt.Errorf("%w: decode status for %s: %w", ErrTransient, taskID, err)
	}
	return pollResultFromStatus(decoded)
}

func pollResultFromStatus(doc statusResponse) (PollResult, error) {
	switch strings.ToLower(strings.TrimSpace(doc.Status)) {
	case "completed":
		if doc.Result == nil {
			return PollResult{}, fmt.Errorf("%w: completed status without result", ErrTransient)
		}
		transcript := doc.Result.Text
		if transcript == "" {
			transcript = doc.Result.Transcription
		}
		return PollResult{
			State:      StateCompleted,
			Transcript: transcript,
			Timings:    doc.Result.Timestamp,
			AudioRef:   doc.Result.AudioURL,
		}, nil
	case "failed":
		message := doc.Error
		if message == "" {
			message = "remote task failed"
		}
		return PollResult{State: StateFailed, Message: message}, nil
	default:
		progress := doc.Progress
		if progress == "" {
			progress = doc.Status
		}
		return PollResult{State: StateProcessing, Progress: progress}, nil
	}
}

func (c *HTTPClient) FetchAudio(ctx context.Context, taskID, ref string) (io.ReadCloser, error) {
	ctx, cancel := c.withTimeout(ctx, c.fetchTimeout)

	path := ref
	if path == "" {
		path = "/api/audio/" + taskID
	}
	httpReq, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		cancel()
		return nil, err
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: fetch audio for %s: %w", ErrTransient, taskID, err)
	}
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("%w: audio for task %s", ErrNotAvailable, taskID)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("%w: fetch audio for %s returned %d", ErrTransient, taskID, resp.StatusCode)
	}
	return &cancelReadCloser{body: resp.Body, cancel: cancel}, nil
}

func (c *HTTPClient) DeleteAudio(ctx context.Context, taskID string) error {
	ctx, cancel := c.withTimeout(ctx, c.requestTimeout)
	defer cancel()

	httpReq, err := c.newRequest(ctx, http.MethodDelete, "/api/audio/"+taskID, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: delete audio for %s: %w", ErrTransient, taskID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return fmt.Errorf("%w: delete audio for %s returned %d", ErrTransient, taskID, resp.StatusCode)
	}
}

type cleanupPayload struct {
	MaxAgeHours int `json:"max_age_hours"`
}

type cleanupResponse struct {
	DeletedCount int `json:"deleted_count"`
}

func (c *HTTPClient) Cleanup(ctx context.Context, maxAge time.Duration) (int, error) {
	ctx, cancel := c.withTimeout(ctx, c.requestTimeout)
	defer cancel()

	hours := int(maxAge.Hours())
	if hours < 1 {
		hours = 1
	}
	body, err := json.Marshal(cleanupPayload{MaxAgeHours: hours})
	if err != nil {
		return 0, fmt.Errorf("encode cleanup payload: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/api/cleanup", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("%w: cleanup: %w", ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: cleanup returned %d", ErrTransient, resp.StatusCode)
	}

	var decoded cleanupResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return 0, fmt.Errorf("%w: decode cleanup response: %w", ErrTransient, err)
	}
	return decoded.DeletedCount, nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	url := path
	if strings.HasPrefix(path, "/") {
		url = c.baseURL + path
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	correlationID := uuid.NewString()
	req.Header.Set("X-Request-ID", correlationID)
	c.logger.Debug("remote request",
		logging.String("method", method),
		logging.String("path", path),
		logging.String(logging.FieldCorrelationID, correlationID),
	)
	return req, nil
}

func (c *HTTPClient) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// cancelReadCloser ties the request's timeout to the lifetime of the
// streamed body so callers can read past the call return.
type cancelReadCloser struct {
	body   io.ReadCloser
	cancel context.CancelFunc
}

func (r *cancelReadCloser) Read(p []byte) (int, error) {
	return r.body.Read(p)
}

func (r *cancelReadCloser) Close() error {
	r.cancel()
	return r.body.Close()
}
