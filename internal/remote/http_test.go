package remote_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"scribe/internal/logging"
	"scribe/internal/remote"
	"scribe/internal/testsupport"
)

func newTestClient(t *testing.T, handler http.Handler) *remote.HTTPClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg := testsupport.NewConfig(t, testsupport.WithBaseURL(server.URL))
	return remote.NewHTTPClient(cfg, nil, nil)
}

func TestSubmitReturnsTaskID(t *testing.T) {
	var gotPayload map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/process" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"task_id": "abc-123"})
	}))

	id, err := client.Submit(context.Background(), remote.SubmitRequest{
		URL:             "https://example.com/v",
		KeepAudio:       true,
		EncryptedSecret: "ciphertext",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if id != "abc-123" {
		t.Fatalf("unexpected task id %q", id)
	}
	if gotPayload["url"] != "https://example.com/v" || gotPayload["keep_audio"] != true {
		t.Fatalf("unexpected payload: %#v", gotPayload)
	}
	if gotPayload["encrypted_cookie_data"] != "ciphertext" {
		t.Fatalf("expected secret to be forwarded, got %#v", gotPayload)
	}
}

func TestSubmitRejectionWrapsSubmissionError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unsupported url"})
	}))

	_, err := client.Submit(context.Background(), remote.SubmitRequest{URL: "ftp://nope"})
	if !errors.Is(err, remote.ErrSubmission) {
		t.Fatalf("expected ErrSubmission, got %v", err)
	}
}

func TestSubmitTransportErrorIsTransient(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithBaseURL("http://127.0.0.1:1"))
	client := remote.NewHTTPClient(cfg, nil, nil)

	_, err := client.Submit(context.Background(), remote.SubmitRequest{URL: "https://example.com/v"})
	if !errors.Is(err, remote.ErrTransient) {
		t.Fatalf("expected ErrTransient, got %v", err)
	}
}

func TestPollDecodesProcessing(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/status/abc-123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":   "processing",
			"progress": "transcribing audio",
		})
	}))

	result, err := client.Poll(context.Background(), "abc-123")
	if err != nil {
		t.Fatalf("Poll failed: %v", err)
	}
	if result.State != remote.StateProcessing || result.Progress != "transcribing audio" {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestPollDecodesCompletedResult(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "completed",
			"result": map[string]any{
				"text":      "你好",
				"timestamp": [][]float64{{0, 120}, {120, 480}},
				"audio_url": "/api/audio/abc-123",
			},
		})
	}))

	result, err := client.Poll(context.Background(), "abc-123")
	if err != nil {
		t.Fatalf("Poll failed: %v", err)
	}
	if result.State != remote.StateCompleted {
		t.Fatalf("expected completed state, got %s", result.State)
	}
	if result.Transcript != "你好" {
		t.Fatalf("unexpected transcript %q", result.Transcript)
	}
	if len(result.Timings) != 2 || result.Timings[1].Start != 120 || result.Timings[1].End != 480 {
		t.Fatalf("unexpected timings: %#v", result.Timings)
	}
	if result.AudioRef == nil || *result.AudioRef != "/api/audio/abc-123" {
		t.Fatalf("unexpected audio ref: %v", result.AudioRef)
	}
}

func TestPollFallsBackToTranscriptionField(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "completed",
			"result": map[string]any{
				"transcription": "hello world",
				"timestamp":     [][]float64{{0, 500}},
			},
		})
	}))

	result, err := client.Poll(context.Background(), "abc-123")
	if err != nil {
		t.Fatalf("Poll failed: %v", err)
	}
	if result.Transcript != "hello world" {
		t.Fatalf("unexpected transcript %q", result.Transcript)
	}
	if result.AudioRef != nil {
		t.Fatalf("expected nil audio ref, got %v", result.AudioRef)
	}
}

func TestPollDecodesFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "failed",
			"error":  "download failed",
		})
	}))

	result, err := client.Poll(context.Background(), "abc-123")
	if err != nil {
		t.Fatalf("Poll failed: %v", err)
	}
	if result.State != remote.StateFailed || result.Message != "download failed" {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestPollServerErrorIsTransient(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.Poll(context.Background(), "abc-123")
	if !errors.Is(err, remote.ErrTransient) {
		t.Fatalf("expected ErrTransient, got %v", err)
	}
}

func TestFetchAudioResolvesRelativeRef(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/audio/abc-123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte("audio-bytes"))
	}))

	body, err := client.FetchAudio(context.Background(), "abc-123", "/api/audio/abc-123")
	if err != nil {
		t.Fatalf("FetchAudio failed: %v", err)
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read audio body: %v", err)
	}
	if string(data) != "audio-bytes" {
		t.Fatalf("unexpected audio payload %q", data)
	}
}

func TestFetchAudioDefaultsEndpointAndReportsMissing(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/audio/abc-123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.FetchAudio(context.Background(), "abc-123", "")
	if !errors.Is(err, remote.ErrNotAvailable) {
		t.Fatalf("expected ErrNotAvailable, got %v", err)
	}
}

func TestDeleteAudioTreatsMissingAsSuccess(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusNoContent, http.StatusNotFound} {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				t.Errorf("unexpected method %s", r.Method)
			}
			w.WriteHeader(status)
		}))
		if err := client.DeleteAudio(context.Background(), "abc-123"); err != nil {
			t.Fatalf("DeleteAudio with status %d failed: %v", status, err)
		}
	}
}

func TestRequestsLogCorrelationID(t *testing.T) {
	var gotHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Request-ID")
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "processing"})
	}))
	t.Cleanup(server.Close)

	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	cfg := testsupport.NewConfig(t, testsupport.WithBaseURL(server.URL))
	client := remote.NewHTTPClient(cfg, nil, logger)

	if _, err := client.Poll(context.Background(), "abc-123"); err != nil {
		t.Fatalf("Poll failed: %v", err)
	}
	if gotHeader == "" {
		t.Fatal("expected X-Request-ID header")
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry: %v\n%s", err, buf.String())
	}
	if entry["correlation_id"] != gotHeader {
		t.Fatalf("logged correlation id %v does not match header %q", entry["correlation_id"], gotHeader)
	}
}

func TestCleanupReportsDeletedCount(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/cleanup" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var payload map[string]int
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload["max_age_hours"] != 24 {
			t.Errorf("unexpected max_age_hours %d", payload["max_age_hours"])
		}
		_ = json.NewEncoder(w).Encode(map[string]int{"deleted_count": 7})
	}))

	deleted, err := client.Cleanup(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if deleted != 7 {
		t.Fatalf("expected 7 deleted, got %d", deleted)
	}
}
