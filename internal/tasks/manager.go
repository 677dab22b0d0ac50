package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"scribe/internal/config"
	"scribe/internal/logging"
	"scribe/internal/remote"
	"scribe/internal/secrets"
	"scribe/internal/store"
)

// Manager owns the set of watcher goroutines for in-flight tasks and
// exposes the task operations the command layer builds on.
type Manager struct {
	cfg     *config.Config
	store   *store.Store
	client  remote.Client
	secrets secrets.Provider
	logger  *slog.Logger

	rootCtx    context.Context
	rootCancel context.CancelFunc

	mu       sync.Mutex
	watchers map[string]*watcher
	wg       sync.WaitGroup
	stopped  bool
}

// ManagerOption configures optional Manager behavior.
type ManagerOption func(*Manager)

// WithSecretProvider installs the provider used to seal per-submission
// credentials. Without one, submissions carry no secret.
func WithSecretProvider(provider secrets.Provider) ManagerOption {
	return func(m *Manager) {
		m.secrets = provider
	}
}

// NewManager constructs a task manager. Stop must be called to release
// the watcher pool.
func NewManager(cfg *config.Config, st *store.Store, client remote.Client, logger *slog.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		cfg:        cfg,
		store:      st,
		client:     client,
		logger:     logging.NewComponentLogger(logger, "tasks"),
		rootCtx:    ctx,
		rootCancel: cancel,
		watchers:   make(map[string]*watcher),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create submits a new job and persists the outcome. On acceptance the
// task is stored as submitted under the remote id and a watcher starts
// polling it. On rejection the task is stored as failed under a locally
// generated id so the failure stays visible in history.
func (m *Manager) Create(ctx context.Context, url string, keepAudio bool, secret []byte) (*store.Task, error) {
	req := remote.SubmitRequest{URL: url, KeepAudio: keepAudio}
	if len(secret) > 0 {
		if m.secrets == nil {
			return nil, errors.New("secret supplied but no secret provider configured")
		}
		sealed, err := m.secrets.Encrypt(secret)
		if err != nil {
			return nil, fmt.Errorf("seal submission secret: %w", err)
		}
		req.EncryptedSecret = sealed
	}

	taskID, submitErr := m.client.Submit(ctx, req)
	if submitErr != nil {
		task := &store.Task{
			ID:        "local-" + uuid.NewString(),
			SourceURL: url,
			KeepAudio: keepAudio,
		}
		task.SetFailed(submitErr.Error())
		if err := m.store.Upsert(ctx, task); err != nil {
			return nil, fmt.Errorf("record failed submission: %w", err)
		}
		m.logger.Warn("submission rejected",
			logging.String(logging.FieldTaskID, task.ID),
			logging.Error(submitErr),
		)
		return task, submitErr
	}

	task := &store.Task{
		ID:        taskID,
		SourceURL: url,
		Status:    store.StatusSubmitted,
		Progress:  "submitted",
		KeepAudio: keepAudio,
	}
	if err := m.store.Upsert(ctx, task); err != nil {
		return nil, fmt.Errorf("persist submitted task: %w", err)
	}

	m.startWatcher(task.ID)
	m.logger.Info("task submitted",
		logging.String(logging.FieldTaskID, task.ID),
		logging.Bool("keep_audio", keepAudio),
	)
	return task, nil
}

// Resume restarts watchers for every persisted task that is still
// waiting on the remote service. Called once after startup so jobs
// survive a restart of this process.
func (m *Manager) Resume(ctx context.Context) error {
	active, err := m.store.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active tasks: %w", err)
	}
	for _, task := range active {
		m.startWatcher(task.ID)
	}
	if len(active) > 0 {
		m.logger.Info("resumed active tasks", logging.Int("count", len(active)))
	}
	return nil
}

// Get returns the task with the given id, or nil when unknown.
func (m *Manager) Get(ctx context.Context, id string) (*store.Task, error) {
	return m.store.GetByID(ctx, id)
}

// ListRecent returns the most recent tasks, newest first.
func (m *Manager) ListRecent(ctx context.Context, limit int) ([]*store.Task, error) {
	return m.store.ListRecent(ctx, limit)
}

// LoadHistory returns the recent task history using the configured
// limit. A fresh store yields an empty slice.
func (m *Manager) LoadHistory(ctx context.Context) ([]*store.Task, error) {
	return m.store.ListRecent(ctx, m.cfg.Workflow.HistoryLimit)
}

// RequestAudioFetch downloads the retained audio for a completed task
// on demand.
func (m *Manager) RequestAudioFetch(ctx context.Context, id string) (*store.Task, error) {
	task, err := m.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("task %s not found", id)
	}
	if task.Status != store.StatusCompleted {
		return nil, fmt.Errorf("task %s is %s, audio is only available for completed tasks", id, task.Status)
	}
	if !task.KeepAudio {
		return nil, fmt.Errorf("task %s was submitted without keep-audio, the service retained no audio", id)
	}
	if err := m.fetchAudio(ctx, task, ""); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteAudio removes the local audio file and asks the service to drop
// its copy. The task record otherwise stays untouched.
func (m *Manager) DeleteAudio(ctx context.Context, id string) error {
	task, err := m.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("task %s not found", id)
	}
	if task.AudioPath != "" {
		if err := removeFileIfExists(task.AudioPath); err != nil {
			return fmt.Errorf("remove local audio for %s: %w", id, err)
		}
		if err := m.store.ClearAudioPath(ctx, id); err != nil {
			return err
		}
	}
	if err := m.client.DeleteAudio(ctx, id); err != nil {
		m.logger.Warn("remote audio delete failed",
			logging.String(logging.FieldTaskID, id),
			logging.Error(err),
		)
	}
	return nil
}

// Delete removes a task record. An active watcher is cancelled first.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.Abandon(id)
	return m.store.Delete(ctx, id)
}

// BulkCleanup asks the service to discard tasks older than maxAge and
// mirrors the cut locally.
func (m *Manager) BulkCleanup(ctx context.Context, maxAge time.Duration) (int, error) {
	deleted, err := m.client.Cleanup(ctx, maxAge)
	if err != nil {
		return 0, err
	}
	if _, localErr := m.store.DeleteOlderThan(ctx, maxAge); localErr != nil {
		m.logger.Warn("local history cleanup failed", logging.Error(localErr))
	}
	return deleted, nil
}

// Abandon cancels the watcher for a task if one is running. The task
// record keeps its last persisted status.
func (m *Manager) Abandon(id string) {
	m.mu.Lock()
	w := m.watchers[id]
	m.mu.Unlock()
	if w != nil {
		w.cancel()
	}
}

// Wait blocks until every watcher has exited.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// WaitFor blocks until the given task's watcher exits, or ctx is done.
func (m *Manager) WaitFor(ctx context.Context, id string) error {
	m.mu.Lock()
	w := m.watchers[id]
	m.mu.Unlock()
	if w == nil {
		return nil
	}
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop cancels all watchers and waits for them to exit.
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	m.mu.Unlock()

	m.rootCancel()
	m.wg.Wait()
}

func (m *Manager) startWatcher(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return
	}
	if _, exists := m.watchers[id]; exists {
		return
	}

	ctx, cancel := context.WithCancel(m.rootCtx)
	w := &watcher{
		taskID: id,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	m.watchers[id] = w
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer close(w.done)
		defer m.removeWatcher(id)
		m.watch(ctx, id)
	}()
}

func (m *Manager) removeWatcher(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.watchers, id)
}
