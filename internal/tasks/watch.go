package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"scribe/internal/logging"
	"scribe/internal/remote"
	"scribe/internal/store"
)

type watcher struct {
	taskID string
	cancel context.CancelFunc
	done   chan struct{}
}

// watch polls one task until it reaches a terminal status or the
// context is cancelled. Store failures are logged and retried on the
// next tick rather than dropping the transition.
func (m *Manager) watch(ctx context.Context, id string) {
	logger := m.logger.With(logging.String(logging.FieldTaskID, id))
	interval := time.Duration(m.cfg.Workflow.PollInterval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		result, err := m.client.Poll(ctx, id)

		// A cancellation between dispatch and return must not
		// apply a stale result.
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			logger.Warn("poll failed, will retry", logging.Error(err))
			continue
		}

		settled, err := m.apply(ctx, id, result, logger)
		if err != nil {
			logger.Warn("persist poll result failed, will retry", logging.Error(err))
			continue
		}
		if settled {
			return
		}
	}
}

// apply folds one poll result into the store. It reports whether the
// task reached a terminal status.
func (m *Manager) apply(ctx context.Context, id string, result remote.PollResult, logger *slog.Logger) (bool, error) {
	task, err := m.store.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if task == nil {
		logger.Warn("task record disappeared, stopping watcher")
		return true, nil
	}
	if task.Status.IsTerminal() {
		return true, nil
	}

	switch result.State {
	case remote.StateProcessing:
		task.Status = store.StatusProcessing
		if result.Progress != "" {
			task.Progress = result.Progress
		}
		return false, m.store.Upsert(ctx, task)

	case remote.StateCompleted:
		task.SetCompleted(result.Transcript, result.Timings)
		if err := m.store.Upsert(ctx, task); err != nil {
			return false, err
		}
		logger.Info("task completed", logging.Int("timing_count", len(task.Timings)))
		if task.KeepAudio && result.AudioRef != nil {
			if err := m.fetchAudio(ctx, task, *result.AudioRef); err != nil {
				logger.Warn("audio fetch failed, transcript is unaffected", logging.Error(err))
			}
		}
		return true, nil

	case remote.StateFailed:
		task.SetFailed(result.Message)
		if err := m.store.Upsert(ctx, task); err != nil {
			return false, err
		}
		logger.Info("task failed", logging.String("reason", result.Message))
		return true, nil

	default:
		return false, fmt.Errorf("unknown poll state %q", result.State)
	}
}

// fetchAudio streams the retained blob to the download directory,
// records the path, then releases the remote copy.
func (m *Manager) fetchAudio(ctx context.Context, task *store.Task, ref string) error {
	body, err := m.client.FetchAudio(ctx, task.ID, ref)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := os.MkdirAll(m.cfg.Paths.DownloadDir, 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}
	target := filepath.Join(m.cfg.Paths.DownloadDir, task.ID+".mp3")
	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create audio file: %w", err)
	}
	if _, err := io.Copy(out, body); err != nil {
		out.Close()
		os.Remove(target)
		return fmt.Errorf("write audio file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(target)
		return fmt.Errorf("close audio file: %w", err)
	}

	task.AudioPath = target
	if err := m.store.Upsert(ctx, task); err != nil {
		return err
	}

	if err := m.client.DeleteAudio(ctx, task.ID); err != nil {
		m.logger.Warn("remote audio delete after fetch failed",
			logging.String(logging.FieldTaskID, task.ID),
			logging.Error(err),
		)
	}
	return nil
}

func removeFileIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
