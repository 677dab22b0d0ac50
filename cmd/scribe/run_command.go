package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"scribe/internal/logging"
	"scribe/internal/store"
	"scribe/internal/tasks"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Resume unfinished tasks and poll until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			lockPath := filepath.Join(cfg.Paths.DataDir, "scribe.lock")
			lock := flock.New(lockPath)
			ok, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !ok {
				return errors.New("another scribe instance is already running")
			}
			defer lock.Unlock()

			return ctx.withManager(func(mgr *tasks.Manager, st *store.Store, logger *slog.Logger) error {
				runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				if err := mgr.Resume(runCtx); err != nil {
					return err
				}
				history, err := mgr.LoadHistory(runCtx)
				if err != nil {
					return err
				}
				logger.Info("scribe running",
					logging.String("lock", lockPath),
					logging.Int("known_tasks", len(history)),
				)

				<-runCtx.Done()
				logger.Info("shutting down")
				return nil
			})
		},
	}
}
