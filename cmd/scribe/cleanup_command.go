package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"scribe/internal/store"
	"scribe/internal/tasks"
)

func newCleanupCommand(ctx *commandContext) *cobra.Command {
	var maxAgeHours int

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Discard old tasks on the service and in local history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxAgeHours <= 0 {
				return fmt.Errorf("--max-age-hours must be positive, got %d", maxAgeHours)
			}
			return ctx.withManager(func(mgr *tasks.Manager, st *store.Store, _ *slog.Logger) error {
				deleted, err := mgr.BulkCleanup(cmd.Context(), time.Duration(maxAgeHours)*time.Hour)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d remote tasks older than %dh\n", deleted, maxAgeHours)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&maxAgeHours, "max-age-hours", 24, "Discard tasks older than this many hours")
	return cmd
}
