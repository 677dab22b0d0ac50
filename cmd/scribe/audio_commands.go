package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"scribe/internal/store"
	"scribe/internal/tasks"
)

func newAudioCommand(ctx *commandContext) *cobra.Command {
	audioCmd := &cobra.Command{
		Use:   "audio",
		Short: "Manage retained audio for completed tasks",
	}

	audioCmd.AddCommand(newAudioFetchCommand(ctx))
	audioCmd.AddCommand(newAudioDeleteCommand(ctx))
	return audioCmd
}

func newAudioFetchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <id>",
		Short: "Download the retained audio for a completed task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(func(mgr *tasks.Manager, st *store.Store, _ *slog.Logger) error {
				task, err := mgr.RequestAudioFetch(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved audio to %s\n", task.AudioPath)
				return nil
			})
		},
	}
}

func newAudioDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete the local and remote audio for a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(func(mgr *tasks.Manager, st *store.Store, _ *slog.Logger) error {
				if err := mgr.DeleteAudio(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted audio for task %s\n", args[0])
				return nil
			})
		},
	}
}
