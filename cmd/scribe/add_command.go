package main

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/store"
	"scribe/internal/tasks"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var keepAudio bool
	var wait bool

	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Submit a video URL for transcription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.TrimSpace(args[0])
			parsed, err := url.Parse(raw)
			if err != nil || parsed.Scheme == "" || parsed.Host == "" {
				return fmt.Errorf("invalid url %q", raw)
			}

			return ctx.withManager(func(mgr *tasks.Manager, st *store.Store, _ *slog.Logger) error {
				task, err := mgr.Create(cmd.Context(), raw, keepAudio, nil)
				if err != nil {
					if task != nil {
						fmt.Fprintf(cmd.OutOrStdout(), "Submission failed, recorded as %s\n", task.ID)
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Submitted task %s\n", task.ID)

				if !wait {
					return nil
				}
				if err := mgr.WaitFor(cmd.Context(), task.ID); err != nil {
					return err
				}
				final, err := mgr.Get(cmd.Context(), task.ID)
				if err != nil {
					return err
				}
				if final == nil {
					return fmt.Errorf("task %s vanished while waiting", task.ID)
				}
				switch final.Status {
				case store.StatusCompleted:
					fmt.Fprintf(cmd.OutOrStdout(), "Task %s completed (%d characters)\n", final.ID, len([]rune(final.Transcript)))
				case store.StatusFailed:
					return fmt.Errorf("task %s failed: %s", final.ID, final.ErrorMessage)
				default:
					fmt.Fprintf(cmd.OutOrStdout(), "Task %s is %s\n", final.ID, final.Status)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&keepAudio, "keep-audio", false, "Ask the service to retain the extracted audio")
	cmd.Flags().BoolVar(&wait, "wait", false, "Block until the task settles")
	return cmd
}
