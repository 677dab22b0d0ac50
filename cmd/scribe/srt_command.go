package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scribe/internal/config"
	"scribe/internal/store"
	"scribe/internal/subtitle"
)

func newSRTCommand(ctx *commandContext) *cobra.Command {
	var minLength int
	var outputPath string

	cmd := &cobra.Command{
		Use:   "srt <id>",
		Short: "Render a completed task's transcript as SRT subtitles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				task, err := st.GetByID(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if task == nil {
					return fmt.Errorf("task %s not found", args[0])
				}
				if task.Status != store.StatusCompleted || !task.HasResult() {
					return fmt.Errorf("task %s has no transcript to render (status %s)", task.ID, task.Status)
				}

				threshold := minLength
				if threshold <= 0 {
					threshold = cfg.Subtitles.MinLineLength
				}
				if threshold <= 0 {
					threshold = subtitle.DefaultMinLength(task.Transcript)
				}

				cues := subtitle.Synthesize(task.Transcript, task.Timings, threshold)
				if len(cues) == 0 {
					return fmt.Errorf("task %s produced no subtitle cues", task.ID)
				}
				rendered := subtitle.RenderSRT(cues)

				if outputPath == "" {
					fmt.Fprint(cmd.OutOrStdout(), rendered)
					return nil
				}
				if err := os.WriteFile(outputPath, []byte(rendered), 0o644); err != nil {
					return fmt.Errorf("write srt file: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d cues to %s\n", len(cues), outputPath)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&minLength, "min-length", 0, "Soft-break threshold in characters (0 picks a default per script)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the SRT to a file instead of stdout")
	return cmd
}
