package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"scribe/internal/config"
	"scribe/internal/store"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task in detail",
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

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:        %s\n", task.ID)
				fmt.Fprintf(out, "URL:       %s\n", task.SourceURL)
				fmt.Fprintf(out, "Status:    %s\n", task.Status)
				if task.Progress != "" {
					fmt.Fprintf(out, "Progress:  %s\n", task.Progress)
				}
				fmt.Fprintf(out, "KeepAudio: %s\n", yesNo(task.KeepAudio))
				if task.AudioPath != "" {
					fmt.Fprintf(out, "Audio:     %s\n", task.AudioPath)
				}
				if task.ErrorMessage != "" {
					fmt.Fprintf(out, "Error:     %s\n", task.ErrorMessage)
				}
				fmt.Fprintf(out, "Created:   %s\n", task.CreatedAt.Local().Format(time.DateTime))
				fmt.Fprintf(out, "Updated:   %s\n", task.UpdatedAt.Local().Format(time.DateTime))

				if task.Transcript != "" {
					fmt.Fprintf(out, "Timings:   %d characters timed\n", len(task.Timings))
					if full {
						fmt.Fprintf(out, "\n%s\n", task.Transcript)
					} else {
						fmt.Fprintf(out, "Text:      %s\n", truncate(task.Transcript, 120))
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Print the entire transcript")
	return cmd
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
