package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"scribe/internal/config"
	"scribe/internal/store"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recent tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				effective := limit
				if effective <= 0 {
					effective = cfg.Workflow.HistoryLimit
				}
				tasksList, err := st.ListRecent(cmd.Context(), effective)
				if err != nil {
					return err
				}
				if len(tasksList) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No tasks yet.")
					return nil
				}

				rows := make([][]string, 0, len(tasksList))
				for _, task := range tasksList {
					rows = append(rows, []string{
						task.ID,
						string(task.Status),
						progressSummary(task),
						truncate(task.SourceURL, 48),
						task.CreatedAt.Local().Format(time.DateTime),
					})
				}
				out := renderTable(
					[]string{"ID", "Status", "Progress", "URL", "Created"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
				)
				fmt.Fprintln(cmd.OutOrStdout(), out)

				stats, err := st.Stats(cmd.Context())
				if err != nil {
					return err
				}
				total := 0
				for _, count := range stats {
					total += count
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s of %s tasks shown\n",
					strconv.Itoa(len(tasksList)), strconv.Itoa(total))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of tasks to show")
	return cmd
}

func progressSummary(task *store.Task) string {
	switch task.Status {
	case store.StatusFailed:
		return truncate(task.ErrorMessage, 32)
	case store.StatusCompleted:
		if task.AudioPath != "" {
			return "completed (audio kept)"
		}
		return "completed"
	default:
		return truncate(task.Progress, 32)
	}
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
