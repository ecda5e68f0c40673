package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/juanmoyano123/cards-study/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent study sessions and focus cycles",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		days, _ := cmd.Flags().GetInt("days")

		d, closeDeps, err := openDeps(cmd, toStderr(os.Stderr))
		if err != nil {
			return err
		}
		defer closeDeps()

		out := cmd.OutOrStdout()
		sessions, err := d.store.SessionLog().Recent(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}

		if len(sessions) == 0 {
			fmt.Fprintln(out, "No study sessions yet.")
		} else {
			fmt.Fprintf(out, "%-16s  %-8s  %-7s  %-7s  %-6s  %s\n",
				"Finished", "Duration", "Cards", "Success", "Cycles", "Again/Hard/Good/Easy")
			fmt.Fprintln(out, strings.Repeat("─", 72))
			for _, s := range sessions {
				rate := "-"
				if s.Studied > 0 {
					rate = fmt.Sprintf("%d%%", (s.Good+s.Easy)*100/s.Studied)
				}
				fmt.Fprintf(out, "%-16s  %-8s  %-7s  %-7s  %-6d  %d/%d/%d/%d\n",
					s.FinishedAt.Local().Format("2006-01-02 15:04"),
					s.FinishedAt.Sub(s.StartedAt).Round(time.Second),
					fmt.Sprintf("%d/%d", s.Studied, s.Total),
					rate,
					s.FocusCycles,
					s.Again, s.Hard, s.Good, s.Easy)
			}
		}

		if d.remote == nil {
			return nil
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), d.cfg.API.SyncTimeout)
		defer cancel()
		now := time.Now()
		stats, err := d.remote.History(ctx, now.AddDate(0, 0, -(days-1)), now)
		if err != nil {
			d.logger.Warn("focus history unavailable", "error", err)
			fmt.Fprintln(out, "\nFocus history unavailable.")
			return nil
		}
		fmt.Fprintf(out, "\n%-10s  %-6s  %s\n", "Date", "Cycles", "Focus")
		fmt.Fprintln(out, strings.Repeat("─", 32))
		for _, day := range stats {
			fmt.Fprintf(out, "%-10s  %-6d  %s\n",
				day.Date, day.PomodoroSessions, time.Duration(day.TotalFocusMinutes)*time.Minute)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum sessions to list")
	historyCmd.Flags().Int("days", 7, "Days of focus history to fetch")
}
