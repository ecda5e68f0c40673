package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/juanmoyano123/cards-study/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the saved focus timer, and optionally the session log",
	Long: `Remove the focus timer record from the local database so the next
launch starts from default settings. With --history the local study session
log is deleted too. Data held by the backend is never touched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("refusing to reset without --yes")
		}
		withHistory, _ := cmd.Flags().GetBool("history")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		dbPath, err := resolveDBPath(cmd, cfg)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		out := cmd.OutOrStdout()
		if err := st.TimerRecords().Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clear timer record: %w", err)
		}
		fmt.Fprintln(out, "Focus timer reset.")

		if withHistory {
			n, err := st.ClearSessionLog(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Removed %d logged sessions.\n", n)
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
	resetCmd.Flags().Bool("history", false, "Also delete the local study session log")
}
