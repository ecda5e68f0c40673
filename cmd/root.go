package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/juanmoyano123/cards-study/internal/app"
	"github.com/juanmoyano123/cards-study/internal/config"
	"github.com/juanmoyano123/cards-study/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "cards-study",
	Short: "Flashcard study sessions with a focus timer",
	Long: "cards-study reviews due flashcards from a spaced repetition backend " +
		"and runs a work/break focus timer alongside the session.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, app.StartHome)
	},
}

// Execute runs the root command. Cancelling ctx stops long-running
// commands such as the TUI and the dev server.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides CARDS_STUDY_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides CONFIG_PATH env var)")

	rootCmd.AddCommand(studyCmd)
	rootCmd.AddCommand(focusCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(devserverCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file named by --config, CONFIG_PATH or
// ./config.yaml, with environment overrides applied.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	p, _ := cmd.Flags().GetString("config")
	return config.Load(p)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then store.path from the config, then CARDS_STUDY_DB and the default XDG
// path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.Store.Path != "" {
		return cfg.Store.Path, store.EnsureDir(cfg.Store.Path)
	}
	return store.DefaultDBPath()
}
