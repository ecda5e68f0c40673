package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/juanmoyano123/cards-study/internal/app"
)

// runApp builds dependencies and launches the TUI on start.
func runApp(cmd *cobra.Command, start app.StartScreen) error {
	d, closeDeps, err := openDeps(cmd, toFile)
	if err != nil {
		return err
	}
	defer closeDeps()

	queue := d.cfg.Study.QueueOptions()
	if f := cmd.Flags().Lookup("limit"); f != nil && f.Changed {
		queue.Limit, _ = cmd.Flags().GetInt("limit")
	}
	if f := cmd.Flags().Lookup("no-new"); f != nil && f.Changed {
		noNew, _ := cmd.Flags().GetBool("no-new")
		includeNew := !noNew
		queue.IncludeNew = &includeNew
	}

	if start == app.StartStudy && d.study == nil {
		return errors.New("study needs a backend: set api.base_url or CARDS_STUDY_API_URL")
	}

	opts := app.Options{
		Focus:      d.focus,
		SessionLog: d.store.SessionLog(),
		Queue:      queue,
		Logger:     d.logger,
		Start:      start,
	}
	if d.study != nil {
		opts.Study = d.study
		opts.Days = d.remote
	}
	return app.Run(cmd.Context(), opts)
}

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Start a study session with the due queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, app.StartStudy)
	},
}

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Open the focus timer",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, app.StartFocus)
	},
}

func init() {
	studyCmd.Flags().Int("limit", 0, "Maximum cards to load (overrides study.limit)")
	studyCmd.Flags().Bool("no-new", false, "Only review cards already seen")
}
