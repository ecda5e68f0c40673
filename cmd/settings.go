package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/juanmoyano123/cards-study/internal/timer"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change focus timer settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the focus timer settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, closeDeps, err := openDeps(cmd, toStderr(os.Stderr))
		if err != nil {
			return err
		}
		defer closeDeps()

		out := cmd.OutOrStdout()
		st := d.focus.State()
		printSettings(out, st.Settings)
		fmt.Fprintf(out, "%-22s %d\n", "Cycles today", st.TodayCycles)
		fmt.Fprintf(out, "%-22s %d\n", "Cycles total", st.CompletedCycles)

		if patch, ok := d.focus.RemoteSettings(); ok {
			remote := patch.ApplyTo(st.Settings)
			if remote != st.Settings {
				fmt.Fprintln(out, "\nRemote settings differ:")
				printSettings(out, remote)
			}
		} else if d.remote != nil {
			fmt.Fprintln(out, "\nRemote settings unavailable.")
		}
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change focus timer settings",
	Example: "  cards-study settings set --work 50m --break 10m\n" +
		"  cards-study settings set --auto-break=false",
	RunE: func(cmd *cobra.Command, args []string) error {
		patch, err := patchFromFlags(cmd)
		if err != nil {
			return err
		}
		if patch.IsEmpty() {
			return errors.New("nothing to change: pass at least one setting flag")
		}

		d, closeDeps, err := openDeps(cmd, toStderr(os.Stderr))
		if err != nil {
			return err
		}
		defer closeDeps()

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*d.cfg.API.SyncTimeout)
		defer cancel()
		if err := d.focus.UpdateSettingsNow(ctx, patch); err != nil {
			return err
		}
		printSettings(cmd.OutOrStdout(), d.focus.State().Settings)
		return nil
	},
}

func init() {
	addSettingFlags(settingsSetCmd)

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

func addSettingFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Duration("work", 0, "Work phase length, e.g. 25m")
	f.Duration("break", 0, "Short break length")
	f.Duration("long-break", 0, "Long break length")
	f.Int("cycles", 0, "Work cycles before a long break")
	f.Bool("auto-break", false, "Start breaks automatically")
	f.Bool("auto-work", false, "Start work phases automatically after a break")
	f.Bool("sound", false, "Ring the terminal bell when a phase ends")
	f.Bool("vibration", false, "Vibration preference, mirrored to the backend")
}

// patchFromFlags builds a patch from the flags the user actually passed.
func patchFromFlags(cmd *cobra.Command) (timer.SettingsPatch, error) {
	var p timer.SettingsPatch
	f := cmd.Flags()

	seconds := func(name string) (*int, error) {
		if !f.Changed(name) {
			return nil, nil
		}
		d, err := f.GetDuration(name)
		if err != nil {
			return nil, err
		}
		if d%time.Second != 0 {
			return nil, fmt.Errorf("--%s must be whole seconds, got %s", name, d)
		}
		n := int(d / time.Second)
		return &n, nil
	}
	flag := func(name string) *bool {
		if !f.Changed(name) {
			return nil
		}
		v, _ := f.GetBool(name)
		return &v
	}

	var err error
	if p.WorkDuration, err = seconds("work"); err != nil {
		return p, err
	}
	if p.BreakDuration, err = seconds("break"); err != nil {
		return p, err
	}
	if p.LongBreakDuration, err = seconds("long-break"); err != nil {
		return p, err
	}
	if f.Changed("cycles") {
		n, _ := f.GetInt("cycles")
		p.CyclesUntilLongBreak = &n
	}
	p.AutoStartBreak = flag("auto-break")
	p.AutoStartWork = flag("auto-work")
	p.SoundEnabled = flag("sound")
	p.VibrationEnabled = flag("vibration")
	return p, nil
}

func printSettings(w io.Writer, s timer.Settings) {
	sec := func(n int) time.Duration { return time.Duration(n) * time.Second }
	fmt.Fprintf(w, "%-22s %s\n", "Work", sec(s.WorkDuration))
	fmt.Fprintf(w, "%-22s %s\n", "Break", sec(s.BreakDuration))
	fmt.Fprintf(w, "%-22s %s\n", "Long break", sec(s.LongBreakDuration))
	fmt.Fprintf(w, "%-22s %d\n", "Cycles per long break", s.CyclesUntilLongBreak)
	fmt.Fprintf(w, "%-22s %t\n", "Auto-start break", s.AutoStartBreak)
	fmt.Fprintf(w, "%-22s %t\n", "Auto-start work", s.AutoStartWork)
	fmt.Fprintf(w, "%-22s %t\n", "Sound", s.SoundEnabled)
	fmt.Fprintf(w, "%-22s %t\n", "Vibration", s.VibrationEnabled)
}
