package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benjamonnguyen/timero"
)

var prefsCmd = &cobra.Command{
	Use:     "prefs",
	Aliases: []string{"preferences"},
	Short:   "Show or change timer preferences",
	Long: `Show or change timer preferences.

Running bare 'timero prefs' is the same as 'timero prefs show'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(_ context.Context, a *app) error {
			return prefsShowRun(a.prefs.Get())
		})
	},
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(_ context.Context, a *app) error {
			return prefsShowRun(a.prefs.Get())
		})
	},
}

var prefsAutoStartCmd = &cobra.Command{
	Use:   "autostart",
	Short: "Toggle starting the next interval automatically",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(_ context.Context, a *app) error {
			prefs := a.prefs.ToggleAutoStart()
			console.Success("Auto-start %s", onOff(prefs.AutoStart))
			return nil
		})
	},
}

var prefsBreakCmd = &cobra.Command{
	Use:       "break <short|long>",
	Short:     "Set the break taken after a focus interval",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(timero.ShortBreak), string(timero.LongBreak)},
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := timero.ParseBreakType(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(_ context.Context, a *app) error {
			a.prefs.SetNextBreakType(b)
			console.Success("Next break: %s", b.Mode())
			return nil
		})
	},
}

var prefsSoundCmd = &cobra.Command{
	Use:   "sound <bell|chime|digital|none>",
	Short: "Set the alarm sound",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := timero.ParseAlarmSound(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(_ context.Context, a *app) error {
			a.prefs.SetAlarmSound(s)
			console.Success("Alarm sound: %s", s)
			return nil
		})
	},
}

var prefsVibrateCmd = &cobra.Command{
	Use:   "vibrate <on|off>",
	Short: "Enable or disable alarm haptics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := parseOnOff(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(_ context.Context, a *app) error {
			a.prefs.SetAlarmVibrate(v)
			console.Success("Vibrate %s", onOff(v))
			return nil
		})
	},
}

var prefsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(_ context.Context, a *app) error {
			if err := a.prefs.Reset(); err != nil {
				return err
			}
			console.Success("Preferences reset to defaults")
			return nil
		})
	},
}

// durationName is the subcommand and row label for a mode's length.
func durationName(m timero.Mode) string {
	switch m {
	case timero.ShortBreakMode:
		return "short"
	case timero.LongBreakMode:
		return "long"
	default:
		return "work"
	}
}

func newDurationCmd(mode timero.Mode) *cobra.Command {
	r := timero.RangeFor(mode)
	return &cobra.Command{
		Use:   durationName(mode) + " <minutes>",
		Short: fmt.Sprintf("Set the %s length (%d-%d minutes)", strings.ToLower(mode.String()), r.Min, r.Max),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid minutes %q", args[0])
			}
			return withApp(cmd, func(_ context.Context, a *app) error {
				setDuration(a.prefs, mode, minutes)
				return nil
			})
		},
	}
}

func init() {
	prefsCmd.AddCommand(prefsShowCmd, prefsAutoStartCmd, prefsBreakCmd)
	for _, m := range timero.Modes {
		prefsCmd.AddCommand(newDurationCmd(m))
	}
	prefsCmd.AddCommand(prefsSoundCmd, prefsVibrateCmd, prefsResetCmd)
	rootCmd.AddCommand(prefsCmd)
}

// setDuration clamps minutes into the mode's range before storing it.
func setDuration(prefs PreferencesProvider, mode timero.Mode, minutes int) timero.PreferencesRecord {
	r := timero.RangeFor(mode)
	clamped := r.Clamp(minutes)
	if clamped != minutes {
		console.Warning("%s must be %d-%d minutes, using %d", mode, r.Min, r.Max, clamped)
	}

	var updated timero.PreferencesRecord
	switch mode {
	case timero.ShortBreakMode:
		updated = prefs.SetShortBreakDuration(clamped)
	case timero.LongBreakMode:
		updated = prefs.SetLongBreakDuration(clamped)
	default:
		updated = prefs.SetWorkDuration(clamped)
	}
	console.Success("%s: %d minutes", mode, clamped)
	return updated
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("want on or off, got %q", s)
}

func prefsShowRun(p timero.PreferencesRecord) error {
	table := console.Table([]string{"Preference", "Value"})
	var rows [][]string
	for _, m := range timero.Modes {
		rows = append(rows, []string{durationName(m), fmt.Sprintf("%d min", p.MinutesFor(m))})
	}
	for _, row := range append(rows, [][]string{
		{"break", string(p.NextBreakType)},
		{"autostart", onOff(p.AutoStart)},
		{"sound", string(p.AlarmSound)},
		{"vibrate", onOff(p.AlarmVibrate)},
	}...) {
		_ = table.Append(row)
	}
	return table.Render()
}
