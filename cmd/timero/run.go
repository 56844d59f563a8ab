package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/benjamonnguyen/timero"
	"github.com/benjamonnguyen/timero/cmd/timero/models"
	"github.com/benjamonnguyen/timero/notify"
)

const shutdownTimeout = 30 * time.Second

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive timer",
	Long: `Start the interactive timer.

Type a command and press enter; an empty line starts or pauses the countdown.
Type 'help' to list commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTimer(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runTimer(ctx context.Context) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, shutdownSignals()...)
	defer stop()

	out := newStatusRenderer(console.Out)
	notifier := notify.NewTerminal(out, a.cfg.AlarmBell)
	haptics := notify.NewLogHaptics(a.l.With("component", "haptics"))
	al := NewAlarm(notifier, haptics, a.clock, a.l.With("component", "alarm"))

	mgr := NewTimerManager(ctx, a.prefs, a.stats, a.tasks, al, a.clock, TimerManagerOptions{
		Tick:           a.cfg.TickInterval,
		AutoStartDelay: a.cfg.AutoStartDelay,
	}, a.l.With("component", "timer"))

	activeTask := func() string {
		if t, ok := a.tasks.Tasks().Active(); ok {
			return t.Title
		}
		return ""
	}
	mgr.OnTimerUpdate(func(ctx context.Context, before, curr models.TimerState) {
		out.Render(curr, activeTask())
	})
	mgr.OnIntervalComplete(func(ctx context.Context, c models.Completion) {
		out.Println(completionMessage(c))
	})
	a.prefs.OnChange(func(prefs timero.PreferencesRecord) {
		if _, err := mgr.Configure(ctx, prefs); err != nil && ctx.Err() == nil && !errors.Is(err, ErrStopped) {
			a.l.Error("failed to apply preferences", "err", err)
		}
	})
	watchLifecycle(ctx, mgr, a.l)

	state, err := mgr.State(ctx)
	if err != nil {
		return errors.Join(err, shutdown(a, mgr, al))
	}
	out.Println(helpText())
	out.Render(state, activeTask())

	s := &session{
		mgr:        mgr,
		prefs:      a.prefs,
		out:        out,
		activeTask: activeTask,
		l:          a.l.With("component", "session"),
	}
	runErr := s.run(ctx, os.Stdin)
	out.Println()

	return errors.Join(runErr, shutdown(a, mgr, al))
}

// shutdown stops the timer, lets a ringing alarm finish and flushes queued writes.
func shutdown(a *app, mgr TimerManager, al *alarm) error {
	a.l.Info("shutting down")
	done := make(chan error, 1)
	go func() {
		if err := mgr.Shutdown(); err != nil {
			a.l.Error("failed to stop timer", "err", err)
		}
		al.Wait()
		done <- a.Close()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(shutdownTimeout):
		return errors.New("failed to shut down gracefully: timed out")
	}
}
