package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/benjamonnguyen/timero"
	"github.com/benjamonnguyen/timero/cmd/timero/models"
)

// dispatch applies c to the timer. Help, Quit and AutoStart belong to the session.
func dispatch(ctx context.Context, mgr TimerManager, c timero.Command) (models.TimerState, error) {
	if mode, ok := c.SwitchTarget(); ok {
		return mgr.SwitchMode(ctx, mode)
	}
	switch c {
	case timero.ToggleCommand:
		return mgr.Toggle(ctx)
	case timero.ResetCommand:
		return mgr.Reset(ctx)
	case timero.FullResetCommand:
		return mgr.FullReset(ctx)
	case timero.SkipBreakCommand:
		return mgr.SkipBreak(ctx)
	case timero.StatusCommand:
		return mgr.State(ctx)
	}
	return models.TimerState{}, fmt.Errorf("%w: %s", timero.ErrUnknownCommand, c)
}

func helpText() string {
	var sb strings.Builder
	sb.WriteString("commands (enter on an empty line toggles):")
	for _, spec := range timero.CommandSpecs {
		fmt.Fprintf(&sb, "\n  %-11s %-14s %s", spec.Name, strings.Join(spec.Aliases, ","), spec.Description)
	}
	return sb.String()
}

func describeState(s models.TimerState) string {
	return fmt.Sprintf("%s %s, %s of %s left, %d pomodoros completed",
		s.Mode, strings.ToLower(s.Status.String()),
		models.FormatTime(s.Remaining), models.FormatTime(s.Duration),
		s.PomodorosCompleted,
	)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func readLines(in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

type autoStartToggler interface {
	ToggleAutoStart() timero.PreferencesRecord
}

// session feeds input lines to the timer until quit, end of input or cancellation.
type session struct {
	mgr        TimerManager
	prefs      autoStartToggler
	out        *statusRenderer
	activeTask func() string
	l          *log.Logger
}

func (s *session) run(ctx context.Context, in io.Reader) error {
	lines := readLines(in)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := s.handle(ctx, line)
			if err != nil {
				if errors.Is(err, ErrStopped) || ctx.Err() != nil {
					return nil
				}
				return err
			}
			if quit {
				return nil
			}
		}
	}
}

func (s *session) handle(ctx context.Context, line string) (quit bool, err error) {
	c, err := timero.ParseCommand(line)
	if err != nil {
		s.out.Println(err.Error() + " (h for help)")
		return false, nil
	}
	s.l.Debug("command", "name", c)

	switch c {
	case timero.QuitCommand:
		return true, nil
	case timero.HelpCommand:
		s.out.Println(helpText())
		return false, nil
	case timero.AutoStartCommand:
		prefs := s.prefs.ToggleAutoStart()
		s.out.Println(fmt.Sprintf("auto-start %s", onOff(prefs.AutoStart)))
		return false, nil
	}

	state, err := dispatch(ctx, s.mgr, c)
	if err != nil {
		return false, err
	}
	if c == timero.StatusCommand {
		s.out.Println(describeState(state))
	}
	s.out.Render(state, s.activeTask())
	return false, nil
}
