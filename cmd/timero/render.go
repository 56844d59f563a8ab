package main

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/benjamonnguyen/timero"
	"github.com/benjamonnguyen/timero/cmd/timero/models"
	"github.com/benjamonnguyen/timero/cmd/timero/ui"
)

const (
	timerBarLength     = 20
	timerBarFilledChar = "⣶"
	timerBarEmptyChar  = "⡀"
)

func timerBar(s models.TimerState) string {
	if s.Remaining <= 0 {
		return strings.Repeat(timerBarEmptyChar, timerBarLength)
	}
	filled := min(int(math.Round(s.Progress()*timerBarLength*10)/10), timerBarLength)
	return strings.Repeat(timerBarFilledChar, filled) + strings.Repeat(timerBarEmptyChar, timerBarLength-filled)
}

func statusLabel(s models.TimerState) string {
	switch {
	case s.AutoStartPending:
		return "starting"
	case s.Running():
		return "running"
	default:
		return "paused"
	}
}

// StatusLine renders the timer as "mode  MM:SS  bar  #n  status".
func StatusLine(s models.TimerState, activeTask string) string {
	line := fmt.Sprintf("%s  %s  %s  #%d  %s",
		ui.ModeColor(s.Mode, fmt.Sprintf("%-11s", s.Mode)),
		ui.Bold(s.FormattedTime()),
		timerBar(s),
		s.PomodorosCompleted,
		ui.Faint(statusLabel(s)),
	)
	if activeTask != "" {
		line += "  " + ui.Faint("→ "+activeTask)
	}
	return line
}

const clearLine = "\r\033[K"

// statusRenderer redraws a single terminal line in place. Everything else printed
// while the timer runs goes through it so output does not interleave.
type statusRenderer struct {
	mu sync.Mutex
	w  io.Writer
}

func newStatusRenderer(w io.Writer) *statusRenderer {
	return &statusRenderer{w: w}
}

func (r *statusRenderer) Render(s models.TimerState, activeTask string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprint(r.w, clearLine+StatusLine(s, activeTask))
}

// Println breaks out of the status line before printing a full line.
func (r *statusRenderer) Println(a ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprint(r.w, clearLine)
	fmt.Fprintln(r.w, a...)
}

func (r *statusRenderer) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.w.Write(p)
}

func completionMessage(c models.Completion) string {
	if c.CycleComplete {
		return fmt.Sprintf("Cycle complete! %d pomodoros done. Enjoy a long break.", c.PomodorosCompleted)
	}
	if c.Mode == timero.WorkMode {
		return fmt.Sprintf("%s finished. Next up: %s.", c.Mode, c.Next)
	}
	return fmt.Sprintf("%s over. Back to %s.", c.Mode, c.Next)
}
