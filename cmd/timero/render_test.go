package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/benjamonnguyen/timero"
	"github.com/benjamonnguyen/timero/cmd/timero/models"
)

func init() {
	color.NoColor = true
}

func TestTimerBar(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		remaining, duration int
		filled              int
	}{
		"full":      {remaining: 1500, duration: 1500, filled: 20},
		"half":      {remaining: 750, duration: 1500, filled: 10},
		"almost":    {remaining: 1, duration: 1500, filled: 0},
		"done":      {remaining: 0, duration: 1500, filled: 0},
		"overshoot": {remaining: 2000, duration: 1500, filled: 20},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			bar := timerBar(models.TimerState{Remaining: tc.remaining, Duration: tc.duration})
			assert.Equal(t, timerBarLength, len([]rune(bar)))
			assert.Equal(t, tc.filled, strings.Count(bar, timerBarFilledChar))
		})
	}
}

func TestStatusLine(t *testing.T) {
	t.Parallel()
	s := models.TimerState{
		Mode:               timero.WorkMode,
		Status:             timero.TimerRunning,
		Remaining:          1499,
		Duration:           1500,
		PomodorosCompleted: 2,
	}

	line := StatusLine(s, "")
	assert.Contains(t, line, "Focus")
	assert.Contains(t, line, "24:59")
	assert.Contains(t, line, "#2")
	assert.Contains(t, line, "running")

	s.Status = timero.TimerPaused
	assert.Contains(t, StatusLine(s, "write report"), "paused")
	assert.Contains(t, StatusLine(s, "write report"), "write report")

	s.AutoStartPending = true
	assert.Contains(t, StatusLine(s, ""), "starting")
}

func TestStatusRenderer(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	r := newStatusRenderer(&buf)

	r.Render(models.TimerState{Mode: timero.ShortBreakMode, Status: timero.TimerPaused, Remaining: 300, Duration: 300}, "")
	assert.True(t, strings.HasPrefix(buf.String(), clearLine))
	assert.NotContains(t, buf.String(), "\n")

	r.Println("done")
	assert.True(t, strings.HasSuffix(buf.String(), "done\n"))
}

func TestCompletionMessage(t *testing.T) {
	t.Parallel()
	now := time.Now()

	msg := completionMessage(models.Completion{
		Mode: timero.WorkMode, Next: timero.LongBreakMode, PomodorosCompleted: 4, CycleComplete: true, CompletedAt: now,
	})
	assert.Contains(t, msg, "Cycle complete")
	assert.Contains(t, msg, "4 pomodoros")

	msg = completionMessage(models.Completion{Mode: timero.WorkMode, Next: timero.ShortBreakMode, PomodorosCompleted: 1})
	assert.Equal(t, "Focus finished. Next up: Short Break.", msg)

	msg = completionMessage(models.Completion{Mode: timero.ShortBreakMode, Next: timero.WorkMode})
	assert.Equal(t, "Short Break over. Back to Focus.", msg)
}
