// Package models helps control struct access and mutation
package models

import (
	"fmt"
	"time"

	"github.com/benjamonnguyen/timero"
)

// TimerSettings is the slice of preferences the timer reads.
type TimerSettings struct {
	Work, ShortBreak, LongBreak time.Duration
	NextBreak                   timero.BreakType
}

func TimerSettingsFrom(p timero.PreferencesRecord) TimerSettings {
	return TimerSettings{
		Work:       time.Duration(p.WorkDuration) * time.Minute,
		ShortBreak: time.Duration(p.ShortBreakDuration) * time.Minute,
		LongBreak:  time.Duration(p.LongBreakDuration) * time.Minute,
		NextBreak:  p.NextBreakType,
	}
}

func (s TimerSettings) DurationFor(m timero.Mode) time.Duration {
	switch m {
	case timero.WorkMode:
		return s.Work
	case timero.ShortBreakMode:
		return s.ShortBreak
	case timero.LongBreakMode:
		return s.LongBreak
	default:
		return 0
	}
}

func (s TimerSettings) sameDurations(o TimerSettings) bool {
	return s.Work == o.Work && s.ShortBreak == o.ShortBreak && s.LongBreak == o.LongBreak
}

// Timer is the single pomodoro countdown. It is not safe for concurrent use;
// the timer manager owns it on one goroutine.
type Timer struct {
	Settings TimerSettings

	mode               timero.Mode
	status             timero.TimerStatus
	remaining          int
	pomodorosCompleted int

	// wall clock and remaining seconds when running last began
	anchorAt        time.Time
	anchorRemaining int
}

func NewTimer(settings TimerSettings) Timer {
	t := Timer{
		Settings: settings,
		mode:     timero.WorkMode,
		status:   timero.TimerPaused,
	}
	t.remaining = t.configuredSeconds(t.mode)
	return t
}

// Completion describes an interval that ran out.
type Completion struct {
	Mode               timero.Mode
	Next               timero.Mode
	PomodorosCompleted int
	// WorkMinutes is the focus length credited to statistics; zero for breaks.
	WorkMinutes   int
	CycleComplete bool
	CompletedAt   time.Time
}

func (t Timer) Mode() timero.Mode {
	return t.mode
}

func (t Timer) Status() timero.TimerStatus {
	return t.status
}

func (t Timer) Running() bool {
	return t.status == timero.TimerRunning
}

func (t Timer) Remaining() int {
	return t.remaining
}

func (t Timer) PomodorosCompleted() int {
	return t.pomodorosCompleted
}

func (t Timer) AnchorAt() time.Time {
	return t.anchorAt
}

func (t Timer) configuredSeconds(m timero.Mode) int {
	return int(t.Settings.DurationFor(m) / time.Second)
}

func (t *Timer) Toggle(now time.Time) {
	if t.Running() {
		t.status = timero.TimerPaused
		return
	}
	t.Start(now)
}

// Start begins the countdown and re-anchors the wall clock. No-op if already running
// or nothing is left to count.
func (t *Timer) Start(now time.Time) {
	if t.Running() || t.remaining <= 0 {
		return
	}
	t.status = timero.TimerRunning
	t.anchorAt = now
	t.anchorRemaining = t.remaining
}

func (t *Timer) Reset() {
	t.status = timero.TimerPaused
	t.remaining = t.configuredSeconds(t.mode)
}

func (t *Timer) FullReset() {
	t.pomodorosCompleted = 0
	t.SwitchMode(timero.WorkMode)
}

func (t *Timer) SwitchMode(m timero.Mode) {
	t.mode = m
	t.Reset()
}

// SkipBreak returns false outside of breaks.
func (t *Timer) SkipBreak() bool {
	if !t.mode.IsBreak() {
		return false
	}
	t.SwitchMode(timero.WorkMode)
	return true
}

// Tick counts one second down and reports whether the interval ran out.
func (t *Timer) Tick() bool {
	if !t.Running() {
		return false
	}
	t.remaining = max(0, t.remaining-1)
	return t.remaining == 0
}

// Resync recomputes remaining time from the wall-clock anchor and reports whether
// the interval ran out while ticks were suspended.
func (t *Timer) Resync(now time.Time) bool {
	if !t.Running() {
		return false
	}
	elapsed := max(0, int(now.Sub(t.anchorAt)/time.Second))
	t.remaining = max(0, t.anchorRemaining-elapsed)
	return t.remaining == 0
}

// Complete ends the current interval and moves to the next mode, paused.
func (t *Timer) Complete(now time.Time) Completion {
	c := Completion{
		Mode:        t.mode,
		CompletedAt: now,
	}
	t.status = timero.TimerPaused

	if t.mode == timero.WorkMode {
		t.pomodorosCompleted++
		c.WorkMinutes = int(t.Settings.Work / time.Minute)
		if t.pomodorosCompleted%timero.CyclePomodoros == 0 {
			c.Next = timero.LongBreakMode
			c.CycleComplete = true
		} else {
			c.Next = t.Settings.NextBreak.Mode()
		}
	} else {
		c.Next = timero.WorkMode
	}
	c.PomodorosCompleted = t.pomodorosCompleted

	t.mode = c.Next
	t.remaining = t.configuredSeconds(c.Next)
	return c
}

// Configure applies new settings. A paused timer re-derives its remaining time when
// a duration changed; a running countdown is left untouched.
func (t *Timer) Configure(s TimerSettings) {
	changed := !t.Settings.sameDurations(s)
	t.Settings = s
	if changed && !t.Running() {
		t.remaining = t.configuredSeconds(t.mode)
	}
}

func (t Timer) State() TimerState {
	return TimerState{
		Mode:               t.mode,
		Status:             t.status,
		Remaining:          t.remaining,
		Duration:           t.configuredSeconds(t.mode),
		PomodorosCompleted: t.pomodorosCompleted,
	}
}

// TimerState is a read-only snapshot of the timer.
type TimerState struct {
	Mode               timero.Mode
	Status             timero.TimerStatus
	Remaining          int
	Duration           int
	PomodorosCompleted int
	AutoStartPending   bool
}

func (s TimerState) Running() bool {
	return s.Status == timero.TimerRunning
}

// Progress is the fraction of the interval still remaining, in [0,1].
func (s TimerState) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return min(1, max(0, float64(s.Remaining)/float64(s.Duration)))
}

func (s TimerState) FormattedTime() string {
	return FormatTime(s.Remaining)
}

// FormatTime renders seconds as MM:SS. Minutes are not wrapped into hours.
func FormatTime(seconds int) string {
	seconds = max(0, seconds)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
