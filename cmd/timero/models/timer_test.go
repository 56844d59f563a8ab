package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/benjamonnguyen/timero"
)

func testSettings() TimerSettings {
	return TimerSettings{
		Work:       25 * time.Minute,
		ShortBreak: 5 * time.Minute,
		LongBreak:  15 * time.Minute,
		NextBreak:  timero.ShortBreak,
	}
}

func TestNewTimer(t *testing.T) {
	timer := NewTimer(testSettings())

	assert.Equal(t, timero.WorkMode, timer.Mode())
	assert.Equal(t, timero.TimerPaused, timer.Status())
	assert.Equal(t, 25*60, timer.Remaining())
	assert.Equal(t, 0, timer.PomodorosCompleted())
	assert.Equal(t, 1.0, timer.State().Progress())
}

func TestToggle_AnchorsWallClock(t *testing.T) {
	timer := NewTimer(testSettings())
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	timer.Toggle(now)
	assert.True(t, timer.Running())
	assert.Equal(t, now, timer.AnchorAt())

	timer.Tick()
	timer.Toggle(now.Add(time.Second))
	assert.False(t, timer.Running())
	assert.Equal(t, 25*60-1, timer.Remaining(), "pausing keeps remaining time")

	later := now.Add(time.Hour)
	timer.Toggle(later)
	assert.Equal(t, later, timer.AnchorAt())
}

func TestTick_Monotonic(t *testing.T) {
	settings := testSettings()
	settings.Work = 3 * time.Second
	timer := NewTimer(settings)

	assert.False(t, timer.Tick(), "paused timer does not tick")
	assert.Equal(t, 3, timer.Remaining())

	timer.Start(time.Now())
	assert.False(t, timer.Tick())
	assert.Equal(t, 2, timer.Remaining())
	assert.False(t, timer.Tick())
	assert.Equal(t, 1, timer.Remaining())
	assert.True(t, timer.Tick())
	assert.Equal(t, 0, timer.Remaining())
	assert.True(t, timer.Tick())
	assert.Equal(t, 0, timer.Remaining(), "never negative")
}

func TestResync(t *testing.T) {
	settings := testSettings()
	settings.Work = 10 * time.Minute
	anchor := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		elapsed   time.Duration
		remaining int
		completed bool
	}{
		{"partial", 250 * time.Second, 350, false},
		{"sub-second floors", 250*time.Second + 999*time.Millisecond, 350, false},
		{"exact", 600 * time.Second, 0, true},
		{"overdue clamps", 700 * time.Second, 0, true},
		{"clock moved backwards", -90 * time.Second, 600, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timer := NewTimer(settings)
			timer.Start(anchor)
			// ticks may lag behind the wall clock
			timer.Tick()

			completed := timer.Resync(anchor.Add(tt.elapsed))
			assert.Equal(t, tt.completed, completed)
			assert.Equal(t, tt.remaining, timer.Remaining())
		})
	}

	t.Run("paused is untouched", func(t *testing.T) {
		timer := NewTimer(settings)
		assert.False(t, timer.Resync(anchor.Add(time.Hour)))
		assert.Equal(t, 600, timer.Remaining())
	})
}

func TestComplete_ModeCycle(t *testing.T) {
	timer := NewTimer(testSettings())
	now := time.Now()

	var modes []timero.Mode
	modes = append(modes, timer.Mode())
	for range 4 {
		// focus
		c := timer.Complete(now)
		assert.Equal(t, timero.WorkMode, c.Mode)
		assert.Equal(t, 25, c.WorkMinutes)
		modes = append(modes, timer.Mode())
		if c.PomodorosCompleted == 4 {
			assert.True(t, c.CycleComplete)
			break
		}
		assert.False(t, c.CycleComplete)

		// break
		c = timer.Complete(now)
		assert.Equal(t, timero.WorkMode, c.Next)
		assert.Zero(t, c.WorkMinutes)
		modes = append(modes, timer.Mode())
	}

	assert.Equal(t, []timero.Mode{
		timero.WorkMode, timero.ShortBreakMode,
		timero.WorkMode, timero.ShortBreakMode,
		timero.WorkMode, timero.ShortBreakMode,
		timero.WorkMode, timero.LongBreakMode,
	}, modes)
	assert.Equal(t, 4, timer.PomodorosCompleted())
	assert.Equal(t, 15*60, timer.Remaining())
	assert.False(t, timer.Running())
}

func TestComplete_PreferredLongBreak(t *testing.T) {
	settings := testSettings()
	settings.NextBreak = timero.LongBreak
	timer := NewTimer(settings)

	c := timer.Complete(time.Now())
	assert.Equal(t, timero.LongBreakMode, c.Next)
	assert.False(t, c.CycleComplete)
}

func TestComplete_Pauses(t *testing.T) {
	settings := testSettings()
	settings.Work = time.Second
	timer := NewTimer(settings)
	timer.Start(time.Now())

	assert.True(t, timer.Tick())
	timer.Complete(time.Now())
	assert.False(t, timer.Running())
	assert.Equal(t, timero.ShortBreakMode, timer.Mode())
	assert.Equal(t, 5*60, timer.Remaining())
}

func TestResetAndSwitch(t *testing.T) {
	now := time.Now()

	t.Run("reset keeps mode", func(t *testing.T) {
		timer := NewTimer(testSettings())
		timer.SwitchMode(timero.LongBreakMode)
		timer.Start(now)
		timer.Tick()
		timer.Reset()
		assert.Equal(t, timero.LongBreakMode, timer.Mode())
		assert.False(t, timer.Running())
		assert.Equal(t, 15*60, timer.Remaining())
	})

	t.Run("full reset clears count", func(t *testing.T) {
		timer := NewTimer(testSettings())
		timer.Complete(now)
		timer.Complete(now)
		timer.Complete(now)
		assert.Equal(t, 2, timer.PomodorosCompleted())
		timer.FullReset()
		assert.Equal(t, timero.WorkMode, timer.Mode())
		assert.Equal(t, 0, timer.PomodorosCompleted())
		assert.Equal(t, 25*60, timer.Remaining())
	})

	t.Run("switch always pauses", func(t *testing.T) {
		timer := NewTimer(testSettings())
		timer.Start(now)
		timer.SwitchMode(timero.ShortBreakMode)
		assert.False(t, timer.Running())
		assert.Equal(t, 5*60, timer.Remaining())
	})

	t.Run("skip break", func(t *testing.T) {
		timer := NewTimer(testSettings())
		assert.False(t, timer.SkipBreak(), "no-op in focus")
		assert.Equal(t, timero.WorkMode, timer.Mode())

		timer.SwitchMode(timero.LongBreakMode)
		timer.Start(now)
		assert.True(t, timer.SkipBreak())
		assert.Equal(t, timero.WorkMode, timer.Mode())
		assert.False(t, timer.Running())
		assert.Equal(t, 25*60, timer.Remaining())
	})

	t.Run("start with nothing left is a no-op", func(t *testing.T) {
		settings := testSettings()
		settings.Work = 0
		timer := NewTimer(settings)
		timer.Start(now)
		assert.False(t, timer.Running())
	})
}

func TestConfigure(t *testing.T) {
	now := time.Now()

	t.Run("paused re-derives remaining", func(t *testing.T) {
		timer := NewTimer(testSettings())
		timer.Start(now)
		timer.Tick()
		timer.Toggle(now)

		settings := testSettings()
		settings.Work = 50 * time.Minute
		timer.Configure(settings)
		assert.Equal(t, 50*60, timer.Remaining())
	})

	t.Run("running is untouched", func(t *testing.T) {
		timer := NewTimer(testSettings())
		timer.Start(now)
		timer.Tick()

		settings := testSettings()
		settings.Work = 50 * time.Minute
		timer.Configure(settings)
		assert.Equal(t, 25*60-1, timer.Remaining())

		// applies from the next mode change
		timer.Reset()
		assert.Equal(t, 50*60, timer.Remaining())
	})

	t.Run("break type alone keeps remaining", func(t *testing.T) {
		timer := NewTimer(testSettings())
		timer.Start(now)
		timer.Tick()
		timer.Toggle(now)

		settings := testSettings()
		settings.NextBreak = timero.LongBreak
		timer.Configure(settings)
		assert.Equal(t, 25*60-1, timer.Remaining())
	})
}

func TestTimerSettingsFrom(t *testing.T) {
	p := timero.DefaultPreferences()
	p.WorkDuration = 50
	s := TimerSettingsFrom(p)

	assert.Equal(t, 50*time.Minute, s.DurationFor(timero.WorkMode))
	assert.Equal(t, 5*time.Minute, s.DurationFor(timero.ShortBreakMode))
	assert.Equal(t, 15*time.Minute, s.DurationFor(timero.LongBreakMode))
	assert.Equal(t, timero.ShortBreak, s.NextBreak)
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 0.5, TimerState{Remaining: 30, Duration: 60}.Progress())
	assert.Equal(t, 0.0, TimerState{Remaining: 0, Duration: 60}.Progress())
	assert.Equal(t, 0.0, TimerState{}.Progress())
	assert.Equal(t, 1.0, TimerState{Remaining: 90, Duration: 60}.Progress())
}

func TestFormatTime(t *testing.T) {
	tests := map[int]string{
		0:    "00:00",
		5:    "00:05",
		65:   "01:05",
		1500: "25:00",
		3600: "60:00",
		5999: "99:59",
		6000: "100:00",
		-3:   "00:00",
	}
	for seconds, want := range tests {
		assert.Equal(t, want, FormatTime(seconds), "FormatTime(%d)", seconds)
	}
}
