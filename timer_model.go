package timero

import (
	"fmt"
	"time"
)

type TimerStatus uint8

const (
	_ TimerStatus = iota
	TimerRunning
	TimerPaused
)

func (s TimerStatus) String() string {
	switch s {
	case TimerRunning:
		return "Running"
	case TimerPaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// Mode is the interval type the timer is counting down.
type Mode uint8

const (
	_ Mode = iota
	WorkMode
	ShortBreakMode
	LongBreakMode
)

var Modes = []Mode{WorkMode, ShortBreakMode, LongBreakMode}

func (m Mode) String() string {
	switch m {
	case WorkMode:
		return "Focus"
	case ShortBreakMode:
		return "Short Break"
	case LongBreakMode:
		return "Long Break"
	default:
		panic(fmt.Sprintf("no matching enum for Mode: %d", uint8(m)))
	}
}

// Key is the stable identifier used in persisted data and on the command line.
func (m Mode) Key() string {
	switch m {
	case WorkMode:
		return "work"
	case ShortBreakMode:
		return "shortBreak"
	case LongBreakMode:
		return "longBreak"
	default:
		return ""
	}
}

func (m Mode) IsBreak() bool {
	return m == ShortBreakMode || m == LongBreakMode
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "work", "focus", "pomodoro":
		return WorkMode, nil
	case "shortBreak", "short_break", "short":
		return ShortBreakMode, nil
	case "longBreak", "long_break", "long":
		return LongBreakMode, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

func (m Mode) MarshalText() ([]byte, error) {
	if m.Key() == "" {
		return nil, fmt.Errorf("invalid mode %d", uint8(m))
	}
	return []byte(m.Key()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// BreakType is the break preferred after a focus interval that does not close a cycle.
type BreakType string

const (
	ShortBreak BreakType = "short"
	LongBreak  BreakType = "long"
)

func (b BreakType) Mode() Mode {
	if b == LongBreak {
		return LongBreakMode
	}
	return ShortBreakMode
}

func ParseBreakType(s string) (BreakType, error) {
	switch BreakType(s) {
	case ShortBreak, LongBreak:
		return BreakType(s), nil
	}
	return "", fmt.Errorf("unknown break type %q (want short or long)", s)
}

type AlarmSound string

const (
	SoundBell    AlarmSound = "bell"
	SoundChime   AlarmSound = "chime"
	SoundDigital AlarmSound = "digital"
	SoundNone    AlarmSound = "none"
)

var AlarmSounds = []AlarmSound{SoundBell, SoundChime, SoundDigital, SoundNone}

func ParseAlarmSound(s string) (AlarmSound, error) {
	for _, sound := range AlarmSounds {
		if string(sound) == s {
			return sound, nil
		}
	}
	return "", fmt.Errorf("unknown alarm sound %q", s)
}

// CyclePomodoros is the number of focus intervals that earn a long break.
const CyclePomodoros = 4

type CompletedSessionRecord struct {
	Mode        Mode
	Minutes     int
	CompletedAt time.Time
}

type ExistingCompletedSessionRecord struct {
	ExistingRecord[CompletedSessionID]
	CompletedSessionRecord
}
