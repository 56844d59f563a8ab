package timero

// PreferencesVersion gates trust in persisted preferences. Bump it whenever
// defaults change in a way saved values must not survive.
const PreferencesVersion = 2

type PreferencesRecord struct {
	Version            int        `json:"version"`
	AutoStart          bool       `json:"autoStart"`
	NextBreakType      BreakType  `json:"nextBreakType"`
	WorkDuration       int        `json:"workDuration"`
	ShortBreakDuration int        `json:"shortBreakDuration"`
	LongBreakDuration  int        `json:"longBreakDuration"`
	AlarmSound         AlarmSound `json:"alarmSound"`
	AlarmVibrate       bool       `json:"alarmVibrate"`
}

func DefaultPreferences() PreferencesRecord {
	return PreferencesRecord{
		Version:            PreferencesVersion,
		AutoStart:          false,
		NextBreakType:      ShortBreak,
		WorkDuration:       25,
		ShortBreakDuration: 5,
		LongBreakDuration:  15,
		AlarmSound:         SoundBell,
		AlarmVibrate:       true,
	}
}

// DurationRange bounds a duration preference in minutes.
type DurationRange struct {
	Min, Max int
}

var (
	WorkRange       = DurationRange{Min: 1, Max: 90}
	ShortBreakRange = DurationRange{Min: 1, Max: 30}
	LongBreakRange  = DurationRange{Min: 1, Max: 60}
)

func (r DurationRange) Clamp(minutes int) int {
	return min(max(minutes, r.Min), r.Max)
}

func RangeFor(m Mode) DurationRange {
	switch m {
	case ShortBreakMode:
		return ShortBreakRange
	case LongBreakMode:
		return LongBreakRange
	default:
		return WorkRange
	}
}

// MinutesFor returns the configured length of an interval of mode m.
func (p PreferencesRecord) MinutesFor(m Mode) int {
	switch m {
	case ShortBreakMode:
		return p.ShortBreakDuration
	case LongBreakMode:
		return p.LongBreakDuration
	default:
		return p.WorkDuration
	}
}
