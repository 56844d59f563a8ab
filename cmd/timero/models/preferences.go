package models

import (
	"encoding/json"
	"fmt"

	"github.com/benjamonnguyen/timero"
)

// PreferencesLoad reports how stored preferences were reconciled.
type PreferencesLoad uint8

const (
	// PreferencesMissing means nothing was stored; defaults apply.
	PreferencesMissing PreferencesLoad = iota
	// PreferencesMerged means stored values at the current version were kept.
	PreferencesMerged
	// PreferencesReset means an older version was discarded in favor of defaults.
	PreferencesReset
	// PreferencesCorrupt means stored bytes did not parse; defaults apply.
	PreferencesCorrupt
)

func (l PreferencesLoad) String() string {
	switch l {
	case PreferencesMissing:
		return "missing"
	case PreferencesMerged:
		return "merged"
	case PreferencesReset:
		return "reset"
	case PreferencesCorrupt:
		return "corrupt"
	default:
		return fmt.Sprintf("PreferencesLoad(%d)", uint8(l))
	}
}

// NeedsSave is true when the reconciled record differs from what is stored.
func (l PreferencesLoad) NeedsSave() bool {
	return l == PreferencesReset || l == PreferencesCorrupt
}

// ReconcilePreferences resolves stored bytes against the current schema version.
// Versions older than timero.PreferencesVersion (absent counts as 0) are replaced by
// defaults wholesale. Current versions are merged onto defaults so fields added since
// the last save get default values. The returned error is informational; the record is
// always usable.
func ReconcilePreferences(data []byte) (timero.PreferencesRecord, PreferencesLoad, error) {
	if len(data) == 0 {
		return timero.DefaultPreferences(), PreferencesMissing, nil
	}

	var header struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return timero.DefaultPreferences(), PreferencesCorrupt, fmt.Errorf("parse preferences: %w", err)
	}
	if header.Version < timero.PreferencesVersion {
		return timero.DefaultPreferences(), PreferencesReset, nil
	}

	p := timero.DefaultPreferences()
	if err := json.Unmarshal(data, &p); err != nil {
		return timero.DefaultPreferences(), PreferencesCorrupt, fmt.Errorf("parse preferences: %w", err)
	}
	p.Version = timero.PreferencesVersion
	return normalizePreferences(p), PreferencesMerged, nil
}

// normalizePreferences swaps values the timer cannot run with for their defaults.
// It does not clamp; that is the caller's job when setting.
func normalizePreferences(p timero.PreferencesRecord) timero.PreferencesRecord {
	d := timero.DefaultPreferences()
	if _, err := timero.ParseBreakType(string(p.NextBreakType)); err != nil {
		p.NextBreakType = d.NextBreakType
	}
	if _, err := timero.ParseAlarmSound(string(p.AlarmSound)); err != nil {
		p.AlarmSound = d.AlarmSound
	}
	if p.WorkDuration <= 0 {
		p.WorkDuration = d.WorkDuration
	}
	if p.ShortBreakDuration <= 0 {
		p.ShortBreakDuration = d.ShortBreakDuration
	}
	if p.LongBreakDuration <= 0 {
		p.LongBreakDuration = d.LongBreakDuration
	}
	return p
}
