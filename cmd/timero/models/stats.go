package models

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/benjamonnguyen/timero"
)

// Stats aggregates completed focus sessions.
type Stats struct {
	record timero.StatsRecord
}

func NewStats(record timero.StatsRecord) Stats {
	if record.Daily == nil {
		record.Daily = make(map[string]timero.DailyStats)
	}
	if record.Hourly == nil {
		record.Hourly = make(map[int]int)
	}
	return Stats{record: record}
}

// Snapshot returns a copy that does not share maps with s.
func (s Stats) Snapshot() timero.StatsRecord {
	r := s.record
	r.Daily = maps.Clone(s.record.Daily)
	r.Hourly = maps.Clone(s.record.Hourly)
	if r.Daily == nil {
		r.Daily = make(map[string]timero.DailyStats)
	}
	if r.Hourly == nil {
		r.Hourly = make(map[int]int)
	}
	return r
}

func DateKey(t time.Time) string {
	return t.Format(timero.DateLayout)
}

// RecordSession credits one completed session of minutes at now, in now's location.
func (s *Stats) RecordSession(minutes int, now time.Time) {
	todayKey := DateKey(now)

	day := s.record.Daily[todayKey]
	day.Date = todayKey
	day.Count++
	day.TotalMinutes += minutes
	s.record.Daily[todayKey] = day

	s.record.Hourly[now.Hour()]++

	streak := &s.record.Streak
	switch {
	case streak.LastDate.IsEmpty():
		streak.Current = 1
	case streak.LastDate.Get() == todayKey:
	case streak.LastDate.Get() == DateKey(now.AddDate(0, 0, -1)):
		streak.Current++
	default:
		streak.Current = 1
	}
	streak.LastDate = timero.Some(todayKey)
	streak.Max = max(streak.Max, streak.Current)

	s.record.TotalSessions++
}

func (s Stats) Streak() timero.Streak {
	return s.record.Streak
}

func (s Stats) TotalSessions() int {
	return s.record.TotalSessions
}

func (s Stats) Today(now time.Time) timero.DailyStats {
	key := DateKey(now)
	if day, ok := s.record.Daily[key]; ok {
		return day
	}
	return timero.DailyStats{Date: key}
}

// BestHour is the hour of day with the most sessions. Ties go to the earliest hour.
func (s Stats) BestHour() timero.Optional[int] {
	best, bestCount := -1, 0
	for hour := range 24 {
		if count := s.record.Hourly[hour]; count > bestCount {
			best, bestCount = hour, count
		}
	}
	if best < 0 {
		return timero.None[int]()
	}
	return timero.Some(best)
}

// PeriodStats sums daily entries over a range of days.
type PeriodStats struct {
	Sessions         int
	Minutes          int
	DaysWithSessions int
}

func (p *PeriodStats) add(day timero.DailyStats) {
	p.Sessions += day.Count
	p.Minutes += day.TotalMinutes
	if day.Count > 0 {
		p.DaysWithSessions++
	}
}

// Week covers the most recent Sunday through now's day, inclusive.
func (s Stats) Week(now time.Time) PeriodStats {
	var p PeriodStats
	start := now.AddDate(0, 0, -int(now.Weekday()))
	for d := 0; d <= int(now.Weekday()); d++ {
		if day, ok := s.record.Daily[DateKey(start.AddDate(0, 0, d))]; ok {
			p.add(day)
		}
	}
	return p
}

// Month covers every day of now's calendar month.
func (s Stats) Month(now time.Time) PeriodStats {
	var p PeriodStats
	prefix := now.Format("2006-01-")
	for key, day := range s.record.Daily {
		if strings.HasPrefix(key, prefix) {
			p.add(day)
		}
	}
	return p
}

func (s Stats) AllTime() PeriodStats {
	var p PeriodStats
	for _, day := range s.record.Daily {
		p.add(day)
	}
	p.Sessions = s.record.TotalSessions
	return p
}

// FormatMinutes renders a total like "1h 5m", or "45m" under an hour.
func FormatMinutes(minutes int) string {
	if h := minutes / 60; h > 0 {
		return fmt.Sprintf("%dh %dm", h, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatHour renders an hour of day as "HH:00", or "--:--" when absent.
func FormatHour(hour timero.Optional[int]) string {
	if hour.IsEmpty() {
		return "--:--"
	}
	return fmt.Sprintf("%02d:00", hour.Get())
}
