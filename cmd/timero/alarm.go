package main

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"

	"github.com/benjamonnguyen/timero"
	"github.com/benjamonnguyen/timero/notify"
)

var (
	heavyPulses  = 4
	pulseGap     = 400 * time.Millisecond
	alarmTimeout = 10 * time.Second
)

type Notifier interface {
	Notify(context.Context, notify.Notification) error
}

type Haptics interface {
	Pulse(context.Context, notify.Pulse) error
}

// Alarm signals the end of an interval. Fire must not block the caller.
type Alarm interface {
	Fire(ctx context.Context, completed timero.Mode, prefs timero.PreferencesRecord)
}

type alarmMessage struct {
	title, body string
}

var alarmMessages = map[timero.Mode]alarmMessage{
	timero.WorkMode:       {"Focus session completed!", "Great job! Time for a break."},
	timero.ShortBreakMode: {"Short break finished!", "Ready to focus again?"},
	timero.LongBreakMode:  {"Long break finished!", "Refreshed and ready to work!"},
}

type alarm struct {
	notifier Notifier
	haptics  Haptics
	clock    clockwork.Clock
	l        *log.Logger
	wg       sync.WaitGroup
}

func NewAlarm(notifier Notifier, haptics Haptics, clock clockwork.Clock, l *log.Logger) *alarm {
	return &alarm{
		notifier: notifier,
		haptics:  haptics,
		clock:    clock,
		l:        l,
	}
}

func (a *alarm) Fire(ctx context.Context, completed timero.Mode, prefs timero.PreferencesRecord) {
	// detached so shutdown does not cut an alarm short
	ctx = context.WithoutCancel(ctx)
	a.wg.Go(func() {
		ctx, cancel := context.WithTimeout(ctx, alarmTimeout)
		defer cancel()
		a.fire(ctx, completed, prefs)
	})
}

// Wait blocks until every fired alarm has finished.
func (a *alarm) Wait() {
	a.wg.Wait()
}

func (a *alarm) fire(ctx context.Context, completed timero.Mode, prefs timero.PreferencesRecord) {
	if prefs.AlarmVibrate {
		a.pulse(ctx, notify.PulseSuccess)
	}

	msg := alarmMessages[completed]
	n := notify.Notification{
		Title: msg.title,
		Body:  msg.body,
		Sound: prefs.AlarmSound,
	}
	if err := a.notifier.Notify(ctx, n); err != nil {
		a.l.Error("failed to send notification", "mode", completed, "err", err)
	}

	if !prefs.AlarmVibrate {
		return
	}
	for i := range heavyPulses {
		if i > 0 {
			select {
			case <-a.clock.After(pulseGap):
			case <-ctx.Done():
				a.l.Warn("haptic pattern cut short", "err", ctx.Err())
				return
			}
		}
		a.pulse(ctx, notify.PulseHeavy)
	}
}

func (a *alarm) pulse(ctx context.Context, p notify.Pulse) {
	if err := a.haptics.Pulse(ctx, p); err != nil {
		a.l.Warn("failed haptic pulse", "pulse", p, "err", err)
	}
}
