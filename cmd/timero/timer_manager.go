package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"

	"github.com/benjamonnguyen/timero"
	"github.com/benjamonnguyen/timero/cmd/timero/models"
)

var ErrStopped = errors.New("timer manager stopped")

type TimerManager interface {
	Toggle(context.Context) (models.TimerState, error)
	Reset(context.Context) (models.TimerState, error)
	FullReset(context.Context) (models.TimerState, error)
	SwitchMode(context.Context, timero.Mode) (models.TimerState, error)
	// SkipBreak is a no-op outside of breaks.
	SkipBreak(context.Context) (models.TimerState, error)
	State(context.Context) (models.TimerState, error)

	// Foreground recomputes remaining time from the wall clock after the host resumes.
	Foreground(context.Context) (models.TimerState, error)
	Background(context.Context) (models.TimerState, error)
	// Configure applies changed preferences. Only a paused timer picks up new durations immediately.
	Configure(context.Context, timero.PreferencesRecord) (models.TimerState, error)

	OnTimerUpdate(func(ctx context.Context, before, curr models.TimerState))
	OnIntervalComplete(func(context.Context, models.Completion))
	Shutdown() error
}

type PreferencesSource interface {
	Get() timero.PreferencesRecord
}

type SessionRecorder interface {
	RecordSession(minutes int) models.Stats
}

type PomodoroCredit interface {
	IncrementPomodoro() (timero.ExistingTaskRecord, bool)
}

type TimerManagerOptions struct {
	Tick           time.Duration
	AutoStartDelay time.Duration
}

type timerCommand struct {
	name string
	// manual commands cancel a pending auto-start when they take effect
	manual bool
	apply  func(ctx context.Context, now time.Time) bool
	reply  chan models.TimerState
}

type timerManager struct {
	prefs  PreferencesSource
	stats  SessionRecorder
	tasks  PomodoroCredit
	alarm  Alarm
	clock  clockwork.Clock
	opts   TimerManagerOptions
	l      *log.Logger
	cmds   chan timerCommand
	hooks  *workQueue
	cancel context.CancelFunc
	done   chan struct{}
	wg     sync.WaitGroup

	hooksMu            sync.RWMutex
	onTimerUpdate      []func(context.Context, models.TimerState, models.TimerState)
	onIntervalComplete []func(context.Context, models.Completion)

	// owned by the loop goroutine
	timer     models.Timer
	ticker    clockwork.Ticker
	autoStart clockwork.Timer
}

// NewTimerManager starts the timer loop. prefs must already be loaded.
func NewTimerManager(
	ctx context.Context,
	prefs PreferencesSource,
	stats SessionRecorder,
	tasks PomodoroCredit,
	alarm Alarm,
	clock clockwork.Clock,
	opts TimerManagerOptions,
	l *log.Logger,
) *timerManager {
	if opts.Tick <= 0 {
		opts.Tick = time.Second
	}
	ctx, cancel := context.WithCancel(ctx)
	m := &timerManager{
		prefs:  prefs,
		stats:  stats,
		tasks:  tasks,
		alarm:  alarm,
		clock:  clock,
		opts:   opts,
		l:      l,
		cmds:   make(chan timerCommand),
		hooks:  newWorkQueue(),
		cancel: cancel,
		done:   make(chan struct{}),
		timer:  models.NewTimer(models.TimerSettingsFrom(prefs.Get())),
	}

	m.wg.Go(m.hooks.run)
	m.wg.Go(func() {
		defer m.hooks.close()
		defer close(m.done)
		m.run(ctx)
	})
	return m
}

func (m *timerManager) OnTimerUpdate(handler func(ctx context.Context, before, curr models.TimerState)) {
	m.hooksMu.Lock()
	defer m.hooksMu.Unlock()
	m.onTimerUpdate = append(m.onTimerUpdate, handler)
}

func (m *timerManager) OnIntervalComplete(handler func(context.Context, models.Completion)) {
	m.hooksMu.Lock()
	defer m.hooksMu.Unlock()
	m.onIntervalComplete = append(m.onIntervalComplete, handler)
}

func (m *timerManager) Toggle(ctx context.Context) (models.TimerState, error) {
	return m.do(ctx, "toggle", true, func(_ context.Context, now time.Time) bool {
		m.timer.Toggle(now)
		return true
	})
}

func (m *timerManager) Reset(ctx context.Context) (models.TimerState, error) {
	return m.do(ctx, "reset", true, func(context.Context, time.Time) bool {
		m.timer.Reset()
		return true
	})
}

func (m *timerManager) FullReset(ctx context.Context) (models.TimerState, error) {
	return m.do(ctx, "full reset", true, func(context.Context, time.Time) bool {
		m.timer.FullReset()
		return true
	})
}

func (m *timerManager) SwitchMode(ctx context.Context, mode timero.Mode) (models.TimerState, error) {
	return m.do(ctx, "switch mode", true, func(context.Context, time.Time) bool {
		m.timer.SwitchMode(mode)
		return true
	})
}

func (m *timerManager) SkipBreak(ctx context.Context) (models.TimerState, error) {
	return m.do(ctx, "skip break", true, func(context.Context, time.Time) bool {
		return m.timer.SkipBreak()
	})
}

func (m *timerManager) State(ctx context.Context) (models.TimerState, error) {
	return m.do(ctx, "state", false, func(context.Context, time.Time) bool { return false })
}

func (m *timerManager) Foreground(ctx context.Context) (models.TimerState, error) {
	return m.do(ctx, "foreground", false, func(ctx context.Context, now time.Time) bool {
		m.l.Debug("foreground", "running", m.timer.Running())
		if !m.timer.Running() {
			return false
		}
		if m.timer.Resync(now) {
			m.complete(ctx, now)
		} else if m.ticker != nil {
			// drop ticks buffered while suspended
			m.ticker.Reset(m.opts.Tick)
			select {
			case <-m.ticker.Chan():
			default:
			}
		}
		return true
	})
}

func (m *timerManager) Background(ctx context.Context) (models.TimerState, error) {
	return m.do(ctx, "background", false, func(context.Context, time.Time) bool {
		m.l.Debug("background", "running", m.timer.Running(), "anchorAt", m.timer.AnchorAt())
		return false
	})
}

func (m *timerManager) Configure(ctx context.Context, prefs timero.PreferencesRecord) (models.TimerState, error) {
	return m.do(ctx, "configure", false, func(context.Context, time.Time) bool {
		m.timer.Configure(models.TimerSettingsFrom(prefs))
		return true
	})
}

func (m *timerManager) Shutdown() error {
	m.cancel()
	m.wg.Wait()
	return nil
}

func (m *timerManager) do(ctx context.Context, name string, manual bool, apply func(context.Context, time.Time) bool) (models.TimerState, error) {
	cmd := timerCommand{
		name:   name,
		manual: manual,
		apply:  apply,
		reply:  make(chan models.TimerState, 1),
	}
	select {
	case m.cmds <- cmd:
	case <-m.done:
		return models.TimerState{}, ErrStopped
	case <-ctx.Done():
		return models.TimerState{}, ctx.Err()
	}
	select {
	case s := <-cmd.reply:
		return s, nil
	case <-m.done:
		return models.TimerState{}, ErrStopped
	case <-ctx.Done():
		return models.TimerState{}, ctx.Err()
	}
}

func (m *timerManager) run(ctx context.Context) {
	defer m.stopTicker()
	defer m.cancelAutoStart()

	m.l.Info("timer ready", "mode", m.timer.Mode(), "remaining", models.FormatTime(m.timer.Remaining()))
	for {
		var tickC, autoStartC <-chan time.Time
		if m.ticker != nil {
			tickC = m.ticker.Chan()
		}
		if m.autoStart != nil {
			autoStartC = m.autoStart.Chan()
		}

		select {
		case <-ctx.Done():
			return
		case cmd := <-m.cmds:
			before := m.state()
			now := m.clock.Now()
			applied := cmd.apply(ctx, now)
			if applied && cmd.manual {
				m.cancelAutoStart()
			}
			m.syncTicker()
			curr := m.state()
			cmd.reply <- curr
			if applied {
				m.l.Debug("applied command", "cmd", cmd.name, "mode", curr.Mode, "status", curr.Status, "remaining", curr.Remaining)
			}
			m.emitUpdate(ctx, before, curr)
		case now := <-tickC:
			before := m.state()
			if m.timer.Tick() {
				m.complete(ctx, now)
			}
			m.syncTicker()
			m.emitUpdate(ctx, before, m.state())
		case now := <-autoStartC:
			before := m.state()
			m.autoStart = nil
			m.timer.Start(now)
			m.l.Info("auto-started", "mode", m.timer.Mode())
			m.syncTicker()
			m.emitUpdate(ctx, before, m.state())
		}
	}
}

// complete handles an interval that ran out. Side effects never block the loop.
func (m *timerManager) complete(ctx context.Context, now time.Time) {
	c := m.timer.Complete(now)
	prefs := m.prefs.Get()
	m.l.Info("interval complete", "mode", c.Mode, "next", c.Next, "pomodoros", c.PomodorosCompleted)

	m.alarm.Fire(ctx, c.Mode, prefs)

	if c.Mode == timero.WorkMode {
		m.stats.RecordSession(c.WorkMinutes)
		if task, ok := m.tasks.IncrementPomodoro(); ok {
			m.l.Info("credited task", "taskID", task.ID, "completed", task.CompletedPomodoros, "estimated", task.EstimatedPomodoros)
		}
	}

	m.emitComplete(ctx, c)

	if prefs.AutoStart {
		m.cancelAutoStart()
		m.autoStart = m.clock.NewTimer(m.opts.AutoStartDelay)
	}
}

func (m *timerManager) state() models.TimerState {
	s := m.timer.State()
	s.AutoStartPending = m.autoStart != nil
	return s
}

func (m *timerManager) syncTicker() {
	switch {
	case m.timer.Running() && m.ticker == nil:
		m.ticker = m.clock.NewTicker(m.opts.Tick)
	case !m.timer.Running() && m.ticker != nil:
		m.stopTicker()
	}
}

func (m *timerManager) stopTicker() {
	if m.ticker != nil {
		m.ticker.Stop()
		m.ticker = nil
	}
}

func (m *timerManager) cancelAutoStart() {
	if m.autoStart != nil {
		m.autoStart.Stop()
		m.autoStart = nil
		m.l.Debug("cancelled auto-start")
	}
}

func (m *timerManager) emitUpdate(ctx context.Context, before, curr models.TimerState) {
	if before == curr {
		return
	}
	m.hooksMu.RLock()
	handlers := m.onTimerUpdate
	m.hooksMu.RUnlock()
	if len(handlers) == 0 {
		return
	}
	m.hooks.push(func() {
		for _, h := range handlers {
			h(ctx, before, curr)
		}
	})
}

func (m *timerManager) emitComplete(ctx context.Context, c models.Completion) {
	m.hooksMu.RLock()
	handlers := m.onIntervalComplete
	m.hooksMu.RUnlock()
	if len(handlers) == 0 {
		return
	}
	m.hooks.push(func() {
		for _, h := range handlers {
			h(ctx, c)
		}
	})
}
