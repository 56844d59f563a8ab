package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/benjamonnguyen/timero"
	"github.com/benjamonnguyen/timero/cmd/timero/models"
)

type PreferencesProvider interface {
	// Load reconciles stored preferences. It must run before anything reads them.
	Load(context.Context) error
	Get() timero.PreferencesRecord

	ToggleAutoStart() timero.PreferencesRecord
	SetNextBreakType(timero.BreakType) timero.PreferencesRecord
	SetWorkDuration(minutes int) timero.PreferencesRecord
	SetShortBreakDuration(minutes int) timero.PreferencesRecord
	SetLongBreakDuration(minutes int) timero.PreferencesRecord
	SetAlarmSound(timero.AlarmSound) timero.PreferencesRecord
	SetAlarmVibrate(bool) timero.PreferencesRecord
	// Reset drops stored preferences and returns to defaults.
	Reset() error

	// OnChange registers a handler called after every setter.
	OnChange(func(timero.PreferencesRecord))
}

type preferencesProvider struct {
	repo      timero.KVRepo
	stored    storedValue[timero.PreferencesRecord]
	persister Persister
	l         *log.Logger

	mu       sync.RWMutex
	prefs    timero.PreferencesRecord
	handlers []func(timero.PreferencesRecord)
}

func NewPreferencesProvider(repo timero.KVRepo, persister Persister, l *log.Logger) *preferencesProvider {
	return &preferencesProvider{
		repo: repo,
		stored: storedValue[timero.PreferencesRecord]{
			repo: repo,
			key:  timero.PreferencesKey,
			decode: func(data []byte) (timero.PreferencesRecord, error) {
				prefs, _, err := models.ReconcilePreferences(data)
				return prefs, err
			},
			encode: func(p timero.PreferencesRecord) ([]byte, error) { return json.Marshal(p) },
			clone:  func(p timero.PreferencesRecord) timero.PreferencesRecord { return p },
		},
		persister: persister,
		l:         l,
		prefs:     timero.DefaultPreferences(),
	}
}

func (pp *preferencesProvider) Load(ctx context.Context) error {
	data, err := pp.repo.Get(ctx, timero.PreferencesKey)
	if err != nil && !errors.Is(err, timero.ErrNotFound) {
		return fmt.Errorf("get preferences: %w", err)
	}

	prefs, load, err := models.ReconcilePreferences(data)
	if err != nil {
		pp.l.Warn("discarding stored preferences", "err", err)
	}
	pp.l.Info("loaded preferences", "result", load, "version", prefs.Version)

	pp.mu.Lock()
	pp.prefs = prefs
	pp.mu.Unlock()

	if load.NeedsSave() {
		pp.save(prefs)
	}
	return nil
}

func (pp *preferencesProvider) Get() timero.PreferencesRecord {
	pp.mu.RLock()
	defer pp.mu.RUnlock()
	return pp.prefs
}

func (pp *preferencesProvider) OnChange(handler func(timero.PreferencesRecord)) {
	pp.mu.Lock()
	defer pp.mu.Unlock()
	pp.handlers = append(pp.handlers, handler)
}

func (pp *preferencesProvider) ToggleAutoStart() timero.PreferencesRecord {
	return pp.update(func(p *timero.PreferencesRecord) { p.AutoStart = !p.AutoStart })
}

func (pp *preferencesProvider) SetNextBreakType(b timero.BreakType) timero.PreferencesRecord {
	return pp.update(func(p *timero.PreferencesRecord) { p.NextBreakType = b })
}

// SetWorkDuration expects minutes already clamped to timero.WorkRange.
func (pp *preferencesProvider) SetWorkDuration(minutes int) timero.PreferencesRecord {
	return pp.update(func(p *timero.PreferencesRecord) { p.WorkDuration = minutes })
}

// SetShortBreakDuration expects minutes already clamped to timero.ShortBreakRange.
func (pp *preferencesProvider) SetShortBreakDuration(minutes int) timero.PreferencesRecord {
	return pp.update(func(p *timero.PreferencesRecord) { p.ShortBreakDuration = minutes })
}

// SetLongBreakDuration expects minutes already clamped to timero.LongBreakRange.
func (pp *preferencesProvider) SetLongBreakDuration(minutes int) timero.PreferencesRecord {
	return pp.update(func(p *timero.PreferencesRecord) { p.LongBreakDuration = minutes })
}

func (pp *preferencesProvider) SetAlarmSound(s timero.AlarmSound) timero.PreferencesRecord {
	return pp.update(func(p *timero.PreferencesRecord) { p.AlarmSound = s })
}

func (pp *preferencesProvider) SetAlarmVibrate(v bool) timero.PreferencesRecord {
	return pp.update(func(p *timero.PreferencesRecord) { p.AlarmVibrate = v })
}

func (pp *preferencesProvider) Reset() error {
	pp.mu.Lock()
	err := pp.persister.Do(context.Background(), "reset preferences", func(ctx context.Context) error {
		if err := pp.repo.Delete(ctx, timero.PreferencesKey); err != nil && !errors.Is(err, timero.ErrNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		pp.mu.Unlock()
		return fmt.Errorf("reset preferences: %w", err)
	}
	pp.prefs = timero.DefaultPreferences()
	prefs := pp.prefs
	handlers := pp.handlers
	pp.mu.Unlock()

	for _, h := range handlers {
		h(prefs)
	}
	return nil
}

// update applies mutate on top of the latest stored preferences so changes made
// by another timero process are kept.
func (pp *preferencesProvider) update(mutate func(*timero.PreferencesRecord)) timero.PreferencesRecord {
	pp.mu.Lock()
	prefs, _ := pp.stored.update(pp.persister, pp.l, "save preferences", pp.prefs, func(p *timero.PreferencesRecord) error {
		mutate(p)
		return nil
	})
	pp.prefs = prefs
	handlers := pp.handlers
	pp.mu.Unlock()

	for _, h := range handlers {
		h(prefs)
	}
	return prefs
}

func (pp *preferencesProvider) save(prefs timero.PreferencesRecord) {
	data, err := json.Marshal(prefs)
	if err != nil {
		pp.l.Error("failed to encode preferences", "err", err)
		return
	}
	pp.persister.Enqueue("save preferences", func(ctx context.Context) error {
		return pp.repo.Set(ctx, timero.PreferencesKey, data)
	})
}
