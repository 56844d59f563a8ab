package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"

	"github.com/benjamonnguyen/timero"
	"github.com/benjamonnguyen/timero/cmd/timero/models"
)

type StatsProvider interface {
	Load(context.Context) error
	// RecordSession credits a completed focus session of minutes at the current time.
	RecordSession(minutes int) models.Stats
	Stats() models.Stats
	History(ctx context.Context, limit int) ([]timero.ExistingCompletedSessionRecord, error)
}

type statsProvider struct {
	repo      timero.KVRepo
	stored    storedValue[models.Stats]
	history   timero.HistoryRepo
	persister Persister
	clock     clockwork.Clock
	l         *log.Logger

	mu    sync.RWMutex
	stats models.Stats
}

func NewStatsProvider(repo timero.KVRepo, history timero.HistoryRepo, persister Persister, clock clockwork.Clock, l *log.Logger) *statsProvider {
	return &statsProvider{
		repo: repo,
		stored: storedValue[models.Stats]{
			repo: repo,
			key:  timero.StatsKey,
			decode: func(data []byte) (models.Stats, error) {
				record := timero.EmptyStats()
				err := json.Unmarshal(data, &record)
				return models.NewStats(record), err
			},
			encode: func(s models.Stats) ([]byte, error) { return json.Marshal(s.Snapshot()) },
			clone:  func(s models.Stats) models.Stats { return models.NewStats(s.Snapshot()) },
		},
		history:   history,
		persister: persister,
		clock:     clock,
		l:         l,
		stats:     models.NewStats(timero.EmptyStats()),
	}
}

func (sp *statsProvider) Load(ctx context.Context) error {
	data, err := sp.repo.Get(ctx, timero.StatsKey)
	if err != nil {
		if errors.Is(err, timero.ErrNotFound) {
			sp.l.Info("no stored stats")
			return nil
		}
		return fmt.Errorf("get stats: %w", err)
	}

	record := timero.EmptyStats()
	if err := json.Unmarshal(data, &record); err != nil {
		sp.l.Warn("discarding stored stats", "err", err)
		record = timero.EmptyStats()
	}

	sp.mu.Lock()
	sp.stats = models.NewStats(record)
	sp.mu.Unlock()
	sp.l.Info("loaded stats", "totalSessions", record.TotalSessions, "streak", record.Streak.Current)
	return nil
}

// RecordSession saves the aggregate and appends to the history log as two
// independent writes.
func (sp *statsProvider) RecordSession(minutes int) models.Stats {
	now := sp.clock.Now()

	sp.mu.Lock()
	stats, _ := sp.stored.update(sp.persister, sp.l, "record session", sp.stats, func(s *models.Stats) error {
		s.RecordSession(minutes, now)
		return nil
	})
	sp.stats = stats
	snapshot := stats.Snapshot()
	sp.mu.Unlock()

	completed := timero.CompletedSessionRecord{
		Mode:        timero.WorkMode,
		Minutes:     minutes,
		CompletedAt: now,
	}
	sp.persister.Enqueue("append history", func(ctx context.Context) error {
		if _, err := sp.history.InsertCompletedSession(ctx, completed); err != nil {
			return fmt.Errorf("insert completed session: %w", err)
		}
		return nil
	})
	return models.NewStats(snapshot)
}

func (sp *statsProvider) Stats() models.Stats {
	sp.mu.RLock()
	defer sp.mu.RUnlock()
	return models.NewStats(sp.stats.Snapshot())
}

func (sp *statsProvider) History(ctx context.Context, limit int) ([]timero.ExistingCompletedSessionRecord, error) {
	return sp.history.ListCompletedSessions(ctx, limit)
}
