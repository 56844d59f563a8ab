package timero

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

type (
	TaskID             string
	CompletedSessionID string
)

type ExistingRecord[T ~string] struct {
	ID        T         `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewExistingRecord[T ~string](id string) ExistingRecord[T] {
	now := time.Now()
	return ExistingRecord[T]{
		ID:        T(id),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Keys of the three persisted aggregates.
const (
	PreferencesKey = "timero_prefs"
	StatsKey       = "timero_stats"
	TasksKey       = "timero_tasks"
)

// KVRepo is a durable byte store addressed by key.
type KVRepo interface {
	// Get returns ErrNotFound for a missing key.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type HistoryRepo interface {
	InsertCompletedSession(context.Context, CompletedSessionRecord) (ExistingCompletedSessionRecord, error)
	ListCompletedSessions(ctx context.Context, limit int) ([]ExistingCompletedSessionRecord, error)
}
