package sqlite

import (
	"context"
	"time"

	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"

	"github.com/benjamonnguyen/timero"
)

const (
	SelectAllCompletedSessions = "SELECT id, mode, minutes, completed_at, created_at, updated_at FROM completed_sessions"
)

type completedSessionEntity struct {
	ID          string
	Mode        string
	Minutes     int
	CompletedAt int64
	CreatedAt   int64
	UpdatedAt   int64
}

// historyRepo appends one row per completed interval.
type historyRepo struct {
	dbGetter txStdLib.DBGetter
	l        *log.Logger
}

var _ timero.HistoryRepo = (*historyRepo)(nil)

func NewHistoryRepo(dbGetter txStdLib.DBGetter, logger *log.Logger) *historyRepo {
	return &historyRepo{
		dbGetter: dbGetter,
		l:        logger,
	}
}

func (r *historyRepo) InsertCompletedSession(ctx context.Context, s timero.CompletedSessionRecord) (timero.ExistingCompletedSessionRecord, error) {
	existingRecord := timero.ExistingCompletedSessionRecord{
		CompletedSessionRecord: s,
		ExistingRecord:         timero.NewExistingRecord[timero.CompletedSessionID](newULID()),
	}
	e := mapToCompletedSessionEntity(existingRecord)

	args := []any{
		e.ID,
		e.Mode,
		e.Minutes,
		e.CompletedAt,
		e.CreatedAt,
		e.UpdatedAt,
	}
	query := "INSERT INTO completed_sessions (id, mode, minutes, completed_at, created_at, updated_at) VALUES " + generateParameters(len(args))
	r.l.Debug("recording completed session", "query", query, "args", args)
	if _, err := r.dbGetter(ctx).ExecContext(ctx, query, args...); err != nil {
		return timero.ExistingCompletedSessionRecord{}, err
	}

	return existingRecord, nil
}

// ListCompletedSessions returns the most recent sessions first. limit <= 0 means no limit.
func (r *historyRepo) ListCompletedSessions(ctx context.Context, limit int) ([]timero.ExistingCompletedSessionRecord, error) {
	query := SelectAllCompletedSessions + " ORDER BY completed_at DESC, id DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	r.l.Debug("listing completed sessions", "query", query, "limit", limit)

	rows, err := r.dbGetter(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint

	var sessions []timero.ExistingCompletedSessionRecord
	for rows.Next() {
		s, err := extractCompletedSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func extractCompletedSession(s scannable) (timero.ExistingCompletedSessionRecord, error) {
	var e completedSessionEntity
	if err := s.Scan(&e.ID, &e.Mode, &e.Minutes, &e.CompletedAt, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return timero.ExistingCompletedSessionRecord{}, err
	}
	return mapToExistingCompletedSessionRecord(e)
}

// newULID ids sort in insertion order, even within one millisecond.
func newULID() string {
	return ulid.Make().String()
}

func mapToCompletedSessionEntity(s timero.ExistingCompletedSessionRecord) completedSessionEntity {
	return completedSessionEntity{
		ID:          string(s.ID),
		Mode:        s.Mode.Key(),
		Minutes:     s.Minutes,
		CompletedAt: s.CompletedAt.UnixMilli(),
		CreatedAt:   s.CreatedAt.Unix(),
		UpdatedAt:   s.UpdatedAt.Unix(),
	}
}

func mapToExistingCompletedSessionRecord(e completedSessionEntity) (timero.ExistingCompletedSessionRecord, error) {
	mode, err := timero.ParseMode(e.Mode)
	if err != nil {
		return timero.ExistingCompletedSessionRecord{}, err
	}
	return timero.ExistingCompletedSessionRecord{
		ExistingRecord: timero.ExistingRecord[timero.CompletedSessionID]{
			ID:        timero.CompletedSessionID(e.ID),
			CreatedAt: time.Unix(e.CreatedAt, 0),
			UpdatedAt: time.Unix(e.UpdatedAt, 0),
		},
		CompletedSessionRecord: timero.CompletedSessionRecord{
			Mode:        mode,
			Minutes:     e.Minutes,
			CompletedAt: time.UnixMilli(e.CompletedAt),
		},
	}, nil
}
