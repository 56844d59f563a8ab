package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"

	"github.com/benjamonnguyen/timero"
)

const (
	SelectValue = "SELECT value FROM kv WHERE key = ?"
	UpsertValue = "INSERT INTO kv (key, value, created_at, updated_at) VALUES (?, ?, ?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at"
	DeleteValue = "DELETE FROM kv WHERE key = ?"
)

// kvRepo stores opaque blobs by key.
type kvRepo struct {
	dbGetter txStdLib.DBGetter
	l        *log.Logger
}

var _ timero.KVRepo = (*kvRepo)(nil)

func NewKVRepo(dbGetter txStdLib.DBGetter, logger *log.Logger) *kvRepo {
	return &kvRepo{
		dbGetter: dbGetter,
		l:        logger,
	}
}

func (r *kvRepo) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("provide key")
	}

	r.l.Debug("getting value", "query", SelectValue, "key", key)
	var value []byte
	if err := r.dbGetter(ctx).QueryRowContext(ctx, SelectValue, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (r *kvRepo) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("provide key")
	}

	now := time.Now().Unix()
	r.l.Debug("setting value", "query", UpsertValue, "key", key, "bytes", len(value))
	_, err := r.dbGetter(ctx).ExecContext(ctx, UpsertValue, key, value, now, now)
	return err
}

func (r *kvRepo) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("provide key")
	}

	r.l.Debug("deleting value", "query", DeleteValue, "key", key)
	res, err := r.dbGetter(ctx).ExecContext(ctx, DeleteValue, key)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
