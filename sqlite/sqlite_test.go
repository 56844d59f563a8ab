package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Thiht/transactor"
	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjamonnguyen/timero"
)

func newTestDB(t *testing.T) (transactor.Transactor, txStdLib.DBGetter) {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(context.Background()))
	t.Cleanup(func() { _ = db.Close() })

	return txStdLib.NewTransactor(db.DB(), txStdLib.NestedTransactionsSavepoints)
}

func testLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})
}

func TestOpen_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "nested", "timero.db"))
	require.NoError(t, err)
	defer db.Close() //nolint

	_, err = os.Stat(filepath.Join(dir, "nested"))
	assert.NoError(t, err)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close() //nolint

	ctx := context.Background()
	require.NoError(t, db.RunMigrations(ctx))
	require.NoError(t, db.RunMigrations(ctx))

	var count int
	require.NoError(t, db.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestKVRepo(t *testing.T) {
	ctx := context.Background()
	_, dbGetter := newTestDB(t)
	repo := NewKVRepo(dbGetter, testLogger())

	_, err := repo.Get(ctx, timero.PreferencesKey)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, timero.ErrNotFound)

	require.NoError(t, repo.Set(ctx, timero.PreferencesKey, []byte(`{"version":2}`)))
	got, err := repo.Get(ctx, timero.PreferencesKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":2}`, string(got))

	// overwrite
	require.NoError(t, repo.Set(ctx, timero.PreferencesKey, []byte(`{"version":3}`)))
	got, err = repo.Get(ctx, timero.PreferencesKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":3}`, string(got))

	require.NoError(t, repo.Delete(ctx, timero.PreferencesKey))
	_, err = repo.Get(ctx, timero.PreferencesKey)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, timero.PreferencesKey), ErrNotFound)

	assert.Error(t, repo.Set(ctx, "", nil))
}

func TestKVRepo_RollsBackWithTransaction(t *testing.T) {
	ctx := context.Background()
	tx, dbGetter := newTestDB(t)
	repo := NewKVRepo(dbGetter, testLogger())

	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := repo.Set(ctx, timero.StatsKey, []byte(`{}`)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.Get(ctx, timero.StatsKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHistoryRepo(t *testing.T) {
	ctx := context.Background()
	_, dbGetter := newTestDB(t)
	repo := NewHistoryRepo(dbGetter, testLogger())

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)
	var ids []timero.CompletedSessionID
	for i, mode := range []timero.Mode{timero.WorkMode, timero.ShortBreakMode, timero.WorkMode} {
		rec, err := repo.InsertCompletedSession(ctx, timero.CompletedSessionRecord{
			Mode:        mode,
			Minutes:     25,
			CompletedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
		assert.NotEmpty(t, rec.ID)
		ids = append(ids, rec.ID)
	}
	assert.NotEqual(t, ids[0], ids[1])

	all, err := repo.ListCompletedSessions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// newest first
	assert.Equal(t, ids[2], all[0].ID)
	assert.Equal(t, timero.WorkMode, all[0].Mode)
	assert.Equal(t, timero.ShortBreakMode, all[1].Mode)
	assert.True(t, all[2].CompletedAt.Equal(base))

	limited, err := repo.ListCompletedSessions(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestGenerateParameters(t *testing.T) {
	assert.Equal(t, "()", generateParameters(0))
	assert.Equal(t, "(?)", generateParameters(1))
	assert.Equal(t, "(?, ?, ?)", generateParameters(3))
}

func TestNewULID_Monotonic(t *testing.T) {
	t.Parallel()
	prev := newULID()
	for range 1000 {
		id := newULID()
		require.Greater(t, id, prev)
		prev = id
	}
}
