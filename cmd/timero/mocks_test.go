package main

import (
	"context"
	"io"
	"sync"

	"github.com/Thiht/transactor"
	"github.com/charmbracelet/log"

	"github.com/benjamonnguyen/timero"
	"github.com/benjamonnguyen/timero/cmd/timero/models"
	"github.com/benjamonnguyen/timero/notify"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

// mockKVRepo is an in-memory timero.KVRepo; func fields override behavior.
type mockKVRepo struct {
	mu      sync.Mutex
	data    map[string][]byte
	getFunc func(context.Context, string) ([]byte, error)
	setFunc func(context.Context, string, []byte) error
}

func newMockKVRepo() *mockKVRepo {
	return &mockKVRepo{data: make(map[string][]byte)}
}

func (m *mockKVRepo) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, timero.ErrNotFound
	}
	return v, nil
}

func (m *mockKVRepo) Set(ctx context.Context, key string, value []byte) error {
	if m.setFunc != nil {
		return m.setFunc(ctx, key, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockKVRepo) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *mockKVRepo) value(key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key]
}

var _ timero.KVRepo = (*mockKVRepo)(nil)

type mockHistoryRepo struct {
	mu         sync.Mutex
	inserted   []timero.CompletedSessionRecord
	insertFunc func(context.Context, timero.CompletedSessionRecord) (timero.ExistingCompletedSessionRecord, error)
	listFunc   func(context.Context, int) ([]timero.ExistingCompletedSessionRecord, error)
}

func (m *mockHistoryRepo) InsertCompletedSession(ctx context.Context, s timero.CompletedSessionRecord) (timero.ExistingCompletedSessionRecord, error) {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, s)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserted = append(m.inserted, s)
	return timero.ExistingCompletedSessionRecord{CompletedSessionRecord: s}, nil
}

func (m *mockHistoryRepo) ListCompletedSessions(ctx context.Context, limit int) ([]timero.ExistingCompletedSessionRecord, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit)
	}
	return nil, nil
}

var _ timero.HistoryRepo = (*mockHistoryRepo)(nil)

// mockTransactor is a mock implementation of transactor.Transactor
type mockTransactor struct {
	withinTransactionFunc func(context.Context, func(context.Context) error) error
}

func (m *mockTransactor) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	if m.withinTransactionFunc != nil {
		return m.withinTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

var _ transactor.Transactor = (*mockTransactor)(nil)

// syncPersister runs each op immediately on the caller's goroutine.
type syncPersister struct {
	mu    sync.Mutex
	names []string
	errs  []error
}

func (p *syncPersister) Enqueue(name string, op func(context.Context) error) {
	err := op(context.Background())
	p.mu.Lock()
	defer p.mu.Unlock()
	p.names = append(p.names, name)
	p.errs = append(p.errs, err)
}

func (p *syncPersister) Do(ctx context.Context, name string, op func(context.Context) error) error {
	err := op(ctx)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.names = append(p.names, name)
	p.errs = append(p.errs, err)
	return err
}

func (p *syncPersister) Flush(context.Context) error { return nil }
func (p *syncPersister) Close() error                { return nil }

func (p *syncPersister) ops() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.names...)
}

var _ Persister = (*syncPersister)(nil)

type mockPreferences struct {
	mu    sync.Mutex
	prefs timero.PreferencesRecord
}

func (m *mockPreferences) Get() timero.PreferencesRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prefs
}

func (m *mockPreferences) set(fn func(*timero.PreferencesRecord)) timero.PreferencesRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.prefs)
	return m.prefs
}

func (m *mockPreferences) ToggleAutoStart() timero.PreferencesRecord {
	return m.set(func(p *timero.PreferencesRecord) { p.AutoStart = !p.AutoStart })
}

type mockSessionRecorder struct {
	mu      sync.Mutex
	minutes []int
}

func (m *mockSessionRecorder) RecordSession(minutes int) models.Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.minutes = append(m.minutes, minutes)
	return models.NewStats(timero.EmptyStats())
}

func (m *mockSessionRecorder) recorded() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.minutes...)
}

type mockPomodoroCredit struct {
	incrementFunc func() (timero.ExistingTaskRecord, bool)
	calls         int
	mu            sync.Mutex
}

func (m *mockPomodoroCredit) IncrementPomodoro() (timero.ExistingTaskRecord, bool) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.incrementFunc != nil {
		return m.incrementFunc()
	}
	return timero.ExistingTaskRecord{}, false
}

func (m *mockPomodoroCredit) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type firedAlarm struct {
	mode  timero.Mode
	prefs timero.PreferencesRecord
}

type mockAlarm struct {
	mu    sync.Mutex
	fired []firedAlarm
}

func (m *mockAlarm) Fire(ctx context.Context, completed timero.Mode, prefs timero.PreferencesRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fired = append(m.fired, firedAlarm{completed, prefs})
}

func (m *mockAlarm) modes() []timero.Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []timero.Mode
	for _, f := range m.fired {
		out = append(out, f.mode)
	}
	return out
}

type mockNotifier struct {
	mu         sync.Mutex
	notifyFunc func(context.Context, notify.Notification) error
	sent       []notify.Notification
}

func (m *mockNotifier) Notify(ctx context.Context, n notify.Notification) error {
	m.mu.Lock()
	m.sent = append(m.sent, n)
	m.mu.Unlock()
	if m.notifyFunc != nil {
		return m.notifyFunc(ctx, n)
	}
	return nil
}

type mockHaptics struct {
	mu        sync.Mutex
	pulseFunc func(context.Context, notify.Pulse) error
	pulses    []notify.Pulse
}

func (m *mockHaptics) Pulse(ctx context.Context, p notify.Pulse) error {
	m.mu.Lock()
	m.pulses = append(m.pulses, p)
	m.mu.Unlock()
	if m.pulseFunc != nil {
		return m.pulseFunc(ctx, p)
	}
	return nil
}

func (m *mockHaptics) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pulses)
}
