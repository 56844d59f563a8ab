package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersister_RunsInOrder(t *testing.T) {
	t.Parallel()

	var (
		mu  sync.Mutex
		ran []int
	)
	var txCalls int
	tx := &mockTransactor{
		withinTransactionFunc: func(ctx context.Context, fn func(context.Context) error) error {
			mu.Lock()
			txCalls++
			mu.Unlock()
			return fn(ctx)
		},
	}
	p := NewPersister(tx, discardLogger())
	defer p.Close() //nolint

	for i := range 20 {
		p.Enqueue("op", func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			ran = append(ran, i)
			return nil
		})
	}
	require.NoError(t, p.Flush(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, ran, 20)
	for i, v := range ran {
		assert.Equal(t, i, v)
	}
	assert.Equal(t, 20, txCalls, "each op gets its own transaction")
}

func TestPersister_FailureDoesNotStopQueue(t *testing.T) {
	t.Parallel()

	p := NewPersister(&mockTransactor{}, discardLogger())
	defer p.Close() //nolint

	var second bool
	p.Enqueue("fails", func(context.Context) error { return errors.New("disk full") })
	p.Enqueue("succeeds", func(context.Context) error {
		second = true
		return nil
	})
	require.NoError(t, p.Flush(context.Background()))
	assert.True(t, second)
}

func TestPersister_CloseDrains(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	p := NewPersister(&mockTransactor{}, discardLogger())

	var cnt int
	p.Enqueue("slow", func(context.Context) error {
		<-release
		cnt++
		return nil
	})
	p.Enqueue("after", func(context.Context) error {
		cnt++
		return nil
	})

	closed := make(chan struct{})
	go func() {
		_ = p.Close()
		close(closed)
	}()
	close(release)

	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("close did not return")
	}
	assert.Equal(t, 2, cnt)

	// dropped
	p.Enqueue("late", func(context.Context) error {
		cnt++
		return nil
	})
	assert.NoError(t, p.Flush(context.Background()))
	assert.Equal(t, 2, cnt)
}

func TestPersister_FlushRespectsContext(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	p := NewPersister(&mockTransactor{}, discardLogger())
	defer p.Close() //nolint
	defer close(release)

	p.Enqueue("blocked", func(context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Flush(ctx), context.DeadlineExceeded)
}

func TestWorkQueue_PushNeverBlocks(t *testing.T) {
	t.Parallel()

	q := newWorkQueue()
	var got []int
	for i := range 1000 {
		assert.True(t, q.push(func() { got = append(got, i) }))
	}
	q.close()
	assert.False(t, q.push(func() {}))

	q.run()
	assert.Len(t, got, 1000)
	assert.Equal(t, 999, got[999])
}

func TestPersister_Do(t *testing.T) {
	t.Parallel()

	p := NewPersister(&mockTransactor{}, discardLogger())

	var order []string
	p.Enqueue("first", func(context.Context) error {
		order = append(order, "first")
		return nil
	})
	err := p.Do(context.Background(), "second", func(context.Context) error {
		order = append(order, "second")
		return errors.New("disk full")
	})
	assert.EqualError(t, err, "disk full")
	assert.Equal(t, []string{"first", "second"}, order)

	require.NoError(t, p.Close())
	err = p.Do(context.Background(), "late", func(context.Context) error {
		t.Fatal("ran after close")
		return nil
	})
	assert.ErrorIs(t, err, ErrPersisterClosed)
}
