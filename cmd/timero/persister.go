package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Thiht/transactor"
	"github.com/charmbracelet/log"
)

var persistTimeout = 5 * time.Second

var ErrPersisterClosed = errors.New("persister closed")

// Persister runs durable writes in order, off the caller's goroutine.
type Persister interface {
	// Enqueue schedules op inside its own transaction. Failures are logged, not retried.
	Enqueue(name string, op func(context.Context) error)
	// Do runs op like Enqueue but waits for it and returns its error.
	// It returns ErrPersisterClosed without running op after Close.
	Do(ctx context.Context, name string, op func(context.Context) error) error
	// Flush waits until everything enqueued before the call has run.
	Flush(context.Context) error
	// Close drains pending writes and stops the worker.
	Close() error
}

type persister struct {
	tx    transactor.Transactor
	l     *log.Logger
	queue *workQueue
	wg    sync.WaitGroup
}

func NewPersister(tx transactor.Transactor, l *log.Logger) *persister {
	p := &persister{
		tx:    tx,
		l:     l,
		queue: newWorkQueue(),
	}
	p.wg.Go(p.queue.run)
	return p
}

func (p *persister) Enqueue(name string, op func(context.Context) error) {
	ok := p.queue.push(func() {
		_ = p.exec(name, op)
	})
	if !ok {
		p.l.Warn("dropping write after close", "op", name)
	}
}

func (p *persister) Do(ctx context.Context, name string, op func(context.Context) error) error {
	errc := make(chan error, 1)
	if !p.queue.push(func() { errc <- p.exec(name, op) }) {
		return ErrPersisterClosed
	}
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *persister) Flush(ctx context.Context) error {
	done := make(chan struct{})
	if !p.queue.push(func() { close(done) }) {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *persister) Close() error {
	p.queue.close()
	p.wg.Wait()
	return nil
}

func (p *persister) exec(name string, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	start := time.Now()
	if err := p.tx.WithinTransaction(ctx, op); err != nil {
		p.l.Error("failed to persist", "op", name, "err", err)
		return err
	}
	p.l.Debug("persisted", "op", name, "took", time.Since(start))
	return nil
}
