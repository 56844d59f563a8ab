package main

import "sync"

// workQueue runs pushed funcs in order on whichever goroutine calls run.
// Pushes never block.
type workQueue struct {
	mu      sync.Mutex
	pending []func()
	closed  bool
	notify  chan struct{}
}

func newWorkQueue() *workQueue {
	return &workQueue{notify: make(chan struct{}, 1)}
}

// push reports false once the queue is closed.
func (q *workQueue) push(fn func()) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
	q.wake()
	return true
}

// close stops accepting work. run returns after draining what is pending.
func (q *workQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.wake()
}

func (q *workQueue) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

func (q *workQueue) run() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			closed := q.closed
			q.mu.Unlock()
			if closed {
				return
			}
			<-q.notify
			continue
		}
		fn := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		q.mu.Unlock()

		fn()
	}
}
