// Package lane serializes calls into a library that is not safe for
// concurrent use. Each Lane owns one worker goroutine; submitted calls
// run strictly one at a time, in submission order.
package lane

import (
	"context"
	"errors"
	"sync"
)

var ErrClosed = errors.New("lane is closed")

type request struct {
	fn    func() (any, error)
	reply chan result
}

type result struct {
	value any
	err   error
}

type Lane struct {
	mu     sync.RWMutex
	closed bool
	reqs   chan request
	done   chan struct{}
}

func New(buffer int) *Lane {
	l := &Lane{
		reqs: make(chan request, buffer),
		done: make(chan struct{}),
	}
	go l.work()
	return l
}

func (l *Lane) work() {
	defer close(l.done)
	for req := range l.reqs {
		value, err := req.fn()
		req.reply <- result{value: value, err: err}
	}
}

// Submit queues fn and waits for its result. The context bounds the wait
// only; once fn has started it runs to completion on the worker.
func (l *Lane) Submit(ctx context.Context, fn func() (any, error)) (any, error) {
	l.mu.RLock()
	if l.closed {
		l.mu.RUnlock()
		return nil, ErrClosed
	}

	reply := make(chan result, 1)
	select {
	case l.reqs <- request{fn: fn, reply: reply}:
		l.mu.RUnlock()
	case <-ctx.Done():
		l.mu.RUnlock()
		return nil, ctx.Err()
	}

	select {
	case res := <-reply:
		return res.value, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Run is Submit for calls without a value.
func (l *Lane) Run(ctx context.Context, fn func() error) error {
	_, err := l.Submit(ctx, func() (any, error) {
		return nil, fn()
	})
	return err
}

// Close rejects further submissions, lets already-queued calls finish,
// and waits for the worker to exit. Safe to call more than once.
func (l *Lane) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	close(l.reqs)
	l.mu.Unlock()

	<-l.done
}
