// Package mrun implements lifecycle management for background goroutines:
// spawning them scoped to a Context, waiting for them (and all of a
// Context's children) to complete, and a start/stop Hook discipline for
// coordinating initialization and teardown across components.
package mrun

import (
	"context"
	"errors"

	"github.com/osprey-dcs/dp-client-go/mctx"
)

type futureErr struct {
	doneCh chan struct{}
	err    error
}

func newFutureErr() *futureErr {
	return &futureErr{doneCh: make(chan struct{})}
}

func (fe *futureErr) get(cancelCh <-chan struct{}) (error, bool) {
	select {
	case <-fe.doneCh:
		return fe.err, true
	case <-cancelCh:
		return nil, false
	}
}

func (fe *futureErr) set(err error) {
	fe.err = err
	close(fe.doneCh)
}

type threadsKey int

// WithThreads spawns n goroutines, each running fn, and returns a Context
// which can later be passed into Wait to block until all of them (and any
// spawned via WithThreads on its children) have returned.
//
// WithThreads may be called multiple times on descendants of the same
// Context; Wait, called on an ancestor, recurses into all of them.
func WithThreads(ctx context.Context, n int, fn func() error) context.Context {
	futErrs, _ := mctx.LocalValue(ctx, threadsKey(0)).([]*futureErr)
	futErrs = append(futErrs, make([]*futureErr, n)...)
	newFutErrs := futErrs[len(futErrs)-n:]

	for i := range newFutErrs {
		futErr := newFutureErr()
		newFutErrs[i] = futErr
		go func() {
			futErr.set(fn())
		}()
	}

	return mctx.WithLocalValue(ctx, threadsKey(0), futErrs)
}

// ErrDone is returned from Wait if cancelCh is closed before all threads have
// returned.
var ErrDone = errors.New("mrun: Wait is done waiting")

// Wait blocks until all goroutines spawned using WithThreads on the passed in
// Context, and all of its children (see mctx.Children), have returned.
//
// If any of the thread functions returned an error, Wait returns that error
// (only one of possibly many is returned).
//
// If cancelCh is not nil and is closed before all threads have returned, Wait
// stops waiting and returns ErrDone.
func Wait(ctx context.Context, cancelCh <-chan struct{}) error {
	for _, childCtx := range mctx.Children(ctx) {
		if err := Wait(childCtx, cancelCh); err != nil {
			return err
		}
	}

	futErrs, _ := mctx.LocalValue(ctx, threadsKey(0)).([]*futureErr)
	for _, futErr := range futErrs {
		err, ok := futErr.get(cancelCh)
		if !ok {
			return ErrDone
		} else if err != nil {
			return err
		}
	}

	return nil
}
