// Package dpqueue implements a typed, capacity-bounded FIFO buffer used to
// back both the ingestion and query pipelines. A Buffer moves through a
// small supplying lifecycle (Idle -> Supplying -> Draining -> Terminated)
// and supports both back-pressured and unbounded admission, indexed and
// blocking consumption, and waiters for capacity/emptiness events.
package dpqueue

import (
	"context"
	"sync"

	"github.com/osprey-dcs/dp-client-go/mcmp"
	"github.com/osprey-dcs/dp-client-go/mlog"
)

// State describes where a Buffer is in its supplying lifecycle.
type State int

// The states a Buffer moves through over its lifetime.
const (
	Idle State = iota
	Supplying
	Draining
	Terminated
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Supplying:
		return "Supplying"
	case Draining:
		return "Draining"
	case Terminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// Sizer is implemented by message types which know their own serialized
// byte size, for use by a Buffer constructed with an allocation-based
// capacity limit.
type Sizer interface {
	Size() int
}

// Buffer is a typed, bounded FIFO. The zero value is not usable; construct
// one with New.
type Buffer struct {
	cmp *mcmp.Component
	log *mlog.Logger

	countCap  int // 0 means unbounded-by-count
	allocCap  int // 0 means unbounded-by-allocation
	backPressure bool

	l          sync.Mutex
	notEmpty   *sync.Cond
	notFull    *sync.Cond
	state      State
	queue      []interface{}
	alloc      int
}

// Opts configures a new Buffer.
type Opts struct {
	// CountCap, if > 0, bounds the number of messages in the queue.
	CountCap int

	// AllocCap, if > 0, bounds the sum of Size() across queued messages.
	// Messages must implement Sizer if this is set.
	AllocCap int

	// BackPressure, if true, causes Offer/OfferAll to block until the
	// message(s) fit within capacity, rather than admitting unconditionally.
	BackPressure bool

	// Logger is held by the Buffer; none of the Buffer's methods write
	// messages to it. Defaults to mlog.Null.
	Logger *mlog.Logger
}

// New constructs a Buffer in the Idle state, as a child of cmp.
func New(cmp *mcmp.Component, opts Opts) *Buffer {
	log := opts.Logger
	if log == nil {
		log = mlog.Null
	}

	b := &Buffer{
		cmp:          cmp,
		log:          log,
		countCap:     opts.CountCap,
		allocCap:     opts.AllocCap,
		backPressure: opts.BackPressure,
		state:        Idle,
	}
	b.notEmpty = sync.NewCond(&b.l)
	b.notFull = sync.NewCond(&b.l)
	return b
}

// Activate moves the Buffer from Idle to Supplying. It is a no-op if the
// Buffer is not Idle.
func (b *Buffer) Activate() {
	b.l.Lock()
	defer b.l.Unlock()
	if b.state == Idle {
		b.state = Supplying
	}
}

// State returns the Buffer's current State.
func (b *Buffer) State() State {
	b.l.Lock()
	defer b.l.Unlock()
	return b.state
}

// IsSupplying reports whether the Buffer is Supplying, or Draining with a
// non-empty queue.
func (b *Buffer) IsSupplying() bool {
	b.l.Lock()
	defer b.l.Unlock()
	return b.isSupplyingLocked()
}

func (b *Buffer) isSupplyingLocked() bool {
	return b.state == Supplying || (b.state == Draining && len(b.queue) > 0)
}

func (b *Buffer) sizeOf(msg interface{}) int {
	if b.allocCap == 0 {
		return 0
	}
	sizer, ok := msg.(Sizer)
	if !ok {
		return 0
	}
	return sizer.Size()
}

func (b *Buffer) fitsLocked(addlCount, addlAlloc int) bool {
	if b.countCap > 0 && len(b.queue)+addlCount > b.countCap {
		return false
	}
	if b.allocCap > 0 && b.alloc+addlAlloc > b.allocCap {
		return false
	}
	return true
}

// Offer admits msg onto the tail of the queue. It returns ErrClosedQueue if
// the Buffer is not Supplying. If the Buffer was constructed with
// BackPressure, Offer blocks until the message fits within capacity (or the
// Buffer stops Supplying); otherwise it admits unconditionally.
func (b *Buffer) Offer(msg interface{}) error {
	return b.OfferAll([]interface{}{msg})
}

// OfferAll admits every message in msgs, preserving their relative order, as
// a single FIFO-preserving batch. See Offer for capacity/back-pressure
// semantics.
func (b *Buffer) OfferAll(msgs []interface{}) error {
	size := 0
	for _, m := range msgs {
		size += b.sizeOf(m)
	}

	b.l.Lock()
	defer b.l.Unlock()

	if b.state != Supplying {
		return ErrClosedQueue
	}

	if b.backPressure {
		for !b.fitsLocked(len(msgs), size) && b.state == Supplying {
			b.notFull.Wait()
		}
		if b.state != Supplying {
			return ErrClosedQueue
		}
	}

	b.queue = append(b.queue, msgs...)
	b.alloc += size
	b.notEmpty.Broadcast()
	return nil
}

// Take blocks until a message is available or the Buffer is Terminated with
// an empty queue (in which case it returns ErrBufferUnderflow), or until ctx
// is canceled.
func (b *Buffer) Take(ctx context.Context) (interface{}, error) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			b.l.Lock()
			b.notEmpty.Broadcast()
			b.l.Unlock()
		case <-done:
		}
	}()
	defer close(done)

	b.l.Lock()
	defer b.l.Unlock()
	for len(b.queue) == 0 {
		if b.state == Terminated {
			return nil, ErrBufferUnderflow
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b.notEmpty.Wait()
	}

	msg := b.queue[0]
	b.queue = b.queue[1:]
	b.alloc -= b.sizeOf(msg)
	if b.state == Draining && len(b.queue) == 0 {
		b.state = Terminated
		b.notEmpty.Broadcast()
	}
	b.notFull.Broadcast()
	return msg, nil
}

// Poll is the non-blocking variant of Take: it returns (nil, false)
// immediately if the queue is empty.
func (b *Buffer) Poll() (interface{}, bool) {
	b.l.Lock()
	defer b.l.Unlock()
	if len(b.queue) == 0 {
		return nil, false
	}
	msg := b.queue[0]
	b.queue = b.queue[1:]
	b.alloc -= b.sizeOf(msg)
	if b.state == Draining && len(b.queue) == 0 {
		b.state = Terminated
		b.notEmpty.Broadcast()
	}
	b.notFull.Broadcast()
	return msg, true
}

// Shutdown moves the Buffer from Supplying to Draining: further Offers are
// rejected, but Take/Poll continue to serve the remaining queue until it is
// empty, at which point the Buffer becomes Terminated.
func (b *Buffer) Shutdown() {
	b.l.Lock()
	defer b.l.Unlock()
	if b.state != Supplying {
		return
	}
	b.state = Draining
	if len(b.queue) == 0 {
		b.state = Terminated
	}
	b.notEmpty.Broadcast()
	b.notFull.Broadcast()
}

// ShutdownNow moves the Buffer immediately to Terminated, dropping any
// residual queued messages.
func (b *Buffer) ShutdownNow() {
	b.l.Lock()
	defer b.l.Unlock()
	b.state = Terminated
	b.queue = nil
	b.alloc = 0
	b.notEmpty.Broadcast()
	b.notFull.Broadcast()
}

// AwaitQueueReady blocks until the queue's size/allocation drops below
// capacity, or ctx is canceled.
func (b *Buffer) AwaitQueueReady(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			b.l.Lock()
			b.notFull.Broadcast()
			b.l.Unlock()
		case <-done:
		}
	}()
	defer close(done)

	b.l.Lock()
	defer b.l.Unlock()
	for !b.fitsLocked(1, 1) {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.notFull.Wait()
	}
	return nil
}

// AwaitQueueEmpty blocks until the queue becomes empty, or ctx is canceled.
func (b *Buffer) AwaitQueueEmpty(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			b.l.Lock()
			b.notEmpty.Broadcast()
			b.l.Unlock()
		case <-done:
		}
	}()
	defer close(done)

	b.l.Lock()
	defer b.l.Unlock()
	for len(b.queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.notEmpty.Wait()
	}
	return nil
}

// QueueSize returns the number of messages currently queued.
func (b *Buffer) QueueSize() int {
	b.l.Lock()
	defer b.l.Unlock()
	return len(b.queue)
}

// QueueAllocation returns the sum of Size() across queued messages.
func (b *Buffer) QueueAllocation() int {
	b.l.Lock()
	defer b.l.Unlock()
	return b.alloc
}
