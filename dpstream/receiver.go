// Package dpstream implements the query-side stream receiver: a small state
// machine that drives either a unary-request/server-streaming response query
// RPC, or a cursor-driven bidirectional query RPC, and feeds every received
// message into a dpqueue.Buffer for downstream correlation.
package dpstream

import (
	"context"
	"io"
	"sync"

	"github.com/osprey-dcs/dp-client-go/mcmp"
	"github.com/osprey-dcs/dp-client-go/merr"
	"github.com/osprey-dcs/dp-client-go/mlog"

	"github.com/osprey-dcs/dp-client-go/dpqueue"
	"github.com/osprey-dcs/dp-client-go/dptransport"
)

// State describes where a Receiver is in its lifecycle.
type State int

// The states a Receiver moves through over its lifetime.
const (
	Created State = iota
	Requested
	Streaming
	Completed
	Rejected
	Errored
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Created:
		return "Created"
	case Requested:
		return "Requested"
	case Streaming:
		return "Streaming"
	case Completed:
		return "Completed"
	case Rejected:
		return "Rejected"
	case Errored:
		return "Errored"
	default:
		return "Unknown"
	}
}

// Rejecter, if implemented by a received response message, lets the Receiver
// recognize a server-side rejection of the request rather than a normal data
// message.
type Rejecter interface {
	Rejection() (reason, detail string, rejected bool)
}

// PageSizer, if implemented by a received response message, reports the
// page-size hint carried on that particular message. The Receiver does not
// call PageSize: no page-size hint is read from any message.
type PageSizer interface {
	PageSize() int
}

// NextCursor builds the next "cursor: next" request message for a
// bidirectional query stream, given the most recently received response. It
// is supplied by the caller, since cursor framing is wire-format specific.
type NextCursor func(lastResp interface{}) (req interface{}, more bool)

// Receiver drives a single query RPC (unidirectional or bidirectional),
// publishing every received response message onto an output Buffer.
type Receiver struct {
	cmp *mcmp.Component
	log *mlog.Logger
	out *dpqueue.Buffer

	l         sync.Mutex
	state     State
	err       error
	startedCh chan struct{}
	doneCh    chan struct{}
}

// New constructs a Receiver in the Created state. Received messages are
// published onto out, which the caller is responsible for Activate()-ing.
func New(cmp *mcmp.Component, out *dpqueue.Buffer) *Receiver {
	return &Receiver{
		cmp:       cmp,
		log:       mlog.NewLogger(nil),
		out:       out,
		state:     Created,
		startedCh: make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

func (r *Receiver) setState(s State) {
	r.l.Lock()
	defer r.l.Unlock()
	r.state = s
}

// State returns the Receiver's current State.
func (r *Receiver) State() State {
	r.l.Lock()
	defer r.l.Unlock()
	return r.state
}

func (r *Receiver) finish(s State, err error) {
	r.l.Lock()
	if r.state == Completed || r.state == Rejected || r.state == Errored {
		r.l.Unlock()
		return
	}
	r.state = s
	r.err = err
	r.l.Unlock()
	close(r.doneCh)
}

// StartUnidirectional issues req via client and pumps every response message
// from the resulting ResponseStream into the output Buffer, until the stream
// is exhausted, rejected, or errors.
//
// It returns immediately; use AwaitCompleted to block until the stream
// finishes.
func (r *Receiver) StartUnidirectional(ctx context.Context, client dptransport.QueryClient, req interface{}) error {
	if !r.begin() {
		return ErrAlreadyStarted
	}

	stream, err := client.QueryUnidirectional(ctx, req)
	if err != nil {
		r.finish(Errored, err)
		close(r.startedCh)
		return err
	}
	r.setState(Streaming)
	close(r.startedCh)

	go func() {
		for {
			resp, err := stream.Recv()
			if err != nil {
				if err == context.Canceled || ctx.Err() != nil {
					r.finish(Errored, ctx.Err())
				} else if isStreamEOF(err) {
					r.finish(Completed, nil)
				} else {
					r.finish(Errored, err)
				}
				return
			}
			if rejected, rerr := checkRejection(resp); rejected {
				r.finish(Rejected, rerr)
				return
			}
			if err := r.out.Offer(resp); err != nil {
				r.finish(Errored, err)
				return
			}
		}
	}()

	return nil
}

// StartBidirectional issues the initial req over a cursor-driven
// bidirectional stream, then repeatedly calls next on each response to
// decide whether to request another page, until next reports no more pages,
// the stream is rejected, or it errors.
//
// It returns immediately; use AwaitCompleted to block until the stream
// finishes.
func (r *Receiver) StartBidirectional(ctx context.Context, client dptransport.QueryClient, req interface{}, next NextCursor) error {
	if !r.begin() {
		return ErrAlreadyStarted
	}

	stream, err := client.QueryBidirectional(ctx)
	if err != nil {
		r.finish(Errored, err)
		close(r.startedCh)
		return err
	}
	if err := stream.Send(req); err != nil {
		r.finish(Errored, err)
		close(r.startedCh)
		return err
	}
	r.setState(Streaming)
	close(r.startedCh)

	go func() {
		for {
			resp, err := stream.Recv()
			if err != nil {
				if err == context.Canceled || ctx.Err() != nil {
					r.finish(Errored, ctx.Err())
				} else if isStreamEOF(err) {
					r.finish(Completed, nil)
				} else {
					r.finish(Errored, err)
				}
				return
			}
			if rejected, rerr := checkRejection(resp); rejected {
				r.finish(Rejected, rerr)
				_ = stream.CloseSend()
				return
			}
			if err := r.out.Offer(resp); err != nil {
				r.finish(Errored, err)
				return
			}

			nextReq, more := next(resp)
			if !more {
				r.finish(Completed, nil)
				_ = stream.CloseSend()
				return
			}
			if err := stream.Send(nextReq); err != nil {
				r.finish(Errored, err)
				return
			}
		}
	}()

	return nil
}

func (r *Receiver) begin() bool {
	r.l.Lock()
	defer r.l.Unlock()
	if r.state != Created {
		return false
	}
	r.state = Requested
	return true
}

// AwaitStart blocks until the underlying RPC has been opened (successfully
// or not), or ctx is canceled.
func (r *Receiver) AwaitStart(ctx context.Context) error {
	select {
	case <-r.startedCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AwaitCompleted blocks until the Receiver reaches a terminal state
// (Completed, Rejected, or Errored), or ctx is canceled, returning any
// terminal error.
func (r *Receiver) AwaitCompleted(ctx context.Context) error {
	select {
	case <-r.doneCh:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ShutdownNow forces the Receiver into the Errored terminal state
// immediately, for use during caller-initiated cancellation.
func (r *Receiver) ShutdownNow() {
	r.finish(Errored, merr.New(r.cmp.Context(), "receiver shut down by caller"))
}

func checkRejection(resp interface{}) (bool, error) {
	rej, ok := resp.(Rejecter)
	if !ok {
		return false, nil
	}
	reason, detail, rejected := rej.Rejection()
	if !rejected {
		return false, nil
	}
	return true, &ErrRequestRejected{Reason: reason, Detail: detail}
}

func isStreamEOF(err error) bool {
	return err == io.EOF
}
