// Package dpingest implements the ingestion-side pipeline: decomposing and
// converting caller-supplied Frames into wire requests (C3), and
// transmitting them over a pool of parallel streams to the Ingestion
// Service (C4).
package dpingest

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/osprey-dcs/dp-client-go/mcmp"
	"github.com/osprey-dcs/dp-client-go/mlog"
	"github.com/osprey-dcs/dp-client-go/mrun"

	"github.com/osprey-dcs/dp-client-go/dpqueue"
	"github.com/osprey-dcs/dp-client-go/dptransport"
)

// State describes where a Transmitter is in its lifecycle.
type State int

// The states a Transmitter moves through over its lifetime.
const (
	Created State = iota
	Open
	Closing
	Terminated
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Created:
		return "Created"
	case Open:
		return "Open"
	case Closing:
		return "Closing"
	case Terminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// Response pairs an ingest response message with the RequestID (or
// decomposed-piece RequestID) it acknowledges or rejects.
type Response struct {
	RequestID string
	Msg       interface{}
	Err       error
}

// Opts configures a new Transmitter.
type Opts struct {
	// Streams is the number of parallel streams (K) to open against the
	// Ingestion Service. Defaults to 1.
	Streams int

	// MaxRequestSize bounds the estimated size of any single wire request;
	// Frames larger than this are decomposed via Decompose. Zero disables
	// decomposition.
	MaxRequestSize int

	SizeOf    SizeEstimator
	Convert   Converter
	Bidirectional bool

	Logger *mlog.Logger
}

// Transmitter drives K parallel streams against an IngestionClient. Each
// incoming Frame is decomposed into one or more pieces, all of which are
// pinned to a single stream (chosen round-robin per Frame) so that a
// Frame's pieces are always sent, and acked, in order.
type Transmitter struct {
	cmp    *mcmp.Component
	log    *mlog.Logger
	client dptransport.IngestionClient
	opts   Opts

	l        sync.Mutex
	state    State
	streams  []*txStream
	next     uint64
	respBuf  *dpqueue.Buffer
	termCh   chan struct{}
	runCtx   context.Context
}

type txStream struct {
	idx   int
	in    *dpqueue.Buffer
	cmp   *mcmp.Component
}

// New constructs a Transmitter in the Created state.
func New(cmp *mcmp.Component, client dptransport.IngestionClient, opts Opts) *Transmitter {
	if opts.Streams <= 0 {
		opts.Streams = 1
	}
	log := opts.Logger
	if log == nil {
		log = mlog.NewLogger(nil)
	}
	return &Transmitter{
		cmp:    cmp,
		log:    log,
		client: client,
		opts:   opts,
		state:  Created,
		respBuf: dpqueue.New(cmp.Child("responses"), dpqueue.Opts{}),
		termCh: make(chan struct{}),
	}
}

// OpenStream opens the K underlying transport streams and starts their
// send/recv worker goroutines. It is an error to call this more than once.
func (t *Transmitter) OpenStream(ctx context.Context) error {
	t.l.Lock()
	defer t.l.Unlock()
	if t.state != Created {
		return ErrAlreadyStarted
	}

	t.respBuf.Activate()
	t.runCtx = ctx
	t.streams = make([]*txStream, t.opts.Streams)
	eg, egCtx := errgroup.WithContext(ctx)
	streamsCmp := t.cmp.Child("streams")

	for i := 0; i < t.opts.Streams; i++ {
		streamCmp := streamsCmp.Child(itoa(i))
		s := &txStream{
			idx: i,
			in:  dpqueue.New(streamCmp, dpqueue.Opts{BackPressure: true, CountCap: 256}),
			cmp: streamCmp,
		}
		s.in.Activate()
		t.streams[i] = s

		eg.Go(func() error {
			return t.runStream(egCtx, s)
		})
	}

	mrun.OnStop(t.cmp, func(context.Context) error {
		return eg.Wait()
	})

	go func() {
		_ = eg.Wait()
		t.l.Lock()
		t.state = Terminated
		t.l.Unlock()
		close(t.termCh)
	}()

	t.state = Open
	return nil
}

func (t *Transmitter) runStream(ctx context.Context, s *txStream) error {
	if t.opts.Bidirectional {
		return t.runBidirectional(ctx, s)
	}
	return t.runUnidirectional(ctx, s)
}

func (t *Transmitter) runUnidirectional(ctx context.Context, s *txStream) error {
	stream, err := t.client.OpenUnidirectionalStream(ctx)
	if err != nil {
		return err
	}

	for {
		piece, err := s.in.Take(ctx)
		if err != nil {
			resp, rerr := stream.CloseAndRecv()
			if err == dpqueue.ErrBufferUnderflow {
				t.respBuf.Offer(Response{Msg: resp, Err: rerr})
				if rerr != nil {
					return rerr
				}
				return nil
			}
			return err
		}

		frame := piece.(Frame)
		req, err := t.opts.Convert(frame)
		if err != nil {
			t.respBuf.Offer(Response{RequestID: frame.RequestID, Err: ErrConversion})
			continue
		}
		if err := stream.Send(req); err != nil {
			t.respBuf.Offer(Response{RequestID: frame.RequestID, Err: err})
			return err
		}
	}
}

func (t *Transmitter) runBidirectional(ctx context.Context, s *txStream) error {
	stream, err := t.client.OpenBidirectionalStream(ctx)
	if err != nil {
		return err
	}

	for {
		piece, err := s.in.Take(ctx)
		if err != nil {
			_ = stream.CloseSend()
			if err == dpqueue.ErrBufferUnderflow {
				return nil
			}
			return err
		}

		frame := piece.(Frame)
		req, err := t.opts.Convert(frame)
		if err != nil {
			t.respBuf.Offer(Response{RequestID: frame.RequestID, Err: ErrConversion})
			continue
		}
		if err := stream.Send(req); err != nil {
			t.respBuf.Offer(Response{RequestID: frame.RequestID, Err: err})
			return err
		}
		resp, err := stream.Recv()
		t.respBuf.Offer(Response{RequestID: frame.RequestID, Msg: resp, Err: err})
		if err != nil {
			return err
		}
	}
}

// Ingest decomposes frame (if needed) and offers every resulting piece, in
// order, onto a single stream chosen round-robin among the K open streams.
func (t *Transmitter) Ingest(frame Frame) error {
	t.l.Lock()
	if t.state != Open {
		t.l.Unlock()
		return ErrNotOpen
	}
	idx := int(atomic.AddUint64(&t.next, 1)-1) % len(t.streams)
	s := t.streams[idx]
	t.l.Unlock()

	pieces, err := Decompose(frame, t.opts.MaxRequestSize, t.opts.SizeOf)
	if err != nil {
		return err
	}

	msgs := make([]interface{}, len(pieces))
	for i, p := range pieces {
		msgs[i] = p
	}
	return s.in.OfferAll(msgs)
}

// Responses returns the Buffer onto which ingestion response/ack/exception
// messages are published, for the caller to consume. A unidirectional
// stream's single ack, received when the stream is closed, is published as
// a Response with an empty RequestID.
func (t *Transmitter) Responses() *dpqueue.Buffer {
	return t.respBuf
}

// CloseStream gracefully drains all in-flight pieces on every stream, then
// closes them.
func (t *Transmitter) CloseStream() {
	t.l.Lock()
	if t.state != Open {
		t.l.Unlock()
		return
	}
	t.state = Closing
	streams := append([]*txStream{}, t.streams...)
	t.l.Unlock()

	for _, s := range streams {
		s.in.Shutdown()
	}
}

// CloseStreamNow forcibly terminates every stream immediately, dropping any
// undelivered pieces.
func (t *Transmitter) CloseStreamNow() {
	t.l.Lock()
	streams := append([]*txStream{}, t.streams...)
	t.l.Unlock()

	for _, s := range streams {
		s.in.ShutdownNow()
	}
}

// Shutdown is an alias of CloseStream.
func (t *Transmitter) Shutdown() { t.CloseStream() }

// ShutdownNow is an alias of CloseStreamNow.
func (t *Transmitter) ShutdownNow() { t.CloseStreamNow() }

// State returns the Transmitter's current State.
func (t *Transmitter) State() State {
	t.l.Lock()
	defer t.l.Unlock()
	return t.state
}

// AwaitTermination blocks until every stream has terminated, or ctx is
// canceled.
func (t *Transmitter) AwaitTermination(ctx context.Context) error {
	select {
	case <-t.termCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
