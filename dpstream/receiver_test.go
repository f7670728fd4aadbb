package dpstream

import (
	"context"
	"io"
	"testing"

	"github.com/osprey-dcs/dp-client-go/mcmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/osprey-dcs/dp-client-go/dpqueue"
	"github.com/osprey-dcs/dp-client-go/dptransport"
)

type fakeResp struct {
	val      int
	reason   string
	detail   string
	rejected bool
}

func (r fakeResp) Rejection() (string, string, bool) { return r.reason, r.detail, r.rejected }

type fakeResponseStream struct {
	grpc.ClientStream
	msgs []fakeResp
	i    int
}

func (s *fakeResponseStream) Recv() (interface{}, error) {
	if s.i >= len(s.msgs) {
		return nil, io.EOF
	}
	m := s.msgs[s.i]
	s.i++
	return m, nil
}

type fakeQueryClient struct {
	uniStream *fakeResponseStream
	uniErr    error
}

func (c *fakeQueryClient) QueryUnidirectional(ctx context.Context, req interface{}) (dptransport.ResponseStream, error) {
	return c.uniStream, c.uniErr
}

func (c *fakeQueryClient) QueryBidirectional(ctx context.Context) (dptransport.CursorStream, error) {
	return nil, nil
}

func TestReceiverUnidirectionalCompletes(t *testing.T) {
	client := &fakeQueryClient{uniStream: &fakeResponseStream{msgs: []fakeResp{{val: 1}, {val: 2}, {val: 3}}}}
	out := dpqueue.New(new(mcmp.Component), dpqueue.Opts{})
	out.Activate()

	r := New(new(mcmp.Component), out)
	require.NoError(t, r.StartUnidirectional(context.Background(), client, "req"))
	require.NoError(t, r.AwaitStart(context.Background()))
	require.NoError(t, r.AwaitCompleted(context.Background()))

	assert.Equal(t, Completed, r.State())
	assert.Equal(t, 3, out.QueueSize())
}

func TestReceiverUnidirectionalRejected(t *testing.T) {
	client := &fakeQueryClient{uniStream: &fakeResponseStream{msgs: []fakeResp{
		{reason: "unauthorized", detail: "no access", rejected: true},
	}}}
	out := dpqueue.New(new(mcmp.Component), dpqueue.Opts{})
	out.Activate()

	r := New(new(mcmp.Component), out)
	require.NoError(t, r.StartUnidirectional(context.Background(), client, "req"))
	err := r.AwaitCompleted(context.Background())

	require.Error(t, err)
	var rejErr *ErrRequestRejected
	require.ErrorAs(t, err, &rejErr)
	assert.Equal(t, "unauthorized", rejErr.Reason)
	assert.Equal(t, Rejected, r.State())
}

func TestReceiverAlreadyStarted(t *testing.T) {
	client := &fakeQueryClient{uniStream: &fakeResponseStream{}}
	out := dpqueue.New(new(mcmp.Component), dpqueue.Opts{})
	out.Activate()

	r := New(new(mcmp.Component), out)
	require.NoError(t, r.StartUnidirectional(context.Background(), client, "req"))
	require.NoError(t, r.AwaitCompleted(context.Background()))

	assert.Equal(t, ErrAlreadyStarted, r.StartUnidirectional(context.Background(), client, "req"))
}

func TestReceiverShutdownNow(t *testing.T) {
	client := &fakeQueryClient{uniStream: &fakeResponseStream{msgs: []fakeResp{{val: 1}}}}
	out := dpqueue.New(new(mcmp.Component), dpqueue.Opts{})
	out.Activate()

	r := New(new(mcmp.Component), out)
	r.ShutdownNow()
	assert.Equal(t, Errored, r.State())
}
