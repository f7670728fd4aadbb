package dpqueue

import (
	"context"
	"testing"
	"time"

	"github.com/osprey-dcs/dp-client-go/mcmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferOfferTake(t *testing.T) {
	b := New(new(mcmp.Component), Opts{})
	b.Activate()

	require.NoError(t, b.Offer("a"))
	require.NoError(t, b.Offer("b"))
	assert.Equal(t, 2, b.QueueSize())

	ctx := context.Background()
	v, err := b.Take(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	v, err = b.Take(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", v)
}

func TestBufferOfferAllOrder(t *testing.T) {
	b := New(new(mcmp.Component), Opts{})
	b.Activate()

	require.NoError(t, b.OfferAll([]interface{}{1, 2, 3}))

	for i := 1; i <= 3; i++ {
		v, err := b.Poll()
		require.True(t, v != nil)
		_ = err
		assert.Equal(t, i, v)
	}
}

func TestBufferClosedQueue(t *testing.T) {
	b := New(new(mcmp.Component), Opts{})
	// never Activate()'d, still Idle
	assert.Equal(t, ErrClosedQueue, b.Offer("x"))
}

func TestBufferShutdownDrainsThenTerminates(t *testing.T) {
	b := New(new(mcmp.Component), Opts{})
	b.Activate()
	require.NoError(t, b.Offer("a"))

	b.Shutdown()
	assert.Equal(t, Draining, b.State())
	assert.Equal(t, ErrClosedQueue, b.Offer("b"))

	v, err := b.Take(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", v)
	assert.Equal(t, Terminated, b.State())

	_, err = b.Take(context.Background())
	assert.Equal(t, ErrBufferUnderflow, err)
}

func TestBufferShutdownNow(t *testing.T) {
	b := New(new(mcmp.Component), Opts{})
	b.Activate()
	require.NoError(t, b.Offer("a"))

	b.ShutdownNow()
	assert.Equal(t, Terminated, b.State())
	assert.Equal(t, 0, b.QueueSize())

	_, err := b.Take(context.Background())
	assert.Equal(t, ErrBufferUnderflow, err)
}

func TestBufferCountCap(t *testing.T) {
	b := New(new(mcmp.Component), Opts{CountCap: 1, BackPressure: true})
	b.Activate()

	require.NoError(t, b.Offer("a"))

	offerDone := make(chan error, 1)
	go func() { offerDone <- b.Offer("b") }()

	select {
	case <-offerDone:
		t.Fatal("Offer should have blocked at capacity")
	case <-time.After(50 * time.Millisecond):
	}

	_, err := b.Take(context.Background())
	require.NoError(t, err)

	select {
	case err := <-offerDone:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Offer should have unblocked after Take freed capacity")
	}
}

func TestBufferTakeContextCancel(t *testing.T) {
	b := New(new(mcmp.Component), Opts{})
	b.Activate()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := b.Take(ctx)
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("Take should have returned after context cancel")
	}
}

func TestBufferAwaitQueueEmpty(t *testing.T) {
	b := New(new(mcmp.Component), Opts{})
	b.Activate()
	require.NoError(t, b.Offer("a"))

	doneCh := make(chan error, 1)
	go func() { doneCh <- b.AwaitQueueEmpty(context.Background()) }()

	select {
	case <-doneCh:
		t.Fatal("AwaitQueueEmpty should have blocked with a non-empty queue")
	case <-time.After(50 * time.Millisecond):
	}

	_, err := b.Take(context.Background())
	require.NoError(t, err)

	select {
	case err := <-doneCh:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("AwaitQueueEmpty should have unblocked once queue drained")
	}
}
