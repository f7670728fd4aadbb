package dpqueue

import "errors"

// ErrClosedQueue is returned by Offer/OfferAll when the buffer is not in the
// Supplying state.
var ErrClosedQueue = errors.New("dpqueue: queue is not accepting messages")

// ErrBufferUnderflow is returned by Take when the buffer is Terminated and
// its queue is empty, so no further message will ever become available.
var ErrBufferUnderflow = errors.New("dpqueue: buffer underflow")
