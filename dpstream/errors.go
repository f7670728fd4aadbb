package dpstream

import "errors"

// ErrAlreadyStarted is returned by Start if the Receiver has already been
// started.
var ErrAlreadyStarted = errors.New("dpstream: receiver already started")

// ErrNotOpen reports that a Receiver is not in the Streaming state. No
// Receiver method returns it.
var ErrNotOpen = errors.New("dpstream: receiver is not open")

// ErrRequestRejected wraps a rejection returned by the Query Service in
// response to a query request. It is a first-class result, not a fatal
// error: it terminates only the affected stream.
type ErrRequestRejected struct {
	Reason string
	Detail string
}

func (e *ErrRequestRejected) Error() string {
	return "dpstream: request rejected: " + e.Reason + ": " + e.Detail
}
