package dpingest

import "errors"

// ErrDecomposition indicates a frame could not be split into request-sized
// pieces, e.g. because a single row/column cell exceeds the maximum request
// size on its own.
var ErrDecomposition = errors.New("dpingest: frame could not be decomposed into request-sized pieces")

// ErrConversion indicates a decomposed piece could not be converted into a
// wire-format ingest request message.
var ErrConversion = errors.New("dpingest: piece could not be converted to a request message")

// ErrAlreadyStarted is returned by OpenStream if a Transmitter's streams have
// already been opened.
var ErrAlreadyStarted = errors.New("dpingest: transmitter already started")

// ErrNotOpen is returned by Ingest if the Transmitter's streams have not been
// opened, or have already been closed.
var ErrNotOpen = errors.New("dpingest: transmitter is not open")
