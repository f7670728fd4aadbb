package dpingest

import (
	"github.com/osprey-dcs/dp-client-go/dptable"
	"github.com/osprey-dcs/dp-client-go/mtime"
)

// Frame is an ingestion frame: a caller-supplied, uncommitted block of
// time-correlated columnar data destined for the Ingestion Service. Frame
// conversion and decomposition are pure, deterministic functions of its
// contents.
type Frame struct {
	// RequestID identifies this frame (or, after decomposition, one piece of
	// it) to the caller across the ingestion response stream.
	RequestID string

	Rows    []mtime.TS
	Columns []dptable.Column
}

// NumRows returns the number of row instants in the Frame.
func (f Frame) NumRows() int { return len(f.Rows) }

// NumColumns returns the number of columns in the Frame.
func (f Frame) NumColumns() int { return len(f.Columns) }

// Converter turns a (possibly decomposed) Frame into the wire-format request
// message the ingestion transport sends. It is supplied by the caller, since
// the wire schema itself is outside this library's scope.
type Converter func(Frame) (req interface{}, err error)

// SizeEstimator estimates the encoded size of a Frame, for use by Decompose
// in deciding whether a piece needs to be split further. It is supplied by
// the caller for the same reason as Converter.
type SizeEstimator func(Frame) int

func sliceRows(f Frame, lo, hi int) Frame {
	cols := make([]dptable.Column, len(f.Columns))
	for i, c := range f.Columns {
		vals := make([]interface{}, hi-lo)
		copy(vals, c.Values[lo:hi])
		cols[i] = dptable.Column{Name: c.Name, Kind: c.Kind, Values: vals}
	}
	rows := make([]mtime.TS, hi-lo)
	copy(rows, f.Rows[lo:hi])
	return Frame{RequestID: f.RequestID, Rows: rows, Columns: cols}
}

func sliceColumns(f Frame, lo, hi int) Frame {
	cols := make([]dptable.Column, hi-lo)
	copy(cols, f.Columns[lo:hi])
	rows := make([]mtime.TS, len(f.Rows))
	copy(rows, f.Rows)
	return Frame{RequestID: f.RequestID, Rows: rows, Columns: cols}
}

// Decompose splits frame into one or more pieces, none of which (according to
// sizeOf) exceed maxSize, by first halving along rows and then, once a
// single row remains, along columns. Pieces are returned in the original
// row-major, then column-major, order, with RequestID suffixed "-k/n" to
// identify the k'th of n total pieces.
//
// If maxSize is <= 0, or frame already fits, frame is returned unchanged as
// the sole piece (with no suffix). If a single-row, single-column cell still
// exceeds maxSize, ErrDecomposition is returned.
func Decompose(frame Frame, maxSize int, sizeOf SizeEstimator) ([]Frame, error) {
	if maxSize <= 0 || sizeOf(frame) <= maxSize {
		return []Frame{frame}, nil
	}

	pieces, err := decompose(frame, maxSize, sizeOf)
	if err != nil {
		return nil, err
	}
	if len(pieces) == 1 {
		return pieces, nil
	}

	n := len(pieces)
	out := make([]Frame, n)
	for k, p := range pieces {
		p.RequestID = suffixRequestID(frame.RequestID, k+1, n)
		out[k] = p
	}
	return out, nil
}

func suffixRequestID(id string, k, n int) string {
	return id + "-" + itoa(k) + "/" + itoa(n)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

func decompose(frame Frame, maxSize int, sizeOf SizeEstimator) ([]Frame, error) {
	if sizeOf(frame) <= maxSize {
		return []Frame{frame}, nil
	}

	if frame.NumRows() > 1 {
		mid := frame.NumRows() / 2
		left := sliceRows(frame, 0, mid)
		right := sliceRows(frame, mid, frame.NumRows())
		return splitBoth(left, right, maxSize, sizeOf)
	}

	if frame.NumColumns() > 1 {
		mid := frame.NumColumns() / 2
		left := sliceColumns(frame, 0, mid)
		right := sliceColumns(frame, mid, frame.NumColumns())
		return splitBoth(left, right, maxSize, sizeOf)
	}

	return nil, ErrDecomposition
}

func splitBoth(left, right Frame, maxSize int, sizeOf SizeEstimator) ([]Frame, error) {
	leftPieces, err := decompose(left, maxSize, sizeOf)
	if err != nil {
		return nil, err
	}
	rightPieces, err := decompose(right, maxSize, sizeOf)
	if err != nil {
		return nil, err
	}
	return append(leftPieces, rightPieces...), nil
}
