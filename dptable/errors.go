package dptable

import "errors"

// Errors returned by New.
var (
	// ErrColumnLength indicates a column's length did not match the number
	// of row instants given to New.
	ErrColumnLength = errors.New("column length does not match row count")

	// ErrDuplicateColumn indicates two columns given to New shared a name.
	ErrDuplicateColumn = errors.New("duplicate column name")
)
