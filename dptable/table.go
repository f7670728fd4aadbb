package dptable

import (
	"context"

	"github.com/osprey-dcs/dp-client-go/merr"
	"github.com/osprey-dcs/dp-client-go/mtime"
)

// Table is the rectangular, user-visible projection of an assembled sampled
// aggregate: an ordered vector of row instants and an ordered vector of named
// columns, each of the same length as the row instants.
//
// Column-name uniqueness and per-cell time alignment with the row's instant
// are invariants enforced by New; a Table obtained from New is never
// malformed.
type Table struct {
	rows    []mtime.TS
	cols    []Column
	colIdxs map[string]int
}

// New constructs a Table from the given row instants and columns. It returns
// ErrColumnLength if any column's length does not match len(rows), and
// ErrDuplicateColumn if two columns share a name.
func New(rows []mtime.TS, cols []Column) (*Table, error) {
	colIdxs := make(map[string]int, len(cols))
	for i, c := range cols {
		if c.Len() != len(rows) {
			ctx := context.Background()
			return nil, merr.Wrap(ctx, ErrColumnLength)
		}
		if _, ok := colIdxs[c.Name]; ok {
			ctx := context.Background()
			return nil, merr.Wrap(ctx, ErrDuplicateColumn)
		}
		colIdxs[c.Name] = i
	}

	rowsCopy := make([]mtime.TS, len(rows))
	copy(rowsCopy, rows)

	return &Table{rows: rowsCopy, cols: cols, colIdxs: colIdxs}, nil
}

// NumRows returns the number of rows (M) in the Table.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// NumColumns returns the number of columns (N) in the Table.
func (t *Table) NumColumns() int {
	return len(t.cols)
}

// RowInstant returns the instant of row i.
func (t *Table) RowInstant(i int) mtime.TS {
	return t.rows[i]
}

// ColumnNames returns the ordered list of column names.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// ColumnByIndex returns the i'th column, in declaration order.
func (t *Table) ColumnByIndex(i int) Column {
	return t.cols[i]
}

// ColumnByName returns the column with the given name, and whether it was
// found.
func (t *Table) ColumnByName(name string) (Column, bool) {
	i, ok := t.colIdxs[name]
	if !ok {
		return Column{}, false
	}
	return t.cols[i], true
}
