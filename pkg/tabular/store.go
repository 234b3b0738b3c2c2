// Package tabular adapts spreadsheet-like backends to a small read/append/point-update contract.
//
// A table is a grid of strings whose first row is the header. Row and column
// positions passed to UpdateCell are 1-based grid coordinates, so row 1 is the
// header and the first data row is row 2.
package tabular

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnavailable reports that the backend could not be reached or authorised.
	ErrUnavailable = errors.New("tabular store unavailable")
	// ErrTableNotFound reports that the named table does not exist in the store.
	ErrTableNotFound = errors.New("table not found")
	// ErrOutOfRange reports a row or column coordinate outside the grid.
	ErrOutOfRange = errors.New("cell position out of range")
)

// Store is the contract every backend driver implements.
type Store interface {
	// GetTable returns every row of the table, header first.
	GetTable(ctx context.Context, table string) ([][]string, error)
	// AppendRow adds one row after the last non-empty row.
	AppendRow(ctx context.Context, table string, values []string) error
	// UpdateCell writes a single cell at 1-based grid coordinates.
	UpdateCell(ctx context.Context, table string, row, col int, value string) error
}

// TableNotFound wraps ErrTableNotFound with the table name.
func TableNotFound(table string) error {
	return fmt.Errorf("%w: %s", ErrTableNotFound, table)
}

// Unavailable wraps ErrUnavailable with the cause.
func Unavailable(op string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrUnavailable, op)
	}
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}

func validateCell(row, col int) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("%w: row=%d col=%d", ErrOutOfRange, row, col)
	}
	return nil
}

func cloneGrid(grid [][]string) [][]string {
	out := make([][]string, len(grid))
	for i, row := range grid {
		out[i] = append([]string(nil), row...)
	}
	return out
}

func setCell(row []string, col int, value string) []string {
	for len(row) < col {
		row = append(row, "")
	}
	row[col-1] = value
	return row
}
