package repository

import (
	"errors"
	"fmt"

	"github.com/noah-isme/here-event-os/pkg/translit"
)

// ErrSchema marks a table whose header does not match the configured layout.
var ErrSchema = errors.New("table schema mismatch")

// SchemaError describes the first configured column that could not be found.
type SchemaError struct {
	Table    string
	Column   string
	Position int
	Found    string
}

func (e *SchemaError) Error() string {
	if e.Position == 0 {
		return fmt.Sprintf("%s: column %q not found", e.Table, e.Column)
	}
	if e.Found == "" {
		return fmt.Sprintf("%s: column %q expected at position %d is missing", e.Table, e.Column, e.Position)
	}
	return fmt.Sprintf("%s: column %q expected at position %d, found %q", e.Table, e.Column, e.Position, e.Found)
}

// Unwrap lets errors.Is match ErrSchema.
func (e *SchemaError) Unwrap() error {
	return ErrSchema
}

// checkHeader verifies that each expected column sits at its fixed position.
func checkHeader(table string, header, expected []string) error {
	for i, col := range expected {
		if i >= len(header) {
			return &SchemaError{Table: table, Column: col, Position: i + 1}
		}
		if !translit.Equal(header[i], col) {
			return &SchemaError{Table: table, Column: col, Position: i + 1, Found: header[i]}
		}
	}
	return nil
}

// headerIndex maps each alias group to the 0-based index of the first matching header cell, or -1.
func headerIndex(header []string, aliases ...string) int {
	for i, cell := range header {
		for _, alias := range aliases {
			if translit.Equal(cell, alias) {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// ErrUnknownField rejects submissions naming columns outside the layout.
var ErrUnknownField = errors.New("unknown field")
