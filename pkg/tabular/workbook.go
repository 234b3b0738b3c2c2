package tabular

import (
	"context"
	"fmt"
	"sync"

	"github.com/xuri/excelize/v2"
)

// WorkbookStore persists tables as worksheets of a local .xlsx file. Every call reopens the file
// so edits made by other tools between calls are observed.
type WorkbookStore struct {
	path string
	mu   sync.Mutex
}

// NewWorkbookStore checks that the workbook can be opened and returns a store for it.
func NewWorkbookStore(path string) (*WorkbookStore, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, Unavailable("open "+path, err)
	}
	if err := f.Close(); err != nil {
		return nil, Unavailable("close "+path, err)
	}
	return &WorkbookStore{path: path}, nil
}

// GetTable implements Store.
func (s *WorkbookStore) GetTable(ctx context.Context, table string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.open(table)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(table)
	if err != nil {
		return nil, Unavailable("read "+table, err)
	}
	return rows, nil
}

// AppendRow implements Store.
func (s *WorkbookStore) AppendRow(ctx context.Context, table string, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.open(table)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(table)
	if err != nil {
		return Unavailable("read "+table, err)
	}
	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOutOfRange, err)
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(table, cell, &row); err != nil {
		return Unavailable("append "+table, err)
	}
	if err := f.Save(); err != nil {
		return Unavailable("save "+s.path, err)
	}
	return nil
}

// UpdateCell implements Store.
func (s *WorkbookStore) UpdateCell(ctx context.Context, table string, row, col int, value string) error {
	if err := validateCell(row, col); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.open(table)
	if err != nil {
		return err
	}
	defer f.Close()

	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOutOfRange, err)
	}
	if err := f.SetCellStr(table, cell, value); err != nil {
		return Unavailable("update "+table+"!"+cell, err)
	}
	if err := f.Save(); err != nil {
		return Unavailable("save "+s.path, err)
	}
	return nil
}

func (s *WorkbookStore) open(table string) (*excelize.File, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, Unavailable("open "+s.path, err)
	}
	idx, err := f.GetSheetIndex(table)
	if err != nil || idx < 0 {
		_ = f.Close()
		return nil, TableNotFound(table)
	}
	return f, nil
}
