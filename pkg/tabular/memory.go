package tabular

import (
	"context"
	"sync"
)

// MemoryStore keeps tables in process memory. Used for local development and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string][][]string
}

// NewMemoryStore seeds a store with the provided grids (header first).
func NewMemoryStore(seed map[string][][]string) *MemoryStore {
	tables := make(map[string][][]string, len(seed))
	for name, grid := range seed {
		tables[name] = cloneGrid(grid)
	}
	return &MemoryStore{tables: tables}
}

// CreateTable registers an empty table with the given header and reports whether it was created.
// Existing tables are left untouched.
func (s *MemoryStore) CreateTable(table string, header []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[table]; ok {
		return false
	}
	if len(header) == 0 {
		s.tables[table] = [][]string{}
		return true
	}
	s.tables[table] = [][]string{append([]string(nil), header...)}
	return true
}

// GetTable implements Store.
func (s *MemoryStore) GetTable(ctx context.Context, table string) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	grid, ok := s.tables[table]
	if !ok {
		return nil, TableNotFound(table)
	}
	return cloneGrid(grid), nil
}

// AppendRow implements Store.
func (s *MemoryStore) AppendRow(ctx context.Context, table string, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	grid, ok := s.tables[table]
	if !ok {
		return TableNotFound(table)
	}
	s.tables[table] = append(grid, append([]string(nil), values...))
	return nil
}

// UpdateCell implements Store. Writing below the last row grows the grid like a spreadsheet would.
func (s *MemoryStore) UpdateCell(ctx context.Context, table string, row, col int, value string) error {
	if err := validateCell(row, col); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	grid, ok := s.tables[table]
	if !ok {
		return TableNotFound(table)
	}
	for len(grid) < row {
		grid = append(grid, []string{})
	}
	grid[row-1] = setCell(grid[row-1], col, value)
	s.tables[table] = grid
	return nil
}
