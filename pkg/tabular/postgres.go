package tabular

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresStore keeps spreadsheet-shaped tables in PostgreSQL (see migrations/0001_tabular.sql).
// Row 1 of every table is its header, exactly like a worksheet.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open connection pool.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type gridRow struct {
	Position int            `db:"position"`
	Cells    pq.StringArray `db:"cells"`
}

// GetTable implements Store. Missing positions are returned as empty rows so grid coordinates stay aligned.
func (s *PostgresStore) GetTable(ctx context.Context, table string) ([][]string, error) {
	if err := s.ensureTable(ctx, s.db, table); err != nil {
		return nil, err
	}
	const query = `SELECT position, cells FROM tabular_rows WHERE table_name = $1 ORDER BY position`
	var rows []gridRow
	if err := s.db.SelectContext(ctx, &rows, query, table); err != nil {
		return nil, Unavailable("get "+table, err)
	}
	if len(rows) == 0 {
		return [][]string{}, nil
	}
	grid := make([][]string, rows[len(rows)-1].Position)
	for i := range grid {
		grid[i] = []string{}
	}
	for _, row := range rows {
		if row.Position < 1 {
			continue
		}
		grid[row.Position-1] = []string(row.Cells)
	}
	return grid, nil
}

// AppendRow implements Store.
func (s *PostgresStore) AppendRow(ctx context.Context, table string, values []string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return Unavailable("append "+table, err)
	}
	defer tx.Rollback() //nolint:errcheck

	var name string
	if err := tx.GetContext(ctx, &name, `SELECT name FROM tabular_tables WHERE name = $1 FOR UPDATE`, table); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TableNotFound(table)
		}
		return Unavailable("append "+table, err)
	}
	const insert = `INSERT INTO tabular_rows (table_name, position, cells)
	SELECT $1, COALESCE(MAX(position), 0) + 1, $2 FROM tabular_rows WHERE table_name = $1`
	if _, err := tx.ExecContext(ctx, insert, table, pq.StringArray(values)); err != nil {
		return Unavailable("append "+table, err)
	}
	if err := tx.Commit(); err != nil {
		return Unavailable("append "+table, err)
	}
	return nil
}

// UpdateCell implements Store.
func (s *PostgresStore) UpdateCell(ctx context.Context, table string, row, col int, value string) error {
	if err := validateCell(row, col); err != nil {
		return err
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return Unavailable("update "+table, err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := s.ensureTable(ctx, tx, table); err != nil {
		return err
	}

	var cells pq.StringArray
	err = tx.GetContext(ctx, &cells, `SELECT cells FROM tabular_rows WHERE table_name = $1 AND position = $2 FOR UPDATE`, table, row)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		cells = pq.StringArray(setCell(nil, col, value))
		if _, err := tx.ExecContext(ctx, `INSERT INTO tabular_rows (table_name, position, cells) VALUES ($1, $2, $3)`, table, row, cells); err != nil {
			return Unavailable("update "+table, err)
		}
	case err != nil:
		return Unavailable("update "+table, err)
	default:
		cells = pq.StringArray(setCell([]string(cells), col, value))
		if _, err := tx.ExecContext(ctx, `UPDATE tabular_rows SET cells = $3 WHERE table_name = $1 AND position = $2`, table, row, cells); err != nil {
			return Unavailable("update "+table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return Unavailable("update "+table, err)
	}
	return nil
}

func (s *PostgresStore) ensureTable(ctx context.Context, q sqlx.QueryerContext, table string) error {
	var exists bool
	if err := sqlx.GetContext(ctx, q, &exists, `SELECT EXISTS (SELECT 1 FROM tabular_tables WHERE name = $1)`, table); err != nil {
		return Unavailable(fmt.Sprintf("lookup %s", table), err)
	}
	if !exists {
		return TableNotFound(table)
	}
	return nil
}
