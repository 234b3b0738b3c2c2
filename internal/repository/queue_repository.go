package repository

import (
	"context"
	"fmt"

	"github.com/noah-isme/here-event-os/internal/models"
	"github.com/noah-isme/here-event-os/pkg/tabular"
)

// QueueRepository maps queue tables to request records.
type QueueRepository struct {
	store tabular.Store
}

// NewQueueRepository constructs the repository.
func NewQueueRepository(store tabular.Store) *QueueRepository {
	return &QueueRepository{store: store}
}

// Snapshot reads the whole table and decodes every data row.
func (r *QueueRepository) Snapshot(ctx context.Context, queue models.QueueConfig) ([]models.RequestRecord, error) {
	grid, err := r.store.GetTable(ctx, queue.Sheet)
	if err != nil {
		return nil, fmt.Errorf("read queue %s: %w", queue.Name, err)
	}
	return DecodeQueue(queue, grid)
}

// Grid returns the raw table after validating its header.
func (r *QueueRepository) Grid(ctx context.Context, queue models.QueueConfig) ([][]string, error) {
	grid, err := r.store.GetTable(ctx, queue.Sheet)
	if err != nil {
		return nil, fmt.Errorf("read queue %s: %w", queue.Name, err)
	}
	if len(grid) > 0 {
		if err := checkHeader(queue.Sheet, grid[0], queue.Columns); err != nil {
			return nil, err
		}
	}
	return grid, nil
}

// WriteStatus writes the status cell of the record at position.
func (r *QueueRepository) WriteStatus(ctx context.Context, queue models.QueueConfig, position int, status models.RequestStatus) error {
	if err := r.store.UpdateCell(ctx, queue.Sheet, gridRow(position), queue.StatusColumn, string(status)); err != nil {
		return fmt.Errorf("write status of %s #%d: %w", queue.Name, position, err)
	}
	return nil
}

// WriteNote writes the manager note cell of the record at position.
func (r *QueueRepository) WriteNote(ctx context.Context, queue models.QueueConfig, position int, note string) error {
	if err := r.store.UpdateCell(ctx, queue.Sheet, gridRow(position), queue.NoteColumn, note); err != nil {
		return fmt.Errorf("write note of %s #%d: %w", queue.Name, position, err)
	}
	return nil
}

// Append adds an encoded row. It never reads the table.
func (r *QueueRepository) Append(ctx context.Context, queue models.QueueConfig, values []string) error {
	if err := r.store.AppendRow(ctx, queue.Sheet, values); err != nil {
		return fmt.Errorf("append to %s: %w", queue.Name, err)
	}
	return nil
}

// DecodeQueue turns a header-first grid into records. A grid without any row decodes to an empty
// slice; a header that does not carry the configured columns at their positions is a SchemaError.
// Status strings are not validated.
func DecodeQueue(queue models.QueueConfig, grid [][]string) ([]models.RequestRecord, error) {
	if len(grid) == 0 {
		return []models.RequestRecord{}, nil
	}
	if err := checkHeader(queue.Sheet, grid[0], queue.Columns); err != nil {
		return nil, err
	}
	subject := queue.SubjectColumns()
	records := make([]models.RequestRecord, 0, len(grid)-1)
	for i, row := range grid[1:] {
		fields := make([]models.Field, 0, len(subject))
		for _, pos := range subject {
			fields = append(fields, models.Field{Name: queue.Columns[pos-1], Value: cell(row, pos-1)})
		}
		records = append(records, models.RequestRecord{
			Position:    i + 1,
			Fields:      fields,
			Status:      models.RequestStatus(cell(row, queue.StatusColumn-1)),
			ManagerNote: cell(row, queue.NoteColumn-1),
		})
	}
	return records, nil
}

// EncodeSubmission lays out a new pending row in column order. Fields must name subject columns
// other than the requester column.
func EncodeSubmission(queue models.QueueConfig, requester string, fields []models.Field) ([]string, error) {
	values := make([]string, len(queue.Columns))
	for _, f := range fields {
		pos := queue.ColumnIndex(f.Name)
		if pos == 0 || pos == queue.StatusColumn || pos == queue.NoteColumn || pos == queue.RequesterColumn {
			return nil, fmt.Errorf("%w: %q is not a subject column of %s", ErrUnknownField, f.Name, queue.Name)
		}
		values[pos-1] = f.Value
	}
	values[queue.RequesterColumn-1] = requester
	values[queue.StatusColumn-1] = string(models.RequestStatusPending)
	values[queue.NoteColumn-1] = ""
	return values, nil
}

// gridRow converts a data position into a grid row; row 1 is the header.
func gridRow(position int) int {
	return position + 1
}
