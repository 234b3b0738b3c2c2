package repository

import (
	"context"
	"fmt"

	"github.com/noah-isme/here-event-os/internal/models"
	"github.com/noah-isme/here-event-os/pkg/tabular"
)

// LeadRepository persists sales leads in an append-only table.
type LeadRepository struct {
	store tabular.Store
	sheet string
}

// NewLeadRepository constructs the repository for the given sheet.
func NewLeadRepository(store tabular.Store, sheet string) *LeadRepository {
	return &LeadRepository{store: store, sheet: sheet}
}

// Create appends the lead in the fixed column order.
func (r *LeadRepository) Create(ctx context.Context, lead models.Lead) error {
	values := []string{lead.Date, lead.Owner, lead.Company, lead.Contact, lead.Phone, lead.Email, lead.Note}
	if err := r.store.AppendRow(ctx, r.sheet, values); err != nil {
		return fmt.Errorf("append lead: %w", err)
	}
	return nil
}

// List returns every lead in table order.
func (r *LeadRepository) List(ctx context.Context) ([]models.Lead, error) {
	grid, err := r.store.GetTable(ctx, r.sheet)
	if err != nil {
		return nil, fmt.Errorf("read leads: %w", err)
	}
	if len(grid) == 0 {
		return []models.Lead{}, nil
	}
	if err := checkHeader(r.sheet, grid[0], models.LeadColumns); err != nil {
		return nil, err
	}
	leads := make([]models.Lead, 0, len(grid)-1)
	for i, row := range grid[1:] {
		leads = append(leads, models.Lead{
			Position: i + 1,
			Date:     cell(row, 0),
			Owner:    cell(row, 1),
			Company:  cell(row, 2),
			Contact:  cell(row, 3),
			Phone:    cell(row, 4),
			Email:    cell(row, 5),
			Note:     cell(row, 6),
		})
	}
	return leads, nil
}
