package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/here-event-os/internal/dto"
	"github.com/noah-isme/here-event-os/internal/models"
	"github.com/noah-isme/here-event-os/internal/repository"
	appErrors "github.com/noah-isme/here-event-os/pkg/errors"
	"github.com/noah-isme/here-event-os/pkg/tabular"
)

func TestLeadSubmitAndList(t *testing.T) {
	store := tabular.NewMemoryStore(nil)
	store.CreateTable("Musteriler", models.LeadColumns)
	svc := NewLeadService(repository.NewLeadRepository(store, "Musteriler"), nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	lead, err := svc.Submit(ctx, employeeSession("Ayse"), dto.LeadRequest{Company: " Acme ", Contact: "Can", Email: "can@acme.test"})
	require.NoError(t, err)
	require.Equal(t, "Acme", lead.Company)
	require.Equal(t, "Ayse", lead.Owner)

	_, err = svc.List(ctx, employeeSession("Ayse"))
	requireCode(t, err, appErrors.ErrForbidden.Code)

	leads, err := svc.List(ctx, managerSession())
	require.NoError(t, err)
	require.Len(t, leads, 1)
	require.Equal(t, "2024-03-01", leads[0].Date)
	require.Equal(t, "can@acme.test", leads[0].Email)
}

func TestLeadSubmitValidation(t *testing.T) {
	svc := NewLeadService(repository.NewLeadRepository(tabular.NewMemoryStore(nil), "Musteriler"), nil, nil)

	_, err := svc.Submit(context.Background(), employeeSession("Ayse"), dto.LeadRequest{Company: ""})
	requireCode(t, err, appErrors.ErrValidation.Code)
	_, err = svc.Submit(context.Background(), employeeSession("Ayse"), dto.LeadRequest{Company: "Acme", Email: "not-an-email"})
	requireCode(t, err, appErrors.ErrValidation.Code)
}

func TestLeadSubmitMissingTable(t *testing.T) {
	svc := NewLeadService(repository.NewLeadRepository(tabular.NewMemoryStore(nil), "Musteriler"), nil, nil)

	_, err := svc.Submit(context.Background(), employeeSession("Ayse"), dto.LeadRequest{Company: "Acme"})
	requireCode(t, err, appErrors.ErrSchema.Code)
}
