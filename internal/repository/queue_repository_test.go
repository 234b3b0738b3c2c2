package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/here-event-os/internal/models"
	"github.com/noah-isme/here-event-os/pkg/tabular"
)

func advanceQueue() models.QueueConfig {
	return models.DefaultQueues("Izinler", "Avanslar", "Satinalma")[models.QueueAdvance]
}

var advanceHeader = []string{"Tarih", "Personel", "Tutar", "Aciklama", "Durum", "Yonetici Notu"}

func TestDecodeQueueEmptyGrid(t *testing.T) {
	records, err := DecodeQueue(advanceQueue(), nil)
	require.NoError(t, err)
	require.NotNil(t, records)
	require.Empty(t, records)

	records, err = DecodeQueue(advanceQueue(), [][]string{advanceHeader})
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestDecodeQueuePreservesOrderAndPadsShortRows(t *testing.T) {
	grid := [][]string{
		advanceHeader,
		{"2024-01-01", "Ali", "1500", "kira", "Bekliyor"},
		{"2024-01-02", "Ayse", "300", "yol", "Reddedildi", "limit asildi"},
		{"2024-01-03", "Can", "50", "", "Iptal"},
	}
	records, err := DecodeQueue(advanceQueue(), grid)
	require.NoError(t, err)
	require.Len(t, records, 3)

	require.Equal(t, 1, records[0].Position)
	require.Equal(t, models.RequestStatusPending, records[0].Status)
	require.Equal(t, "", records[0].ManagerNote)
	require.Equal(t, []models.Field{
		{Name: "Tarih", Value: "2024-01-01"},
		{Name: "Personel", Value: "Ali"},
		{Name: "Tutar", Value: "1500"},
		{Name: "Aciklama", Value: "kira"},
	}, records[0].Fields)

	require.Equal(t, 2, records[1].Position)
	require.Equal(t, "limit asildi", records[1].ManagerNote)

	require.Equal(t, models.RequestStatus("Iptal"), records[2].Status)
}

func TestDecodeQueueToleratesAccentedHeaders(t *testing.T) {
	header := []string{"Tarih", "Personel", "Tutar", "Açıklama", "Durum", "Yönetici Notu"}
	_, err := DecodeQueue(advanceQueue(), [][]string{header})
	require.NoError(t, err)
}

func TestDecodeQueueSchemaDrift(t *testing.T) {
	_, err := DecodeQueue(advanceQueue(), [][]string{{"Tarih", "Personel", "Tutar", "Aciklama"}})
	require.True(t, errors.Is(err, ErrSchema))
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	require.Equal(t, "Durum", schemaErr.Column)
	require.Equal(t, 5, schemaErr.Position)

	_, err = DecodeQueue(advanceQueue(), [][]string{{"Tarih", "Personel", "Tutar", "Aciklama", "Statu", "Yonetici Notu"}})
	require.True(t, errors.Is(err, ErrSchema))
}

func TestEncodeSubmission(t *testing.T) {
	values, err := EncodeSubmission(advanceQueue(), "Ali", []models.Field{
		{Name: "Tutar", Value: "1500"},
		{Name: "tarih", Value: "2024-01-01"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"2024-01-01", "Ali", "1500", "", "Bekliyor", ""}, values)

	_, err = EncodeSubmission(advanceQueue(), "Ali", []models.Field{{Name: "Durum", Value: "Onaylandı"}})
	require.True(t, errors.Is(err, ErrUnknownField))

	_, err = EncodeSubmission(advanceQueue(), "Ali", []models.Field{{Name: "Maas", Value: "1"}})
	require.True(t, errors.Is(err, ErrUnknownField))
}

func TestQueueRepositoryWritesTargetGridCoordinates(t *testing.T) {
	ctx := context.Background()
	store := tabular.NewMemoryStore(map[string][][]string{
		"Avanslar": {
			advanceHeader,
			{"2024-01-01", "Ali", "1500", "kira", "Bekliyor", ""},
			{"2024-01-02", "Ayse", "300", "yol", "Bekliyor", ""},
		},
	})
	repo := NewQueueRepository(store)

	require.NoError(t, repo.WriteStatus(ctx, advanceQueue(), 2, models.RequestStatusRejected))
	require.NoError(t, repo.WriteNote(ctx, advanceQueue(), 2, "limit"))

	records, err := repo.Snapshot(ctx, advanceQueue())
	require.NoError(t, err)
	require.Equal(t, models.RequestStatusPending, records[0].Status)
	require.Equal(t, models.RequestStatusRejected, records[1].Status)
	require.Equal(t, "limit", records[1].ManagerNote)
}

func TestQueueRepositoryMissingTable(t *testing.T) {
	repo := NewQueueRepository(tabular.NewMemoryStore(nil))
	_, err := repo.Snapshot(context.Background(), advanceQueue())
	require.True(t, errors.Is(err, tabular.ErrTableNotFound))
}
