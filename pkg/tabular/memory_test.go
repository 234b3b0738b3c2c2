package tabular

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)
	store.CreateTable("Izinler", []string{"Personel", "Durum", "Not"})

	require.NoError(t, store.AppendRow(ctx, "Izinler", []string{"Ayse", "Bekliyor"}))
	require.NoError(t, store.UpdateCell(ctx, "Izinler", 2, 3, "eksik belge"))

	grid, err := store.GetTable(ctx, "Izinler")
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"Personel", "Durum", "Not"},
		{"Ayse", "Bekliyor", "eksik belge"},
	}, grid)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(map[string][][]string{"T": {{"A"}, {"1"}}})

	grid, err := store.GetTable(ctx, "T")
	require.NoError(t, err)
	grid[1][0] = "mutated"

	again, err := store.GetTable(ctx, "T")
	require.NoError(t, err)
	require.Equal(t, "1", again[1][0])
}

func TestMemoryStoreMissingTable(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)

	_, err := store.GetTable(ctx, "Yok")
	require.True(t, errors.Is(err, ErrTableNotFound))
	require.True(t, errors.Is(store.AppendRow(ctx, "Yok", []string{"x"}), ErrTableNotFound))
	require.True(t, errors.Is(store.UpdateCell(ctx, "Yok", 2, 1, "x"), ErrTableNotFound))
}

func TestMemoryStoreRejectsInvalidCoordinates(t *testing.T) {
	store := NewMemoryStore(map[string][][]string{"T": {{"A"}}})
	err := store.UpdateCell(context.Background(), "T", 0, 1, "x")
	require.True(t, errors.Is(err, ErrOutOfRange))
}
