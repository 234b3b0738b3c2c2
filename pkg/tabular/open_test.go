package tabular

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/here-event-os/pkg/config"
)

func TestLazyReportsUnavailableAndRetriesOpen(t *testing.T) {
	calls := 0
	backing := NewMemoryStore(map[string][][]string{"T": {{"A"}}})
	lazy := NewLazy(func(ctx context.Context) (Store, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("dial tcp: timeout")
		}
		return backing, nil
	})

	_, err := lazy.GetTable(context.Background(), "T")
	require.True(t, errors.Is(err, ErrUnavailable))

	grid, err := lazy.GetTable(context.Background(), "T")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"A"}}, grid)

	_, err = lazy.GetTable(context.Background(), "T")
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{Store: config.StoreConfig{Driver: "ftp"}})
	require.True(t, errors.Is(err, ErrUnavailable))
}

func TestOpenSheetsWithoutCredentials(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{Store: config.StoreConfig{Driver: config.StoreDriverSheets, SpreadsheetID: "x"}})
	require.True(t, errors.Is(err, ErrUnavailable))
}

type recordingObserver struct {
	ops []string
}

func (r *recordingObserver) ObserveStoreOperation(op, table string, err error, duration time.Duration) {
	r.ops = append(r.ops, op+":"+table)
}

func TestInstrumentReportsEachCall(t *testing.T) {
	obs := &recordingObserver{}
	store := Instrument(NewMemoryStore(map[string][][]string{"T": {{"A"}}}), obs)

	_, _ = store.GetTable(context.Background(), "T")
	_ = store.AppendRow(context.Background(), "T", []string{"1"})
	_ = store.UpdateCell(context.Background(), "T", 2, 1, "2")

	require.Equal(t, []string{"get_table:T", "append_row:T", "update_cell:T"}, obs.ops)
}
