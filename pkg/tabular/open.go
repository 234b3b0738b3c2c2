package tabular

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/noah-isme/here-event-os/pkg/config"
	"github.com/noah-isme/here-event-os/pkg/database"
)

// Open resolves the configured driver into a Store. Any failure is reported as ErrUnavailable.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverSheets:
		creds := []byte(cfg.Store.CredentialsJSON)
		if len(creds) == 0 && cfg.Store.CredentialsFile != "" {
			raw, err := os.ReadFile(cfg.Store.CredentialsFile)
			if err != nil {
				return nil, Unavailable("read credentials", err)
			}
			creds = raw
		}
		if len(creds) == 0 {
			return nil, Unavailable("open "+cfg.Store.Name, errors.New("sheets credentials are not configured"))
		}
		return NewSheetsStore(ctx, SheetsConfig{
			Name:            cfg.Store.Name,
			SpreadsheetID:   cfg.Store.SpreadsheetID,
			CredentialsJSON: creds,
		})
	case config.StoreDriverWorkbook:
		return NewWorkbookStore(cfg.Store.WorkbookPath)
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, Unavailable("connect postgres", err)
		}
		return NewPostgresStore(db), nil
	case config.StoreDriverMemory:
		return NewMemoryStore(nil), nil
	default:
		return nil, Unavailable("open", fmt.Errorf("unknown store driver %q", cfg.Store.Driver))
	}
}

// Opener resolves a store handle.
type Opener func(ctx context.Context) (Store, error)

// Lazy defers opening the backend until the first operation and re-attempts the open on later
// operations while it keeps failing. A failed open surfaces as ErrUnavailable from that operation.
type Lazy struct {
	open  Opener
	mu    sync.Mutex
	store Store
}

// NewLazy wraps an opener.
func NewLazy(open Opener) *Lazy {
	return &Lazy{open: open}
}

func (l *Lazy) resolve(ctx context.Context) (Store, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.store != nil {
		return l.store, nil
	}
	store, err := l.open(ctx)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return nil, err
		}
		return nil, Unavailable("open", err)
	}
	if store == nil {
		return nil, Unavailable("open", nil)
	}
	l.store = store
	return store, nil
}

// GetTable implements Store.
func (l *Lazy) GetTable(ctx context.Context, table string) ([][]string, error) {
	store, err := l.resolve(ctx)
	if err != nil {
		return nil, err
	}
	return store.GetTable(ctx, table)
}

// AppendRow implements Store.
func (l *Lazy) AppendRow(ctx context.Context, table string, values []string) error {
	store, err := l.resolve(ctx)
	if err != nil {
		return err
	}
	return store.AppendRow(ctx, table, values)
}

// UpdateCell implements Store.
func (l *Lazy) UpdateCell(ctx context.Context, table string, row, col int, value string) error {
	store, err := l.resolve(ctx)
	if err != nil {
		return err
	}
	return store.UpdateCell(ctx, table, row, col, value)
}

// Observer receives timing for every store call.
type Observer interface {
	ObserveStoreOperation(op, table string, err error, duration time.Duration)
}

type instrumented struct {
	next     Store
	observer Observer
}

// Instrument reports every call on next to the observer. A nil observer returns next unchanged.
func Instrument(next Store, observer Observer) Store {
	if observer == nil {
		return next
	}
	return &instrumented{next: next, observer: observer}
}

func (s *instrumented) GetTable(ctx context.Context, table string) ([][]string, error) {
	start := time.Now()
	grid, err := s.next.GetTable(ctx, table)
	s.observer.ObserveStoreOperation("get_table", table, err, time.Since(start))
	return grid, err
}

func (s *instrumented) AppendRow(ctx context.Context, table string, values []string) error {
	start := time.Now()
	err := s.next.AppendRow(ctx, table, values)
	s.observer.ObserveStoreOperation("append_row", table, err, time.Since(start))
	return err
}

func (s *instrumented) UpdateCell(ctx context.Context, table string, row, col int, value string) error {
	start := time.Now()
	err := s.next.UpdateCell(ctx, table, row, col, value)
	s.observer.ObserveStoreOperation("update_cell", table, err, time.Since(start))
	return err
}
