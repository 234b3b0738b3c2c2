package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/here-event-os/internal/app"
	"github.com/noah-isme/here-event-os/internal/models"
	"github.com/noah-isme/here-event-os/pkg/config"
	"github.com/noah-isme/here-event-os/pkg/notify"
	"github.com/noah-isme/here-event-os/pkg/tabular"
)

func memoryFactory(t *testing.T) envFactory {
	t.Helper()
	cfg := &config.Config{
		JWT:    config.JWTConfig{Secret: "cli-secret", Expiration: time.Hour},
		Notify: config.NotifyConfig{Workers: 1},
		Queues: config.QueuesConfig{
			LeaveSheet: "Izinler", AdvanceSheet: "Avanslar", PurchaseSheet: "Satinalma",
			LeadsSheet: "Musteriler", UsersSheet: "Kullanicilar",
		},
	}
	store := tabular.NewMemoryStore(map[string][][]string{
		"Kullanicilar": {
			{"Kullanici Adi", "Sifre", "Ad Soyad", "Rol"},
			{"admin", "s3cret", "Patron", ""},
			{"ayse", "pass", "Ayşe", "Personel"},
		},
	})
	for _, q := range models.DefaultQueues(cfg.Queues.LeaveSheet, cfg.Queues.AdvanceSheet, cfg.Queues.PurchaseSheet) {
		store.CreateTable(q.Sheet, q.Columns)
	}
	return func(ctx context.Context, verbose bool) (*app.Container, error) {
		return app.New(ctx, cfg, nil, app.WithStore(store), app.WithNotifier(notify.Nop{}))
	}
}

func execute(t *testing.T, factory envFactory, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(factory)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSubmitAndDecide(t *testing.T) {
	factory := memoryFactory(t)

	out, err := execute(t, factory, "-u", "ayse", "-p", "pass", "submit", "advance", "--amount", "1250.5", "--reason", "Kira")
	require.NoError(t, err)
	require.Contains(t, out, "1250.50")

	_, err = execute(t, factory, "-u", "ayse", "-p", "pass", "pending", "advance")
	require.Error(t, err)
	require.Contains(t, err.Error(), "FORBIDDEN")

	out, err = execute(t, factory, "-u", "admin", "-p", "s3cret", "pending", "advance")
	require.NoError(t, err)
	require.Contains(t, out, `"position": 1`)

	_, err = execute(t, factory, "-u", "admin", "-p", "s3cret", "reject", "advance", "1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "VALIDATION_ERROR")

	out, err = execute(t, factory, "-u", "admin", "-p", "s3cret", "reject", "advance", "1", "--note", "Bütçe yok")
	require.NoError(t, err)
	require.Equal(t, "advance #1 Reddedildi\n", out)

	out, err = execute(t, factory, "-u", "ayse", "-p", "pass", "mine", "advance")
	require.NoError(t, err)
	require.Contains(t, out, "Bütçe yok")
}

func TestLoginFailure(t *testing.T) {
	_, err := execute(t, memoryFactory(t), "-u", "ayse", "-p", "wrong", "whoami")
	require.Error(t, err)

	_, err = execute(t, memoryFactory(t), "-p", "pass", "whoami")
	require.EqualError(t, err, "--username is required")
}

func TestApproveRejectsBadPosition(t *testing.T) {
	_, err := execute(t, memoryFactory(t), "-u", "admin", "-p", "s3cret", "approve", "leave", "0")
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "positive row number"))
}

func TestExportWritesFile(t *testing.T) {
	factory := memoryFactory(t)
	_, err := execute(t, factory, "-u", "ayse", "-p", "pass", "submit", "leave", "--start", "2024-01-01", "--end", "2024-01-03")
	require.NoError(t, err)

	dir := t.TempDir()
	out, err := execute(t, factory, "-u", "admin", "-p", "s3cret", "export", "leave", "--format", "csv", "--out", dir)
	require.NoError(t, err)

	path := strings.TrimSpace(out)
	require.Equal(t, dir, filepath.Dir(path))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "Ayşe")
}
