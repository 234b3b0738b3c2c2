package app

import (
	"context"

	"github.com/noah-isme/here-event-os/internal/models"
	"github.com/noah-isme/here-event-os/pkg/config"
	"github.com/noah-isme/here-event-os/pkg/tabular"
)

var memoryUsersHeader = []string{"Kullanici Adi", "Sifre", "Ad Soyad", "Rol", "E-posta"}

// seedMemoryStore creates every table the services read, with their headers, and an admin
// credentials row so a fresh memory-backed process can log in.
func seedMemoryStore(ctx context.Context, store *tabular.MemoryStore, cfg *config.Config, queues models.QueueRegistry) error {
	for _, q := range queues {
		store.CreateTable(q.Sheet, q.Columns)
	}
	store.CreateTable(cfg.Queues.LeadsSheet, models.LeadColumns)
	if !store.CreateTable(cfg.Queues.UsersSheet, memoryUsersHeader) {
		return nil
	}
	if cfg.Store.MemoryAdminPassword == "" {
		return nil
	}
	return store.AppendRow(ctx, cfg.Queues.UsersSheet, []string{
		models.ReservedManagerUsername, cfg.Store.MemoryAdminPassword, "Yönetici", "Yönetici", cfg.Notify.ManagerAddress,
	})
}
