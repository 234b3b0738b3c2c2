package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/noah-isme/here-event-os/internal/models"
	"github.com/noah-isme/here-event-os/pkg/tabular"
)

// ErrUserNotFound is returned when no credentials row carries the username.
var ErrUserNotFound = errors.New("user not found")

var (
	usernameAliases = []string{"Kullanici Adi", "Kullanici", "Username"}
	passwordAliases = []string{"Sifre", "Parola", "Password"}
	nameAliases     = []string{"Ad Soyad", "Isim", "Name"}
	roleAliases     = []string{"Rol", "Role"}
	emailAliases    = []string{"E-posta", "Eposta", "Email", "Mail"}
)

// UserRepository looks up credentials in the users table.
type UserRepository struct {
	store tabular.Store
	sheet string
}

// NewUserRepository constructs the repository for the given sheet.
func NewUserRepository(store tabular.Store, sheet string) *UserRepository {
	return &UserRepository{store: store, sheet: sheet}
}

// FindByUsername scans the credentials table for an exact username match.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.Credential, error) {
	grid, err := r.store.GetTable(ctx, r.sheet)
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	if len(grid) == 0 {
		return nil, ErrUserNotFound
	}
	header := grid[0]
	userIdx := headerIndex(header, usernameAliases...)
	if userIdx < 0 {
		return nil, &SchemaError{Table: r.sheet, Column: usernameAliases[0]}
	}
	passIdx := headerIndex(header, passwordAliases...)
	if passIdx < 0 {
		return nil, &SchemaError{Table: r.sheet, Column: passwordAliases[0]}
	}
	nameIdx := headerIndex(header, nameAliases...)
	roleIdx := headerIndex(header, roleAliases...)
	emailIdx := headerIndex(header, emailAliases...)

	username = strings.TrimSpace(username)
	for _, row := range grid[1:] {
		if strings.TrimSpace(cell(row, userIdx)) != username {
			continue
		}
		cred := &models.Credential{
			Username:    username,
			Password:    cell(row, passIdx),
			DisplayName: strings.TrimSpace(cell(row, nameIdx)),
			Role:        cell(row, roleIdx),
			Email:       strings.TrimSpace(cell(row, emailIdx)),
		}
		if cred.DisplayName == "" {
			cred.DisplayName = username
		}
		return cred, nil
	}
	return nil, ErrUserNotFound
}
