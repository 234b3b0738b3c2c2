package models

import (
	"strings"
	"time"
)

// UserRole represents the roles understood by the RBAC middleware.
type UserRole string

const (
	RoleManager  UserRole = "MANAGER"
	RoleEmployee UserRole = "EMPLOYEE"
)

// ReservedManagerUsername always resolves to the manager role.
const ReservedManagerUsername = "admin"

// ResolveRole derives the session role from the username and the raw role cell of the credentials table.
func ResolveRole(username, rawRole string) UserRole {
	if username == ReservedManagerUsername {
		return RoleManager
	}
	switch strings.ToLower(strings.TrimSpace(rawRole)) {
	case "yonetici", "yönetici", "manager", "admin", "müdür", "mudur":
		return RoleManager
	default:
		return RoleEmployee
	}
}

// Credential is one row of the credentials table.
type Credential struct {
	Username    string
	Password    string
	DisplayName string
	Role        string
	Email       string
}

// Session is the explicit per-login context. It is created at login and discarded at logout.
type Session struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Email       string     `json:"email,omitempty"`
	Role        UserRole   `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
	Cart        *QuoteCart `json:"-"`
}

// IsManager reports whether the session may decide requests.
func (s *Session) IsManager() bool {
	return s != nil && s.Role == RoleManager
}

// Info returns the public part of the session.
func (s *Session) Info() UserInfo {
	return UserInfo{Username: s.Username, DisplayName: s.DisplayName, Role: s.Role}
}
