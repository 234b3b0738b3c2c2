package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/here-event-os/internal/models"
	"github.com/noah-isme/here-event-os/internal/repository"
	appErrors "github.com/noah-isme/here-event-os/pkg/errors"
	"github.com/noah-isme/here-event-os/pkg/tabular"
)

type stubCredentials struct {
	users map[string]*models.Credential
	err   error
}

func (s *stubCredentials) FindByUsername(ctx context.Context, username string) (*models.Credential, error) {
	if s.err != nil {
		return nil, s.err
	}
	cred, ok := s.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return cred, nil
}

func newTestAuth(t *testing.T, users ...*models.Credential) *AuthService {
	t.Helper()
	repo := &stubCredentials{users: map[string]*models.Credential{}}
	for _, u := range users {
		repo.users[u.Username] = u
	}
	return NewAuthService(repo, NewSessionStore(), nil, nil, AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "here-event-os",
	})
}

func TestLoginResolvesRoles(t *testing.T) {
	svc := newTestAuth(t,
		&models.Credential{Username: "admin", Password: "root", DisplayName: "Patron"},
		&models.Credential{Username: "zeynep", Password: "pw", DisplayName: "Zeynep", Role: "Yönetici"},
		&models.Credential{Username: "ali", Password: "pw", DisplayName: "Ali", Role: "Personel"},
	)
	cases := map[string]models.UserRole{"admin": models.RoleManager, "zeynep": models.RoleManager, "ali": models.RoleEmployee}
	for username, role := range cases {
		password := "pw"
		if username == "admin" {
			password = "root"
		}
		resp, session, err := svc.Login(context.Background(), models.LoginRequest{Username: username, Password: password})
		require.NoError(t, err, username)
		require.Equal(t, role, resp.User.Role, username)
		require.Equal(t, role, session.Role, username)
		require.NotEmpty(t, resp.AccessToken)
		require.Equal(t, int64(3600), resp.ExpiresIn)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAuth(t, &models.Credential{Username: "ali", Password: "pw", DisplayName: "Ali"})

	_, _, err := svc.Login(context.Background(), models.LoginRequest{Username: "ali", Password: "wrong"})
	requireCode(t, err, appErrors.ErrInvalidCredentials.Code)
	_, _, err = svc.Login(context.Background(), models.LoginRequest{Username: "veli", Password: "pw"})
	requireCode(t, err, appErrors.ErrInvalidCredentials.Code)
	_, _, err = svc.Login(context.Background(), models.LoginRequest{Username: " ", Password: "pw"})
	requireCode(t, err, appErrors.ErrValidation.Code)
}

func TestLoginAcceptsBcryptHashes(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	svc := newTestAuth(t, &models.Credential{Username: "ali", Password: string(hash), DisplayName: "Ali"})

	_, _, err = svc.Login(context.Background(), models.LoginRequest{Username: "ali", Password: "s3cret"})
	require.NoError(t, err)
	_, _, err = svc.Login(context.Background(), models.LoginRequest{Username: "ali", Password: string(hash)})
	requireCode(t, err, appErrors.ErrInvalidCredentials.Code)
}

func TestLoginStoreUnavailable(t *testing.T) {
	repo := &stubCredentials{err: tabular.Unavailable("get", errors.New("invalid_grant"))}
	svc := NewAuthService(repo, nil, nil, nil, AuthConfig{AccessTokenSecret: "x"})

	_, _, err := svc.Login(context.Background(), models.LoginRequest{Username: "ali", Password: "pw"})
	requireCode(t, err, appErrors.ErrStoreUnavailable.Code)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	svc := newTestAuth(t, &models.Credential{Username: "ali", Password: "pw", DisplayName: "Ali"})
	resp, session, err := svc.Login(context.Background(), models.LoginRequest{Username: "ali", Password: "pw"})
	require.NoError(t, err)

	got, err := svc.Authenticate(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, session.ID, got.ID)

	require.NoError(t, svc.Logout(context.Background(), session.ID))
	_, err = svc.Authenticate(resp.AccessToken)
	requireCode(t, err, appErrors.ErrUnauthorized.Code)

	err = svc.Logout(context.Background(), session.ID)
	requireCode(t, err, appErrors.ErrUnauthorized.Code)
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	svc := newTestAuth(t)
	claims := &models.JWTClaims{Username: "ali", RegisteredClaims: jwt.RegisteredClaims{ID: "x", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	requireCode(t, err, appErrors.ErrUnauthorized.Code)
}

func TestExpireSessions(t *testing.T) {
	svc := newTestAuth(t, &models.Credential{Username: "ali", Password: "pw", DisplayName: "Ali"})
	_, _, err := svc.Login(context.Background(), models.LoginRequest{Username: "ali", Password: "pw"})
	require.NoError(t, err)

	require.Zero(t, svc.ExpireSessions(time.Now()))
	require.Equal(t, 1, svc.ExpireSessions(time.Now().Add(2*time.Hour)))
}

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()
	session := store.Open(&models.Credential{Username: "admin", DisplayName: "Patron"})
	require.Equal(t, models.RoleManager, session.Role)
	require.NotNil(t, session.Cart)
	require.Equal(t, 1, store.Len())

	got, ok := store.Get(session.ID)
	require.True(t, ok)
	require.Same(t, session, got)

	require.True(t, store.Close(session.ID))
	require.False(t, store.Close(session.ID))
	_, ok = store.Get(session.ID)
	require.False(t, ok)
}
