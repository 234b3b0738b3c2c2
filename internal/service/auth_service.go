package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/here-event-os/internal/models"
	"github.com/noah-isme/here-event-os/internal/repository"
	appErrors "github.com/noah-isme/here-event-os/pkg/errors"
)

type credentialStore interface {
	FindByUsername(ctx context.Context, username string) (*models.Credential, error)
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
}

// AuthService opens and closes sessions against the credentials table.
type AuthService struct {
	repo      credentialStore
	sessions  *SessionStore
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo credentialStore, sessions *SessionStore, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if sessions == nil {
		sessions = NewSessionStore()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 12 * time.Hour
	}
	return &AuthService{repo: repo, sessions: sessions, validator: validate, logger: logger, config: config}
}

// Login checks the credentials, opens a session and returns a token bound to it.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, *models.Session, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "username and password are required")
	}

	cred, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, nil, storeError(err, "failed to read credentials")
	}
	if !passwordMatches(cred.Password, req.Password) {
		return nil, nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	session := s.sessions.Open(cred)
	token, issuedAt, err := s.generateAccessToken(session)
	if err != nil {
		s.sessions.Close(session.ID)
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}
	s.logger.Info("session opened", zap.String("username", session.Username), zap.String("role", string(session.Role)))

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		IssuedAt:    issuedAt,
		User:        session.Info(),
	}, session, nil
}

// Logout discards the session. Tokens issued for it stop working immediately.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if !s.sessions.Close(sessionID) {
		return appErrors.Clone(appErrors.ErrUnauthorized, "session not found")
	}
	s.logger.Info("session closed", zap.String("session_id", sessionID))
	return nil
}

// Authenticate resolves a bearer token to its live session.
func (s *AuthService) Authenticate(tokenString string) (*models.Session, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	session, ok := s.sessions.Get(claims.ID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session has ended")
	}
	return session, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// ExpireSessions drops sessions older than the token lifetime.
func (s *AuthService) ExpireSessions(now time.Time) int {
	return s.sessions.Expire(now.Add(-s.config.AccessTokenExpiry))
}

func (s *AuthService) generateAccessToken(session *models.Session) (string, time.Time, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.AccessTokenExpiry)
	claims := &models.JWTClaims{
		Username:    session.Username,
		DisplayName: session.DisplayName,
		Role:        session.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Issuer:    s.config.Issuer,
			Subject:   session.Username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.AccessTokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, issuedAt, nil
}

// passwordMatches accepts bcrypt hashes and plaintext cells.
func passwordMatches(stored, given string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(stored)), []byte(given)) == 1
}
