package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/here-event-os/internal/models"
	appErrors "github.com/noah-isme/here-event-os/pkg/errors"
)

type authServiceMock struct {
	loginErr  error
	loggedOut string
}

func (m *authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, *models.Session, error) {
	if m.loginErr != nil {
		return nil, nil, m.loginErr
	}
	return &models.LoginResponse{AccessToken: "token", ExpiresIn: 3600, User: models.UserInfo{Username: req.Username}}, &models.Session{ID: "s-1"}, nil
}

func (m *authServiceMock) Logout(ctx context.Context, sessionID string) error {
	m.loggedOut = sessionID
	return nil
}

func TestAuthHandlerLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(&authServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"username":"ayse","password":"x"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	handler.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"access_token":"token"`)
}

func TestAuthHandlerLoginRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(&authServiceMock{loginErr: appErrors.Clone(appErrors.ErrUnauthorized, "invalid credentials")})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"username":"ayse","password":"bad"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	handler.Login(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerLogoutAndMe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &authServiceMock{}
	handler := NewAuthHandler(mockSvc)

	w := httptest.NewRecorder()
	handler.Logout(managerCtx(w, http.MethodPost, "/auth/logout", nil, nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "s-1", mockSvc.loggedOut)

	w = httptest.NewRecorder()
	handler.Me(managerCtx(w, http.MethodGet, "/auth/me", nil, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"display_name":"Patron"`)
}
