package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/here-event-os/internal/models"
	"github.com/noah-isme/here-event-os/pkg/config"
	"github.com/noah-isme/here-event-os/pkg/notify"
	"github.com/noah-isme/here-event-os/pkg/tabular"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:       config.EnvDevelopment,
		APIPrefix: "/api/v1",
		JWT:       config.JWTConfig{Secret: "test-secret", Issuer: "here-event-os", Expiration: time.Hour},
		Notify:    config.NotifyConfig{Workers: 1},
		Queues: config.QueuesConfig{
			LeaveSheet:    "Izinler",
			AdvanceSheet:  "Avanslar",
			PurchaseSheet: "Satinalma",
			LeadsSheet:    "Musteriler",
			UsersSheet:    "Kullanicilar",
		},
		Quote: config.QuoteConfig{Issuer: "Here Event", Currency: "TL"},
	}
}

func testStore(cfg *config.Config) *tabular.MemoryStore {
	store := tabular.NewMemoryStore(map[string][][]string{
		cfg.Queues.UsersSheet: {
			{"Kullanici Adi", "Sifre", "Ad Soyad", "Rol"},
			{"admin", "s3cret", "Patron", ""},
			{"ayse", "pass", "Ayşe Yılmaz", "Personel"},
		},
	})
	for _, q := range models.DefaultQueues(cfg.Queues.LeaveSheet, cfg.Queues.AdvanceSheet, cfg.Queues.PurchaseSheet) {
		store.CreateTable(q.Sheet, q.Columns)
	}
	store.CreateTable(cfg.Queues.LeadsSheet, models.LeadColumns)
	return store
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	c, err := New(context.Background(), cfg, nil, WithStore(testStore(cfg)), WithNotifier(notify.Nop{}))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return &testServer{t: t, router: NewRouter(c)}
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(username, password string) string {
	w := s.do(http.MethodPost, "/api/v1/auth/login", "", `{"username":"`+username+`","password":"`+password+`"}`)
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Data models.LoginResponse `json:"data"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(s.t, body.Data.AccessToken)
	return body.Data.AccessToken
}

func pendingPositions(t *testing.T, w *httptest.ResponseRecorder) []int {
	t.Helper()
	var body struct {
		Data []models.RequestRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	positions := make([]int, 0, len(body.Data))
	for _, rec := range body.Data {
		positions = append(positions, rec.Position)
	}
	return positions
}

func TestWorkflowEndToEnd(t *testing.T) {
	srv := newTestServer(t)

	employee := srv.login("ayse", "pass")
	w := srv.do(http.MethodPost, "/api/v1/requests/leave", employee, `{"startDate":"2024-01-01","endDate":"2024-01-03","reason":"Tatil"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = srv.do(http.MethodPost, "/api/v1/requests/leave", employee, `{"startDate":"2024-02-01","endDate":"2024-02-01","reason":"Doktor"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = srv.do(http.MethodGet, "/api/v1/queues/leave/pending", employee, "")
	require.Equal(t, http.StatusForbidden, w.Code)

	manager := srv.login("admin", "s3cret")
	w = srv.do(http.MethodGet, "/api/v1/queues/leave/pending", manager, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []int{1, 2}, pendingPositions(t, w))

	w = srv.do(http.MethodPost, "/api/v1/queues/leave/requests/1/approve", manager, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = srv.do(http.MethodPost, "/api/v1/queues/leave/requests/2/reject", manager, `{"note":"   "}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(http.MethodPost, "/api/v1/queues/leave/requests/2/reject", manager, `{"note":"Yoğun dönem"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = srv.do(http.MethodGet, "/api/v1/queues/leave/pending", manager, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, pendingPositions(t, w))

	w = srv.do(http.MethodGet, "/api/v1/queues/leave/mine", employee, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Onaylandı")
	require.Contains(t, w.Body.String(), "Yoğun dönem")

	w = srv.do(http.MethodGet, "/api/v1/queues/leave/export?format=xlsx", manager, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
}

func TestQuoteFlow(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login("ayse", "pass")

	w := srv.do(http.MethodPost, "/api/v1/quotes", token, `{"partyName":"Acme"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(http.MethodPost, "/api/v1/cart/items", token, `{"name":"Ses sistemi","quantity":2,"unitPrice":"100"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = srv.do(http.MethodPost, "/api/v1/cart/items", token, `{"name":"Işık","quantity":1,"unitPrice":"50"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), `"total":"250"`)

	w = srv.do(http.MethodPost, "/api/v1/quotes", token, `{"partyName":"Acme","reset":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	require.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = srv.do(http.MethodGet, "/api/v1/cart", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"total":"0"`)
}

func TestLogoutRevokesToken(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login("ayse", "pass")

	w := srv.do(http.MethodGet, "/api/v1/auth/me", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.do(http.MethodPost, "/api/v1/auth/logout", token, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = srv.do(http.MethodGet, "/api/v1/auth/me", token, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProbes(t *testing.T) {
	srv := newTestServer(t)

	require.Equal(t, http.StatusOK, srv.do(http.MethodGet, "/health", "", "").Code)
	require.Equal(t, http.StatusOK, srv.do(http.MethodGet, "/ready", "", "").Code)

	w := srv.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "tabular_store_operation_seconds")
}

func TestUnavailableStoreIsNotFatal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.Store.Driver = "carrier-pigeon"
	c, err := New(context.Background(), cfg, nil, WithNotifier(notify.Nop{}))
	require.NoError(t, err)
	defer c.Close()

	router := NewRouter(c)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"username":"ayse","password":"pass"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	req, _ = http.NewRequest(http.MethodGet, "/ready", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMemoryDriverServesFreshProcess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.Store.Driver = config.StoreDriverMemory
	cfg.Store.MemoryAdminPassword = "dev-pass"
	c, err := New(context.Background(), cfg, nil, WithNotifier(notify.Nop{}))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	srv := &testServer{t: t, router: NewRouter(c)}

	require.Equal(t, http.StatusOK, srv.do(http.MethodGet, "/ready", "", "").Code)

	manager := srv.login("admin", "dev-pass")
	w := srv.do(http.MethodGet, "/api/v1/queues/leave/pending", manager, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Empty(t, pendingPositions(t, w))

	w = srv.do(http.MethodPost, "/api/v1/requests/advance", manager, `{"amount":"100.00","reason":"Yol"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = srv.do(http.MethodGet, "/api/v1/queues/advance/pending", manager, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []int{1}, pendingPositions(t, w))

	w = srv.do(http.MethodPost, "/api/v1/leads", manager, `{"company":"Acme","contact":"Ali","phone":"05321234567"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}
