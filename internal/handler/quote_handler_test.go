package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/here-event-os/internal/dto"
	"github.com/noah-isme/here-event-os/internal/models"
	appErrors "github.com/noah-isme/here-event-os/pkg/errors"
)

type quoteServiceMock struct {
	added   []dto.CartItemRequest
	cleared bool
	genErr  error
	party   string
}

func (m *quoteServiceMock) AddItem(actor *models.Session, req dto.CartItemRequest) (*dto.CartResponse, error) {
	m.added = append(m.added, req)
	return &dto.CartResponse{Total: req.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))}, nil
}

func (m *quoteServiceMock) Cart(actor *models.Session) (*dto.CartResponse, error) {
	return &dto.CartResponse{Items: actor.Cart.Items(), Total: decimal.Zero}, nil
}

func (m *quoteServiceMock) Clear(actor *models.Session) error {
	m.cleared = true
	return nil
}

func (m *quoteServiceMock) Generate(actor *models.Session, req dto.QuoteRequest) ([]byte, error) {
	m.party = req.PartyName
	if m.genErr != nil {
		return nil, m.genErr
	}
	return []byte("%PDF-1.3"), nil
}

func TestQuoteHandlerCartFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &quoteServiceMock{}
	handler := NewQuoteHandler(mockSvc)

	w := httptest.NewRecorder()
	handler.AddItem(managerCtx(w, http.MethodPost, "/cart/items", []byte(`{"name":"Sahne","quantity":2,"unitPrice":"100"}`), nil))
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, mockSvc.added, 1)
	assert.Equal(t, "Sahne", mockSvc.added[0].Name)

	w = httptest.NewRecorder()
	handler.Cart(managerCtx(w, http.MethodGet, "/cart", nil, nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.Clear(managerCtx(w, http.MethodDelete, "/cart", nil, nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, mockSvc.cleared)
}

func TestQuoteHandlerGenerate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &quoteServiceMock{}
	handler := NewQuoteHandler(mockSvc)

	w := httptest.NewRecorder()
	handler.Generate(managerCtx(w, http.MethodPost, "/quotes", []byte(`{"partyName":"Çiçek Düğün Salonu"}`), nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="teklif-cicek-dugun-salonu.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3", w.Body.String())
}

func TestQuoteHandlerGenerateEmptyCart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewQuoteHandler(&quoteServiceMock{genErr: appErrors.Clone(appErrors.ErrValidation, "quote cart is empty")})

	w := httptest.NewRecorder()
	handler.Generate(managerCtx(w, http.MethodPost, "/quotes", []byte(`{"partyName":"Acme"}`), nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuoteFilename(t *testing.T) {
	assert.Equal(t, "teklif-acme-ltd.pdf", quoteFilename("  ACME Ltd. "))
	assert.Equal(t, "teklif-quote.pdf", quoteFilename("!!!"))
}
