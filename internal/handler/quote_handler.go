package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/here-event-os/internal/dto"
	"github.com/noah-isme/here-event-os/internal/models"
	appErrors "github.com/noah-isme/here-event-os/pkg/errors"
	"github.com/noah-isme/here-event-os/pkg/response"
	"github.com/noah-isme/here-event-os/pkg/translit"
)

type quoteService interface {
	AddItem(actor *models.Session, req dto.CartItemRequest) (*dto.CartResponse, error)
	Cart(actor *models.Session) (*dto.CartResponse, error)
	Clear(actor *models.Session) error
	Generate(actor *models.Session, req dto.QuoteRequest) ([]byte, error)
}

// QuoteHandler exposes the session cart and quote rendering.
type QuoteHandler struct {
	service quoteService
}

// NewQuoteHandler constructs the handler.
func NewQuoteHandler(svc quoteService) *QuoteHandler {
	return &QuoteHandler{service: svc}
}

// Cart godoc
// @Summary Show the quote cart
// @Tags Quotes
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /cart [get]
func (h *QuoteHandler) Cart(c *gin.Context) {
	session, err := sessionFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	cart, err := h.service.Cart(session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cart)
}

// AddItem godoc
// @Summary Add a line to the quote cart
// @Tags Quotes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.CartItemRequest true "Line"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /cart/items [post]
func (h *QuoteHandler) AddItem(c *gin.Context) {
	session, err := sessionFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid cart item"))
		return
	}
	cart, err := h.service.AddItem(session, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, cart)
}

// Clear godoc
// @Summary Empty the quote cart
// @Tags Quotes
// @Security BearerAuth
// @Success 204
// @Router /cart [delete]
func (h *QuoteHandler) Clear(c *gin.Context) {
	session, err := sessionFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Clear(session); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Generate godoc
// @Summary Render the cart as a quote PDF
// @Tags Quotes
// @Security BearerAuth
// @Accept json
// @Produce application/pdf
// @Param payload body dto.QuoteRequest true "Party"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /quotes [post]
func (h *QuoteHandler) Generate(c *gin.Context) {
	session, err := sessionFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid quote payload"))
		return
	}
	pdf, err := h.service.Generate(session, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, quoteFilename(req.PartyName), "application/pdf", pdf)
}

func quoteFilename(party string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, translit.Fold(party))
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "quote"
	}
	return fmt.Sprintf("teklif-%s.pdf", slug)
}
