package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/here-event-os/internal/dto"
	"github.com/noah-isme/here-event-os/internal/models"
	appErrors "github.com/noah-isme/here-event-os/pkg/errors"
	"github.com/noah-isme/here-event-os/pkg/export"
)

type quoteRenderer interface {
	Render(party string, lines []export.QuoteLine) ([]byte, error)
}

// QuoteService manages the session cart and renders quotes from it.
type QuoteService struct {
	renderer  quoteRenderer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewQuoteService constructs the service.
func NewQuoteService(renderer quoteRenderer, validate *validator.Validate, logger *zap.Logger) *QuoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &QuoteService{renderer: renderer, validator: validate, logger: logger}
}

// AddItem appends a line to the session cart.
func (s *QuoteService) AddItem(actor *models.Session, req dto.CartItemRequest) (*dto.CartResponse, error) {
	cart, err := cartOf(actor)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid cart item")
	}
	item := models.CartItem{Name: req.Name, Quantity: req.Quantity, UnitPrice: req.UnitPrice}
	if err := cart.Add(item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	return snapshotCart(cart), nil
}

// Cart returns the current lines and total.
func (s *QuoteService) Cart(actor *models.Session) (*dto.CartResponse, error) {
	cart, err := cartOf(actor)
	if err != nil {
		return nil, err
	}
	return snapshotCart(cart), nil
}

// Clear empties the session cart.
func (s *QuoteService) Clear(actor *models.Session) error {
	cart, err := cartOf(actor)
	if err != nil {
		return err
	}
	cart.Clear()
	return nil
}

// Generate renders the cart as a quote for the party. The cart is emptied only after a successful
// render and only when reset is set.
func (s *QuoteService) Generate(actor *models.Session, req dto.QuoteRequest) ([]byte, error) {
	cart, err := cartOf(actor)
	if err != nil {
		return nil, err
	}
	req.PartyName = strings.TrimSpace(req.PartyName)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "party name is required")
	}
	items := cart.Items()
	if len(items) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cart is empty")
	}
	lines := make([]export.QuoteLine, len(items))
	for i, item := range items {
		lines[i] = export.QuoteLine{Name: item.Name, Quantity: item.Quantity, UnitPrice: item.UnitPrice}
	}
	pdf, err := s.renderer.Render(req.PartyName, lines)
	if err != nil {
		if errors.Is(err, export.ErrEmptyQuote) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "cart is empty")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render quote")
	}
	if req.Reset {
		cart.Clear()
	}
	s.logger.Info("quote generated", zap.String("username", actor.Username), zap.Int("lines", len(lines)))
	return pdf, nil
}

func cartOf(actor *models.Session) (*models.QuoteCart, error) {
	if actor == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "login required")
	}
	// Only SessionStore.Open assigns the cart; the session is read concurrently after that.
	if actor.Cart == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "session has no cart")
	}
	return actor.Cart, nil
}

func snapshotCart(cart *models.QuoteCart) *dto.CartResponse {
	items := cart.Items()
	if items == nil {
		items = []models.CartItem{}
	}
	return &dto.CartResponse{Items: items, Total: models.CartTotal(items)}
}
