package dto

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/here-event-os/internal/models"
)

// CartItemRequest adds a line to the session cart.
type CartItemRequest struct {
	Name      string          `json:"name" validate:"required,max=200"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// CartResponse lists the cart lines and their total.
type CartResponse struct {
	Items []models.CartItem `json:"items"`
	Total decimal.Decimal   `json:"total"`
}

// QuoteRequest renders the cart for a party. Reset clears the cart after a successful render.
type QuoteRequest struct {
	PartyName string `json:"partyName" validate:"required,max=200"`
	Reset     bool   `json:"reset"`
}
