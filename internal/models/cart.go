package models

import (
	"errors"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidQuantity rejects cart lines with a non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	// ErrInvalidUnitPrice rejects cart lines with a negative unit price.
	ErrInvalidUnitPrice = errors.New("unit price must not be negative")
	// ErrMissingItemName rejects cart lines without a name.
	ErrMissingItemName = errors.New("item name is required")
)

// CartItem is one quote line.
type CartItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// LineTotal returns quantity × unit price.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Validate checks the line before it enters a cart.
func (i CartItem) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrMissingItemName
	}
	if i.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if i.UnitPrice.IsNegative() {
		return ErrInvalidUnitPrice
	}
	return nil
}

// QuoteCart is the ordered, session-scoped list of quote lines.
type QuoteCart struct {
	mu    sync.Mutex
	items []CartItem
}

// NewQuoteCart returns an empty cart.
func NewQuoteCart() *QuoteCart {
	return &QuoteCart{}
}

// Add appends a validated line.
func (c *QuoteCart) Add(item CartItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	item.Name = strings.TrimSpace(item.Name)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, item)
	return nil
}

// Clear empties the cart.
func (c *QuoteCart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Items returns a copy of the lines in insertion order.
func (c *QuoteCart) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]CartItem(nil), c.items...)
}

// Len returns the number of lines.
func (c *QuoteCart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Total sums quantity × unit price over every line.
func (c *QuoteCart) Total() decimal.Decimal {
	return CartTotal(c.Items())
}

// CartTotal sums quantity × unit price over the given lines.
func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}
