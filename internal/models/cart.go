package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem references a product by id only; the product may since have been deleted.
type CartItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type Cart struct {
	UserID    uuid.UUID  `json:"user_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartLine is a cart item with its product resolved for display.
type CartLine struct {
	Product  *Product `json:"product"`
	Quantity int      `json:"quantity"`
}

type CartView struct {
	UserID uuid.UUID  `json:"user_id"`
	Items  []CartLine `json:"items"`
}

// quantity defaults to 1 when omitted
type AddToCartRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1"`
}
