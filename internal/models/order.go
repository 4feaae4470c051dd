package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

// Payment is mocked, so completed is the only state an order ever has.
const OrderStatusCompleted OrderStatus = "completed"

// OrderItem is a detached snapshot of what the buyer saw at checkout.
type OrderItem struct {
	ProductID   string  `json:"product_id" validate:"required"`
	ProductName string  `json:"product_name" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Quantity    int     `json:"quantity" validate:"required,min=1"`
}

type Order struct {
	ID        uuid.UUID   `json:"id"`
	BuyerID   uuid.UUID   `json:"buyer_id"`
	BuyerName string      `json:"buyer_name"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

type CreateOrderRequest struct {
	Items []OrderItem `json:"items" validate:"required,min=1,dive"`
	Total float64     `json:"total" validate:"gte=0"`
}
