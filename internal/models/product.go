package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Location    string    `json:"location"`
	ImageBase64 string    `json:"image_base64"`
	OwnerID     uuid.UUID `json:"owner_id"`
	OwnerName   string    `json:"owner_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=5000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Location    string  `json:"location" validate:"max=200"`
	ImageBase64 string  `json:"image_base64"`
}

// UpdateProductRequest is a partial patch: a nil field leaves the stored value untouched.
type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Location    *string  `json:"location,omitempty" validate:"omitempty,max=200"`
	ImageBase64 *string  `json:"image_base64,omitempty"`
}

func (r *UpdateProductRequest) IsEmpty() bool {
	return r == nil ||
		(r.Name == nil && r.Description == nil && r.Price == nil && r.Location == nil && r.ImageBase64 == nil)
}
