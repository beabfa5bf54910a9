package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Neighborhood carries the delivery fee charged for addresses inside it.
// Deliveries reference neighborhoods by name, not id, so renaming one does
// not retroactively relabel historical records.
type Neighborhood struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	DeliveryFee decimal.Decimal `json:"delivery_fee" db:"delivery_fee"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

type CreateNeighborhoodRequest struct {
	Name        string          `json:"name" validate:"required,min=2,max=100"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
}

type UpdateNeighborhoodRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	DeliveryFee *decimal.Decimal `json:"delivery_fee,omitempty"`
}
