package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Known payment type codes. Unrecognized codes are preserved and displayed
// using the raw code.
const (
	PaymentIfood = "ifood"
	PaymentApp   = "app"
	PaymentCard  = "card"
	PaymentCash  = "cash"
	PaymentPix   = "pix"
	PaymentRappi = "rappi"
)

var paymentTypeLabels = map[string]string{
	PaymentIfood: "iFood",
	PaymentApp:   "App Próprio",
	PaymentCard:  "Cartão",
	PaymentCash:  "Dinheiro",
	PaymentPix:   "PIX",
	PaymentRappi: "Rappi",
}

// PaymentTypeLabel returns the display label for a payment type code.
// Unknown codes come back unchanged.
func PaymentTypeLabel(code string) string {
	if label, ok := paymentTypeLabels[code]; ok {
		return label
	}
	return code
}

// KnownPaymentType reports whether code is one of the recognized values.
func KnownPaymentType(code string) bool {
	_, ok := paymentTypeLabels[code]
	return ok
}

// Delivery is one delivery transaction. CreatedAt is authoritative for
// shift windowing. Distance fields are nil when the mapping provider could
// not resolve the address; such records still count toward delivery totals
// but contribute zero to km sums.
type Delivery struct {
	ID               string          `json:"id" db:"id"`
	CourierID        string          `json:"courier_id" db:"courier_id"`
	CourierName      string          `json:"courier_name" db:"courier_name"`
	Address          string          `json:"address" db:"address"`
	NeighborhoodName string          `json:"neighborhood_name" db:"neighborhood_name"`
	PaymentType      string          `json:"payment_type" db:"payment_type"`
	OrderValue       decimal.Decimal `json:"order_value" db:"order_value"`
	DeliveryFee      decimal.Decimal `json:"delivery_fee" db:"delivery_fee"`
	DistanceKm       *float64        `json:"distance_km,omitempty" db:"distance_km"`
	RoundTripKm      *float64        `json:"round_trip_km,omitempty" db:"round_trip_km"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}

// CreateDeliveryRequest carries a new delivery. ClientRef is the caller's
// temporary id for optimistic inserts; it is echoed back so the client can
// reconcile the pending row with the store-assigned id.
type CreateDeliveryRequest struct {
	CourierID        string          `json:"courier_id" validate:"required,uuid4"`
	Address          string          `json:"address" validate:"required,min=5"`
	NeighborhoodName string          `json:"neighborhood_name" validate:"required"`
	PaymentType      string          `json:"payment_type" validate:"required"`
	OrderValue       decimal.Decimal `json:"order_value"`
	ClientRef        string          `json:"client_ref,omitempty"`
}

// CreateDeliveryResponse pairs the persisted record with the client's
// temporary id. DistanceResolved is false when the record was saved with
// degraded data because the mapping lookup failed.
type CreateDeliveryResponse struct {
	Delivery         *Delivery `json:"delivery"`
	ClientRef        string    `json:"client_ref,omitempty"`
	DistanceResolved bool      `json:"distance_resolved"`
}

type UpdateDeliveryRequest struct {
	Address          *string          `json:"address,omitempty" validate:"omitempty,min=5"`
	NeighborhoodName *string          `json:"neighborhood_name,omitempty"`
	PaymentType      *string          `json:"payment_type,omitempty"`
	OrderValue       *decimal.Decimal `json:"order_value,omitempty"`
	DeliveryFee      *decimal.Decimal `json:"delivery_fee,omitempty"`
	RoundTripKm      *float64         `json:"round_trip_km,omitempty"`
}
