package http

import (
	"github.com/shopspring/decimal"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

type NewDelivery struct {
	RecipientID  *string         `json:"recipientId"`
	Price        decimal.Decimal `json:"price"`
	FromLocation Location        `json:"fromLocation"`
	ToLocation   Location        `json:"toLocation"`
	Description  string          `json:"description"`
}

type NewOffer struct {
	Price   decimal.Decimal `json:"price"`
	Message string          `json:"message"`
}

type Created struct {
	ID string `json:"id"`
}

type AcceptedOffer struct {
	DeliveryID string `json:"deliveryId"`
	OfferID    string `json:"offerId"`
	PaymentID  string `json:"paymentId"`
	Replayed   bool   `json:"replayed"`
}

type PickerAssignment struct {
	PickerID string `json:"pickerId"`
}

type AssignedPicker struct {
	DeliveryID string `json:"deliveryId"`
	PickerID   string `json:"pickerId"`
	PaymentID  string `json:"paymentId"`
}

type StatusChange struct {
	Status string `json:"status"`
}

type RecipientConfirmation struct {
	Confirmed *bool `json:"confirmed"`
}

type PickerPosition struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}
