package queries

import (
	"time"

	"parcelhub/internal/core/domain/model/delivery"
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/tracking"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryResponse is the read model of a delivery.
type DeliveryResponse struct {
	ID                 kernel.UUID        `json:"id"`
	SenderID           kernel.UUID        `json:"senderId"`
	PickerID           *kernel.UUID       `json:"pickerId"`
	RecipientID        *kernel.UUID       `json:"recipientId"`
	Status             string             `json:"status"`
	Price              string             `json:"price"`
	RecipientConfirmed bool               `json:"recipientConfirmed"`
	FromLocation       tracking.PlaceView `json:"fromLocation"`
	ToLocation         tracking.PlaceView `json:"toLocation"`
	Description        string             `json:"description"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

const deliveryColumns = `
	id, sender_id, picker_id, recipient_id, status, price, recipient_confirmed,
	from_lat, from_lng, from_address, to_lat, to_lng, to_address,
	description, created_at, updated_at`

type deliveryRow struct {
	ID                 uuid.UUID
	SenderID           uuid.UUID
	PickerID           *uuid.UUID
	RecipientID        *uuid.UUID
	Status             int
	Price              decimal.Decimal
	RecipientConfirmed bool
	FromLat            float64
	FromLng            float64
	FromAddress        string
	ToLat              float64
	ToLng              float64
	ToAddress          string
	Description        string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (r deliveryRow) response() (DeliveryResponse, error) {
	id, err := kernel.UUIDFromBytes(r.ID[:])
	if err != nil {
		return DeliveryResponse{}, err
	}
	senderID, err := kernel.UUIDFromBytes(r.SenderID[:])
	if err != nil {
		return DeliveryResponse{}, err
	}
	pickerID, err := optionalID(r.PickerID)
	if err != nil {
		return DeliveryResponse{}, err
	}
	recipientID, err := optionalID(r.RecipientID)
	if err != nil {
		return DeliveryResponse{}, err
	}

	return DeliveryResponse{
		ID:                 id,
		SenderID:           senderID,
		PickerID:           pickerID,
		RecipientID:        recipientID,
		Status:             delivery.Status(r.Status).String(),
		Price:              r.Price.StringFixed(kernel.MoneyScale),
		RecipientConfirmed: r.RecipientConfirmed,
		FromLocation:       tracking.PlaceView{Lat: r.FromLat, Lng: r.FromLng, Address: r.FromAddress},
		ToLocation:         tracking.PlaceView{Lat: r.ToLat, Lng: r.ToLng, Address: r.ToAddress},
		Description:        r.Description,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}, nil
}

// involves reports whether userID is the sender, the picker or the recipient.
func (r deliveryRow) involves(userID kernel.UUID) bool {
	raw := userID.Bytes()
	return r.SenderID == raw || (r.PickerID != nil && *r.PickerID == raw) || (r.RecipientID != nil && *r.RecipientID == raw)
}

func optionalID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
