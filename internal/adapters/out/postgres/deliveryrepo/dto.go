// Package deliveryrepo persists Delivery aggregates with GORM.
package deliveryrepo

import (
	"time"

	"parcelhub/internal/core/domain/model/delivery"
	"parcelhub/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryDTO is the row of the deliveries table.
type DeliveryDTO struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SenderID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	PickerID           *uuid.UUID      `gorm:"type:uuid;index"`
	RecipientID        *uuid.UUID      `gorm:"type:uuid;index"`
	Status             int             `gorm:"not null;index"`
	Price              decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	RecipientConfirmed bool            `gorm:"not null;default:false"`
	From               PlaceDTO        `gorm:"embedded;embeddedPrefix:from_"`
	To                 PlaceDTO        `gorm:"embedded;embeddedPrefix:to_"`
	Description        string
	CreatedAt          time.Time `gorm:"autoCreateTime:false;index"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime:false"`
}

func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// PlaceDTO is an embedded geographic place.
type PlaceDTO struct {
	Lat     float64 `gorm:"type:double precision"`
	Lng     float64 `gorm:"type:double precision"`
	Address string
}

func fromDomain(d *delivery.Delivery) DeliveryDTO {
	return DeliveryDTO{
		ID:                 d.ID().Bytes(),
		SenderID:           d.SenderID().Bytes(),
		PickerID:           optionalID(d.PickerID()),
		RecipientID:        optionalID(d.RecipientID()),
		Status:             int(d.Status()),
		Price:              d.Price().Decimal(),
		RecipientConfirmed: d.RecipientConfirmed(),
		From:               placeFromDomain(d.From()),
		To:                 placeFromDomain(d.To()),
		Description:        d.Description(),
		CreatedAt:          d.CreatedAt(),
		UpdatedAt:          d.UpdatedAt(),
	}
}

func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	senderID, err := kernel.UUIDFromBytes(dto.SenderID[:])
	if err != nil {
		return nil, err
	}
	pickerID, err := restoreOptionalID(dto.PickerID)
	if err != nil {
		return nil, err
	}
	recipientID, err := restoreOptionalID(dto.RecipientID)
	if err != nil {
		return nil, err
	}
	price, err := kernel.NewMoney(dto.Price)
	if err != nil {
		return nil, err
	}
	from, err := placeToDomain(dto.From)
	if err != nil {
		return nil, err
	}
	to, err := placeToDomain(dto.To)
	if err != nil {
		return nil, err
	}

	return delivery.RestoreDelivery(
		id, senderID, pickerID, recipientID,
		delivery.Status(dto.Status),
		price,
		dto.RecipientConfirmed,
		from, to,
		dto.Description,
		dto.CreatedAt, dto.UpdatedAt,
	)
}

func placeFromDomain(p kernel.Place) PlaceDTO {
	return PlaceDTO{Lat: p.Point().Lat(), Lng: p.Point().Lng(), Address: p.Address()}
}

func placeToDomain(dto PlaceDTO) (kernel.Place, error) {
	point, err := kernel.NewGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return kernel.Place{}, err
	}
	return kernel.NewPlace(point, dto.Address)
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func restoreOptionalID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
