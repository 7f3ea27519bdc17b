// Package offerrepo persists Offer aggregates with GORM.
package offerrepo

import (
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/offer"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OfferDTO struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	DeliveryID uuid.UUID       `gorm:"type:uuid;not null;index:idx_offers_delivery_status"`
	PickerID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Price      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Message    string
	Status     int       `gorm:"not null;index:idx_offers_delivery_status;index:idx_offers_status_created"`
	CreatedAt  time.Time `gorm:"autoCreateTime:false;index:idx_offers_status_created"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime:false"`
}

func (OfferDTO) TableName() string {
	return "offers"
}

func fromDomain(o *offer.Offer) OfferDTO {
	return OfferDTO{
		ID:         o.ID().Bytes(),
		DeliveryID: o.DeliveryID().Bytes(),
		PickerID:   o.PickerID().Bytes(),
		Price:      o.Price().Decimal(),
		Message:    o.Message(),
		Status:     int(o.Status()),
		CreatedAt:  o.CreatedAt(),
		UpdatedAt:  o.UpdatedAt(),
	}
}

func toDomain(dto OfferDTO) (*offer.Offer, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	deliveryID, err := kernel.UUIDFromBytes(dto.DeliveryID[:])
	if err != nil {
		return nil, err
	}
	pickerID, err := kernel.UUIDFromBytes(dto.PickerID[:])
	if err != nil {
		return nil, err
	}
	price, err := kernel.NewMoney(dto.Price)
	if err != nil {
		return nil, err
	}

	return offer.RestoreOffer(id, deliveryID, pickerID, price, dto.Message, offer.Status(dto.Status), dto.CreatedAt, dto.UpdatedAt)
}

func toDomainList(dtos []OfferDTO) ([]*offer.Offer, error) {
	offers := make([]*offer.Offer, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, nil
}
