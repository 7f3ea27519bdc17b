// Package paymentrepo persists PaymentRecord aggregates with GORM.
package paymentrepo

import (
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/payment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	DeliveryID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	FromUserID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ToUserID    *uuid.UUID      `gorm:"type:uuid;index"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Status      int             `gorm:"not null;index"`
	Method      string          `gorm:"not null"`
	CreatedAt   time.Time       `gorm:"autoCreateTime:false"`
	CompletedAt *time.Time
}

func (PaymentDTO) TableName() string {
	return "payment_records"
}

func fromDomain(p *payment.PaymentRecord) PaymentDTO {
	var toUserID *uuid.UUID
	if id := p.ToUserID(); id != nil {
		raw := id.Bytes()
		toUserID = &raw
	}

	return PaymentDTO{
		ID:          p.ID().Bytes(),
		DeliveryID:  p.DeliveryID().Bytes(),
		FromUserID:  p.FromUserID().Bytes(),
		ToUserID:    toUserID,
		Amount:      p.Amount().Decimal(),
		Status:      int(p.Status()),
		Method:      string(p.Method()),
		CreatedAt:   p.CreatedAt(),
		CompletedAt: p.CompletedAt(),
	}
}

func toDomain(dto PaymentDTO) (*payment.PaymentRecord, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	deliveryID, err := kernel.UUIDFromBytes(dto.DeliveryID[:])
	if err != nil {
		return nil, err
	}
	fromUserID, err := kernel.UUIDFromBytes(dto.FromUserID[:])
	if err != nil {
		return nil, err
	}

	var toUserID *kernel.UUID
	if dto.ToUserID != nil {
		id, idErr := kernel.UUIDFromBytes((*dto.ToUserID)[:])
		if idErr != nil {
			return nil, idErr
		}
		toUserID = &id
	}

	amount, err := kernel.NewMoney(dto.Amount)
	if err != nil {
		return nil, err
	}

	return payment.RestorePayment(
		id, deliveryID, fromUserID, toUserID,
		amount,
		payment.Status(dto.Status),
		payment.Method(dto.Method),
		dto.CreatedAt,
		dto.CompletedAt,
	)
}
