package paymentrepo

import (
	"context"
	"errors"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/payment"
	"parcelhub/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPaymentRepository implements ports.PaymentRepository using GORM.
type GormPaymentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormPaymentRepository(db *gorm.DB, tracker aggregateTracker) *GormPaymentRepository {
	return &GormPaymentRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormPaymentRepository) Add(ctx context.Context, aggregate *payment.PaymentRecord) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormPaymentRepository) Update(ctx context.Context, aggregate *payment.PaymentRecord) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&PaymentDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("payment record", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormPaymentRepository) GetOpenByDeliveryForUpdate(ctx context.Context, deliveryID kernel.UUID) (*payment.PaymentRecord, error) {
	if err := deliveryID.Validate(); err != nil {
		return nil, err
	}

	var dto PaymentDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("delivery_id = ? AND status IN ?", deliveryID.Bytes(), []int{int(payment.Pending), int(payment.Processing)}).
		Order("created_at").
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("open payment record of delivery", deliveryID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
