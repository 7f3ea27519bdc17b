package trackingrepo

import (
	"context"
	"errors"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/tracking"
	"parcelhub/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormTrackingRepository implements ports.TrackingRepository using GORM.
type GormTrackingRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormTrackingRepository(db *gorm.DB, tracker aggregateTracker) *GormTrackingRepository {
	return &GormTrackingRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormTrackingRepository) Add(ctx context.Context, aggregate *tracking.TrackingRecord) error {
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

func (r *GormTrackingRepository) Update(ctx context.Context, aggregate *tracking.TrackingRecord) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&TrackingDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("tracking record", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormTrackingRepository) GetByDelivery(ctx context.Context, deliveryID kernel.UUID) (*tracking.TrackingRecord, error) {
	if err := deliveryID.Validate(); err != nil {
		return nil, err
	}

	var dto TrackingDTO
	if err := r.db.WithContext(ctx).First(&dto, "delivery_id = ?", deliveryID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("tracking record of delivery", deliveryID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
