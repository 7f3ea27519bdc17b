package offerrepo

import (
	"context"
	"errors"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/offer"
	"parcelhub/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOfferRepository implements ports.OfferRepository using GORM.
type GormOfferRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOfferRepository(db *gorm.DB, tracker aggregateTracker) *GormOfferRepository {
	return &GormOfferRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormOfferRepository) Add(ctx context.Context, aggregate *offer.Offer) error {
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

func (r *GormOfferRepository) Update(ctx context.Context, aggregate *offer.Offer) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OfferDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("offer", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOfferRepository) Get(ctx context.Context, id kernel.UUID) (*offer.Offer, error) {
	return r.get(r.db.WithContext(ctx), id)
}

func (r *GormOfferRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*offer.Offer, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormOfferRepository) ListPendingByDelivery(ctx context.Context, deliveryID kernel.UUID) ([]*offer.Offer, error) {
	if err := deliveryID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OfferDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("delivery_id = ? AND status = ?", deliveryID.Bytes(), int(offer.Pending)).
		Order("created_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

func (r *GormOfferRepository) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*offer.Offer, error) {
	var dtos []OfferDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ? AND created_at < ?", int(offer.Pending), cutoff).
		Order("created_at, id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

func (r *GormOfferRepository) get(db *gorm.DB, id kernel.UUID) (*offer.Offer, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OfferDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("offer", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
