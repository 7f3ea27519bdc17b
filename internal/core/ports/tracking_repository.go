package ports

import (
	"context"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/tracking"
)

type TrackingRepository interface {
	Add(ctx context.Context, aggregate *tracking.TrackingRecord) error
	Update(ctx context.Context, aggregate *tracking.TrackingRecord) error

	// GetByDelivery returns ObjectNotFoundError for a delivery that was never settled.
	GetByDelivery(ctx context.Context, deliveryID kernel.UUID) (*tracking.TrackingRecord, error)
}
