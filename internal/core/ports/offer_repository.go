package ports

import (
	"context"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/offer"
)

type OfferRepository interface {
	Add(ctx context.Context, aggregate *offer.Offer) error
	Update(ctx context.Context, aggregate *offer.Offer) error

	// Get returns ObjectNotFoundError when the offer does not exist.
	Get(ctx context.Context, id kernel.UUID) (*offer.Offer, error)

	// GetForUpdate is Get holding a row lock. Callers lock the offer's
	// delivery first.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*offer.Offer, error)

	// ListPendingByDelivery returns the pending offers of a delivery, locked
	// for update, oldest first.
	ListPendingByDelivery(ctx context.Context, deliveryID kernel.UUID) ([]*offer.Offer, error)

	// ListPendingCreatedBefore returns up to limit pending offers created
	// before cutoff, oldest first. Rows locked by a concurrent transaction
	// are skipped.
	ListPendingCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*offer.Offer, error)
}
