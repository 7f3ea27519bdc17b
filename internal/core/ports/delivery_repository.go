// Package ports defines the contracts between the settlement core and its
// infrastructure: repositories bound to a unit of work, and the best-effort
// collaborators (notifications, chats, tracking rooms) invoked after commit.
package ports

import (
	"context"

	"parcelhub/internal/core/domain/model/delivery"
	"parcelhub/internal/core/domain/model/kernel"
)

// DeliveryRepository defines the persistence contract for delivery aggregates.
type DeliveryRepository interface {
	// Add persists a new delivery. The aggregate must be valid.
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// Update persists changes to an existing delivery.
	Update(ctx context.Context, aggregate *delivery.Delivery) error

	// Get retrieves a delivery by id without locking it.
	// Returns ObjectNotFoundError when it does not exist.
	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetForUpdate retrieves a delivery and holds a row lock on it until the
	// surrounding transaction ends. Every operation that settles, advances or
	// cancels a delivery loads it through this method first, which serializes
	// those operations per delivery.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)
}
