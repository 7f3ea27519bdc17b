package ports

import (
	"context"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/payment"
)

type PaymentRepository interface {
	Add(ctx context.Context, aggregate *payment.PaymentRecord) error
	Update(ctx context.Context, aggregate *payment.PaymentRecord) error

	// GetOpenByDeliveryForUpdate locks and returns the pending (or processing)
	// record of a delivery. Returns ObjectNotFoundError when there is none,
	// which is also what a second settlement attempt observes.
	GetOpenByDeliveryForUpdate(ctx context.Context, deliveryID kernel.UUID) (*payment.PaymentRecord, error)
}
