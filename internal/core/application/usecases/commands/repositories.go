// Package commands contains the write use cases of the settlement core.
// Every command follows the same shape: validated construction, one unit of
// work with row locks where ordering matters, commit, then best-effort side
// effects (notifications, chats, tracking room events) that never change the
// outcome.
package commands

import (
	"context"

	"parcelhub/internal/core/ports"
)

// Unit of Work interfaces narrow ports.UnitOfWork to what each handler needs.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	DeliveryRepoFactory interface {
		DeliveryRepository() ports.DeliveryRepository
	}

	OfferRepoFactory interface {
		OfferRepository() ports.OfferRepository
	}

	PaymentRepoFactory interface {
		PaymentRepository() ports.PaymentRepository
	}

	TrackingRepoFactory interface {
		TrackingRepository() ports.TrackingRepository
	}

	LedgerRepoFactory interface {
		LedgerRepository() ports.LedgerRepository
	}

	IdempotencyRepoFactory interface {
		IdempotencyRepository() ports.IdempotencyRepository
	}

	// DeliveryUoW serves commands that only touch deliveries.
	DeliveryUoW interface {
		TxManager
		DeliveryRepoFactory
	}

	DeliveryUoWFactory interface {
		Create() DeliveryUoW
	}

	// OfferUoW serves offer creation and rejection.
	OfferUoW interface {
		TxManager
		DeliveryRepoFactory
		OfferRepoFactory
	}

	OfferUoWFactory interface {
		Create() OfferUoW
	}

	// TrackingUoW serves picker location updates.
	TrackingUoW interface {
		TxManager
		TrackingRepoFactory
	}

	TrackingUoWFactory interface {
		Create() TrackingUoW
	}

	// UoW spans every repository; settlement and lifecycle commands use it.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   d, err := uow.DeliveryRepository().GetForUpdate(ctx, id)
	//   err = uow.LedgerRepository().Debit(ctx, d.SenderID(), price)
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		DeliveryRepoFactory
		OfferRepoFactory
		PaymentRepoFactory
		TrackingRepoFactory
		LedgerRepoFactory
		IdempotencyRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
