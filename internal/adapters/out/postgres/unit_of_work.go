// Package postgres provides the GORM-based Unit of Work that gives every
// settlement operation a single database transaction.
//
// Repositories obtained from a GormUnitOfWork after Begin share its
// transaction, so a rollback undoes ledger movements together with the
// aggregate changes:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	d, err := uow.DeliveryRepository().GetForUpdate(ctx, deliveryID)
//	...
//	if err := uow.LedgerRepository().Debit(ctx, senderID, price); err != nil {
//	    return err // nothing persisted
//	}
//	...
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - Each UnitOfWork instance owns one transaction; goroutines use separate instances
//   - Per-delivery serialization comes from row locks taken by the *ForUpdate reads
//   - Locks are taken in the order delivery, offers, payment record, accounts
package postgres

import (
	"context"

	"parcelhub/internal/adapters/out/postgres/deliveryrepo"
	"parcelhub/internal/adapters/out/postgres/idempotencyrepo"
	"parcelhub/internal/adapters/out/postgres/ledgerrepo"
	"parcelhub/internal/adapters/out/postgres/offerrepo"
	"parcelhub/internal/adapters/out/postgres/paymentrepo"
	"parcelhub/internal/adapters/out/postgres/trackingrepo"
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one *gorm.DB.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a fresh unit of work with no transaction and no tracked aggregates.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and tracks the
// aggregates written inside it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling Begin on an active unit of work is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the transaction. Returns gorm.ErrInvalidTransaction when
// none is active.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the transaction. After a successful Commit it returns
// gorm.ErrInvalidTransaction, which lets handlers defer it unconditionally.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) DeliveryRepository() ports.DeliveryRepository {
	return deliveryrepo.NewGormDeliveryRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) OfferRepository() ports.OfferRepository {
	return offerrepo.NewGormOfferRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) PaymentRepository() ports.PaymentRepository {
	return paymentrepo.NewGormPaymentRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) TrackingRepository() ports.TrackingRepository {
	return trackingrepo.NewGormTrackingRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) LedgerRepository() ports.LedgerRepository {
	return ledgerrepo.NewGormLedgerRepository(uow.conn())
}

func (uow *GormUnitOfWork) IdempotencyRepository() ports.IdempotencyRepository {
	return idempotencyrepo.NewGormIdempotencyRepository(uow.conn())
}

// TrackAggregate registers an aggregate written by one of the repositories.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// TrackedCount returns how many aggregate writes the current transaction made.
func (uow *GormUnitOfWork) TrackedCount() int {
	return len(uow.trackedAggregates)
}

// conn returns the transaction when one is active and the plain connection otherwise.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
