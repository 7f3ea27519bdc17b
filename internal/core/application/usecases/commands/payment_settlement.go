package commands

import (
	"context"
	"errors"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/payment"
	"parcelhub/internal/core/domain/services"
	"parcelhub/internal/pkg/errs"
)

type settlementUoW interface {
	DeliveryRepoFactory
	OfferRepoFactory
	PaymentRepoFactory
	TrackingRepoFactory
	LedgerRepoFactory
}

// openSettlement persists a settlement computed by services.OfferSettler.
// The sender is debited first; on InsufficientFunds nothing else is written
// and the caller's rollback leaves the database untouched.
func openSettlement(ctx context.Context, uow settlementUoW, s services.Settlement) error {
	if err := uow.LedgerRepository().Debit(ctx, s.Payment.FromUserID(), s.Payment.Amount()); err != nil {
		return err
	}
	if err := uow.DeliveryRepository().Update(ctx, s.Delivery); err != nil {
		return err
	}

	offers := uow.OfferRepository()
	if s.Accepted != nil {
		if err := offers.Update(ctx, s.Accepted); err != nil {
			return err
		}
	}
	for _, rejected := range s.Rejected {
		if err := offers.Update(ctx, rejected); err != nil {
			return err
		}
	}

	if err := uow.PaymentRepository().Add(ctx, s.Payment); err != nil {
		return err
	}
	return uow.TrackingRepository().Add(ctx, s.Tracking)
}

// completePayment releases the escrow of a delivered delivery to the picker:
// the open record is locked, the picker credited and the record completed in
// the caller's transaction. A second call finds no open record and fails with
// ObjectNotFoundError, so the picker is never credited twice.
func completePayment(ctx context.Context, uow settlementUoW, deliveryID kernel.UUID, now time.Time) (*payment.PaymentRecord, error) {
	record, err := uow.PaymentRepository().GetOpenByDeliveryForUpdate(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if err = record.Complete(now); err != nil {
		return nil, err
	}
	if err = uow.LedgerRepository().Credit(ctx, *record.ToUserID(), record.Amount()); err != nil {
		return nil, err
	}
	if err = uow.PaymentRepository().Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// refundPayment returns the escrow of a cancelled delivery to the sender.
// A delivery cancelled before acceptance has no record; that is not an error
// and the result is nil.
func refundPayment(ctx context.Context, uow settlementUoW, deliveryID kernel.UUID, now time.Time) (*payment.PaymentRecord, error) {
	record, err := uow.PaymentRepository().GetOpenByDeliveryForUpdate(ctx, deliveryID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err = record.Cancel(now); err != nil {
		return nil, err
	}
	if err = uow.LedgerRepository().Credit(ctx, record.FromUserID(), record.Amount()); err != nil {
		return nil, err
	}
	if err = uow.PaymentRepository().Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}
