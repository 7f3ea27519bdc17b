package commands

import (
	"context"
	"errors"
	"time"

	"parcelhub/internal/core/domain/model/delivery"
	"parcelhub/internal/core/domain/model/tracking"
	"parcelhub/internal/pkg/errs"
)

// persistTransition writes a status change that the delivery aggregate has
// already applied, together with its money movement and tracking mirror.
//
//   - delivered: the escrow is released to the picker; failure aborts the change
//   - cancelled: an open escrow is refunded to the sender
//
// The returned tracking record is nil for a delivery that was never settled.
func persistTransition(ctx context.Context, uow settlementUoW, d *delivery.Delivery, now time.Time) (*tracking.TrackingRecord, error) {
	switch d.Status() {
	case delivery.Delivered:
		_, err := completePayment(ctx, uow, d.ID(), now)
		observeSettlement("complete", err)
		if err != nil {
			return nil, err
		}
	case delivery.Cancelled:
		record, err := refundPayment(ctx, uow, d.ID(), now)
		if record != nil || err != nil {
			observeSettlement("refund", err)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := uow.DeliveryRepository().Update(ctx, d); err != nil {
		return nil, err
	}

	record, err := uow.TrackingRepository().GetByDelivery(ctx, d.ID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err = record.MirrorStatus(d.Status(), now); err != nil {
		return nil, err
	}
	if err = uow.TrackingRepository().Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// announceTransition runs after commit. The room receives status-updated and,
// on delivery, a single tracking-completed.
func announceTransition(ctx context.Context, effects SideEffects, d *delivery.Delivery, record *tracking.TrackingRecord) {
	effects.Notify(ctx, statusChangedNotifications(d)...)

	if record == nil {
		return
	}
	effects.Publish(ctx, d.ID(), tracking.EventStatusUpdated, tracking.StatusUpdated{
		DeliveryID: d.ID().String(),
		Status:     d.Status().String(),
	})
	if d.Status() == delivery.Delivered {
		effects.Publish(ctx, d.ID(), tracking.EventTrackingCompleted, tracking.TrackingCompleted{
			DeliveryID: d.ID().String(),
		})
	}
}
