package commands

import (
	"context"
	"time"

	"parcelhub/internal/pkg/errs"
)

// UpdateDeliveryStatusCommandHandler advances or cancels a delivery.
//
// The delivery row is locked for the whole transaction. Reaching delivered
// completes the payment in the same transaction: the picker is credited once
// and a failed settlement leaves the delivery picked up. Cancelling after
// acceptance refunds the sender. A picker-only command from anyone but the
// assigned picker fails with ForbiddenError before any transition is checked.
//
// After commit the sender and recipient are notified and the tracking room
// receives status-updated (followed by tracking-completed on delivery).
type UpdateDeliveryStatusCommandHandler struct {
	uowFactory UoWFactory
	effects    SideEffects
}

func NewUpdateDeliveryStatusCommandHandler(uowFactory UoWFactory, effects SideEffects) UpdateDeliveryStatusCommandHandler {
	return UpdateDeliveryStatusCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
	}
}

func (h *UpdateDeliveryStatusCommandHandler) Handle(ctx context.Context, cmd UpdateDeliveryStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	d, err := uow.DeliveryRepository().GetForUpdate(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}

	if cmd.PickerOnly() && !d.IsPicker(cmd.ActorID()) {
		return errs.NewForbiddenError(cmd.ActorID(), "update tracking status")
	}

	now := time.Now().UTC()
	if err = d.ChangeStatus(cmd.ActorID(), cmd.Status(), now); err != nil {
		return err
	}

	record, err := persistTransition(ctx, uow, d, now)
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	announceTransition(ctx, h.effects, d, record)
	return nil
}
