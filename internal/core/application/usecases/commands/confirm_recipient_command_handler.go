package commands

import (
	"context"
	"time"

	"parcelhub/internal/core/domain/model/delivery"
	"parcelhub/internal/core/domain/model/tracking"
)

type ConfirmRecipientCommandHandler struct {
	uowFactory UoWFactory
	effects    SideEffects
}

func NewConfirmRecipientCommandHandler(uowFactory UoWFactory, effects SideEffects) ConfirmRecipientCommandHandler {
	return ConfirmRecipientCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
	}
}

// Handle records the answer of the delivery's recipient and notifies the
// sender (and the picker on a rejection). A rejection goes through the same path as a cancellation: the
// escrow is refunded and the room is told. Returns ForbiddenError for anyone
// but the recorded recipient.
func (h *ConfirmRecipientCommandHandler) Handle(ctx context.Context, cmd ConfirmRecipientCommand) error {
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

	now := time.Now().UTC()
	if err = d.ConfirmByRecipient(cmd.RecipientID(), cmd.Confirmed(), now); err != nil {
		return err
	}

	var record *tracking.TrackingRecord
	if d.Status() == delivery.Cancelled {
		record, err = persistTransition(ctx, uow, d, now)
	} else {
		err = uow.DeliveryRepository().Update(ctx, d)
	}
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.effects.Notify(ctx, recipientAnswerNotifications(d, cmd.Confirmed())...)
	if record != nil {
		h.effects.Publish(ctx, d.ID(), tracking.EventStatusUpdated, tracking.StatusUpdated{
			DeliveryID: d.ID().String(),
			Status:     d.Status().String(),
		})
	}
	return nil
}
