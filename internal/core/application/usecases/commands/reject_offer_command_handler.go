package commands

import (
	"context"
	"time"

	"parcelhub/internal/pkg/errs"
)

// RejectOfferCommandHandler lets the sender decline one offer. Nothing else
// changes and nobody is notified.
type RejectOfferCommandHandler struct {
	uowFactory OfferUoWFactory
}

func NewRejectOfferCommandHandler(uowFactory OfferUoWFactory) RejectOfferCommandHandler {
	return RejectOfferCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle locks the delivery before the offer, like acceptance does, so a
// rejection and an acceptance of the same offer never interleave.
func (h *RejectOfferCommandHandler) Handle(ctx context.Context, cmd RejectOfferCommand) error {
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

	offers := uow.OfferRepository()
	unlocked, err := offers.Get(ctx, cmd.OfferID())
	if err != nil {
		return err
	}

	d, err := uow.DeliveryRepository().GetForUpdate(ctx, unlocked.DeliveryID())
	if err != nil {
		return err
	}
	if !d.IsSender(cmd.SenderID()) {
		return errs.NewForbiddenError(cmd.SenderID(), "reject offer "+cmd.OfferID().String())
	}

	o, err := offers.GetForUpdate(ctx, cmd.OfferID())
	if err != nil {
		return err
	}
	if err = o.Reject(time.Now().UTC()); err != nil {
		return err
	}

	if err = offers.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
