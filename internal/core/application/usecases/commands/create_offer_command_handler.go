package commands

import (
	"context"
	"errors"
	"time"

	"parcelhub/internal/core/domain/model/offer"
	"parcelhub/internal/pkg/errs"
)

// CreateOfferCommandHandler records a picker's bid and tells the sender.
//
// Any number of pickers may bid on the same delivery; the delivery row is
// read without a lock. A bid that commits while the delivery is being
// accepted stays pending; it can never be accepted afterwards and the offer
// expiration job rejects it.
type CreateOfferCommandHandler struct {
	uowFactory OfferUoWFactory
	effects    SideEffects
}

func NewCreateOfferCommandHandler(uowFactory OfferUoWFactory, effects SideEffects) CreateOfferCommandHandler {
	return CreateOfferCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
	}
}

// Handle returns ObjectNotFoundError for an unknown delivery, ConflictError
// when it is no longer open and ValueIsInvalidError when the sender bids on
// their own delivery.
func (h *CreateOfferCommandHandler) Handle(ctx context.Context, cmd CreateOfferCommand) error {
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

	d, err := uow.DeliveryRepository().Get(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}
	if err = d.EnsureOpen(); err != nil {
		return err
	}
	if d.IsSender(cmd.PickerID()) {
		return errs.NewValueIsInvalidErrorWithCause("pickerId", errors.New("sender cannot bid on their own delivery"))
	}

	o, err := offer.NewOffer(cmd.OfferID(), d.ID(), cmd.PickerID(), cmd.Price(), cmd.Message(), time.Now().UTC())
	if err != nil {
		return err
	}

	if err = uow.OfferRepository().Add(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.effects.Notify(ctx, offerReceivedNotification(d.SenderID(), d.ID(), o.Price()))
	return nil
}
