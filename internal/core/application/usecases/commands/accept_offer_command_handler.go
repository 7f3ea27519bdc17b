package commands

import (
	"context"
	"errors"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/services"
	"parcelhub/internal/core/ports"
	"parcelhub/internal/pkg/errs"
)

// OperationAcceptOffer scopes idempotency keys of offer acceptance.
const OperationAcceptOffer = "accept-offer"

// AcceptOfferResult identifies what an acceptance produced.
type AcceptOfferResult struct {
	DeliveryID kernel.UUID
	OfferID    kernel.UUID
	PaymentID  kernel.UUID
	// Replayed is set when the result was answered from a stored idempotency
	// record and nothing was written.
	Replayed bool
}

// AcceptOfferCommandHandler settles a delivery on the picker of the accepted offer.
//
// Everything below happens in one transaction, so either all of it persists or
// none of it does:
//   - the sender's balance is debited by the offer price
//   - the delivery becomes accepted with the offer's picker and price
//   - the offer is accepted and every other pending offer of the delivery rejected
//   - a pending payment record and the tracking record are created
//   - the idempotency key, when given, is stored with the payment id
//
// Rows are locked in the order delivery, offers, payment, accounts. Two
// concurrent acceptances of the same delivery serialize on the delivery row;
// the second observes an assigned delivery and fails with ConflictError.
//
// After commit, chats are provisioned (sender and picker, picker and
// recipient) and every party is notified. Those steps are best-effort.
type AcceptOfferCommandHandler struct {
	uowFactory UoWFactory
	settler    services.OfferSettler
	effects    SideEffects
}

func NewAcceptOfferCommandHandler(
	uowFactory UoWFactory,
	settler services.OfferSettler,
	effects SideEffects,
) AcceptOfferCommandHandler {
	return AcceptOfferCommandHandler{
		uowFactory: uowFactory,
		settler:    settler,
		effects:    effects,
	}
}

// Handle returns ObjectNotFoundError, ForbiddenError, ConflictError or
// InsufficientFundsError; in each case nothing has been written.
func (h *AcceptOfferCommandHandler) Handle(ctx context.Context, cmd AcceptOfferCommand) (result AcceptOfferResult, err error) {
	if err = cmd.Validate(); err != nil {
		return AcceptOfferResult{}, err
	}

	defer func() {
		if !result.Replayed {
			observeSettlement("accept", err)
		}
	}()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return AcceptOfferResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if cmd.IdempotencyKey() != "" {
		replay, found, lookupErr := h.replay(ctx, uow, cmd)
		if lookupErr != nil || found {
			return replay, lookupErr
		}
	}

	offers := uow.OfferRepository()
	unlocked, err := offers.Get(ctx, cmd.OfferID())
	if err != nil {
		return AcceptOfferResult{}, err
	}

	d, err := uow.DeliveryRepository().GetForUpdate(ctx, unlocked.DeliveryID())
	if err != nil {
		return AcceptOfferResult{}, err
	}

	accepted, err := offers.GetForUpdate(ctx, cmd.OfferID())
	if err != nil {
		return AcceptOfferResult{}, err
	}

	pending, err := offers.ListPendingByDelivery(ctx, d.ID())
	if err != nil {
		return AcceptOfferResult{}, err
	}

	now := time.Now().UTC()
	settlement, err := h.settler.Accept(d, accepted, pending, cmd.SenderID(), now)
	if errors.Is(err, errs.ErrConflict) && cmd.IdempotencyKey() != "" {
		// A concurrent request with the same key may have settled the offer
		// while this one waited on the delivery lock.
		if replay, found, lookupErr := h.replay(ctx, uow, cmd); lookupErr != nil || found {
			return replay, lookupErr
		}
	}
	if err != nil {
		return AcceptOfferResult{}, err
	}

	if err = openSettlement(ctx, uow, settlement); err != nil {
		return AcceptOfferResult{}, err
	}

	if cmd.IdempotencyKey() != "" {
		if err = uow.IdempotencyRepository().Save(ctx, ports.IdempotencyRecord{
			Key:        cmd.IdempotencyKey(),
			Operation:  OperationAcceptOffer,
			RequestRef: cmd.OfferID().String(),
			ResultRef:  settlement.Payment.ID().String(),
			CreatedAt:  now,
		}); err != nil {
			return AcceptOfferResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return AcceptOfferResult{}, err
	}

	announceSettlement(ctx, h.effects, settlement, offerAcceptedNotification)

	return AcceptOfferResult{
		DeliveryID: d.ID(),
		OfferID:    accepted.ID(),
		PaymentID:  settlement.Payment.ID(),
	}, nil
}

// replay answers a retried request from its stored record. The same key used
// for another offer is a ConflictError.
func (h *AcceptOfferCommandHandler) replay(ctx context.Context, uow UoW, cmd AcceptOfferCommand) (AcceptOfferResult, bool, error) {
	record, err := uow.IdempotencyRepository().Get(ctx, cmd.IdempotencyKey(), OperationAcceptOffer)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return AcceptOfferResult{}, false, nil
	}
	if err != nil {
		return AcceptOfferResult{}, false, err
	}
	if record.RequestRef != cmd.OfferID().String() {
		return AcceptOfferResult{}, false, errs.NewConflictError("idempotency key", "was used for another offer")
	}

	paymentID, err := kernel.UUIDFromString(record.ResultRef)
	if err != nil {
		return AcceptOfferResult{}, false, err
	}
	o, err := uow.OfferRepository().Get(ctx, cmd.OfferID())
	if err != nil {
		return AcceptOfferResult{}, false, err
	}

	return AcceptOfferResult{
		DeliveryID: o.DeliveryID(),
		OfferID:    o.ID(),
		PaymentID:  paymentID,
		Replayed:   true,
	}, true, nil
}

// announceSettlement provisions the sender-picker chat (and the
// picker-recipient one when a recipient is recorded). Pickers learn the fate
// of their offers; the sender and recipient get the status change.
func announceSettlement(
	ctx context.Context,
	effects SideEffects,
	s services.Settlement,
	pickerNotification func(pickerID, deliveryID kernel.UUID) ports.Notification,
) {
	d := s.Delivery
	pickerID := *d.PickerID()

	effects.EnsureChat(ctx, d.ID(), d.SenderID(), pickerID)
	if d.RecipientID() != nil {
		effects.EnsureChat(ctx, d.ID(), pickerID, *d.RecipientID())
	}

	notifications := []ports.Notification{pickerNotification(pickerID, d.ID())}
	for _, rejected := range s.Rejected {
		notifications = append(notifications, offerRejectedNotification(rejected.PickerID(), d.ID()))
	}
	notifications = append(notifications, statusChangedNotifications(d)...)
	effects.Notify(ctx, notifications...)
}
