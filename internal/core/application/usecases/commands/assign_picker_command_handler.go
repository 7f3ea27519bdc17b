package commands

import (
	"context"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/services"
)

// AssignPickerCommandHandler runs the same atomic settlement as offer
// acceptance, at the delivery's price. Every pending offer is rejected.
type AssignPickerCommandHandler struct {
	uowFactory UoWFactory
	settler    services.OfferSettler
	effects    SideEffects
}

func NewAssignPickerCommandHandler(
	uowFactory UoWFactory,
	settler services.OfferSettler,
	effects SideEffects,
) AssignPickerCommandHandler {
	return AssignPickerCommandHandler{
		uowFactory: uowFactory,
		settler:    settler,
		effects:    effects,
	}
}

// Handle returns the id of the opened payment record.
func (h *AssignPickerCommandHandler) Handle(ctx context.Context, cmd AssignPickerCommand) (paymentID kernel.UUID, err error) {
	if err = cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		observeSettlement("assign", err)
	}()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	d, err := uow.DeliveryRepository().GetForUpdate(ctx, cmd.DeliveryID())
	if err != nil {
		return kernel.UUID{}, err
	}

	pending, err := uow.OfferRepository().ListPendingByDelivery(ctx, d.ID())
	if err != nil {
		return kernel.UUID{}, err
	}

	settlement, err := h.settler.AssignDirectly(d, cmd.PickerID(), pending, cmd.SenderID(), time.Now().UTC())
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = openSettlement(ctx, uow, settlement); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	announceSettlement(ctx, h.effects, settlement, deliveryAssignedNotification)
	return settlement.Payment.ID(), nil
}
