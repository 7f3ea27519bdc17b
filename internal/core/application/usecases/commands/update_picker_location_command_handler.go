package commands

import (
	"context"
	"time"

	"parcelhub/internal/core/domain/model/tracking"
)

// UpdatePickerLocationCommandHandler stores the picker's position and
// broadcasts location-updated to the room. A rejected update is never
// broadcast.
type UpdatePickerLocationCommandHandler struct {
	uowFactory TrackingUoWFactory
	effects    SideEffects
}

func NewUpdatePickerLocationCommandHandler(uowFactory TrackingUoWFactory, effects SideEffects) UpdatePickerLocationCommandHandler {
	return UpdatePickerLocationCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
	}
}

func (h *UpdatePickerLocationCommandHandler) Handle(ctx context.Context, cmd UpdatePickerLocationCommand) error {
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

	trackingRepo := uow.TrackingRepository()
	record, err := trackingRepo.GetByDelivery(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}

	if err = record.UpdatePickerLocation(cmd.ActorID(), cmd.Point(), time.Now().UTC()); err != nil {
		return err
	}

	if err = trackingRepo.Update(ctx, record); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.effects.Publish(ctx, record.DeliveryID(), tracking.EventLocationUpdated, record.LocationUpdatedEvent())
	return nil
}
