package commands

import (
	"context"
	"time"

	"parcelhub/internal/core/domain/model/delivery"
)

// CreateDeliveryCommandHandler persists a new pending delivery.
type CreateDeliveryCommandHandler struct {
	uowFactory DeliveryUoWFactory
}

func NewCreateDeliveryCommandHandler(uowFactory DeliveryUoWFactory) CreateDeliveryCommandHandler {
	return CreateDeliveryCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h *CreateDeliveryCommandHandler) Handle(ctx context.Context, cmd CreateDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	d, err := delivery.NewDelivery(
		cmd.DeliveryID(),
		cmd.SenderID(),
		cmd.RecipientID(),
		cmd.Price(),
		cmd.From(),
		cmd.To(),
		cmd.Description(),
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.DeliveryRepository().Add(ctx, d); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
