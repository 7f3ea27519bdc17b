package commands

import (
	"errors"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/pkg/guard"
)

var ErrCreateDeliveryCommandIsNotConstructed = errors.New(
	"CreateDeliveryCommand must be created via NewCreateDeliveryCommand constructor",
)

// CreateDeliveryCommand registers a new delivery on behalf of its sender.
//
// Example:
//
//	cmd, err := NewCreateDeliveryCommand(kernel.NewUUID(), senderID, nil, price, from, to, "two boxes")
//	if err != nil {
//	    return fmt.Errorf("invalid delivery data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create delivery: %w", err)
//	}
type CreateDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID  kernel.UUID
	senderID    kernel.UUID
	recipientID *kernel.UUID
	price       kernel.Money
	from        kernel.Place
	to          kernel.Place
	description string

	guard guard.ConstructorGuard
}

// NewCreateDeliveryCommand validates ids, price and route. Aggregate level
// rules (recipient differs from sender, description length) are left to the
// Delivery constructor.
func NewCreateDeliveryCommand(
	deliveryID, senderID kernel.UUID,
	recipientID *kernel.UUID,
	price kernel.Money,
	from, to kernel.Place,
	description string,
) (CreateDeliveryCommand, error) {
	cmd := CreateDeliveryCommand{
		description: description,
		guard:       guard.NewConstructorGuard(),
	}

	var recipientErr error
	if recipientID != nil {
		recipientErr = recipientID.Validate()
	}

	if err := errors.Join(
		deliveryID.Validate(),
		senderID.Validate(),
		recipientErr,
		price.Validate(),
		from.Validate(),
		to.Validate(),
	); err != nil {
		return CreateDeliveryCommand{}, err
	}

	cmd.deliveryID = deliveryID
	cmd.senderID = senderID
	cmd.recipientID = recipientID
	cmd.price = price
	cmd.from = from
	cmd.to = to
	return cmd, nil
}

func (c CreateDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCreateDeliveryCommandIsNotConstructed)
}

func (c CreateDeliveryCommand) DeliveryID() kernel.UUID   { return c.deliveryID }
func (c CreateDeliveryCommand) SenderID() kernel.UUID     { return c.senderID }
func (c CreateDeliveryCommand) RecipientID() *kernel.UUID { return c.recipientID }
func (c CreateDeliveryCommand) Price() kernel.Money       { return c.price }
func (c CreateDeliveryCommand) From() kernel.Place        { return c.from }
func (c CreateDeliveryCommand) To() kernel.Place          { return c.to }
func (c CreateDeliveryCommand) Description() string       { return c.description }
