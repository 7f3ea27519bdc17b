package commands

import (
	"errors"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/pkg/guard"
)

var ErrCreateOfferCommandIsNotConstructed = errors.New(
	"CreateOfferCommand must be created via NewCreateOfferCommand constructor",
)

// CreateOfferCommand is a picker's bid on a pending delivery.
type CreateOfferCommand struct { //nolint:recvcheck //using for validation
	offerID    kernel.UUID
	deliveryID kernel.UUID
	pickerID   kernel.UUID
	price      kernel.Money
	message    string

	guard guard.ConstructorGuard
}

func NewCreateOfferCommand(
	offerID, deliveryID, pickerID kernel.UUID,
	price kernel.Money,
	message string,
) (CreateOfferCommand, error) {
	if err := errors.Join(
		offerID.Validate(),
		deliveryID.Validate(),
		pickerID.Validate(),
		price.Validate(),
	); err != nil {
		return CreateOfferCommand{}, err
	}

	return CreateOfferCommand{
		offerID:    offerID,
		deliveryID: deliveryID,
		pickerID:   pickerID,
		price:      price,
		message:    message,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c CreateOfferCommand) Validate() error {
	return c.guard.Validate(ErrCreateOfferCommandIsNotConstructed)
}

func (c CreateOfferCommand) OfferID() kernel.UUID    { return c.offerID }
func (c CreateOfferCommand) DeliveryID() kernel.UUID { return c.deliveryID }
func (c CreateOfferCommand) PickerID() kernel.UUID   { return c.pickerID }
func (c CreateOfferCommand) Price() kernel.Money     { return c.price }
func (c CreateOfferCommand) Message() string         { return c.message }
