package commands

import (
	"errors"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/pkg/guard"
)

var ErrAssignPickerCommandIsNotConstructed = errors.New(
	"AssignPickerCommand must be created via NewAssignPickerCommand constructor",
)

// AssignPickerCommand is the sender handing a delivery to a picker of their
// choice at the delivery's own price, without an offer.
type AssignPickerCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	senderID   kernel.UUID
	pickerID   kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignPickerCommand(deliveryID, senderID, pickerID kernel.UUID) (AssignPickerCommand, error) {
	if err := errors.Join(
		deliveryID.Validate(),
		senderID.Validate(),
		pickerID.Validate(),
	); err != nil {
		return AssignPickerCommand{}, err
	}

	return AssignPickerCommand{
		deliveryID: deliveryID,
		senderID:   senderID,
		pickerID:   pickerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c AssignPickerCommand) Validate() error {
	return c.guard.Validate(ErrAssignPickerCommandIsNotConstructed)
}

func (c AssignPickerCommand) DeliveryID() kernel.UUID { return c.deliveryID }
func (c AssignPickerCommand) SenderID() kernel.UUID   { return c.senderID }
func (c AssignPickerCommand) PickerID() kernel.UUID   { return c.pickerID }
