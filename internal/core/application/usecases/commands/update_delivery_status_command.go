package commands

import (
	"errors"

	"parcelhub/internal/core/domain/model/delivery"
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/pkg/guard"
)

var ErrUpdateDeliveryStatusCommandIsNotConstructed = errors.New(
	"UpdateDeliveryStatusCommand must be created via NewUpdateDeliveryStatusCommand constructor",
)

// UpdateDeliveryStatusCommand asks to move a delivery to a new status on
// behalf of actorID. Authority is checked by the handler against the loaded
// delivery.
type UpdateDeliveryStatusCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	actorID    kernel.UUID
	status     delivery.Status
	pickerOnly bool

	guard guard.ConstructorGuard
}

func NewUpdateDeliveryStatusCommand(deliveryID, actorID kernel.UUID, status delivery.Status) (UpdateDeliveryStatusCommand, error) {
	if err := errors.Join(
		deliveryID.Validate(),
		actorID.Validate(),
		status.Validate(),
	); err != nil {
		return UpdateDeliveryStatusCommand{}, err
	}

	return UpdateDeliveryStatusCommand{
		deliveryID: deliveryID,
		actorID:    actorID,
		status:     status,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// NewPickerStatusUpdateCommand is the tracking-room form of a status change:
// only the delivery's assigned picker may issue it, whatever the target status.
func NewPickerStatusUpdateCommand(deliveryID, pickerID kernel.UUID, status delivery.Status) (UpdateDeliveryStatusCommand, error) {
	cmd, err := NewUpdateDeliveryStatusCommand(deliveryID, pickerID, status)
	if err != nil {
		return UpdateDeliveryStatusCommand{}, err
	}
	cmd.pickerOnly = true
	return cmd, nil
}

func (c UpdateDeliveryStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDeliveryStatusCommandIsNotConstructed)
}

func (c UpdateDeliveryStatusCommand) DeliveryID() kernel.UUID { return c.deliveryID }
func (c UpdateDeliveryStatusCommand) ActorID() kernel.UUID    { return c.actorID }
func (c UpdateDeliveryStatusCommand) Status() delivery.Status { return c.status }
func (c UpdateDeliveryStatusCommand) PickerOnly() bool        { return c.pickerOnly }
