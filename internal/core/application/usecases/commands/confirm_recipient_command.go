package commands

import (
	"errors"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/pkg/guard"
)

var ErrConfirmRecipientCommandIsNotConstructed = errors.New(
	"ConfirmRecipientCommand must be created via NewConfirmRecipientCommand constructor",
)

// ConfirmRecipientCommand carries the recipient's answer. A rejection cancels
// the delivery.
type ConfirmRecipientCommand struct { //nolint:recvcheck //using for validation
	deliveryID  kernel.UUID
	recipientID kernel.UUID
	confirmed   bool

	guard guard.ConstructorGuard
}

func NewConfirmRecipientCommand(deliveryID, recipientID kernel.UUID, confirmed bool) (ConfirmRecipientCommand, error) {
	if err := errors.Join(deliveryID.Validate(), recipientID.Validate()); err != nil {
		return ConfirmRecipientCommand{}, err
	}

	return ConfirmRecipientCommand{
		deliveryID:  deliveryID,
		recipientID: recipientID,
		confirmed:   confirmed,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmRecipientCommand) Validate() error {
	return c.guard.Validate(ErrConfirmRecipientCommandIsNotConstructed)
}

func (c ConfirmRecipientCommand) DeliveryID() kernel.UUID  { return c.deliveryID }
func (c ConfirmRecipientCommand) RecipientID() kernel.UUID { return c.recipientID }
func (c ConfirmRecipientCommand) Confirmed() bool          { return c.confirmed }
