package commands

import (
	"errors"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/pkg/guard"
)

var ErrRejectOfferCommandIsNotConstructed = errors.New(
	"RejectOfferCommand must be created via NewRejectOfferCommand constructor",
)

type RejectOfferCommand struct { //nolint:recvcheck //using for validation
	offerID  kernel.UUID
	senderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewRejectOfferCommand(offerID, senderID kernel.UUID) (RejectOfferCommand, error) {
	if err := errors.Join(offerID.Validate(), senderID.Validate()); err != nil {
		return RejectOfferCommand{}, err
	}

	return RejectOfferCommand{
		offerID:  offerID,
		senderID: senderID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c RejectOfferCommand) Validate() error {
	return c.guard.Validate(ErrRejectOfferCommandIsNotConstructed)
}

func (c RejectOfferCommand) OfferID() kernel.UUID  { return c.offerID }
func (c RejectOfferCommand) SenderID() kernel.UUID { return c.senderID }
