package commands

import (
	"errors"
	"strings"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/pkg/errs"
	"parcelhub/internal/pkg/guard"
)

// MaxIdempotencyKeyLength bounds client supplied idempotency keys.
const MaxIdempotencyKeyLength = 255

var ErrAcceptOfferCommandIsNotConstructed = errors.New(
	"AcceptOfferCommand must be created via NewAcceptOfferCommand constructor",
)

// AcceptOfferCommand represents the sender choosing a picker's offer.
// An optional idempotency key makes retries of the same acceptance safe.
//
// Example:
//
//	cmd, err := NewAcceptOfferCommand(offerID, senderID, r.Header.Get("Idempotency-Key"))
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrInsufficientFunds) {
//	    // nothing was written, the sender may top up and retry
//	}
type AcceptOfferCommand struct { //nolint:recvcheck //using for validation
	offerID        kernel.UUID
	senderID       kernel.UUID
	idempotencyKey string

	guard guard.ConstructorGuard
}

func NewAcceptOfferCommand(offerID, senderID kernel.UUID, idempotencyKey string) (AcceptOfferCommand, error) {
	cmd := AcceptOfferCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		offerID.Validate(),
		senderID.Validate(),
		cmd.setIdempotencyKey(idempotencyKey),
	); err != nil {
		return AcceptOfferCommand{}, err
	}

	cmd.offerID = offerID
	cmd.senderID = senderID
	return cmd, nil
}

func (c AcceptOfferCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOfferCommandIsNotConstructed)
}

func (c AcceptOfferCommand) OfferID() kernel.UUID   { return c.offerID }
func (c AcceptOfferCommand) SenderID() kernel.UUID  { return c.senderID }
func (c AcceptOfferCommand) IdempotencyKey() string { return c.idempotencyKey }

func (c *AcceptOfferCommand) setIdempotencyKey(key string) error {
	key = strings.TrimSpace(key)
	if len(key) > MaxIdempotencyKeyLength {
		return errs.NewValueIsOutOfRangeError("idempotency key length", len(key), 0, MaxIdempotencyKeyLength)
	}
	c.idempotencyKey = key
	return nil
}
