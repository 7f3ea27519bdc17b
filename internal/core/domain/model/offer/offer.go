package offer

import (
	"errors"
	"strings"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/pkg/errs"
	"parcelhub/internal/pkg/guard"
)

const MaxMessageLength = 500

var ErrOfferIsNotConstructed = errors.New("Offer must be created via NewOffer or RestoreOffer")

// Offer is a picker's proposal for one delivery.
type Offer struct {
	id         kernel.UUID
	deliveryID kernel.UUID
	pickerID   kernel.UUID
	price      kernel.Money
	message    string
	status     Status
	createdAt  time.Time
	updatedAt  time.Time

	guard guard.ConstructorGuard
}

func NewOffer(id, deliveryID, pickerID kernel.UUID, price kernel.Money, message string, now time.Time) (*Offer, error) {
	o := &Offer{
		status:    Pending,
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setDeliveryID(deliveryID),
		o.setPickerID(pickerID),
		o.setPrice(price),
		o.setMessage(message),
	); err != nil {
		return nil, err
	}

	return o, nil
}

func RestoreOffer(
	id, deliveryID, pickerID kernel.UUID,
	price kernel.Money,
	message string,
	status Status,
	createdAt, updatedAt time.Time,
) (*Offer, error) {
	o := &Offer{
		createdAt: createdAt,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setDeliveryID(deliveryID),
		o.setPickerID(pickerID),
		o.setPrice(price),
		o.setMessage(message),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	o.status = status
	return o, nil
}

func (o *Offer) Validate() error {
	if o == nil {
		return ErrOfferIsNotConstructed
	}
	return o.guard.Validate(ErrOfferIsNotConstructed)
}

func (o *Offer) ID() kernel.UUID         { return o.id }
func (o *Offer) DeliveryID() kernel.UUID { return o.deliveryID }
func (o *Offer) PickerID() kernel.UUID   { return o.pickerID }
func (o *Offer) Price() kernel.Money     { return o.price }
func (o *Offer) Message() string         { return o.message }
func (o *Offer) Status() Status          { return o.status }
func (o *Offer) CreatedAt() time.Time    { return o.createdAt }
func (o *Offer) UpdatedAt() time.Time    { return o.updatedAt }

func (o *Offer) IsPending() bool { return o.status == Pending }

// BelongsTo reports whether the offer was made for deliveryID.
func (o *Offer) BelongsTo(deliveryID kernel.UUID) bool {
	return o.deliveryID.IsEqual(deliveryID)
}

// Accept settles a pending offer as the winner.
func (o *Offer) Accept(now time.Time) error {
	return o.settle(Accepted, now)
}

// Reject settles a pending offer as declined.
func (o *Offer) Reject(now time.Time) error {
	return o.settle(Rejected, now)
}

// IsStale reports whether a pending offer was created more than ttl before now.
func (o *Offer) IsStale(ttl time.Duration, now time.Time) bool {
	return o.IsPending() && ttl > 0 && !o.createdAt.Add(ttl).After(now)
}

func (o *Offer) settle(next Status, now time.Time) error {
	if o.status != Pending {
		return errs.NewConflictError("offer", "is already "+o.status.String())
	}
	o.status = next
	o.updatedAt = now
	return nil
}

func (o *Offer) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Offer) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("deliveryId", err)
	}
	o.deliveryID = deliveryID
	return nil
}

func (o *Offer) setPickerID(pickerID kernel.UUID) error {
	if err := pickerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("pickerId", err)
	}
	o.pickerID = pickerID
	return nil
}

func (o *Offer) setPrice(price kernel.Money) error {
	if err := price.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("price", err)
	}
	o.price = price
	return nil
}

func (o *Offer) setMessage(message string) error {
	message = strings.TrimSpace(message)
	if len(message) > MaxMessageLength {
		return errs.NewValueIsOutOfRangeError("message length", len(message), 0, MaxMessageLength)
	}
	o.message = message
	return nil
}
