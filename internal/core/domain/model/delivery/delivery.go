package delivery

import (
	"errors"
	"strings"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/pkg/errs"
	"parcelhub/internal/pkg/guard"
)

// MaxDescriptionLength bounds the free-text description of the parcel.
const MaxDescriptionLength = 1000

var ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery or RestoreDelivery")

// Delivery is the aggregate root of the delivery lifecycle. The status is only
// mutated through the methods below; the picker is set once by AssignPicker.
type Delivery struct {
	id                 kernel.UUID
	senderID           kernel.UUID
	pickerID           *kernel.UUID
	recipientID        *kernel.UUID
	status             Status
	price              kernel.Money
	recipientConfirmed bool
	from               kernel.Place
	to                 kernel.Place
	description        string
	createdAt          time.Time
	updatedAt          time.Time

	guard guard.ConstructorGuard
}

// NewDelivery creates a pending, unassigned delivery owned by senderID.
// recipientID is optional and must differ from the sender.
func NewDelivery(
	id, senderID kernel.UUID,
	recipientID *kernel.UUID,
	price kernel.Money,
	from, to kernel.Place,
	description string,
	now time.Time,
) (*Delivery, error) {
	d := &Delivery{
		status:    Pending,
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setSender(senderID),
		d.setRecipient(recipientID),
		d.setPrice(price),
		d.setRoute(from, to),
		d.setDescription(description),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDelivery rebuilds a persisted delivery, checking the picker/status consistency.
func RestoreDelivery(
	id, senderID kernel.UUID,
	pickerID, recipientID *kernel.UUID,
	status Status,
	price kernel.Money,
	recipientConfirmed bool,
	from, to kernel.Place,
	description string,
	createdAt, updatedAt time.Time,
) (*Delivery, error) {
	d := &Delivery{
		recipientConfirmed: recipientConfirmed,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
		guard:              guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setSender(senderID),
		d.setRecipient(recipientID),
		d.setPrice(price),
		d.setRoute(from, to),
		d.setDescription(description),
		status.Validate(),
		status.ValidateCanHavePicker(pickerID != nil),
	); err != nil {
		return nil, err
	}
	if pickerID != nil {
		if err := pickerID.Validate(); err != nil {
			return nil, err
		}
	}

	d.status = status
	d.pickerID = pickerID
	return d, nil
}

func (d *Delivery) Validate() error {
	if d == nil {
		return ErrDeliveryIsNotConstructed
	}
	return d.guard.Validate(ErrDeliveryIsNotConstructed)
}

func (d *Delivery) ID() kernel.UUID           { return d.id }
func (d *Delivery) SenderID() kernel.UUID     { return d.senderID }
func (d *Delivery) PickerID() *kernel.UUID    { return d.pickerID }
func (d *Delivery) RecipientID() *kernel.UUID { return d.recipientID }
func (d *Delivery) Status() Status            { return d.status }
func (d *Delivery) Price() kernel.Money       { return d.price }
func (d *Delivery) RecipientConfirmed() bool  { return d.recipientConfirmed }
func (d *Delivery) From() kernel.Place        { return d.from }
func (d *Delivery) To() kernel.Place          { return d.to }
func (d *Delivery) Description() string       { return d.description }
func (d *Delivery) CreatedAt() time.Time      { return d.createdAt }
func (d *Delivery) UpdatedAt() time.Time      { return d.updatedAt }

func (d *Delivery) IsSender(userID kernel.UUID) bool    { return d.senderID.IsEqual(userID) }
func (d *Delivery) IsPicker(userID kernel.UUID) bool    { return userID.IsEqualPtr(d.pickerID) }
func (d *Delivery) IsRecipient(userID kernel.UUID) bool { return userID.IsEqualPtr(d.recipientID) }

// IsParticipant reports whether userID is the sender, the recipient or the assigned picker.
func (d *Delivery) IsParticipant(userID kernel.UUID) bool {
	return d.IsSender(userID) || d.IsRecipient(userID) || d.IsPicker(userID)
}

// EnsureOpen fails with a ConflictError unless the delivery is still pending and unassigned.
func (d *Delivery) EnsureOpen() error {
	if d.status != Pending || d.pickerID != nil {
		return errs.NewConflictError("delivery", "is no longer open for offers")
	}
	return nil
}

// AssignPicker settles the delivery on pickerID at the agreed price.
//
// Business rules:
//   - the delivery must still be pending and unassigned (ConflictError otherwise)
//   - the sender cannot pick up their own delivery
//
// After assignment the status is accepted and the price is the agreed one, so the
// amount escrowed at acceptance equals the amount paid out at delivery.
func (d *Delivery) AssignPicker(pickerID kernel.UUID, agreedPrice kernel.Money, now time.Time) error {
	if err := errors.Join(pickerID.Validate(), agreedPrice.Validate()); err != nil {
		return err
	}
	if err := d.EnsureOpen(); err != nil {
		return err
	}
	if d.IsSender(pickerID) {
		return errs.NewValueIsInvalidErrorWithCause("pickerId", errors.New("sender cannot deliver their own parcel"))
	}

	next, err := d.status.TransitionTo(Accepted)
	if err != nil {
		return err
	}

	d.status = next
	d.pickerID = &pickerID
	d.price = agreedPrice
	d.updatedAt = now
	return nil
}

// ChangeStatus applies a lifecycle transition requested by actorID.
//
// Acceptance is not reachable here: it only happens through AssignPicker.
// Returns InvalidTransitionError for an illegal move and ForbiddenError when the
// actor lacks authority for a legal one.
func (d *Delivery) ChangeStatus(actorID kernel.UUID, next Status, now time.Time) error {
	if next == Accepted || !d.status.CanTransitionTo(next) {
		return errs.NewInvalidTransitionError("delivery", d.status, next)
	}

	switch next {
	case PickedUp, Delivered:
		if !d.IsPicker(actorID) {
			return errs.NewForbiddenError(actorID, "move delivery to "+next.String())
		}
	case Cancelled:
		if !d.IsSender(actorID) {
			return errs.NewForbiddenError(actorID, "cancel delivery")
		}
	}

	d.status = next
	d.updatedAt = now
	return nil
}

func (d *Delivery) cancel(now time.Time) error {
	next, err := d.status.TransitionTo(Cancelled)
	if err != nil {
		return err
	}
	d.status = next
	d.updatedAt = now
	return nil
}

// ConfirmByRecipient records the recipient's answer. A confirmation only sets
// the flag; a rejection cancels the delivery.
func (d *Delivery) ConfirmByRecipient(actorID kernel.UUID, confirmed bool, now time.Time) error {
	if !d.IsRecipient(actorID) {
		return errs.NewForbiddenError(actorID, "confirm delivery as recipient")
	}

	if !confirmed {
		return d.cancel(now)
	}

	if d.status == Cancelled {
		return errs.NewInvalidTransitionError("delivery", d.status, d.status)
	}
	d.recipientConfirmed = true
	d.updatedAt = now
	return nil
}

func (d *Delivery) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Delivery) setSender(senderID kernel.UUID) error {
	if err := senderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("senderId", err)
	}
	d.senderID = senderID
	return nil
}

func (d *Delivery) setRecipient(recipientID *kernel.UUID) error {
	if recipientID == nil {
		return nil
	}
	if err := recipientID.Validate(); err != nil {
		return err
	}
	if recipientID.IsEqual(d.senderID) {
		return errs.NewValueIsInvalidErrorWithCause("recipientId", errors.New("recipient must differ from sender"))
	}
	d.recipientID = recipientID
	return nil
}

func (d *Delivery) setPrice(price kernel.Money) error {
	if err := price.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("price", err)
	}
	d.price = price
	return nil
}

func (d *Delivery) setRoute(from, to kernel.Place) error {
	var fromErr, toErr error
	if err := from.Validate(); err != nil {
		fromErr = errs.NewValueIsRequiredErrorWithCause("fromLocation", err)
	}
	if err := to.Validate(); err != nil {
		toErr = errs.NewValueIsRequiredErrorWithCause("toLocation", err)
	}
	if err := errors.Join(fromErr, toErr); err != nil {
		return err
	}
	d.from, d.to = from, to
	return nil
}

func (d *Delivery) setDescription(description string) error {
	description = strings.TrimSpace(description)
	if len(description) > MaxDescriptionLength {
		return errs.NewValueIsOutOfRangeError("description length", len(description), 0, MaxDescriptionLength)
	}
	d.description = description
	return nil
}
