package services

import (
	"errors"
	"time"

	"parcelhub/internal/core/domain/model/delivery"
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/offer"
	"parcelhub/internal/core/domain/model/payment"
	"parcelhub/internal/core/domain/model/tracking"
	"parcelhub/internal/pkg/errs"
)

// Settlement is the set of aggregates created or changed when a delivery is
// settled on a picker. The caller persists every part of it together with the
// sender debit of Payment.Amount().
type Settlement struct {
	Delivery *delivery.Delivery
	Accepted *offer.Offer
	Rejected []*offer.Offer
	Payment  *payment.PaymentRecord
	Tracking *tracking.TrackingRecord
}

// OfferSettler assigns a picker to a pending delivery and derives the escrow
// payment and the tracking record.
//
// Business rules:
//   - Only the delivery's sender may settle it
//   - The delivery must still be pending and unassigned
//   - An accepted offer must belong to the delivery and still be pending
//   - Every other pending offer of the delivery is rejected
//   - The escrowed amount is the agreed price (the offer price, or the
//     delivery price for a direct assignment)
//
// All preconditions are checked before any aggregate is touched, so a
// rejected call leaves its inputs unchanged.
type OfferSettler struct{}

func NewOfferSettler() OfferSettler {
	return OfferSettler{}
}

// Accept settles d on the picker of accepted.
//
// Parameters:
//   - d: the delivery, loaded under a row lock
//   - accepted: the offer chosen by the sender
//   - pending: the delivery's pending offers (may include accepted)
//   - senderID: the acting user
//   - now: the settlement time
//
// Returns ForbiddenError, ConflictError or a validation error without side effects.
func (s OfferSettler) Accept(
	d *delivery.Delivery,
	accepted *offer.Offer,
	pending []*offer.Offer,
	senderID kernel.UUID,
	now time.Time,
) (Settlement, error) {
	if err := errors.Join(d.Validate(), accepted.Validate()); err != nil {
		return Settlement{}, err
	}
	if !accepted.BelongsTo(d.ID()) {
		return Settlement{}, errs.NewValueIsInvalidErrorWithCause("offerId", errors.New("offer belongs to another delivery"))
	}
	if err := s.ensureSettleable(d, senderID, accepted.PickerID()); err != nil {
		return Settlement{}, err
	}
	if !accepted.IsPending() {
		return Settlement{}, errs.NewConflictError("offer", "is already "+accepted.Status().String())
	}

	if err := accepted.Accept(now); err != nil {
		return Settlement{}, err
	}

	settlement, err := s.settle(d, accepted.PickerID(), accepted.Price(), pending, accepted.ID(), now)
	if err != nil {
		return Settlement{}, err
	}
	settlement.Accepted = accepted
	return settlement, nil
}

// AssignDirectly settles d on pickerID at the delivery's own price, without an offer.
func (s OfferSettler) AssignDirectly(
	d *delivery.Delivery,
	pickerID kernel.UUID,
	pending []*offer.Offer,
	senderID kernel.UUID,
	now time.Time,
) (Settlement, error) {
	if err := errors.Join(d.Validate(), pickerID.Validate()); err != nil {
		return Settlement{}, err
	}
	if err := s.ensureSettleable(d, senderID, pickerID); err != nil {
		return Settlement{}, err
	}

	return s.settle(d, pickerID, d.Price(), pending, kernel.UUID{}, now)
}

func (s OfferSettler) ensureSettleable(d *delivery.Delivery, senderID, pickerID kernel.UUID) error {
	if !d.IsSender(senderID) {
		return errs.NewForbiddenError(senderID, "settle delivery "+d.ID().String())
	}
	if err := d.EnsureOpen(); err != nil {
		return err
	}
	if d.IsSender(pickerID) {
		return errs.NewValueIsInvalidErrorWithCause("pickerId", errors.New("sender cannot deliver their own parcel"))
	}
	return nil
}

func (s OfferSettler) settle(
	d *delivery.Delivery,
	pickerID kernel.UUID,
	price kernel.Money,
	pending []*offer.Offer,
	acceptedID kernel.UUID,
	now time.Time,
) (Settlement, error) {
	if err := d.AssignPicker(pickerID, price, now); err != nil {
		return Settlement{}, err
	}

	var rejected []*offer.Offer
	for _, o := range pending {
		if o.ID().IsEqual(acceptedID) || !o.IsPending() || !o.BelongsTo(d.ID()) {
			continue
		}
		if err := o.Reject(now); err != nil {
			return Settlement{}, err
		}
		rejected = append(rejected, o)
	}

	record, err := payment.OpenPayment(kernel.NewUUID(), d.ID(), d.SenderID(), &pickerID, price, now)
	if err != nil {
		return Settlement{}, err
	}

	trackingRecord, err := tracking.NewTrackingRecord(kernel.NewUUID(), d, now)
	if err != nil {
		return Settlement{}, err
	}

	return Settlement{
		Delivery: d,
		Rejected: rejected,
		Payment:  record,
		Tracking: trackingRecord,
	}, nil
}
