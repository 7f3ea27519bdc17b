package payment

import (
	"errors"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/pkg/errs"
	"parcelhub/internal/pkg/guard"
)

var ErrPaymentIsNotConstructed = errors.New("PaymentRecord must be created via OpenPayment or RestorePayment")

// PaymentRecord tracks escrowed funds for one settled delivery.
type PaymentRecord struct {
	id          kernel.UUID
	deliveryID  kernel.UUID
	fromUserID  kernel.UUID
	toUserID    *kernel.UUID
	amount      kernel.Money
	status      Status
	method      Method
	createdAt   time.Time
	completedAt *time.Time

	guard guard.ConstructorGuard
}

// OpenPayment creates a pending record for funds already debited from fromUserID.
func OpenPayment(id, deliveryID, fromUserID kernel.UUID, toUserID *kernel.UUID, amount kernel.Money, now time.Time) (*PaymentRecord, error) {
	p := &PaymentRecord{
		status:    Pending,
		method:    MethodBalance,
		createdAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setDeliveryID(deliveryID),
		p.setParties(fromUserID, toUserID),
		p.setAmount(amount),
	); err != nil {
		return nil, err
	}

	return p, nil
}

func RestorePayment(
	id, deliveryID, fromUserID kernel.UUID,
	toUserID *kernel.UUID,
	amount kernel.Money,
	status Status,
	method Method,
	createdAt time.Time,
	completedAt *time.Time,
) (*PaymentRecord, error) {
	p := &PaymentRecord{
		createdAt:   createdAt,
		completedAt: completedAt,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setDeliveryID(deliveryID),
		p.setParties(fromUserID, toUserID),
		p.setAmount(amount),
		status.Validate(),
		method.Validate(),
	); err != nil {
		return nil, err
	}

	p.status = status
	p.method = method
	return p, nil
}

func (p *PaymentRecord) Validate() error {
	if p == nil {
		return ErrPaymentIsNotConstructed
	}
	return p.guard.Validate(ErrPaymentIsNotConstructed)
}

func (p *PaymentRecord) ID() kernel.UUID         { return p.id }
func (p *PaymentRecord) DeliveryID() kernel.UUID { return p.deliveryID }
func (p *PaymentRecord) FromUserID() kernel.UUID { return p.fromUserID }
func (p *PaymentRecord) ToUserID() *kernel.UUID  { return p.toUserID }
func (p *PaymentRecord) Amount() kernel.Money    { return p.amount }
func (p *PaymentRecord) Status() Status          { return p.status }
func (p *PaymentRecord) Method() Method          { return p.method }
func (p *PaymentRecord) CreatedAt() time.Time    { return p.createdAt }
func (p *PaymentRecord) CompletedAt() *time.Time { return p.completedAt }

// Complete releases the funds to the payee. The caller credits the payee's
// balance in the same transaction.
func (p *PaymentRecord) Complete(now time.Time) error {
	if !p.status.IsOpen() {
		return errs.NewInvalidTransitionError("payment", p.status, Completed)
	}
	if p.toUserID == nil {
		return errs.NewValueIsRequiredError("toUserId")
	}
	p.status = Completed
	p.completedAt = &now
	return nil
}

// Cancel returns the funds to the payer. The caller credits the payer's balance
// in the same transaction.
func (p *PaymentRecord) Cancel(now time.Time) error {
	if !p.status.IsOpen() {
		return errs.NewInvalidTransitionError("payment", p.status, Cancelled)
	}
	p.status = Cancelled
	p.completedAt = &now
	return nil
}

func (p *PaymentRecord) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *PaymentRecord) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("deliveryId", err)
	}
	p.deliveryID = deliveryID
	return nil
}

func (p *PaymentRecord) setParties(fromUserID kernel.UUID, toUserID *kernel.UUID) error {
	if err := fromUserID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("fromUserId", err)
	}
	if toUserID != nil {
		if err := toUserID.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("toUserId", err)
		}
		if toUserID.IsEqual(fromUserID) {
			return errs.NewValueIsInvalidErrorWithCause("toUserId", errors.New("payer and payee must differ"))
		}
	}
	p.fromUserID = fromUserID
	p.toUserID = toUserID
	return nil
}

func (p *PaymentRecord) setAmount(amount kernel.Money) error {
	if err := amount.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("amount", err)
	}
	p.amount = amount
	return nil
}
