package payment

import (
	"fmt"

	"parcelhub/internal/pkg/errs"
)

type Status int

const (
	Unknown Status = iota
	Pending
	Processing
	Completed
	Failed
	Cancelled
)

var statusNames = map[Status]string{
	Pending:    "pending",
	Processing: "processing",
	Completed:  "completed",
	Failed:     "failed",
	Cancelled:  "cancelled",
}

func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a payment status", s))
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsOpen reports whether funds are still held by the record.
func (s Status) IsOpen() bool {
	return s == Pending || s == Processing
}

// Method is how the escrowed funds were collected.
type Method string

// MethodBalance escrows funds from the sender's internal balance.
const MethodBalance Method = "balance"

func (m Method) Validate() error {
	if m != MethodBalance {
		return errs.NewValueIsInvalidErrorWithCause("method", fmt.Errorf("%q is not a payment method", string(m)))
	}
	return nil
}
