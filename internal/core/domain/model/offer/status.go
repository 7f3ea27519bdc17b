package offer

import (
	"fmt"

	"parcelhub/internal/pkg/errs"
)

type Status int

const (
	Unknown Status = iota
	Pending
	Accepted
	Rejected
)

var statusNames = map[Status]string{
	Pending:  "pending",
	Accepted: "accepted",
	Rejected: "rejected",
}

func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not an offer status", s))
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
