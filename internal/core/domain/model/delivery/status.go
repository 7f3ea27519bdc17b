package delivery

import (
	"fmt"

	"parcelhub/internal/pkg/errs"
)

// Status is the lifecycle state of a delivery.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Pending
	Accepted
	PickedUp
	Delivered
	Cancelled
)

var statusNames = map[Status]string{
	Pending:   "pending",
	Accepted:  "accepted",
	PickedUp:  "picked_up",
	Delivered: "delivered",
	Cancelled: "cancelled",
}

// transitions lists the legal successors of every non-terminal status.
var transitions = map[Status][]Status{
	Pending:  {Accepted, Cancelled},
	Accepted: {PickedUp, Cancelled},
	PickedUp: {Delivered, Cancelled},
}

// ParseStatus converts the wire name ("picked_up", ...) into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a delivery status", s))
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

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// CanTransitionTo reports whether next directly follows s in the lifecycle graph.
func (s Status) CanTransitionTo(next Status) bool {
	for _, candidate := range transitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// TransitionTo returns next when the move is legal and an
// InvalidTransitionError otherwise.
func (s Status) TransitionTo(next Status) (Status, error) {
	if !s.CanTransitionTo(next) {
		return Unknown, errs.NewInvalidTransitionError("delivery", s, next)
	}
	return next, nil
}

// ValidateCanHavePicker checks the status against picker assignment:
// pending deliveries have no picker, accepted and later ones must have one.
// Cancelled deliveries may go either way.
func (s Status) ValidateCanHavePicker(hasPicker bool) error {
	if hasPicker && s == Pending {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a picker", s),
		)
	}
	if !hasPicker && (s == Accepted || s == PickedUp || s == Delivered) {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no picker", s),
		)
	}
	return nil
}
