package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrObjectNotFound    = errors.New("object not found")
	ErrValueIsInvalid    = errors.New("value is invalid")
	ErrValueIsOutOfRange = errors.New("value is out of range")
	ErrValueIsRequired   = errors.New("value is required")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// sanitize flattens values that end up in single-line error messages.
func sanitize(v any) string {
	s := fmt.Sprintf("%v", v)
	return strings.Join(strings.Fields(s), " ")
}

func withCause(msg string, cause error) string {
	if cause == nil {
		return msg
	}
	return fmt.Sprintf("%s (cause: %v)", msg, cause)
}

// ObjectNotFoundError reports a missing delivery, offer, payment record, account
// or tracking record.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return withCause(
			fmt.Sprintf("%s: param is: %s, ID is: %s", ErrObjectNotFound, e.ParamName, e.ID),
			e.Cause,
		)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName), e.Cause)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	return withCause(
		fmt.Sprintf("%s: %s is %s, min value is %s, max value is %s",
			ErrValueIsInvalid, sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max)),
		e.Cause,
	)
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName), e.Cause)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ForbiddenError reports an actor without authority for an action.
type ForbiddenError struct {
	Actor  string
	Action string
}

func NewForbiddenError(actor any, action string) *ForbiddenError {
	return &ForbiddenError{Actor: sanitize(actor), Action: action}
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s: %s may not %s", ErrForbidden, e.Actor, e.Action)
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// InvalidTransitionError reports a status change that is not legal from the
// current state.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func NewInvalidTransitionError(entity string, from, to fmt.Stringer) *InvalidTransitionError {
	return &InvalidTransitionError{Entity: entity, From: from.String(), To: to.String()}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s cannot move from %s to %s", ErrInvalidTransition, e.Entity, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ConflictError reports state that was settled by a concurrent or earlier call.
type ConflictError struct {
	ParamName string
	Reason    string
}

func NewConflictError(paramName, reason string) *ConflictError {
	return &ConflictError{ParamName: paramName, Reason: reason}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrConflict, e.ParamName, e.Reason)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

type InsufficientFundsError struct {
	UserID   string
	Required string
}

func NewInsufficientFundsError(userID any, required fmt.Stringer) *InsufficientFundsError {
	return &InsufficientFundsError{UserID: sanitize(userID), Required: required.String()}
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s: %s cannot cover %s", ErrInsufficientFunds, e.UserID, e.Required)
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}
