// Package guard provides ConstructorGuard, a marker embedded in value objects,
// aggregates and commands to detect instances that bypassed their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded as a private field. Only constructors set it, so a
// zero-value struct (e.g. a Delivery{} literal or an unmarshalled command) fails
// validation before it reaches a repository or a handler.
//
// Example:
//
//	var ErrPlaceIsNotConstructed = errors.New("Place must be created via NewPlace")
//
//	type Place struct {
//	    point   GeoPoint
//	    address string
//	    guard   guard.ConstructorGuard
//	}
//
//	func (p Place) Validate() error {
//	    return p.guard.Validate(ErrPlaceIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard marks the enclosing object as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when nil) for
// a zero-value guard and nil otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
