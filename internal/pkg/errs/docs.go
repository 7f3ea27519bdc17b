// Package errs provides standardized error types for the parcelhub service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes two groups of error types:
//   - Value errors (ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError)
//     produced by constructors and value objects during validation
//   - Domain errors (ObjectNotFoundError, ForbiddenError, InvalidTransitionError,
//     ConflictError, InsufficientFundsError) produced by aggregates and use cases
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrObjectNotFound)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so callers classify with errors.Is
//
// Adapters rely on the sentinels to translate errors into transport responses:
// the HTTP server maps them to status codes and the tracking socket turns them
// into error events.
package errs
