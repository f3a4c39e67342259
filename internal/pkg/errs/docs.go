// Package errs provides standardized error types for the fulfillment service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types grouped by the outcome a caller should take:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: malformed input
//     (all of them match ErrValidation)
//   - ObjectNotFoundError: a referenced order, item or agent does not exist
//   - UnauthorizedError: the actor has no rights over the targeted resource
//   - ConflictError: an optimistic-concurrency loss; the caller may retry with fresh data
//   - InvalidTransitionError: a state machine rejected the requested transition
//   - ExpiredError, MismatchError: one-time code verification failures
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// Callers classify failures with errors.Is against the sentinels or errors.As against
// the struct types; storage details never leak through these messages.
package errs
