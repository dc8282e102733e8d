// Package errs provides standardized error types for the cargo coordination service.
// Every error follows the same shape so that the transport layer can classify
// failures with errors.Is and never has to parse messages.
//
// The package includes:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: input validation (HTTP 400)
//   - ObjectNotFoundError: an addressed object does not exist (HTTP 404)
//   - ForbiddenError: the actor's role may not perform the action (HTTP 403)
//   - ConflictError: the request collides with another object's state (HTTP 400)
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel
package errs
