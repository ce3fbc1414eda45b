// Package errs defines the typed failure outcome returned by every
// store operation.
//
// Callers never inspect the shape of a result to learn whether an
// operation failed: success is a value with a nil error, failure is
// a nil/zero value with an *Error describing what went wrong.
package errs
