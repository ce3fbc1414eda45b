// Package validation contains the logic for validating
// store input.
//
// It uses the `validator` library to enforce rules (like
// required fields or date formats) defined in struct tags
// and extracts validation errors into field errors callers
// can act on.
package validation
