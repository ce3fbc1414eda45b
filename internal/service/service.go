// Package service contains the business logic.
//
// It sits between the callers (the CLI, or any embedding service) and
// the repository layer. It validates input, composes repository calls,
// owns transactions and converts driver failures into typed outcomes.
package service
