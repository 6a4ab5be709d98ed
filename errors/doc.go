// Package errors provides structured error types for the script runtime.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: operation name, slot address, Go and
// slot type names, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseBind, errors.KindTypeMismatch).
//		Op("+=").
//		Place("Local[3]").
//		GoType("int64").
//		SlotType("float64").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidCast("int64", "string")
//	err := errors.NoOverload("<=>", []string{"int64", "string"})
//
// Contract violations inside the engine (a place index outside its space,
// an unaligned allocation request) are not reported through this package;
// they panic.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
