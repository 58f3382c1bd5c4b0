// Package errors provides error handling for contractor.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints attached to configuration failures
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "valid casings are pascal, camel, kebab, snake")
//
//	// Check errors
//	if errors.Is(err, errors.ErrConfiguration) {
//	    // abort before writing anything
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapOnce     = crdb.UnwrapOnce
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions and panics
var (
	AssertionFailedf                 = crdb.AssertionFailedf
	NewAssertionErrorWithWrappedErrf = crdb.NewAssertionErrorWithWrappedErrf
	HasAssertionFailure              = crdb.HasAssertionFailure
)

// Sentinel errors for the generator.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrConfiguration indicates invalid configuration detected before generation starts
	ErrConfiguration = New("configuration error")

	// ErrUnresolvedImport indicates a declaration references a type that was never resolved
	ErrUnresolvedImport = New("unresolved import")

	// ErrTransientIO indicates an output file stayed locked after all retries
	ErrTransientIO = New("output file unavailable")

	// ErrUnknownType indicates a reference to a type missing from the source graph
	ErrUnknownType = New("unknown source type")

	// ErrInvalidGraph indicates a graph document that violates its own contract
	// (unsupported version, duplicate type, more than one body parameter)
	ErrInvalidGraph = New("invalid type graph")
)

// IsConfigurationError checks if an error is or wraps ErrConfiguration
func IsConfigurationError(err error) bool {
	return err != nil && Is(err, ErrConfiguration)
}

// IsTransientIOError checks if an error is or wraps ErrTransientIO
func IsTransientIOError(err error) bool {
	return err != nil && Is(err, ErrTransientIO)
}

// NewConfigurationError creates a configuration error with a formatted message
func NewConfigurationError(format string, args ...interface{}) error {
	return Wrap(ErrConfiguration, Newf(format, args...).Error())
}

// NewInvalidGraphError creates an invalid-graph error with a formatted message
func NewInvalidGraphError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidGraph, Newf(format, args...).Error())
}

// NewUnknownTypeError creates an unknown-type error naming the missing reference
func NewUnknownTypeError(fullName string) error {
	return Wrapf(ErrUnknownType, "%s", fullName)
}
