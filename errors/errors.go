// Package errors provides error handling for kodiakgen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints on failures that have a known remedy
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := decode(); err != nil {
//	    return errors.Wrap(err, "failed to decode registry")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "run 'kodiakgen generate'")
//
//	// Check errors
//	if errors.Is(err, errors.ErrUnknownCommand) {
//	    // handle unknown command
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
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// AssertionFailedf reports a broken internal invariant.
var AssertionFailedf = crdb.AssertionFailedf

// Sentinel errors for the generator pipeline.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrapf() to add context while preserving the type.
var (
	// ErrUnknownCommand indicates a requirement block names a command that is
	// absent from the alias-resolved command table
	ErrUnknownCommand = New("unknown command")

	// ErrCycleDetected indicates the type parent chain loops back on itself
	ErrCycleDetected = New("type hierarchy cycle detected")

	// ErrUnknownBlockName indicates a template sentinel names a block the
	// emitter does not produce
	ErrUnknownBlockName = New("unknown block name")

	// ErrUnterminatedBlock indicates a template sentinel has no closing twin
	ErrUnterminatedBlock = New("unterminated generated block")

	// ErrEmptyGuard indicates a command group would be emitted without a guard
	ErrEmptyGuard = New("empty guard expression")

	// ErrOutOfDate indicates generated files on disk differ from a fresh render
	ErrOutOfDate = New("generated files are out of date")

	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates the request was malformed or invalid
	ErrInvalidRequest = New("invalid request")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrapf(ErrNotFound, format, args...)
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrapf(ErrInvalidRequest, format, args...)
}
