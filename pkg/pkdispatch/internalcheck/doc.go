// Package internalcheck provides internal validation and testing utilities.
//
// This package contains AST-level hygiene checks used internally by the
// dispatcher's packages. It is not intended for external use and the API
// may change without notice.
//
// # Internal Use Only
//
// This package is part of the internal implementation and should not be
// imported by applications using the dispatcher. Use the public pkdispatch
// package instead.
package internalcheck
