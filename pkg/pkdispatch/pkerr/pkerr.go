// Package pkerr holds the sentinel error taxonomy shared by every layer of
// the dispatcher (registry, sexpr, padding, backend, and the top-level
// façade). It is a leaf package so sexpr/padding/registry can return these
// sentinels without importing the façade package that assembles them.
package pkerr

import "errors"

// Sentinel errors mirroring the GCRYERR_* taxonomy of the original
// dispatcher. Call sites wrap these with fmt.Errorf("%w: ...", ErrX, ...)
// so errors.Is still matches the sentinel while the message carries
// context.
var (
	// ErrInvObj reports a malformed S-expression: a required sublist has the
	// wrong shape, or a value where an unsigned integer was expected.
	ErrInvObj = errors.New("invalid object")
	// ErrNoObj reports a required sublist or token that is entirely absent.
	ErrNoObj = errors.New("required object not found")
	// ErrInvPKAlgo reports an unknown or disabled public-key algorithm name or id.
	ErrInvPKAlgo = errors.New("invalid or unsupported public key algorithm")
	// ErrInvMDAlgo reports an unknown digest algorithm name in a hash clause.
	ErrInvMDAlgo = errors.New("invalid message digest algorithm")
	// ErrWrongPKAlgo reports a usage mismatch (e.g. signing with an
	// encrypt-only algorithm).
	ErrWrongPKAlgo = errors.New("public key algorithm does not support requested usage")
	// ErrConflict reports mismatched algorithms between a key and its data,
	// or mutually exclusive flags, or a digest length that does not match
	// its declared algorithm.
	ErrConflict = errors.New("conflicting algorithm or flags")
	// ErrTooShort reports that the modulus is too small for the requested padding.
	ErrTooShort = errors.New("key too short for requested padding")
	// ErrInvFlag reports an unrecognised atom in a flags sublist.
	ErrInvFlag = errors.New("invalid flag")
	// ErrNoMem reports a resource allocation failure.
	ErrNoMem = errors.New("out of memory")
	// ErrInvOp reports an invalid control command.
	ErrInvOp = errors.New("invalid operation")
	// ErrInvArg reports an invalid argument to a control command.
	ErrInvArg = errors.New("invalid argument")
	// ErrNotImpl reports a backend that cannot perform the requested operation
	// (e.g. no ASN.1 DigestInfo prefix available for a given hash).
	ErrNotImpl = errors.New("not implemented")
	// ErrInternal reports an invariant violation inside the dispatcher itself
	// (e.g. the user algorithm-id range is exhausted).
	ErrInternal = errors.New("internal error")
	// ErrGeneral is the uniform error returned to callers when a backend
	// operation fails for a reason that must not be disclosed (spec.md §7:
	// a bare failing decrypt returns GENERAL to avoid leaking oracle
	// information). The real cause is logged, never returned.
	ErrGeneral = errors.New("operation failed")
)
