// Package backend defines the operation vtable every algorithm
// implementation must provide (spec.md §4.2) and the capability-trap
// decorator that lets a partial implementation register safely.
package backend

import (
	"math/big"

	"github.com/ydario/pkdispatch/pkg/pkdispatch/algo"
)

// VerifyComparator lets a caller substitute its own hash-equality check
// during verification (spec.md §4.2: "the optional comparator lets the
// caller substitute hash comparison, e.g. for DSA"). opaque is passed
// through unexamined.
type VerifyComparator func(opaque any, recovered *big.Int) error

// Backend is the operation vtable a registered algorithm family must
// satisfy. Every method receives the dispatching algo.ID explicitly so a
// single Backend value may serve more than one id (e.g. one struct serving
// both "rsa" and "openpgp-rsa").
type Backend interface {
	// Generate produces a fresh keypair of approximately nbits size. useE
	// may be nil; a nil useE means "let the backend pick a default public
	// exponent" (RSA: 65537). skey is returned in the descriptor's
	// common+secret parameter order; factors holds auxiliary values (RSA's
	// p-1 factors) useful for OpenPGP-style misc-key-info, and may be nil.
	Generate(id algo.ID, nbits uint, useE *big.Int) (skey []*big.Int, factors []*big.Int, err error)

	// CheckSecretKey validates internal consistency of a secret key (e.g.
	// that n == p*q for RSA).
	CheckSecretKey(id algo.ID, skey []*big.Int) error

	// Encrypt encrypts the single already-framed MPI data under the public
	// key pkey (in the descriptor's common+public order), returning the
	// enc_params-shaped result array.
	Encrypt(id algo.ID, data *big.Int, pkey []*big.Int, flags algo.Flags) ([]*big.Int, error)

	// Decrypt recovers the plaintext MPI from a data array shaped per
	// enc_params, using the secret key skey (common+secret order).
	Decrypt(id algo.ID, data []*big.Int, skey []*big.Int, flags algo.Flags) (*big.Int, error)

	// Sign signs the already-framed hash MPI with skey, returning the
	// sig_params-shaped result array.
	Sign(id algo.ID, hash *big.Int, skey []*big.Int) ([]*big.Int, error)

	// Verify checks sig against hash under the public key pkey. If cmp is
	// non-nil, it is used in place of a direct equality check against hash
	// (DSA-style comparator hooks); opaque is threaded through to cmp
	// unexamined.
	Verify(id algo.ID, hash *big.Int, sig []*big.Int, pkey []*big.Int, cmp VerifyComparator, opaque any) error

	// GetNBits returns the key size in bits implied by pkey.
	GetNBits(id algo.ID, pkey []*big.Int) (uint, error)
}
