package backend

import (
	"fmt"
	"math/big"

	"github.com/ydario/pkdispatch/pkg/pkdispatch/algo"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/pkerr"
)

// ErrUnsupported is returned by PartialBackend for any operation the
// embedding backend declined to implement. It wraps pkerr.ErrInvPKAlgo, so
// errors.Is(err, ErrInvPKAlgo) holds for it, which is the Go rendition of
// spec.md §9's "wire any missing vtable entry to a panicking stub": rather
// than a literal nil-pointer panic, an unimplemented capability fails
// cleanly and uniformly.
var ErrUnsupported = fmt.Errorf("%w: operation not supported by this backend", pkerr.ErrInvPKAlgo)

// PartialBackend lets a user-registered backend implement only some of the
// seven operations by embedding this struct and assigning the fields it
// supports; every unassigned field traps to ErrUnsupported instead of a
// nil-pointer panic.
//
// Reference backends (rsa, dsa, elgamal) implement Backend directly and
// never need this; it exists for the demo/user-registration path
// (internal/demobackend) where declining Encrypt/Decrypt is the point.
type PartialBackend struct {
	GenerateFn       func(id algo.ID, nbits uint, useE *big.Int) ([]*big.Int, []*big.Int, error)
	CheckSecretKeyFn func(id algo.ID, skey []*big.Int) error
	EncryptFn        func(id algo.ID, data *big.Int, pkey []*big.Int, flags algo.Flags) ([]*big.Int, error)
	DecryptFn        func(id algo.ID, data []*big.Int, skey []*big.Int, flags algo.Flags) (*big.Int, error)
	SignFn           func(id algo.ID, hash *big.Int, skey []*big.Int) ([]*big.Int, error)
	VerifyFn         func(id algo.ID, hash *big.Int, sig []*big.Int, pkey []*big.Int, cmp VerifyComparator, opaque any) error
	GetNBitsFn       func(id algo.ID, pkey []*big.Int) (uint, error)
}

func (p PartialBackend) Generate(id algo.ID, nbits uint, useE *big.Int) ([]*big.Int, []*big.Int, error) {
	if p.GenerateFn == nil {
		return nil, nil, ErrUnsupported
	}
	return p.GenerateFn(id, nbits, useE)
}

func (p PartialBackend) CheckSecretKey(id algo.ID, skey []*big.Int) error {
	if p.CheckSecretKeyFn == nil {
		return ErrUnsupported
	}
	return p.CheckSecretKeyFn(id, skey)
}

func (p PartialBackend) Encrypt(id algo.ID, data *big.Int, pkey []*big.Int, flags algo.Flags) ([]*big.Int, error) {
	if p.EncryptFn == nil {
		return nil, ErrUnsupported
	}
	return p.EncryptFn(id, data, pkey, flags)
}

func (p PartialBackend) Decrypt(id algo.ID, data []*big.Int, skey []*big.Int, flags algo.Flags) (*big.Int, error) {
	if p.DecryptFn == nil {
		return nil, ErrUnsupported
	}
	return p.DecryptFn(id, data, skey, flags)
}

func (p PartialBackend) Sign(id algo.ID, hash *big.Int, skey []*big.Int) ([]*big.Int, error) {
	if p.SignFn == nil {
		return nil, ErrUnsupported
	}
	return p.SignFn(id, hash, skey)
}

func (p PartialBackend) Verify(id algo.ID, hash *big.Int, sig []*big.Int, pkey []*big.Int, cmp VerifyComparator, opaque any) error {
	if p.VerifyFn == nil {
		return ErrUnsupported
	}
	return p.VerifyFn(id, hash, sig, pkey, cmp, opaque)
}

func (p PartialBackend) GetNBits(id algo.ID, pkey []*big.Int) (uint, error) {
	if p.GetNBitsFn == nil {
		return 0, ErrUnsupported
	}
	return p.GetNBitsFn(id, pkey)
}
