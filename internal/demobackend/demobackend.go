// Package demobackend is a sample user-registered backend: a
// secp256k1-schnorr signer that declines encryption entirely, exercising
// the dispatcher's reserved user-id range and the capability-trap pattern
// (backend.PartialBackend) a real third-party plugin would use.
package demobackend

import (
	"errors"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"

	"github.com/ydario/pkdispatch/pkg/pkdispatch/algo"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/backend"
)

// Name is the canonical name this backend registers under.
const Name = "secp256k1-schnorr"

// Common is the single shared parameter letter: the serialized public key
// point, "q". Secret is "d", the private scalar.
const (
	Common     = "q"
	Secret     = "d"
	GripParams = "q"
	// SigParams is "rs" even though both halves are raw 32-byte strings
	// rather than field integers: a deliberate stretch of the MPI-array
	// shape, proving the marshaller is agnostic to what the bytes mean.
	SigParams = "rs"
)

var (
	errBadHashLength = errors.New("demobackend: hash must be exactly 32 bytes")
	errBadSignature  = errors.New("demobackend: signature does not verify")
)

// New returns a backend.PartialBackend wired for sign/verify/generate only;
// Encrypt and Decrypt are left nil and trap to backend.ErrUnsupported.
func New() backend.PartialBackend {
	return backend.PartialBackend{
		GenerateFn:       generate,
		CheckSecretKeyFn: checkSecretKey,
		SignFn:           sign,
		VerifyFn:         verify,
		GetNBitsFn:       getNBits,
	}
}

func generate(_ algo.ID, _ uint, _ *big.Int) ([]*big.Int, []*big.Int, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, nil, err
	}
	q := new(big.Int).SetBytes(schnorr.SerializePubKey(priv.PubKey()))
	d := new(big.Int).SetBytes(priv.Serialize())
	return []*big.Int{q, d}, nil, nil
}

func checkSecretKey(_ algo.ID, skey []*big.Int) error {
	if len(skey) < 2 {
		return errors.New("demobackend: secret key has too few parameters")
	}
	priv, _ := btcec.PrivKeyFromBytes(skey[1].Bytes())
	if priv == nil {
		return errors.New("demobackend: malformed private scalar")
	}
	q := new(big.Int).SetBytes(schnorr.SerializePubKey(priv.PubKey()))
	if q.Cmp(skey[0]) != 0 {
		return errors.New("demobackend: q does not match derived public key")
	}
	return nil
}

func sign(_ algo.ID, hash *big.Int, skey []*big.Int) ([]*big.Int, error) {
	if len(skey) < 2 {
		return nil, errors.New("demobackend: secret key has too few parameters")
	}
	digest := fixedWidthBytes(hash, 32)
	if len(digest) != 32 {
		return nil, errBadHashLength
	}
	priv, _ := btcec.PrivKeyFromBytes(skey[1].Bytes())
	if priv == nil {
		return nil, errors.New("demobackend: malformed private scalar")
	}
	sig, err := schnorr.Sign(priv, digest)
	if err != nil {
		return nil, err
	}
	raw := sig.Serialize()
	r := new(big.Int).SetBytes(raw[:32])
	s := new(big.Int).SetBytes(raw[32:])
	return []*big.Int{r, s}, nil
}

func verify(_ algo.ID, hash *big.Int, sig []*big.Int, pkey []*big.Int, _ backend.VerifyComparator, _ any) error {
	if len(sig) < 2 || len(pkey) < 1 {
		return errors.New("demobackend: missing signature or key parameters")
	}
	digest := fixedWidthBytes(hash, 32)
	if len(digest) != 32 {
		return errBadHashLength
	}
	pub, err := schnorr.ParsePubKey(pkey[0].Bytes())
	if err != nil {
		return err
	}
	raw := append(fixedWidthBytes(sig[0], 32), fixedWidthBytes(sig[1], 32)...)
	parsed, err := schnorr.ParseSignature(raw)
	if err != nil {
		return err
	}
	if !parsed.Verify(digest, pub) {
		return errBadSignature
	}
	return nil
}

func getNBits(_ algo.ID, _ []*big.Int) (uint, error) {
	return 256, nil
}

func fixedWidthBytes(n *big.Int, width int) []byte {
	b := n.Bytes()
	if len(b) >= width {
		return b[len(b)-width:]
	}
	out := make([]byte, width)
	copy(out[width-len(b):], b)
	return out
}
