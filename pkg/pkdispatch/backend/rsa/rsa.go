// Package rsa is a textbook RSA reference backend satisfying
// backend.Backend. It exists to exercise the dispatcher end to end
// (spec.md §8 property 3); it is not hardened production cipher code —
// spec.md §1 keeps individual cipher implementations out of the dispatcher
// core's scope beyond the operation contract they must satisfy.
package rsa

import (
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/ydario/pkdispatch/pkg/pkdispatch/algo"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/backend"
)

// DefaultPublicExponent is used when Generate is called with a nil useE.
var DefaultPublicExponent = big.NewInt(65537)

var one = big.NewInt(1)

// Backend implements backend.Backend for the rsa/openpgp-rsa/oid.* aliases.
// Parameters: common "ne" (n, e); secret "dpqu" (d, p, q, u = p^-1 mod q).
type Backend struct{}

var _ backend.Backend = Backend{}

// Generate produces n, e, d, p, q, u (in that "ne"+"dpqu" order) for an
// nbits-sized modulus.
func (Backend) Generate(_ algo.ID, nbits uint, useE *big.Int) ([]*big.Int, []*big.Int, error) {
	if nbits < 16 {
		return nil, nil, errors.New("rsa: nbits too small")
	}
	e := useE
	if e == nil {
		e = new(big.Int).Set(DefaultPublicExponent)
	}

	half := nbits / 2
	for attempt := 0; attempt < 100; attempt++ {
		p, err := rand.Prime(rand.Reader, int(half))
		if err != nil {
			return nil, nil, err
		}
		q, err := rand.Prime(rand.Reader, int(nbits-half))
		if err != nil {
			return nil, nil, err
		}
		if p.Cmp(q) == 0 {
			continue
		}

		n := new(big.Int).Mul(p, q)
		pm1 := new(big.Int).Sub(p, one)
		qm1 := new(big.Int).Sub(q, one)
		phi := new(big.Int).Mul(pm1, qm1)

		d := new(big.Int).ModInverse(e, phi)
		if d == nil {
			continue // e not invertible mod phi(n); retry with fresh primes
		}
		u := new(big.Int).ModInverse(p, q)
		if u == nil {
			continue
		}

		skey := []*big.Int{n, e, d, p, q, u}
		return skey, []*big.Int{pm1, qm1}, nil
	}
	return nil, nil, errors.New("rsa: failed to generate key after many attempts")
}

func (Backend) CheckSecretKey(_ algo.ID, skey []*big.Int) error {
	if len(skey) < 6 {
		return errors.New("rsa: secret key has too few parameters")
	}
	n, _, d, p, q, _ := skey[0], skey[1], skey[2], skey[3], skey[4], skey[5]
	if p.Sign() <= 0 || q.Sign() <= 0 || d.Sign() <= 0 {
		return errors.New("rsa: secret key parameters must be positive")
	}
	product := new(big.Int).Mul(p, q)
	if product.Cmp(n) != 0 {
		return errors.New("rsa: n != p*q")
	}
	return nil
}

// Encrypt computes a = data^e mod n.
func (Backend) Encrypt(_ algo.ID, data *big.Int, pkey []*big.Int, _ algo.Flags) ([]*big.Int, error) {
	if len(pkey) < 2 {
		return nil, errors.New("rsa: public key has too few parameters")
	}
	n, e := pkey[0], pkey[1]
	a := new(big.Int).Exp(data, e, n)
	return []*big.Int{a}, nil
}

// Decrypt computes m = a^d mod n via CRT when p, q, u are available.
func (Backend) Decrypt(_ algo.ID, data []*big.Int, skey []*big.Int, _ algo.Flags) (*big.Int, error) {
	if len(data) < 1 {
		return nil, errors.New("rsa: ciphertext array is empty")
	}
	if len(skey) < 6 {
		return nil, errors.New("rsa: secret key has too few parameters")
	}
	a := data[0]
	n, _, d, p, q, u := skey[0], skey[1], skey[2], skey[3], skey[4], skey[5]

	// CRT decryption: faster and exercises p, q, u the way the descriptor's
	// "dpqu" secret parameter order implies they should be used. With
	// u = p^-1 mod q, m = m1 + p*((m2 - m1)*u mod q).
	dp := new(big.Int).Mod(d, new(big.Int).Sub(p, one))
	dq := new(big.Int).Mod(d, new(big.Int).Sub(q, one))
	m1 := new(big.Int).Exp(a, dp, p)
	m2 := new(big.Int).Exp(a, dq, q)
	h := new(big.Int).Sub(m2, m1)
	h.Mul(h, u)
	h.Mod(h, q)
	if h.Sign() < 0 {
		h.Add(h, q)
	}
	m := new(big.Int).Mul(h, p)
	m.Add(m, m1)
	m.Mod(m, n)
	return m, nil
}

// Sign computes s = hash^d mod n.
func (Backend) Sign(_ algo.ID, hash *big.Int, skey []*big.Int) ([]*big.Int, error) {
	if len(skey) < 3 {
		return nil, errors.New("rsa: secret key has too few parameters")
	}
	n, _, d := skey[0], skey[1], skey[2]
	s := new(big.Int).Exp(hash, d, n)
	return []*big.Int{s}, nil
}

// ErrBadSignature is returned by Verify when the recovered value does not
// match the supplied hash (spec.md §4.5's "verdict unchanged").
var ErrBadSignature = errors.New("rsa: signature does not verify")

// Verify checks that s^e mod n == hash.
func (Backend) Verify(_ algo.ID, hash *big.Int, sig []*big.Int, pkey []*big.Int, cmp backend.VerifyComparator, opaque any) error {
	if len(sig) < 1 || len(pkey) < 2 {
		return errors.New("rsa: malformed signature or public key")
	}
	n, e := pkey[0], pkey[1]
	recovered := new(big.Int).Exp(sig[0], e, n)
	if cmp != nil {
		return cmp(opaque, recovered)
	}
	if recovered.Cmp(hash) != 0 {
		return ErrBadSignature
	}
	return nil
}

// GetNBits returns the bit length of the modulus n.
func (Backend) GetNBits(_ algo.ID, pkey []*big.Int) (uint, error) {
	if len(pkey) < 1 {
		return 0, errors.New("rsa: public key has too few parameters")
	}
	return uint(pkey[0].BitLen()), nil
}
