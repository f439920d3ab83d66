// Package dsa is a textbook DSA reference backend satisfying
// backend.Backend, grounded the same way as backend/rsa: enough to
// exercise the dispatcher end to end, not a hardened implementation.
package dsa

import (
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/ydario/pkdispatch/pkg/pkdispatch/algo"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/backend"
)

// QBits is the bit length of the DSA subgroup order q this backend
// generates. Real DSA profiles vary q with nbits; a fixed 160-bit q keeps
// key generation fast and is sufficient for exercising the dispatcher.
const QBits = 160

var one = big.NewInt(1)

// Backend implements backend.Backend for the dsa/openpgp-dsa aliases.
// Parameters: common "pqgy" (p, q, g, y); secret "x".
type Backend struct{}

var _ backend.Backend = Backend{}

// Generate produces p, q, g, y, x for an nbits-sized modulus p.
func (Backend) Generate(_ algo.ID, nbits uint, _ *big.Int) ([]*big.Int, []*big.Int, error) {
	if nbits < 64 {
		return nil, nil, errors.New("dsa: nbits too small")
	}

	q, err := rand.Prime(rand.Reader, QBits)
	if err != nil {
		return nil, nil, err
	}

	var p *big.Int
	for attempt := 0; attempt < 2000; attempt++ {
		// p = m*q + 1 for a random m chosen so p has nbits bits.
		m, err := rand.Int(rand.Reader, new(big.Int).Lsh(one, nbits-QBits))
		if err != nil {
			return nil, nil, err
		}
		cand := new(big.Int).Mul(m, q)
		cand.Add(cand, one)
		if uint(cand.BitLen()) != nbits {
			continue
		}
		if cand.ProbablyPrime(32) {
			p = cand
			break
		}
	}
	if p == nil {
		return nil, nil, errors.New("dsa: failed to find a suitable modulus p")
	}

	pm1 := new(big.Int).Sub(p, one)
	e := new(big.Int).Div(pm1, q)

	var g *big.Int
	for attempt := 0; attempt < 2000; attempt++ {
		h, err := rand.Int(rand.Reader, new(big.Int).Sub(pm1, one))
		if err != nil {
			return nil, nil, err
		}
		h.Add(h, big.NewInt(2)) // h in [2, p-1]
		cand := new(big.Int).Exp(h, e, p)
		if cand.Cmp(one) != 0 {
			g = cand
			break
		}
	}
	if g == nil {
		return nil, nil, errors.New("dsa: failed to find a generator g")
	}

	x, err := rand.Int(rand.Reader, new(big.Int).Sub(q, one))
	if err != nil {
		return nil, nil, err
	}
	x.Add(x, one) // x in [1, q-1]

	y := new(big.Int).Exp(g, x, p)

	return []*big.Int{p, q, g, y, x}, nil, nil
}

func (Backend) CheckSecretKey(_ algo.ID, skey []*big.Int) error {
	if len(skey) < 5 {
		return errors.New("dsa: secret key has too few parameters")
	}
	p, _, g, y, x := skey[0], skey[1], skey[2], skey[3], skey[4]
	if x.Sign() <= 0 {
		return errors.New("dsa: x must be positive")
	}
	computed := new(big.Int).Exp(g, x, p)
	if computed.Cmp(y) != 0 {
		return errors.New("dsa: y != g^x mod p")
	}
	return nil
}

func (Backend) Encrypt(_ algo.ID, _ *big.Int, _ []*big.Int, _ algo.Flags) ([]*big.Int, error) {
	return nil, errors.New("dsa: encryption is not supported")
}

func (Backend) Decrypt(_ algo.ID, _ []*big.Int, _ []*big.Int, _ algo.Flags) (*big.Int, error) {
	return nil, errors.New("dsa: decryption is not supported")
}

// Sign produces (r, s) over an already-framed hash MPI.
func (Backend) Sign(_ algo.ID, hash *big.Int, skey []*big.Int) ([]*big.Int, error) {
	if len(skey) < 5 {
		return nil, errors.New("dsa: secret key has too few parameters")
	}
	p, q, g, _, x := skey[0], skey[1], skey[2], skey[3], skey[4]

	h := reduceHash(hash, q)

	for {
		k, err := rand.Int(rand.Reader, new(big.Int).Sub(q, one))
		if err != nil {
			return nil, err
		}
		k.Add(k, one) // k in [1, q-1]

		r := new(big.Int).Exp(g, k, p)
		r.Mod(r, q)
		if r.Sign() == 0 {
			continue
		}

		kInv := new(big.Int).ModInverse(k, q)
		if kInv == nil {
			continue
		}
		s := new(big.Int).Mul(x, r)
		s.Add(s, h)
		s.Mul(s, kInv)
		s.Mod(s, q)
		if s.Sign() == 0 {
			continue
		}
		return []*big.Int{r, s}, nil
	}
}

// ErrBadSignature is returned by Verify when the recovered v does not
// equal r.
var ErrBadSignature = errors.New("dsa: signature does not verify")

// Verify checks the (r, s) pair against an already-framed hash MPI.
func (Backend) Verify(_ algo.ID, hash *big.Int, sig []*big.Int, pkey []*big.Int, cmp backend.VerifyComparator, opaque any) error {
	if len(sig) < 2 || len(pkey) < 4 {
		return errors.New("dsa: malformed signature or public key")
	}
	p, q, g, y := pkey[0], pkey[1], pkey[2], pkey[3]
	r, s := sig[0], sig[1]

	if r.Sign() <= 0 || r.Cmp(q) >= 0 || s.Sign() <= 0 || s.Cmp(q) >= 0 {
		return ErrBadSignature
	}

	h := reduceHash(hash, q)

	w := new(big.Int).ModInverse(s, q)
	if w == nil {
		return ErrBadSignature
	}
	u1 := new(big.Int).Mul(h, w)
	u1.Mod(u1, q)
	u2 := new(big.Int).Mul(r, w)
	u2.Mod(u2, q)

	v1 := new(big.Int).Exp(g, u1, p)
	v2 := new(big.Int).Exp(y, u2, p)
	v := new(big.Int).Mul(v1, v2)
	v.Mod(v, p)
	v.Mod(v, q)

	if cmp != nil {
		return cmp(opaque, v)
	}
	if v.Cmp(r) != 0 {
		return ErrBadSignature
	}
	return nil
}

// GetNBits returns the bit length of the modulus p.
func (Backend) GetNBits(_ algo.ID, pkey []*big.Int) (uint, error) {
	if len(pkey) < 1 {
		return 0, errors.New("dsa: public key has too few parameters")
	}
	return uint(pkey[0].BitLen()), nil
}

// reduceHash truncates an oversized digest to q's bit length, per FIPS 186.
func reduceHash(hash, q *big.Int) *big.Int {
	qBits := q.BitLen()
	if hash.BitLen() <= qBits {
		return new(big.Int).Set(hash)
	}
	return new(big.Int).Rsh(hash, uint(hash.BitLen()-qBits))
}
