// Package elgamal is a textbook ElGamal reference backend satisfying
// backend.Backend, grounded the same way as backend/rsa and backend/dsa.
package elgamal

import (
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/ydario/pkdispatch/pkg/pkdispatch/algo"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/backend"
)

var one = big.NewInt(1)

// Backend implements backend.Backend for the elg/openpgp-elg(-sig)
// aliases. Parameters: common "pgy" (p, g, y); secret "x".
// Encryption result shape "ab"; signature shape "rs".
type Backend struct{}

var _ backend.Backend = Backend{}

// Generate produces p, g, y, x for an nbits-sized modulus p. g is fixed at
// a small safe generator candidate for simplicity; p is chosen as a safe
// prime (p = 2q+1) so every element other than 1 generates a large
// subgroup.
func (Backend) Generate(_ algo.ID, nbits uint, _ *big.Int) ([]*big.Int, []*big.Int, error) {
	if nbits < 32 {
		return nil, nil, errors.New("elgamal: nbits too small")
	}

	var p *big.Int
	for attempt := 0; attempt < 200; attempt++ {
		cand, err := rand.Prime(rand.Reader, int(nbits-1))
		if err != nil {
			return nil, nil, err
		}
		pCand := new(big.Int).Lsh(cand, 1)
		pCand.Add(pCand, one)
		if uint(pCand.BitLen()) != nbits {
			continue
		}
		if pCand.ProbablyPrime(32) {
			p = pCand
			break
		}
	}
	if p == nil {
		return nil, nil, errors.New("elgamal: failed to find a safe prime p")
	}

	g := big.NewInt(2)
	pm1 := new(big.Int).Sub(p, one)
	// Take the first of 2, 3, 4... whose order exceeds 2 (g^2 != 1 mod p);
	// in a safe-prime group its order is then (p-1)/2 or p-1.
	for cand := int64(2); cand < 50; cand++ {
		gc := big.NewInt(cand)
		if new(big.Int).Exp(gc, big.NewInt(2), p).Cmp(one) == 0 {
			continue
		}
		g = gc
		break
	}

	x, err := rand.Int(rand.Reader, new(big.Int).Sub(pm1, big.NewInt(2)))
	if err != nil {
		return nil, nil, err
	}
	x.Add(x, big.NewInt(2)) // x in [2, p-2]

	y := new(big.Int).Exp(g, x, p)

	return []*big.Int{p, g, y, x}, nil, nil
}

func (Backend) CheckSecretKey(_ algo.ID, skey []*big.Int) error {
	if len(skey) < 4 {
		return errors.New("elgamal: secret key has too few parameters")
	}
	p, g, y, x := skey[0], skey[1], skey[2], skey[3]
	computed := new(big.Int).Exp(g, x, p)
	if computed.Cmp(y) != 0 {
		return errors.New("elgamal: y != g^x mod p")
	}
	return nil
}

// Encrypt produces the (a, b) pair: a = g^k mod p, b = y^k * m mod p.
func (Backend) Encrypt(_ algo.ID, data *big.Int, pkey []*big.Int, _ algo.Flags) ([]*big.Int, error) {
	if len(pkey) < 3 {
		return nil, errors.New("elgamal: public key has too few parameters")
	}
	p, g, y := pkey[0], pkey[1], pkey[2]
	pm1 := new(big.Int).Sub(p, one)

	k, err := rand.Int(rand.Reader, new(big.Int).Sub(pm1, big.NewInt(2)))
	if err != nil {
		return nil, err
	}
	k.Add(k, big.NewInt(2))

	a := new(big.Int).Exp(g, k, p)
	b := new(big.Int).Exp(y, k, p)
	b.Mul(b, data)
	b.Mod(b, p)

	return []*big.Int{a, b}, nil
}

// Decrypt recovers m = b * a^(-x) mod p.
func (Backend) Decrypt(_ algo.ID, data []*big.Int, skey []*big.Int, _ algo.Flags) (*big.Int, error) {
	if len(data) < 2 {
		return nil, errors.New("elgamal: ciphertext array has too few parameters")
	}
	if len(skey) < 4 {
		return nil, errors.New("elgamal: secret key has too few parameters")
	}
	a, b := data[0], data[1]
	p, _, _, x := skey[0], skey[1], skey[2], skey[3]

	s := new(big.Int).Exp(a, x, p)
	sInv := new(big.Int).ModInverse(s, p)
	if sInv == nil {
		return nil, errors.New("elgamal: shared secret is not invertible")
	}
	m := new(big.Int).Mul(b, sInv)
	m.Mod(m, p)
	return m, nil
}

// Sign produces a Schnorr-style (r, s) pair over the group (p, g); this is
// the classical ElGamal signature scheme, distinct from its encryption use.
func (Backend) Sign(_ algo.ID, hash *big.Int, skey []*big.Int) ([]*big.Int, error) {
	if len(skey) < 4 {
		return nil, errors.New("elgamal: secret key has too few parameters")
	}
	p, g, _, x := skey[0], skey[1], skey[2], skey[3]
	pm1 := new(big.Int).Sub(p, one)

	for {
		k, err := rand.Int(rand.Reader, new(big.Int).Sub(pm1, big.NewInt(2)))
		if err != nil {
			return nil, err
		}
		k.Add(k, big.NewInt(2))
		kInv := new(big.Int).ModInverse(k, pm1)
		if kInv == nil {
			continue
		}

		r := new(big.Int).Exp(g, k, p)

		s := new(big.Int).Mul(x, r)
		s.Sub(hash, s)
		s.Mul(s, kInv)
		s.Mod(s, pm1)
		if s.Sign() < 0 {
			s.Add(s, pm1)
		}
		if s.Sign() == 0 {
			continue
		}
		return []*big.Int{r, s}, nil
	}
}

// ErrBadSignature is returned by Verify when the recovered value does not
// match.
var ErrBadSignature = errors.New("elgamal: signature does not verify")

// Verify checks g^hash == y^r * r^s (mod p).
func (Backend) Verify(_ algo.ID, hash *big.Int, sig []*big.Int, pkey []*big.Int, cmp backend.VerifyComparator, opaque any) error {
	if len(sig) < 2 || len(pkey) < 3 {
		return errors.New("elgamal: malformed signature or public key")
	}
	p, g, y := pkey[0], pkey[1], pkey[2]
	r, s := sig[0], sig[1]

	if r.Sign() <= 0 || r.Cmp(p) >= 0 {
		return ErrBadSignature
	}

	left := new(big.Int).Exp(g, hash, p)

	yr := new(big.Int).Exp(y, r, p)
	rs := new(big.Int).Exp(r, s, p)
	right := new(big.Int).Mul(yr, rs)
	right.Mod(right, p)

	if cmp != nil {
		return cmp(opaque, right)
	}
	if left.Cmp(right) != 0 {
		return ErrBadSignature
	}
	return nil
}

// GetNBits returns the bit length of the modulus p.
func (Backend) GetNBits(_ algo.ID, pkey []*big.Int) (uint, error) {
	if len(pkey) < 1 {
		return 0, errors.New("elgamal: public key has too few parameters")
	}
	return uint(pkey[0].BitLen()), nil
}
