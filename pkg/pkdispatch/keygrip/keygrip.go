// Package keygrip computes the 20-byte SHA-1 fingerprint spec.md §4.6
// defines over a key's grip parameters.
package keygrip

import (
	"crypto/sha1"
	"fmt"

	"github.com/ydario/pkdispatch/pkg/pkdispatch/algo"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/pkerr"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/sexpr"
)

// Size is the keygrip output length in bytes.
const Size = sha1.Size

// Compute locates the first public-key, private-key, or
// protected-private-key sublist of key, resolves its algorithm descriptor,
// and hashes its grip_params in order per spec.md §4.6.
func Compute(key sexpr.Value) ([Size]byte, error) {
	var out [Size]byte

	var keyList sexpr.List
	found := false
	for _, token := range []string{"public-key", "private-key", "protected-private-key"} {
		if l, ok := sexpr.FindRecursive(key, token); ok {
			keyList, found = l, true
			break
		}
	}
	if !found {
		return out, pkerr.ErrInvObj
	}
	if len(keyList.Items) < 2 {
		return out, pkerr.ErrInvObj
	}
	algoSexpr, ok := keyList.Items[1].(sexpr.List)
	if !ok {
		return out, pkerr.ErrInvObj
	}
	name, err := sexpr.AlgoName(algoSexpr)
	if err != nil {
		return out, pkerr.ErrInvObj
	}
	desc, ok := algo.Lookup(name)
	if !ok {
		return out, pkerr.ErrInvPKAlgo
	}
	if desc.GripParams == "" {
		return out, pkerr.ErrInvObj
	}

	isRSA := desc.AlgoID == algo.RSA

	h := sha1.New()
	for _, c := range desc.GripParams {
		n, err := sexpr.ParamMPI(algoSexpr, string(c))
		if err != nil {
			return out, err
		}
		data := n.Bytes()

		if !isRSA {
			// Non-RSA algorithms hash a canonical-S-expression framing of
			// each parameter so the grip is a well-defined hash of syntax,
			// not just raw concatenated bytes.
			header := fmt.Sprintf("(1:%c%d:", c, len(data))
			h.Write([]byte(header))
			h.Write(data)
			h.Write([]byte(")"))
		} else {
			// RSA hashes only the raw modulus bytes, unframed, for
			// PKCS#15 compatibility.
			h.Write(data)
		}
	}

	copy(out[:], h.Sum(nil))
	return out, nil
}
