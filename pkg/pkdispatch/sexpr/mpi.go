package sexpr

import (
	"encoding/hex"
	"errors"
	"math/big"

	"github.com/ydario/pkdispatch/pkg/pkdispatch/pkerr"
)

// MPIArray is an owning, releasable slice of *big.Int extracted by a
// marshaller. Release zeroizes every element's backing words so a secret
// key's extracted parameters don't linger in memory past their use,
// mirroring spec.md's "every MPI array allocated by a marshaller must be
// released by the caller" resource-discipline invariant.
type MPIArray struct {
	Values   []*big.Int
	released bool
}

// Release zeroizes and discards the array's contents. Safe to call more
// than once; a second call is a no-op.
func (m *MPIArray) Release() {
	if m == nil || m.released {
		return
	}
	for _, v := range m.Values {
		if v != nil {
			v.SetInt64(0)
		}
	}
	m.Values = nil
	m.released = true
}

// atomValue extracts the second item of a parameter sublist like (n
// <atom>) as an Atom, failing with ErrNoObj if the sublist or its value is
// absent.
func atomValue(sub List) (Atom, error) {
	if len(sub.Items) < 2 {
		return Atom{}, pkerr.ErrNoObj
	}
	a, ok := sub.Items[1].(Atom)
	if !ok {
		return Atom{}, pkerr.ErrInvObj
	}
	return a, nil
}

// ParamMPI finds the sublist headed by name under parent and parses its
// value as an unsigned decimal big integer, failing NO_OBJ if the token is
// missing and INV_OBJ if its value does not parse.
func ParamMPI(parent List, name string) (*big.Int, error) {
	sub, ok := Find(parent, name)
	if !ok {
		return nil, pkerr.ErrNoObj
	}
	a, err := atomValue(sub)
	if err != nil {
		return nil, err
	}
	n, ok := new(big.Int).SetString(string(a.Bytes), 10)
	if !ok || n.Sign() < 0 {
		return nil, pkerr.ErrInvObj
	}
	return n, nil
}

// ParamBytes finds the sublist headed by name under parent and returns its
// value decoded as hex-encoded raw bytes (the in-memory stand-in for a
// canonical S-expression's verbatim length-prefixed byte string).
func ParamBytes(parent List, name string) ([]byte, error) {
	sub, ok := Find(parent, name)
	if !ok {
		return nil, pkerr.ErrNoObj
	}
	a, err := atomValue(sub)
	if err != nil {
		return nil, err
	}
	b, decErr := hex.DecodeString(string(a.Bytes))
	if decErr != nil {
		return nil, pkerr.ErrInvObj
	}
	return b, nil
}

// ExtractParams extracts one MPI per letter of params (in order) from the
// algorithm sublist algo, implementing spec.md §4.3 step 4: each letter
// names a single-character parameter token. On any failure the MPIArray
// extracted so far is released before returning, satisfying the "after any
// failed marshalling every partially extracted MPI has been freed"
// invariant.
func ExtractParams(algo List, params string) (*MPIArray, error) {
	out := &MPIArray{Values: make([]*big.Int, 0, len(params))}
	for _, c := range params {
		n, err := ParamMPI(algo, string(c))
		if err != nil {
			out.Release()
			return nil, err
		}
		out.Values = append(out.Values, n)
	}
	return out, nil
}

var errEmptyAlgoName = errors.New("sexpr: algorithm sublist has no name atom")

// AlgoName returns the leading token of an algorithm sublist, e.g. "rsa"
// from (rsa (n ...) (e ...)).
func AlgoName(algo List) (string, error) {
	head, ok := algo.Head()
	if !ok || head == "" {
		return "", errEmptyAlgoName
	}
	return head, nil
}

// BuildParamList builds the parenthesized (name value) sublists for each
// letter of params spliced against values in order, used by the result
// builders to splice *big.Int values back into descriptor parameter order.
func BuildParamList(params string, values []*big.Int) []Value {
	items := make([]Value, 0, len(params))
	for i, c := range params {
		var text string
		if i < len(values) && values[i] != nil {
			text = values[i].String()
		} else {
			text = "0"
		}
		items = append(items, List{Items: []Value{
			Atom{Bytes: []byte(string(c))},
			Atom{Bytes: []byte(text)},
		}})
	}
	return items
}
