package sexpr

import (
	"math/big"

	"github.com/ydario/pkdispatch/pkg/pkdispatch/algo"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/pkerr"
)

// KeyResult is the outcome of KeyToParams: the resolved descriptor, the
// extracted MPI array (common+public or common+secret, in descriptor
// order), and the algorithm sublist itself (needed by callers that must
// also reach grip_params or misc-key-info).
type KeyResult struct {
	Descriptor algo.Descriptor
	Params     *MPIArray
	AlgoSexpr  List
}

// KeyToParams implements sexp_to_key: locate the first private-key (if
// wantPrivate) or public-key sublist, resolve its algorithm, and extract
// common+public or common+secret parameters in descriptor order. On any
// failure every partially extracted MPI is released before returning.
func KeyToParams(root Value, wantPrivate bool) (KeyResult, error) {
	token := "public-key"
	if wantPrivate {
		token = "private-key"
	}
	keyList, ok := FindRecursive(root, token)
	if !ok {
		return KeyResult{}, pkerr.ErrInvObj
	}
	if len(keyList.Items) < 2 {
		return KeyResult{}, pkerr.ErrInvObj
	}
	algoSexpr, ok := keyList.Items[1].(List)
	if !ok {
		return KeyResult{}, pkerr.ErrInvObj
	}
	name, err := AlgoName(algoSexpr)
	if err != nil {
		return KeyResult{}, pkerr.ErrInvObj
	}
	desc, ok := algo.Lookup(name)
	if !ok {
		return KeyResult{}, pkerr.ErrInvPKAlgo
	}

	params := desc.PublicParams()
	if wantPrivate {
		params = desc.SecretParams()
	}
	mpis, err := ExtractParams(algoSexpr, params)
	if err != nil {
		return KeyResult{}, err
	}
	return KeyResult{Descriptor: desc, Params: mpis, AlgoSexpr: algoSexpr}, nil
}

// BuildKeyData constructs (key-data (public-key (<algo> ...)) (private-key
// (<algo> ...)) (misc-key-info (pm1-factors ...))), per spec.md §4.5's
// genkey result shape. secret and factors may be nil to omit the
// private-key / misc-key-info sections (e.g. when only a public key is
// being emitted).
func BuildKeyData(desc algo.Descriptor, public, secret []*big.Int, factors []*big.Int) List {
	pubAlgo := List{Items: append([]Value{Atom{Bytes: []byte(desc.Name)}},
		BuildParamList(desc.PublicParams(), public)...)}
	items := []Value{
		Atom{Bytes: []byte("key-data")},
		List{Items: []Value{Atom{Bytes: []byte("public-key")}, pubAlgo}},
	}
	if secret != nil {
		secAlgo := List{Items: append([]Value{Atom{Bytes: []byte(desc.Name)}},
			BuildParamList(desc.SecretParams(), secret)...)}
		items = append(items, List{Items: []Value{Atom{Bytes: []byte("private-key")}, secAlgo}})
	}
	if len(factors) > 0 {
		factorAtoms := make([]Value, 0, len(factors)+1)
		factorAtoms = append(factorAtoms, Atom{Bytes: []byte("pm1-factors")})
		for _, f := range factors {
			factorAtoms = append(factorAtoms, Atom{Bytes: []byte(f.String())})
		}
		items = append(items, List{Items: []Value{
			Atom{Bytes: []byte("misc-key-info")},
			List{Items: factorAtoms},
		}})
	}
	return List{Items: items}
}
