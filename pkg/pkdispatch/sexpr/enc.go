package sexpr

import (
	"math/big"

	"github.com/ydario/pkdispatch/pkg/pkdispatch/algo"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/pkerr"
)

// EncResult is the outcome of EncToParams.
type EncResult struct {
	Shape     algo.EncShape
	Params    *MPIArray
	Modern    bool // true iff a (flags ...) element was present
	WantPKCS1 bool
	Flags     algo.Flags
}

// EncToParams implements sexp_to_enc: find enc-val, optionally consume a
// leading (flags ...) element, then parse the algorithm sublist and
// extract enc_params in order.
func EncToParams(root Value) (EncResult, error) {
	encVal, ok := FindRecursive(root, "enc-val")
	if !ok {
		return EncResult{}, pkerr.ErrInvObj
	}
	if len(encVal.Items) < 2 {
		return EncResult{}, pkerr.ErrInvObj
	}

	idx := 1
	result := EncResult{Flags: algo.FlagRaw}
	if fl, ok := encVal.Items[idx].(List); ok {
		if head, ok := fl.Head(); ok && head == "flags" {
			flags, err := parseFlagAtoms(fl.Items[1:])
			if err != nil {
				return EncResult{}, err
			}
			result.Flags = flags
			result.Modern = true
			result.WantPKCS1 = flags.Has(algo.FlagPKCS1)
			idx++
		}
	}
	if idx >= len(encVal.Items) {
		return EncResult{}, pkerr.ErrInvObj
	}
	algoSexpr, ok := encVal.Items[idx].(List)
	if !ok {
		return EncResult{}, pkerr.ErrInvObj
	}
	name, err := AlgoName(algoSexpr)
	if err != nil {
		return EncResult{}, pkerr.ErrInvObj
	}
	shape, ok := algo.LookupEnc(name)
	if !ok {
		return EncResult{}, pkerr.ErrInvPKAlgo
	}
	mpis, err := ExtractParams(algoSexpr, shape.Params)
	if err != nil {
		return EncResult{}, err
	}
	result.Shape = shape
	result.Params = mpis
	return result, nil
}

// parseFlagAtoms recognises raw (default), pkcs1, and no-blinding; any
// other atom fails INV_FLAG.
func parseFlagAtoms(items []Value) (algo.Flags, error) {
	var f algo.Flags
	for _, item := range items {
		a, ok := item.(Atom)
		if !ok {
			return 0, pkerr.ErrInvFlag
		}
		switch a.String() {
		case "raw":
			f |= algo.FlagRaw
		case "pkcs1":
			f |= algo.FlagPKCS1
		case "no-blinding":
			f |= algo.FlagNoBlinding
		default:
			return 0, pkerr.ErrInvFlag
		}
	}
	if f == 0 {
		f = algo.FlagRaw
	}
	return f, nil
}

// BuildEncVal constructs (enc-val (flags ...) (<algo> (<p> %m) ...)). Like
// the original gcry_pk_encrypt result builder, the flags element only ever
// optionally carries no-blinding; raw/pkcs1 describe how the plaintext was
// framed on the way in and are never echoed back into the result's flags.
// The flags element itself is still always present, marking the result as
// "modern" enc-val shaped rather than a bare legacy MPI.
func BuildEncVal(shape algo.EncShape, values []*big.Int, flags algo.Flags) List {
	flagAtoms := []Value{Atom{Bytes: []byte("flags")}}
	if flags.Has(algo.FlagNoBlinding) {
		flagAtoms = append(flagAtoms, Atom{Bytes: []byte("no-blinding")})
	}

	algoList := List{Items: append([]Value{Atom{Bytes: []byte(shape.Name)}},
		BuildParamList(shape.Params, values)...)}
	return List{Items: []Value{
		Atom{Bytes: []byte("enc-val")},
		List{Items: flagAtoms},
		algoList,
	}}
}
