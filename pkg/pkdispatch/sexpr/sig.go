package sexpr

import (
	"math/big"

	"github.com/ydario/pkdispatch/pkg/pkdispatch/algo"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/pkerr"
)

// SigResult is the outcome of SigToParams.
type SigResult struct {
	Shape  algo.SigShape
	Params *MPIArray
}

// SigToParams implements sexp_to_sig: find sig-val, read its inner
// algorithm sublist, and extract its elements in sig_params order.
func SigToParams(root Value) (SigResult, error) {
	sigVal, ok := FindRecursive(root, "sig-val")
	if !ok {
		return SigResult{}, pkerr.ErrInvObj
	}
	if len(sigVal.Items) < 2 {
		return SigResult{}, pkerr.ErrInvObj
	}
	algoSexpr, ok := sigVal.Items[1].(List)
	if !ok {
		return SigResult{}, pkerr.ErrInvObj
	}
	name, err := AlgoName(algoSexpr)
	if err != nil {
		return SigResult{}, pkerr.ErrInvObj
	}
	shape, ok := algo.LookupSig(name)
	if !ok {
		return SigResult{}, pkerr.ErrInvPKAlgo
	}
	mpis, err := ExtractParams(algoSexpr, shape.Params)
	if err != nil {
		return SigResult{}, err
	}
	return SigResult{Shape: shape, Params: mpis}, nil
}

// BuildSigVal constructs (sig-val (<algo> (<p> %m) ...)).
func BuildSigVal(shape algo.SigShape, values []*big.Int) List {
	algoList := List{Items: append([]Value{Atom{Bytes: []byte(shape.Name)}},
		BuildParamList(shape.Params, values)...)}
	return List{Items: []Value{Atom{Bytes: []byte("sig-val")}, algoList}}
}
