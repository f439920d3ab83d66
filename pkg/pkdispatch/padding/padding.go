// Package padding implements the data → MPI framing engine: parsing the
// optional flags/hash/value S-expression a caller supplies, and producing
// a single correctly-padded MPI ready for a backend's encrypt/sign
// operation.
package padding

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"

	"github.com/ydario/pkdispatch/pkg/pkdispatch/algo"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/pkerr"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/sexpr"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/zeroize"
)

// Result is the outcome of DataToMPI: the framed MPI plus the resolved
// flags (so the façade can echo them back into its result S-expression).
type Result struct {
	MPI   *big.Int
	Flags algo.Flags
}

// DataToMPI implements spec.md §4.4. input is either a bare unsigned
// integer atom (legacy mode) or a (data ...) sublist. nbits is the
// modulus size in bits; forEncryption selects block type 2 (encryption)
// framing vs. block type 1 (signing) framing when pkcs1 is requested.
func DataToMPI(input sexpr.Value, nbits uint, forEncryption bool) (Result, error) {
	dataList, isData := sexpr.Find(input, "data")
	if !isData {
		n, err := bareInteger(input)
		if err != nil {
			return Result{}, err
		}
		return Result{MPI: n, Flags: algo.FlagRaw}, nil
	}

	flags, err := parseDataFlags(dataList)
	if err != nil {
		return Result{}, err
	}

	hashList, hasHash := sexpr.Find(dataList, "hash")
	valueBytes, hasValue, err := dataValue(dataList)
	if err != nil {
		return Result{}, err
	}

	isRaw := flags.Has(algo.FlagRaw)
	isPKCS1 := flags.Has(algo.FlagPKCS1)

	switch {
	case hasHash == hasValue:
		// Exactly one of hash/value must be present.
		return Result{}, pkerr.ErrInvObj

	case isRaw && isPKCS1 && !forEncryption:
		return Result{}, pkerr.ErrConflict

	case isRaw && hasValue:
		// raw takes priority over pkcs1 when both are set, matching the
		// original dispatcher's branch order.
		n := new(big.Int).SetBytes(valueBytes)
		zeroize.Bytes(valueBytes)
		return Result{MPI: n, Flags: flags}, nil

	case isPKCS1 && hasValue && forEncryption:
		n, err := frameEncryption(valueBytes, nbits)
		if err != nil {
			return Result{}, err
		}
		return Result{MPI: n, Flags: flags}, nil

	case isPKCS1 && hasHash && !forEncryption:
		n, err := frameSigning(hashList, nbits)
		if err != nil {
			return Result{}, err
		}
		return Result{MPI: n, Flags: flags}, nil

	default:
		return Result{}, pkerr.ErrConflict
	}
}

func bareInteger(v sexpr.Value) (*big.Int, error) {
	a, ok := v.(sexpr.Atom)
	if !ok {
		return nil, pkerr.ErrInvObj
	}
	n, ok := new(big.Int).SetString(a.String(), 10)
	if !ok || n.Sign() < 0 {
		return nil, pkerr.ErrInvObj
	}
	return n, nil
}

// parseDataFlags reads the optional (flags ...) element of a (data ...)
// sublist, defaulting to raw when absent.
func parseDataFlags(dataList sexpr.List) (algo.Flags, error) {
	flagsList, ok := sexpr.Find(dataList, "flags")
	if !ok {
		return algo.FlagRaw, nil
	}
	var f algo.Flags
	for _, item := range flagsList.Items[1:] {
		a, ok := item.(sexpr.Atom)
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
	if f&(algo.FlagRaw|algo.FlagPKCS1) == 0 {
		f |= algo.FlagRaw
	}
	return f, nil
}

// dataValue reads the hex-encoded bytes of a (value <hex>) element, if
// present.
func dataValue(dataList sexpr.List) ([]byte, bool, error) {
	valueList, ok := sexpr.Find(dataList, "value")
	if !ok {
		return nil, false, nil
	}
	if len(valueList.Items) < 2 {
		return nil, true, pkerr.ErrInvObj
	}
	a, ok := valueList.Items[1].(sexpr.Atom)
	if !ok {
		return nil, true, pkerr.ErrInvObj
	}
	b, err := decodeHexAtom(a)
	if err != nil {
		return nil, true, err
	}
	return b, true, nil
}

// frameEncryption builds a PKCS#1 block type 2 frame: 00 02 PS 00 M. The
// plaintext value, the random padding, and the assembled frame are all
// zeroized once copied into the resulting MPI, per spec.md's "PKCS#1
// type-2 frames are zeroized on release" design note.
func frameEncryption(value []byte, nbits uint) (*big.Int, error) {
	nframe := int((nbits + 7) / 8)
	vlen := len(value)
	if vlen+7 > nframe {
		return nil, pkerr.ErrTooShort
	}

	psLen := nframe - 3 - vlen
	ps, err := nonZeroRandom(psLen)
	if err != nil {
		return nil, err
	}
	defer zeroize.Bytes(ps)
	defer zeroize.Bytes(value)

	frame := make([]byte, 0, nframe)
	frame = append(frame, 0x00, 0x02)
	frame = append(frame, ps...)
	frame = append(frame, 0x00)
	frame = append(frame, value...)
	defer zeroize.Bytes(frame)

	return new(big.Int).SetBytes(frame), nil
}

// frameSigning builds a PKCS#1 block type 1 frame: 00 01 FF...FF 00 ASN DIGEST.
func frameSigning(hashList sexpr.List, nbits uint) (*big.Int, error) {
	operands := hashList.Items[1:]
	if len(operands) != 2 {
		return nil, pkerr.ErrInvObj
	}
	algoAtom, ok := operands[0].(sexpr.Atom)
	if !ok {
		return nil, pkerr.ErrInvObj
	}
	digestAtom, ok := operands[1].(sexpr.Atom)
	if !ok {
		return nil, pkerr.ErrInvObj
	}

	name := algoAtom.String()
	if !isSupportedDigestName(name) {
		return nil, pkerr.ErrInvMDAlgo
	}
	info, known := lookupDigest(name)
	if !known {
		return nil, pkerr.ErrNotImpl
	}

	digest, err := decodeHexAtom(digestAtom)
	if err != nil {
		return nil, err
	}
	if len(digest) != info.length {
		return nil, pkerr.ErrConflict
	}

	nframe := int((nbits + 7) / 8)
	asnlen := len(info.asn1)
	if info.length+asnlen+4 > nframe {
		return nil, pkerr.ErrTooShort
	}
	ffLen := nframe - info.length - asnlen - 3
	if ffLen < 2 {
		return nil, pkerr.ErrTooShort
	}

	frame := make([]byte, 0, nframe)
	frame = append(frame, 0x00, 0x01)
	for i := 0; i < ffLen; i++ {
		frame = append(frame, 0xFF)
	}
	frame = append(frame, 0x00)
	frame = append(frame, info.asn1...)
	frame = append(frame, digest...)

	return new(big.Int).SetBytes(frame), nil
}

func decodeHexAtom(a sexpr.Atom) ([]byte, error) {
	b, err := hex.DecodeString(a.String())
	if err != nil {
		return nil, pkerr.ErrInvObj
	}
	return b, nil
}

// nonZeroRandom draws n bytes from the strong CSPRNG with no zero bytes,
// per spec.md §4.4 step 6: redraw zero bytes, iterating with a safety
// overdraw of k + k/128 until none remain.
func nonZeroRandom(n int) ([]byte, error) {
	out := make([]byte, 0, n)
	remaining := n
	for remaining > 0 {
		overdraw := remaining + remaining/128 + 1
		buf := make([]byte, overdraw)
		if _, err := rand.Read(buf); err != nil {
			return nil, err
		}
		for _, b := range buf {
			if b == 0 {
				continue
			}
			out = append(out, b)
			if len(out) == n {
				break
			}
		}
		remaining = n - len(out)
	}
	return out, nil
}
