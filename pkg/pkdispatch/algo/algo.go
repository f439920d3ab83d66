// Package algo holds the static descriptor tables for the public-key
// algorithm families the dispatcher knows about: the canonical name to
// algorithm-id mapping, and the per-shape parameter letter sequences used
// by the S-expression marshallers.
package algo

import "strings"

// ID is a public-key algorithm identifier. Well-known algorithms use small
// fixed values; the range [UserRangeLo, UserRangeHi) is reserved for
// backends registered at runtime.
type ID int32

const (
	Unknown  ID = 0
	RSA      ID = 1
	ElGamalE ID = 16
	DSA      ID = 17
	ElGamal  ID = 20
)

const (
	// UserRangeLo is the first id dynamically assigned to a user-registered backend.
	UserRangeLo ID = 500
	// UserRangeHi is one past the last id available to user-registered backends.
	UserRangeHi ID = 600
)

// InUserRange reports whether id falls in the dynamically assignable range.
func InUserRange(id ID) bool {
	return id >= UserRangeLo && id < UserRangeHi
}

// Usage is a bitfield describing what a backend supports.
type Usage uint

const (
	UsageSign    Usage = 1 << iota // can sign/verify
	UsageEncrypt                   // can encrypt/decrypt
)

// Descriptor is one alias entry of the algorithm descriptor table: a single
// algo_id may be reachable through several distinct canonical names (e.g.
// "rsa", "openpgp-rsa", "oid.1.2.840.113549.1.1.1" all name AlgoID RSA),
// each with its own descriptor row since aliases may disagree about usage
// even though they share parameters. ElGamal is the reverse case: "elg"
// and "openpgp-elg-sig" share AlgoID ElGamal, while "openpgp-elg" (the
// encryption-only OpenPGP variant) gets the distinct AlgoID ElGamalE.
type Descriptor struct {
	Name    string
	AlgoID  ID
	Usage   Usage
	Common  string // parameter letters shared by public and secret keys
	Public  string // parameter letters present only in the public key
	Secret  string // parameter letters present only in the secret key
	GripParams string // parameter letters hashed into the keygrip
}

// PublicParams returns the ordered parameter letters of a public key.
func (d Descriptor) PublicParams() string { return d.Common + d.Public }

// SecretParams returns the ordered parameter letters of a secret key.
// Per spec.md's Open Question, "dpqu"+"n" string-literal concatenation for
// openpgp-rsa in the original source is treated as a bug; every RSA alias
// here uses the uniform "dpqu" secret parameter string.
func (d Descriptor) SecretParams() string { return d.Common + d.Secret }

// descriptorTable is the authoritative alias table from spec.md §6.
var descriptorTable = []Descriptor{
	{Name: "dsa", AlgoID: DSA, Usage: UsageSign, Common: "pqgy", Secret: "x", GripParams: "pqgy"},
	{Name: "openpgp-dsa", AlgoID: DSA, Usage: UsageSign, Common: "pqgy", Secret: "x", GripParams: "pqgy"},
	{Name: "rsa", AlgoID: RSA, Usage: UsageSign | UsageEncrypt, Common: "ne", Secret: "dpqu", GripParams: "n"},
	{Name: "openpgp-rsa", AlgoID: RSA, Usage: UsageSign | UsageEncrypt, Common: "ne", Secret: "dpqu", GripParams: "n"},
	{Name: "oid.1.2.840.113549.1.1.1", AlgoID: RSA, Usage: UsageSign | UsageEncrypt, Common: "ne", Secret: "dpqu", GripParams: "n"},
	{Name: "elg", AlgoID: ElGamal, Usage: UsageSign | UsageEncrypt, Common: "pgy", Secret: "x", GripParams: "pgy"},
	{Name: "openpgp-elg-sig", AlgoID: ElGamal, Usage: UsageSign, Common: "pgy", Secret: "x", GripParams: "pgy"},
	{Name: "openpgp-elg", AlgoID: ElGamalE, Usage: UsageEncrypt, Common: "pgy", Secret: "x", GripParams: "pgy"},
}

// userTable holds descriptors contributed by runtime-registered backends,
// keyed by lower-cased name. It is intentionally separate from the static
// descriptorTable so the well-known aliases above never need a lock.
var userTable = map[string]Descriptor{}

// Register records a descriptor for a runtime-registered backend so that
// Lookup/LookupByID can resolve it. Call sites are expected to hold the
// registry's lock; this function performs no locking of its own.
func Register(d Descriptor) {
	userTable[strings.ToLower(d.Name)] = d
}

// Unregister drops a previously Register-ed descriptor by name.
func Unregister(name string) {
	delete(userTable, strings.ToLower(name))
}

// Lookup resolves a canonical algorithm name (case-insensitive) to its
// descriptor.
func Lookup(name string) (Descriptor, bool) {
	lower := strings.ToLower(name)
	for _, d := range descriptorTable {
		if d.Name == lower {
			return d, true
		}
	}
	if d, ok := userTable[lower]; ok {
		return d, true
	}
	return Descriptor{}, false
}

// LookupByID returns the first descriptor row for the given algorithm id.
// Several aliases may share an id; this returns the canonical (first
// listed) one, for resolving parameter shapes by id rather than by name.
func LookupByID(id ID) (Descriptor, bool) {
	for _, d := range descriptorTable {
		if d.AlgoID == id {
			return d, true
		}
	}
	for _, d := range userTable {
		if d.AlgoID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}

// SigShape describes the parameter letters of a signature S-expression for
// one algorithm alias.
type SigShape struct {
	Name   string
	AlgoID ID
	Params string
}

var sigTable = []SigShape{
	{Name: "dsa", AlgoID: DSA, Params: "rs"},
	{Name: "rsa", AlgoID: RSA, Params: "s"},
	{Name: "elg", AlgoID: ElGamal, Params: "rs"},
	{Name: "openpgp-dsa", AlgoID: DSA, Params: "rs"},
	{Name: "openpgp-rsa", AlgoID: RSA, Params: "s"},
	{Name: "openpgp-elg-sig", AlgoID: ElGamal, Params: "rs"},
	{Name: "oid.1.2.840.113549.1.1.1", AlgoID: RSA, Params: "s"},
}

var userSigTable = map[string]SigShape{}

// RegisterSig records the signature shape for a runtime-registered backend.
func RegisterSig(s SigShape) { userSigTable[strings.ToLower(s.Name)] = s }

// UnregisterSig drops a previously RegisterSig-ed shape by name.
func UnregisterSig(name string) { delete(userSigTable, strings.ToLower(name)) }

// LookupSig resolves a signature algorithm name to its shape.
func LookupSig(name string) (SigShape, bool) {
	lower := strings.ToLower(name)
	for _, s := range sigTable {
		if s.Name == lower {
			return s, true
		}
	}
	if s, ok := userSigTable[lower]; ok {
		return s, true
	}
	return SigShape{}, false
}

// EncShape describes the parameter letters of an enc-val S-expression for
// one algorithm alias.
type EncShape struct {
	Name   string
	AlgoID ID
	Params string
}

var encTable = []EncShape{
	{Name: "elg", AlgoID: ElGamal, Params: "ab"},
	{Name: "rsa", AlgoID: RSA, Params: "a"},
	{Name: "openpgp-rsa", AlgoID: RSA, Params: "a"},
	{Name: "openpgp-elg", AlgoID: ElGamalE, Params: "ab"},
	{Name: "openpgp-elg-sig", AlgoID: ElGamal, Params: "ab"},
	{Name: "oid.1.2.840.113549.1.1.1", AlgoID: RSA, Params: "a"},
}

var userEncTable = map[string]EncShape{}

// RegisterEnc records the encryption shape for a runtime-registered backend.
func RegisterEnc(e EncShape) { userEncTable[strings.ToLower(e.Name)] = e }

// UnregisterEnc drops a previously RegisterEnc-ed shape by name.
func UnregisterEnc(name string) { delete(userEncTable, strings.ToLower(name)) }

// LookupEnc resolves an encryption algorithm name to its shape.
func LookupEnc(name string) (EncShape, bool) {
	lower := strings.ToLower(name)
	for _, e := range encTable {
		if e.Name == lower {
			return e, true
		}
	}
	if e, ok := userEncTable[lower]; ok {
		return e, true
	}
	return EncShape{}, false
}

// HasDuplicateLetters reports whether s contains the same byte twice; used
// by tests to enforce the "no duplicate letters in common+public or
// common+secret" invariant from spec.md §3.
func HasDuplicateLetters(s string) bool {
	seen := make(map[byte]struct{}, len(s))
	for i := 0; i < len(s); i++ {
		if _, ok := seen[s[i]]; ok {
			return true
		}
		seen[s[i]] = struct{}{}
	}
	return false
}
