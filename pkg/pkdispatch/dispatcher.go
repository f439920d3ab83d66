// Package pkdispatch is the pluggable public-key algorithm dispatcher:
// algorithm descriptors, S-expression marshalling, PKCS#1 framing, and
// keygrip computation live in its subpackages; Dispatcher is the thin
// façade spec.md §4.5 describes, gluing registry lookup, marshalling, and
// backend calls together for each public operation.
package pkdispatch

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ydario/pkdispatch/pkg/pkdispatch/algo"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/backend"
	backendDSA "github.com/ydario/pkdispatch/pkg/pkdispatch/backend/dsa"
	backendElGamal "github.com/ydario/pkdispatch/pkg/pkdispatch/backend/elgamal"
	backendRSA "github.com/ydario/pkdispatch/pkg/pkdispatch/backend/rsa"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/config"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/keygrip"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/logging"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/padding"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/pkerr"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/registry"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/sexpr"
)

// Dispatcher is an explicit value carrying its own registry, rather than
// process-wide global state (spec.md §9 redesign: "process-wide mutable
// registry → explicit registry value"), so independent callers/tests each
// get an isolated instance.
type Dispatcher struct {
	reg  *registry.Registry
	log  logging.Logger
	once sync.Once
}

// New returns a Dispatcher with no backends registered yet; built-ins are
// installed lazily on first use. Passing a nil logger binds to
// logging.New(nil) (slog.Default()).
func New(log logging.Logger) *Dispatcher {
	if log == nil {
		log = logging.New(nil)
	}
	return &Dispatcher{reg: registry.New(), log: log}
}

// ensureBuiltins lazily, idempotently registers the reference backends
// (spec.md §4.1: "Default-registration is lazy: each public operation
// first performs a guarded idempotent 'install built-in backends' step").
func (d *Dispatcher) ensureBuiltins() {
	d.once.Do(func() {
		rsaBackend := backendRSA.Backend{}
		dsaBackend := backendDSA.Backend{}
		elgBackend := backendElGamal.Backend{}

		must(d.reg.Register(algo.RSA, "rsa", algo.UsageSign|algo.UsageEncrypt, rsaBackend))
		must(d.reg.Register(algo.DSA, "dsa", algo.UsageSign, dsaBackend))
		must(d.reg.Register(algo.ElGamal, "elg", algo.UsageSign|algo.UsageEncrypt, elgBackend))
		must(d.reg.Register(algo.ElGamal, "openpgp-elg-sig", algo.UsageSign, elgBackend))
		must(d.reg.Register(algo.ElGamalE, "openpgp-elg", algo.UsageEncrypt, elgBackend))
	})
}

func must(_ algo.ID, _ registry.Handle, err error) {
	if err != nil {
		panic(fmt.Sprintf("pkdispatch: built-in registration failed: %v", err))
	}
}

// ApplyProfile disables every algorithm named in p.DisabledAlgorithms,
// after first checking p.ContractVersion (if set) against this build's
// contract version.
func (d *Dispatcher) ApplyProfile(p config.Profile) error {
	if !CompatibleContract(p.ContractVersion) {
		return fmt.Errorf("%w: profile requires contract %s, have %s", ErrInternal, p.ContractVersion, ContractVersion)
	}
	d.ensureBuiltins()
	for _, name := range p.DisabledAlgorithms {
		desc, ok := algo.Lookup(name)
		if !ok {
			return fmt.Errorf("%w: unknown algorithm %q in profile", ErrInvPKAlgo, name)
		}
		d.reg.SetDisabled(desc.AlgoID)
	}
	return nil
}

// RegisterBackend installs a user-supplied backend under a dynamically
// assigned id in the reserved range [algo.UserRangeLo, algo.UserRangeHi),
// registering its descriptor, signature shape, and encryption shape so the
// marshallers can resolve it by name. requiredContractVersion may be empty.
func (d *Dispatcher) RegisterBackend(name string, usage algo.Usage, common, public, secret, gripParams, sigParams, encParams, requiredContractVersion string, b backend.Backend) (algo.ID, error) {
	d.ensureBuiltins()
	if !CompatibleContract(requiredContractVersion) {
		return 0, fmt.Errorf("%w: backend %q requires contract %s, have %s", ErrInternal, name, requiredContractVersion, ContractVersion)
	}
	id, h, err := d.reg.Register(algo.Unknown, name, usage, b)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	_ = h // the dispatcher keeps the registration alive for the process lifetime

	algo.Register(algo.Descriptor{
		Name: name, AlgoID: id, Usage: usage,
		Common: common, Public: public, Secret: secret, GripParams: gripParams,
	})
	if sigParams != "" {
		algo.RegisterSig(algo.SigShape{Name: name, AlgoID: id, Params: sigParams})
	}
	if encParams != "" {
		algo.RegisterEnc(algo.EncShape{Name: name, AlgoID: id, Params: encParams})
	}
	return id, nil
}

func (d *Dispatcher) backendFor(id algo.ID) (backend.Backend, error) {
	h, ok := d.reg.LookupByID(id)
	if !ok {
		return nil, ErrInvPKAlgo
	}
	defer d.reg.Release(h)
	b, ok := d.reg.Backend(h)
	if !ok {
		return nil, ErrInvPKAlgo
	}
	return b, nil
}

// Encrypt implements spec.md §4.5 encrypt: parse pkey, frame data under
// nbits = get_nbits(pkey), invoke the backend, and build the resulting
// enc-val.
func (d *Dispatcher) Encrypt(pkeySexp, dataSexp string) (string, error) {
	d.ensureBuiltins()

	pkeyVal, err := sexpr.Parse(pkeySexp)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvObj, err)
	}
	key, err := sexpr.KeyToParams(pkeyVal, false)
	if err != nil {
		return "", err
	}
	defer key.Params.Release()

	b, err := d.backendFor(key.Descriptor.AlgoID)
	if err != nil {
		return "", err
	}

	nbits, err := b.GetNBits(key.Descriptor.AlgoID, key.Params.Values)
	if err != nil {
		return "", RemapError(err)
	}

	dataVal, err := sexpr.Parse(dataSexp)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvObj, err)
	}
	framed, err := padding.DataToMPI(dataVal, nbits, true)
	if err != nil {
		return "", err
	}

	shape, ok := algo.LookupEnc(key.Descriptor.Name)
	if !ok {
		return "", ErrInvPKAlgo
	}

	result, err := b.Encrypt(key.Descriptor.AlgoID, framed.MPI, key.Params.Values, framed.Flags)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneral, logAndHide(d.log, err))
	}

	return sexpr.BuildEncVal(shape, result, framed.Flags).String(), nil
}

// Decrypt implements spec.md §4.5 decrypt.
func (d *Dispatcher) Decrypt(skeySexp, encSexp string) (string, error) {
	d.ensureBuiltins()

	skeyVal, err := sexpr.Parse(skeySexp)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvObj, err)
	}
	key, err := sexpr.KeyToParams(skeyVal, true)
	if err != nil {
		return "", err
	}
	defer key.Params.Release()

	encVal, err := sexpr.Parse(encSexp)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvObj, err)
	}
	enc, err := sexpr.EncToParams(encVal)
	if err != nil {
		return "", err
	}
	defer enc.Params.Release()

	if enc.Shape.AlgoID != key.Descriptor.AlgoID {
		return "", ErrConflict
	}

	b, err := d.backendFor(key.Descriptor.AlgoID)
	if err != nil {
		return "", err
	}

	plain, err := b.Decrypt(key.Descriptor.AlgoID, enc.Params.Values, key.Params.Values, enc.Flags)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneral, logAndHide(d.log, err))
	}

	if !enc.Modern {
		return plain.String(), nil
	}
	return sexpr.List{Items: []sexpr.Value{
		sexpr.Atom{Bytes: []byte("value")},
		sexpr.Atom{Bytes: []byte(plain.String())},
	}}.String(), nil
}

// Sign implements spec.md §4.5 sign.
func (d *Dispatcher) Sign(skeySexp, hashSexp string) (string, error) {
	d.ensureBuiltins()

	skeyVal, err := sexpr.Parse(skeySexp)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvObj, err)
	}
	key, err := sexpr.KeyToParams(skeyVal, true)
	if err != nil {
		return "", err
	}
	defer key.Params.Release()

	b, err := d.backendFor(key.Descriptor.AlgoID)
	if err != nil {
		return "", err
	}

	hashVal, err := sexpr.Parse(hashSexp)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvObj, err)
	}
	nbits, err := b.GetNBits(key.Descriptor.AlgoID, key.Params.Values)
	if err != nil {
		return "", RemapError(err)
	}
	framed, err := padding.DataToMPI(hashVal, nbits, false)
	if err != nil {
		return "", err
	}

	shape, ok := algo.LookupSig(key.Descriptor.Name)
	if !ok {
		return "", ErrInvPKAlgo
	}

	sig, err := b.Sign(key.Descriptor.AlgoID, framed.MPI, key.Params.Values)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneral, logAndHide(d.log, err))
	}

	return sexpr.BuildSigVal(shape, sig).String(), nil
}

// Verify implements spec.md §4.5 verify, returning its verdict unchanged.
func (d *Dispatcher) Verify(pkeySexp, sigSexp, hashSexp string) error {
	d.ensureBuiltins()

	pkeyVal, err := sexpr.Parse(pkeySexp)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvObj, err)
	}
	key, err := sexpr.KeyToParams(pkeyVal, false)
	if err != nil {
		return err
	}
	defer key.Params.Release()

	sigVal, err := sexpr.Parse(sigSexp)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvObj, err)
	}
	sig, err := sexpr.SigToParams(sigVal)
	if err != nil {
		return err
	}
	defer sig.Params.Release()

	if sig.Shape.AlgoID != key.Descriptor.AlgoID {
		return ErrConflict
	}

	b, err := d.backendFor(key.Descriptor.AlgoID)
	if err != nil {
		return err
	}

	hashVal, err := sexpr.Parse(hashSexp)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvObj, err)
	}
	nbits, err := b.GetNBits(key.Descriptor.AlgoID, key.Params.Values)
	if err != nil {
		return RemapError(err)
	}
	framed, err := padding.DataToMPI(hashVal, nbits, false)
	if err != nil {
		return err
	}

	return b.Verify(key.Descriptor.AlgoID, framed.MPI, sig.Params.Values, key.Params.Values, nil, nil)
}

// GenKey implements spec.md §4.5 genkey: parses "(genkey (<algo> (nbits N)
// [(rsa-use-e E)]))", defaulting E to 65537.
func (d *Dispatcher) GenKey(parmsSexp string) (string, error) {
	d.ensureBuiltins()

	parmsVal, err := sexpr.Parse(parmsSexp)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvObj, err)
	}
	genkeyList, ok := sexpr.Find(parmsVal, "genkey")
	if !ok || len(genkeyList.Items) < 2 {
		return "", ErrInvObj
	}
	algoSexpr, ok := genkeyList.Items[1].(sexpr.List)
	if !ok {
		return "", ErrInvObj
	}
	name, err := sexpr.AlgoName(algoSexpr)
	if err != nil {
		return "", ErrInvObj
	}
	desc, ok := algo.Lookup(name)
	if !ok {
		return "", ErrInvPKAlgo
	}

	nbits, err := sexpr.ParamMPI(algoSexpr, "nbits")
	if err != nil {
		return "", err
	}

	useE := big.NewInt(65537)
	if e, err := sexpr.ParamMPI(algoSexpr, "rsa-use-e"); err == nil {
		useE = e
	}

	b, err := d.backendFor(desc.AlgoID)
	if err != nil {
		return "", err
	}

	skey, factors, err := b.Generate(desc.AlgoID, uint(nbits.Uint64()), useE)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneral, logAndHide(d.log, err))
	}

	public := skey[:len(desc.Common)]
	return sexpr.BuildKeyData(desc, public, skey, factors).String(), nil
}

// TestKey implements spec.md §4.5 testkey.
func (d *Dispatcher) TestKey(keySexp string) error {
	d.ensureBuiltins()

	keyVal, err := sexpr.Parse(keySexp)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvObj, err)
	}
	key, err := sexpr.KeyToParams(keyVal, true)
	if err != nil {
		return err
	}
	defer key.Params.Release()

	b, err := d.backendFor(key.Descriptor.AlgoID)
	if err != nil {
		return err
	}
	return b.CheckSecretKey(key.Descriptor.AlgoID, key.Params.Values)
}

// NBits implements spec.md §4.5 nbits: try parsing as public, fall back to
// private.
func (d *Dispatcher) NBits(keySexp string) (uint, error) {
	d.ensureBuiltins()

	keyVal, err := sexpr.Parse(keySexp)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvObj, err)
	}

	key, err := sexpr.KeyToParams(keyVal, false)
	if err != nil {
		key, err = sexpr.KeyToParams(keyVal, true)
		if err != nil {
			return 0, ErrInvObj
		}
	}
	defer key.Params.Release()

	b, err := d.backendFor(key.Descriptor.AlgoID)
	if err != nil {
		return 0, err
	}
	return b.GetNBits(key.Descriptor.AlgoID, key.Params.Values)
}

// Keygrip implements spec.md §4.6.
func (d *Dispatcher) Keygrip(keySexp string) ([keygrip.Size]byte, error) {
	keyVal, err := sexpr.Parse(keySexp)
	if err != nil {
		return [keygrip.Size]byte{}, fmt.Errorf("%w: %v", ErrInvObj, err)
	}
	return keygrip.Compute(keyVal)
}

// Disable implements spec.md §4.7 disable_algo by canonical name.
func (d *Dispatcher) Disable(name string) error {
	d.ensureBuiltins()
	desc, ok := algo.Lookup(name)
	if !ok {
		return ErrInvPKAlgo
	}
	d.reg.SetDisabled(desc.AlgoID)
	return nil
}

// TestAlgo implements spec.md §4.7 test_algo.
func (d *Dispatcher) TestAlgo(name string, usage algo.Usage) bool {
	d.ensureBuiltins()
	desc, ok := algo.Lookup(name)
	if !ok {
		return false
	}
	return d.reg.TestAlgo(desc.AlgoID, usage)
}

// GetAlgoUsage implements spec.md §4.7 get_algo_usage.
func (d *Dispatcher) GetAlgoUsage(name string) algo.Usage {
	d.ensureBuiltins()
	desc, ok := algo.Lookup(name)
	if !ok {
		return 0
	}
	return d.reg.Usage(desc.AlgoID)
}

// GetAlgoNPKey returns the public-key parameter count for name.
func (d *Dispatcher) GetAlgoNPKey(name string) (int, error) {
	desc, ok := algo.Lookup(name)
	if !ok {
		return 0, ErrInvPKAlgo
	}
	return len(desc.PublicParams()), nil
}

// GetAlgoNSKey returns the secret-key parameter count for name.
func (d *Dispatcher) GetAlgoNSKey(name string) (int, error) {
	desc, ok := algo.Lookup(name)
	if !ok {
		return 0, ErrInvPKAlgo
	}
	return len(desc.SecretParams()), nil
}

// GetAlgoNSign returns the signature parameter count for name, or
// NotImplemented if the algorithm has no signature shape.
func (d *Dispatcher) GetAlgoNSign(name string) (int, error) {
	shape, ok := algo.LookupSig(name)
	if !ok {
		return 0, ErrNotImpl
	}
	return len(shape.Params), nil
}

// GetAlgoNEncr returns the encryption-result parameter count for name, or
// NotImplemented if the algorithm has no encryption shape.
func (d *Dispatcher) GetAlgoNEncr(name string) (int, error) {
	shape, ok := algo.LookupEnc(name)
	if !ok {
		return 0, ErrNotImpl
	}
	return len(shape.Params), nil
}

// logAndHide logs the real backend failure at Error level and returns a
// context-free message, implementing spec.md §7's "a bare failing decrypt
// returns GENERAL to avoid leaking oracle information": the caller-visible
// error is always ErrGeneral, never the backend's own error text.
func logAndHide(log logging.Logger, err error) error {
	log.Error(context.Background(), "backend operation failed", "error", err)
	return fmt.Errorf("backend operation failed")
}
