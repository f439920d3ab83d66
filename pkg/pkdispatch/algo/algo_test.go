package algo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ydario/pkdispatch/pkg/pkdispatch/algo"
)

func TestLookupKnowsEveryBuiltinAlias(t *testing.T) {
	for _, name := range []string{"dsa", "openpgp-dsa", "rsa", "openpgp-rsa", "oid.1.2.840.113549.1.1.1", "elg", "openpgp-elg", "openpgp-elg-sig"} {
		d, ok := algo.Lookup(name)
		require.True(t, ok, name)
		assert.NotZero(t, d.AlgoID)
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	d, ok := algo.Lookup("RSA")
	require.True(t, ok)
	assert.Equal(t, algo.RSA, d.AlgoID)
}

func TestLookupUnknownNameFails(t *testing.T) {
	_, ok := algo.Lookup("not-an-algorithm")
	assert.False(t, ok)
}

func TestNoBuiltinDescriptorHasDuplicateLetters(t *testing.T) {
	for _, name := range []string{"dsa", "rsa", "elg", "openpgp-elg-sig"} {
		d, ok := algo.Lookup(name)
		require.True(t, ok)
		assert.False(t, algo.HasDuplicateLetters(d.PublicParams()), "%s public params", name)
		assert.False(t, algo.HasDuplicateLetters(d.SecretParams()), "%s secret params", name)
	}
}

func TestRSASecretParamsAreUniformAcrossAliases(t *testing.T) {
	// spec.md's Open Question: "dpqun" for openpgp-rsa is treated as a bug;
	// every RSA alias uses the uniform "dpqu" secret parameter string.
	for _, name := range []string{"rsa", "openpgp-rsa", "oid.1.2.840.113549.1.1.1"} {
		d, ok := algo.Lookup(name)
		require.True(t, ok)
		assert.Equal(t, "nedpqu", d.SecretParams(), name)
	}
}

func TestInUserRange(t *testing.T) {
	assert.False(t, algo.InUserRange(algo.RSA))
	assert.True(t, algo.InUserRange(algo.UserRangeLo))
	assert.False(t, algo.InUserRange(algo.UserRangeHi))
}

func TestRegisterAndUnregisterUserDescriptor(t *testing.T) {
	d := algo.Descriptor{Name: "test-user-algo", AlgoID: algo.UserRangeLo, Common: "q", Secret: "d"}
	algo.Register(d)
	defer algo.Unregister("test-user-algo")

	got, ok := algo.Lookup("test-user-algo")
	require.True(t, ok)
	assert.Equal(t, d.AlgoID, got.AlgoID)
}

func TestLookupSigAndLookupEnc(t *testing.T) {
	sig, ok := algo.LookupSig("rsa")
	require.True(t, ok)
	assert.Equal(t, "s", sig.Params)

	enc, ok := algo.LookupEnc("elg")
	require.True(t, ok)
	assert.Equal(t, "ab", enc.Params)

	_, ok = algo.LookupSig("openpgp-elg")
	assert.False(t, ok, "encryption-only alias has no signature shape")
}

func TestElGamalAliasesShareIDsLikeTheOriginalTable(t *testing.T) {
	// pubkey.c's algo_info_table: "elg" and "openpgp-elg-sig" share
	// GCRY_PK_ELG, while "openpgp-elg" (encryption-only) alone gets the
	// distinct GCRY_PK_ELG_E.
	elg, ok := algo.Lookup("elg")
	require.True(t, ok)
	sig, ok := algo.Lookup("openpgp-elg-sig")
	require.True(t, ok)
	enc, ok := algo.Lookup("openpgp-elg")
	require.True(t, ok)

	assert.Equal(t, algo.ElGamal, elg.AlgoID)
	assert.Equal(t, algo.ElGamal, sig.AlgoID)
	assert.Equal(t, algo.ElGamalE, enc.AlgoID)
	assert.NotEqual(t, elg.AlgoID, enc.AlgoID)
}

func TestFlagsHas(t *testing.T) {
	f := algo.FlagPKCS1 | algo.FlagNoBlinding
	assert.True(t, f.Has(algo.FlagPKCS1))
	assert.True(t, f.Has(algo.FlagNoBlinding))
	assert.False(t, f.Has(algo.FlagRaw))
}
