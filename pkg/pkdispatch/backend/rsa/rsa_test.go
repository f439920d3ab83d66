package rsa_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ydario/pkdispatch/pkg/pkdispatch/backend/rsa"
)

func TestGenerateEncryptDecryptRoundTrip(t *testing.T) {
	b := rsa.Backend{}
	skey, factors, err := b.Generate(0, 256, nil)
	require.NoError(t, err)
	require.Len(t, skey, 6)
	require.Len(t, factors, 2)

	require.NoError(t, b.CheckSecretKey(0, skey))

	pkey := skey[:2]
	msg := big.NewInt(42)
	ciph, err := b.Encrypt(0, msg, pkey, 0)
	require.NoError(t, err)

	plain, err := b.Decrypt(0, ciph, skey, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, msg.Cmp(plain))
}

func TestGenerateSignVerifyRoundTrip(t *testing.T) {
	b := rsa.Backend{}
	skey, _, err := b.Generate(0, 256, nil)
	require.NoError(t, err)

	hash := big.NewInt(12345)
	sig, err := b.Sign(0, hash, skey)
	require.NoError(t, err)

	pkey := skey[:2]
	require.NoError(t, b.Verify(0, hash, sig, pkey, nil, nil))
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	b := rsa.Backend{}
	skey, _, err := b.Generate(0, 256, nil)
	require.NoError(t, err)

	hash := big.NewInt(12345)
	sig, err := b.Sign(0, hash, skey)
	require.NoError(t, err)
	sig[0] = new(big.Int).Add(sig[0], big.NewInt(1))

	pkey := skey[:2]
	err = b.Verify(0, hash, sig, pkey, nil, nil)
	assert.ErrorIs(t, err, rsa.ErrBadSignature)
}

func TestCheckSecretKeyRejectsWrongModulus(t *testing.T) {
	b := rsa.Backend{}
	skey, _, err := b.Generate(0, 256, nil)
	require.NoError(t, err)
	skey[0] = new(big.Int).Add(skey[0], big.NewInt(2))
	assert.Error(t, b.CheckSecretKey(0, skey))
}

func TestGetNBitsReflectsModulusSize(t *testing.T) {
	b := rsa.Backend{}
	skey, _, err := b.Generate(0, 256, nil)
	require.NoError(t, err)
	nbits, err := b.GetNBits(0, skey[:2])
	require.NoError(t, err)
	assert.InDelta(t, 256, nbits, 8)
}

func TestGenerateUsesDefaultExponentWhenNil(t *testing.T) {
	b := rsa.Backend{}
	skey, _, err := b.Generate(0, 256, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, skey[1].Cmp(rsa.DefaultPublicExponent))
}
