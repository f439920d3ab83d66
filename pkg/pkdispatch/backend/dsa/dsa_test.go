package dsa_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ydario/pkdispatch/pkg/pkdispatch/backend/dsa"
)

func TestGenerateSignVerifyRoundTrip(t *testing.T) {
	b := dsa.Backend{}
	skey, factors, err := b.Generate(0, 512, nil)
	require.NoError(t, err)
	require.Len(t, skey, 5)
	assert.Nil(t, factors)

	require.NoError(t, b.CheckSecretKey(0, skey))

	hash := big.NewInt(424242)
	sig, err := b.Sign(0, hash, skey)
	require.NoError(t, err)
	require.Len(t, sig, 2)

	pkey := skey[:4]
	require.NoError(t, b.Verify(0, hash, sig, pkey, nil, nil))
}

func TestVerifyRejectsWrongHash(t *testing.T) {
	b := dsa.Backend{}
	skey, _, err := b.Generate(0, 512, nil)
	require.NoError(t, err)

	hash := big.NewInt(424242)
	sig, err := b.Sign(0, hash, skey)
	require.NoError(t, err)

	other := big.NewInt(99)
	err = b.Verify(0, other, sig, skey[:4], nil, nil)
	assert.ErrorIs(t, err, dsa.ErrBadSignature)
}

func TestVerifyUsesComparatorWhenProvided(t *testing.T) {
	b := dsa.Backend{}
	skey, _, err := b.Generate(0, 512, nil)
	require.NoError(t, err)

	hash := big.NewInt(424242)
	sig, err := b.Sign(0, hash, skey)
	require.NoError(t, err)

	called := false
	err = b.Verify(0, hash, sig, skey[:4], func(_ any, _ *big.Int) error {
		called = true
		return nil
	}, nil)
	require.NoError(t, err)
	assert.True(t, called)
}

func TestEncryptDecryptUnsupported(t *testing.T) {
	b := dsa.Backend{}
	_, err := b.Encrypt(0, big.NewInt(1), nil, 0)
	assert.Error(t, err)
	_, err = b.Decrypt(0, nil, nil, 0)
	assert.Error(t, err)
}

func TestCheckSecretKeyRejectsWrongX(t *testing.T) {
	b := dsa.Backend{}
	skey, _, err := b.Generate(0, 512, nil)
	require.NoError(t, err)
	skey[4] = new(big.Int).Add(skey[4], big.NewInt(1))
	assert.Error(t, b.CheckSecretKey(0, skey))
}
