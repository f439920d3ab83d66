package sexpr_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ydario/pkdispatch/pkg/pkdispatch/algo"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/sexpr"
)

func TestKeyToParamsPublicRSA(t *testing.T) {
	v, err := sexpr.Parse("(public-key (rsa (n 123456) (e 65537)))")
	require.NoError(t, err)

	res, err := sexpr.KeyToParams(v, false)
	require.NoError(t, err)
	defer res.Params.Release()

	assert.Equal(t, "rsa", res.Descriptor.Name)
	require.Len(t, res.Params.Values, 2)
	assert.Equal(t, big.NewInt(123456), res.Params.Values[0])
	assert.Equal(t, big.NewInt(65537), res.Params.Values[1])
}

func TestKeyToParamsPrivateMissingTokenFails(t *testing.T) {
	v, err := sexpr.Parse("(public-key (rsa (n 1) (e 2)))")
	require.NoError(t, err)

	_, err = sexpr.KeyToParams(v, true)
	require.Error(t, err)
}

func TestKeyToParamsUnknownAlgoFails(t *testing.T) {
	v, err := sexpr.Parse("(public-key (unknown-algo (n 1)))")
	require.NoError(t, err)

	_, err = sexpr.KeyToParams(v, false)
	require.Error(t, err)
}

func TestKeyToParamsReleasesOnPartialFailure(t *testing.T) {
	// "e" is missing; extraction should fail after "n" was already parsed,
	// and the partially built array must come back released (empty).
	v, err := sexpr.Parse("(public-key (rsa (n 1)))")
	require.NoError(t, err)

	res, err := sexpr.KeyToParams(v, false)
	require.Error(t, err)
	assert.Nil(t, res.Params)
}

func TestBuildKeyDataRoundTrips(t *testing.T) {
	desc, ok := algo.Lookup("rsa")
	require.True(t, ok)

	// secret params order is "ne"+"dpqu" = n, e, d, p, q, u.
	built := sexpr.BuildKeyData(desc,
		[]*big.Int{big.NewInt(123456), big.NewInt(65537)},
		[]*big.Int{big.NewInt(123456), big.NewInt(65537), big.NewInt(999), big.NewInt(111), big.NewInt(112), big.NewInt(1)},
		[]*big.Int{big.NewInt(110), big.NewInt(111)},
	)

	parsed, err := sexpr.Parse(built.String())
	require.NoError(t, err)

	res, err := sexpr.KeyToParams(parsed, false)
	require.NoError(t, err)
	defer res.Params.Release()
	assert.Equal(t, big.NewInt(123456), res.Params.Values[0])

	sres, err := sexpr.KeyToParams(parsed, true)
	require.NoError(t, err)
	defer sres.Params.Release()
	assert.Equal(t, big.NewInt(123456), sres.Params.Values[0]) // "n"
	assert.Equal(t, big.NewInt(999), sres.Params.Values[2])    // "d"
}
