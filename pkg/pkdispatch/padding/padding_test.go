package padding_test

import (
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ydario/pkdispatch/pkg/pkdispatch/algo"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/padding"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/sexpr"
)

func TestDataToMPILegacyBareInteger(t *testing.T) {
	v, err := sexpr.Parse("12345")
	require.NoError(t, err)

	res, err := padding.DataToMPI(v, 1024, true)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(12345), res.MPI)
	assert.Equal(t, algo.FlagRaw, res.Flags)
}

func TestDataToMPIRawValue(t *testing.T) {
	v, err := sexpr.Parse("(data (value aabbcc))")
	require.NoError(t, err)

	res, err := padding.DataToMPI(v, 1024, true)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).SetBytes([]byte{0xaa, 0xbb, 0xcc}), res.MPI)
}

func TestDataToMPIRequiresExactlyOneOfHashOrValue(t *testing.T) {
	v, err := sexpr.Parse("(data)")
	require.NoError(t, err)

	_, err = padding.DataToMPI(v, 1024, true)
	require.Error(t, err)
}

func TestDataToMPIRawPKCS1ConflictForSigning(t *testing.T) {
	v, err := sexpr.Parse("(data (flags raw pkcs1) (value aa))")
	require.NoError(t, err)

	_, err = padding.DataToMPI(v, 1024, false)
	require.Error(t, err)
}

func TestDataToMPIPKCS1EncryptionFraming(t *testing.T) {
	v, err := sexpr.Parse("(data (flags pkcs1) (value aabbcc))")
	require.NoError(t, err)

	nbits := uint(256)
	res, err := padding.DataToMPI(v, nbits, true)
	require.NoError(t, err)

	frame := res.MPI.Bytes()
	nframe := int(nbits) / 8
	full := make([]byte, nframe-len(frame))
	full = append(full, frame...)

	assert.Equal(t, byte(0x00), full[0])
	assert.Equal(t, byte(0x02), full[1])
	assert.Equal(t, []byte{0xaa, 0xbb, 0xcc}, full[len(full)-3:])
	for _, b := range full[2 : len(full)-4] {
		assert.NotEqual(t, byte(0x00), b)
	}
	assert.Equal(t, byte(0x00), full[len(full)-4])
}

func TestDataToMPIPKCS1EncryptionTooShort(t *testing.T) {
	value := strings.Repeat("ff", 250)
	v, err := sexpr.Parse("(data (flags pkcs1) (value " + value + "))")
	require.NoError(t, err)

	_, err = padding.DataToMPI(v, 256, true)
	require.Error(t, err)
}

func TestDataToMPIPKCS1SigningFraming(t *testing.T) {
	digest := make([]byte, 20)
	for i := range digest {
		digest[i] = byte(i + 1)
	}
	v, err := sexpr.Parse("(data (flags pkcs1) (hash sha1 " + hex.EncodeToString(digest) + "))")
	require.NoError(t, err)

	nbits := uint(512)
	res, err := padding.DataToMPI(v, nbits, false)
	require.NoError(t, err)

	nframe := int(nbits) / 8
	frame := res.MPI.Bytes()
	full := make([]byte, nframe-len(frame))
	full = append(full, frame...)

	assert.Equal(t, byte(0x00), full[0])
	assert.Equal(t, byte(0x01), full[1])
	assert.Equal(t, digest, full[len(full)-20:])
}

func TestDataToMPIUnknownDigestNameFails(t *testing.T) {
	v, err := sexpr.Parse("(data (flags pkcs1) (hash bogus aabbcc))")
	require.NoError(t, err)

	_, err = padding.DataToMPI(v, 512, false)
	require.Error(t, err)
}

func TestDataToMPIDigestLengthMismatchFails(t *testing.T) {
	v, err := sexpr.Parse("(data (flags pkcs1) (hash sha1 aabbcc))")
	require.NoError(t, err)

	_, err = padding.DataToMPI(v, 512, false)
	require.Error(t, err)
}

func TestDataToMPIMD5LacksPrefixIsNotImpl(t *testing.T) {
	digest := make([]byte, 16)
	v, err := sexpr.Parse("(data (flags pkcs1) (hash md5 " + hex.EncodeToString(digest) + "))")
	require.NoError(t, err)

	_, err = padding.DataToMPI(v, 512, false)
	require.Error(t, err)
}

func TestDataToMPIUnknownFlagFails(t *testing.T) {
	v, err := sexpr.Parse("(data (flags bogus) (value aa))")
	require.NoError(t, err)

	_, err = padding.DataToMPI(v, 1024, true)
	require.Error(t, err)
}
