package keygrip_test

import (
	"crypto/sha1"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ydario/pkdispatch/pkg/pkdispatch/keygrip"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/sexpr"
)

func TestComputeRSAHashesOnlyModulus(t *testing.T) {
	v, err := sexpr.Parse("(public-key (rsa (n 123456) (e 65537)))")
	require.NoError(t, err)

	grip, err := keygrip.Compute(v)
	require.NoError(t, err)

	want := sha1.Sum([]byte{0x01, 0xe2, 0x40}) // big-endian bytes of 123456
	assert.Equal(t, want, grip)
}

func TestComputeDSAFramesEachParameter(t *testing.T) {
	v, err := sexpr.Parse("(public-key (dsa (p 11) (q 5) (g 3) (y 9)))")
	require.NoError(t, err)

	grip, err := keygrip.Compute(v)
	require.NoError(t, err)

	h := sha1.New()
	for _, pair := range []struct {
		c byte
		n byte
	}{{'p', 11}, {'q', 5}, {'g', 3}, {'y', 9}} {
		header := fmt.Sprintf("(1:%c%d:", pair.c, 1)
		h.Write([]byte(header))
		h.Write([]byte{pair.n})
		h.Write([]byte(")"))
	}
	want := [sha1.Size]byte{}
	copy(want[:], h.Sum(nil))

	assert.Equal(t, want, grip)
}

func TestComputeAcceptsPrivateKey(t *testing.T) {
	v, err := sexpr.Parse("(private-key (rsa (n 123456) (e 65537) (d 1) (p 2) (q 3) (u 4)))")
	require.NoError(t, err)

	_, err = keygrip.Compute(v)
	require.NoError(t, err)
}

func TestComputeMissingParamFails(t *testing.T) {
	v, err := sexpr.Parse("(public-key (dsa (p 11) (q 5) (g 3)))")
	require.NoError(t, err)

	_, err = keygrip.Compute(v)
	require.Error(t, err)
}

func TestComputeUnknownAlgoFails(t *testing.T) {
	v, err := sexpr.Parse("(public-key (bogus (n 1)))")
	require.NoError(t, err)

	_, err = keygrip.Compute(v)
	require.Error(t, err)
}
