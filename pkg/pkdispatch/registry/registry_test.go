package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/ydario/pkdispatch/pkg/pkdispatch/algo"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/backend"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/registry"
)

// fakeBackend satisfies backend.Backend by declining every operation; the
// registry tests below only exercise registration/lookup/disable
// bookkeeping, never actual cryptography.
type fakeBackend struct {
	backend.PartialBackend
	name string
}

var _ backend.Backend = fakeBackend{}

func TestRegisterAssignsUserRangeID(t *testing.T) {
	r := registry.New()
	id, h, err := r.Register(algo.Unknown, "demo", algo.UsageSign, fakeBackend{name: "demo"})
	require.NoError(t, err)
	defer r.Release(h)

	assert.True(t, algo.InUserRange(id))
	assert.Equal(t, algo.UserRangeLo, id)
}

func TestRegisterExhaustsUserRange(t *testing.T) {
	r := registry.New()
	n := int(algo.UserRangeHi - algo.UserRangeLo)
	for i := 0; i < n; i++ {
		_, h, err := r.Register(algo.Unknown, "demo", algo.UsageSign, fakeBackend{name: "demo"})
		require.NoError(t, err)
		defer r.Release(h)
	}
	_, _, err := r.Register(algo.Unknown, "one-too-many", algo.UsageSign, fakeBackend{name: "x"})
	require.Error(t, err)
}

func TestLookupByIDIncrementsRefcount(t *testing.T) {
	r := registry.New()
	_, h1, err := r.Register(algo.RSA, "rsa", algo.UsageSign|algo.UsageEncrypt, fakeBackend{name: "rsa"})
	require.NoError(t, err)

	h2, ok := r.LookupByID(algo.RSA)
	require.True(t, ok)

	assert.Equal(t, 1, r.Len())
	r.Release(h1)
	assert.Equal(t, 1, r.Len(), "record survives while h2 is outstanding")
	r.Release(h2)
	assert.Equal(t, 0, r.Len())
}

func TestLookupByNameCaseInsensitive(t *testing.T) {
	r := registry.New()
	_, h, err := r.Register(algo.RSA, "RSA", algo.UsageSign|algo.UsageEncrypt, fakeBackend{name: "rsa"})
	require.NoError(t, err)
	defer r.Release(h)

	got, ok := r.LookupByName("rsa")
	require.True(t, ok)
	defer r.Release(got)

	id, ok := r.AlgoID(got)
	require.True(t, ok)
	assert.Equal(t, algo.RSA, id)
}

func TestSetDisabledBlocksLookup(t *testing.T) {
	r := registry.New()
	_, h, err := r.Register(algo.RSA, "rsa", algo.UsageSign|algo.UsageEncrypt, fakeBackend{name: "rsa"})
	require.NoError(t, err)
	defer r.Release(h)

	r.SetDisabled(algo.RSA)
	_, ok := r.LookupByID(algo.RSA)
	assert.False(t, ok)

	// disabling is idempotent
	r.SetDisabled(algo.RSA)
	_, ok = r.LookupByIDAny(algo.RSA)
	assert.True(t, ok, "LookupByIDAny still sees the disabled record")
}

func TestTestAlgoUsage(t *testing.T) {
	r := registry.New()
	_, h, err := r.Register(algo.DSA, "dsa", algo.UsageSign, fakeBackend{name: "dsa"})
	require.NoError(t, err)
	defer r.Release(h)

	assert.True(t, r.TestAlgo(algo.DSA, 0))
	assert.True(t, r.TestAlgo(algo.DSA, algo.UsageSign))
	assert.False(t, r.TestAlgo(algo.DSA, algo.UsageEncrypt))
	assert.False(t, r.TestAlgo(algo.ElGamal, 0))
}

// TestConcurrentLookupRelease exercises spec.md §8 property 9: under N
// concurrent goroutines looking up and releasing the same backend, the
// record is not freed until every handle is released and it has been
// unregistered.
func TestConcurrentLookupRelease(t *testing.T) {
	r := registry.New()
	_, h0, err := r.Register(algo.RSA, "rsa", algo.UsageSign|algo.UsageEncrypt, fakeBackend{name: "rsa"})
	require.NoError(t, err)

	const workers = 64
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			h, ok := r.LookupByID(algo.RSA)
			if !ok {
				return nil // raced with the final Unregister below; acceptable
			}
			r.Release(h)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	// The original registration handle is still outstanding.
	assert.Equal(t, 1, r.Len())
	r.Release(h0)
	assert.Equal(t, 0, r.Len())
}
