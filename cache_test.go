package quditcirq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheAddGet(t *testing.T) {
	mc := NewMatrixCache()
	h := Hadamard().Hash()
	require.NoError(t, mc.Add(Hadamard(), h))

	got, ok := mc.Get(h)
	require.True(t, ok)
	assert.True(t, got.Equal(Hadamard()))
	assert.Equal(t, 1, mc.Len())

	// re-adding identical content under the same digest is fine
	require.NoError(t, mc.Add(Hadamard(), h))
	assert.Equal(t, 1, mc.Len())
}

func TestCacheHashCollision(t *testing.T) {
	mc := NewMatrixCache()
	h := Hadamard().Hash()
	require.NoError(t, mc.Add(Hadamard(), h))

	// forge the digest of a different matrix
	err := mc.Add(PauliX(), h)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHashCollision)

	// the stored matrix must be untouched
	got, ok := mc.Get(h)
	require.True(t, ok)
	assert.True(t, got.Equal(Hadamard()))
}

func TestCacheDeduplicatesAcrossSteps(t *testing.T) {
	qc, err := New(2, 0, 2, "")
	require.NoError(t, err)
	require.NoError(t, qc.Gate(Hadamard(), 0))
	require.NoError(t, qc.Gate(Hadamard(), 1))
	require.NoError(t, qc.Gate(PauliX(), 0))
	assert.Equal(t, 2, qc.Cache().Len())
}
