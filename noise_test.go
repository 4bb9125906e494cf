package quditcirq

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoisyEngineBranchRecord(t *testing.T) {
	// 2-Kraus amplitude damping on a 3-step single-qubit circuit
	qc, _ := New(1, 0, 2, "")
	require.NoError(t, qc.Gate(Hadamard(), 0))
	require.NoError(t, qc.Gate(TGate(), 0))
	require.NoError(t, qc.Gate(Hadamard(), 0))

	Seed(11)
	ne, err := NewNoisyEngine(qc, NewAmplitudeDampingNoise(0.25))
	require.NoError(t, err)
	require.NoError(t, ne.Run())

	results := ne.NoiseResults()
	require.Len(t, results, 3)
	for ip, branches := range results {
		require.Len(t, branches, 1, "one non-measured qudit at step %d", ip)
		assert.Contains(t, []int{0, 1}, branches[0])
	}
	assert.InDelta(t, 1, norm(ne.Psi()), tol)
}

func TestNoisyEngineDimsMismatch(t *testing.T) {
	qc, _ := New(1, 0, 3, "")
	_, err := NewNoisyEngine(qc, NewDepolarizingNoise(0.1))
	assert.ErrorIs(t, err, ErrDimsNotEqual)
}

func TestNoisyEngineSkipsMeasuredQudits(t *testing.T) {
	qc, _ := New(2, 2, 2, "")
	require.NoError(t, qc.Gate(Hadamard(), 0))
	require.NoError(t, qc.MeasureZ(0, 0))
	require.NoError(t, qc.Gate(Hadamard(), 1))

	Seed(5)
	ne, err := NewNoisyEngine(qc, NewDepolarizingNoise(0.05))
	require.NoError(t, err)
	require.NoError(t, ne.Run())

	results := ne.NoiseResults()
	require.Len(t, results, 3)
	assert.Len(t, results[0], 2) // both qudits live
	assert.Len(t, results[1], 2) // noise precedes the measurement
	assert.Len(t, results[2], 1) // qudit 0 is gone
}

func TestDepolarizingBranchesAreIdentityAtZero(t *testing.T) {
	noise := NewDepolarizingNoise(0)
	psi := []complex128{1, 0}
	for i := 0; i < 10; i++ {
		out, err := noise.Apply(psi, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, noise.LastBranch(), "p=0 always takes the identity branch")
		assert.InDelta(t, 1, cmplx.Abs(out[0]), tol)
		psi = out
	}
}

func TestKrausNoiseValidation(t *testing.T) {
	_, err := NewKrausNoise(2, nil)
	assert.ErrorIs(t, err, ErrZeroSize)

	rect := &Matrix{Rows: 2, Cols: 3, Data: make([]complex128, 6)}
	_, err = NewKrausNoise(2, []*Matrix{rect})
	assert.ErrorIs(t, err, ErrMatrixNotSquare)

	_, err = NewKrausNoise(3, []*Matrix{Identity(2)})
	assert.ErrorIs(t, err, ErrDimsMismatchMatrix)

	n, err := NewKrausNoise(3, []*Matrix{Identity(3)})
	require.NoError(t, err)
	assert.Equal(t, 3, n.Dim())
}

func TestAmplitudeDampingFullyDamps(t *testing.T) {
	// gamma = 1 sends |1⟩ to |0⟩ with certainty
	noise := NewAmplitudeDampingNoise(1)
	psi := []complex128{0, 1}
	out, err := noise.Apply(psi, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, noise.LastBranch())
	assert.InDelta(t, 1, cmplx.Abs(out[0]), tol)
	assert.InDelta(t, 0, cmplx.Abs(out[1]), tol)
}
