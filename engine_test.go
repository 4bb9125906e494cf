package quditcirq

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-10

func bellCircuit(t *testing.T) *Circuit {
	t.Helper()
	qc, err := New(2, 2, 2, "bell")
	require.NoError(t, err)
	require.NoError(t, qc.Gate(Hadamard(), 0))
	require.NoError(t, qc.CTRL(PauliX(), []int{0}, []int{1}))
	require.NoError(t, qc.MeasureZ(0, 0))
	require.NoError(t, qc.MeasureZ(1, 1))
	return qc
}

func TestBellPreparationAndMeasurement(t *testing.T) {
	qc := bellCircuit(t)
	seen := map[int]bool{}
	for trial := 0; trial < 40; trial++ {
		Seed(int64(trial))
		eng := NewEngine(qc)
		require.NoError(t, eng.Run())

		dits := eng.Dits()
		probs := eng.Probs()
		assert.Contains(t, []int{0, 1}, dits[0])
		assert.Equal(t, dits[0], dits[1], "outcomes must be perfectly correlated")
		assert.InDelta(t, 0.5, probs[0], tol)
		assert.InDelta(t, 1.0, probs[1], tol)
		assert.Len(t, eng.Psi(), 1) // both qudits measured out
		seen[dits[0]] = true
	}
	// over 40 seeds both branches must show up
	assert.True(t, seen[0] && seen[1])
}

func TestBellIntermediateState(t *testing.T) {
	qc, _ := New(2, 0, 2, "")
	require.NoError(t, qc.Gate(Hadamard(), 0))
	require.NoError(t, qc.CTRL(PauliX(), []int{0}, []int{1}))

	eng := NewEngine(qc)
	require.NoError(t, eng.Run())

	psi := eng.Psi()
	require.Len(t, psi, 4)
	inv := 1 / math.Sqrt2
	assert.InDelta(t, inv, real(psi[0]), tol)
	assert.InDelta(t, 0, cmplx.Abs(psi[1]), tol)
	assert.InDelta(t, 0, cmplx.Abs(psi[2]), tol)
	assert.InDelta(t, inv, real(psi[3]), tol)
}

func TestClassicalControlledX(t *testing.T) {
	qc, _ := New(1, 1, 2, "")
	require.NoError(t, qc.CCTRL(PauliX(), []int{0}, []int{0}))

	// dit = 1 → X fires
	eng := NewEngine(qc)
	require.NoError(t, eng.SetDit(0, 1))
	require.NoError(t, eng.Run())
	psi := eng.Psi()
	assert.InDelta(t, 0, cmplx.Abs(psi[0]), tol)
	assert.InDelta(t, 1, cmplx.Abs(psi[1]), tol)

	// dit = 0 → identity
	eng = NewEngine(qc)
	require.NoError(t, eng.SetDit(0, 0))
	require.NoError(t, eng.Run())
	psi = eng.Psi()
	assert.InDelta(t, 1, cmplx.Abs(psi[0]), tol)
	assert.InDelta(t, 0, cmplx.Abs(psi[1]), tol)
}

func TestClassicalControlPowers(t *testing.T) {
	// qutrit shift gate raised to the common dit value
	d := 3
	qc, _ := New(1, 1, d, "")
	require.NoError(t, qc.CCTRL(ShiftX(d), []int{0}, []int{0}))

	for v := 0; v < d; v++ {
		eng := NewEngine(qc)
		require.NoError(t, eng.SetDit(0, v))
		require.NoError(t, eng.Run())
		psi := eng.Psi()
		for j := 0; j < d; j++ {
			want := 0.0
			if j == v%d {
				want = 1.0
			}
			assert.InDelta(t, want, cmplx.Abs(psi[j]), tol, "v=%d j=%d", v, j)
		}
	}
}

func TestClassicalControlDisagreeingDits(t *testing.T) {
	qc, _ := New(1, 2, 2, "")
	require.NoError(t, qc.CCTRL(PauliX(), []int{0, 1}, []int{0}))

	eng := NewEngine(qc)
	require.NoError(t, eng.SetDit(0, 0))
	require.NoError(t, eng.SetDit(1, 1))
	require.NoError(t, eng.Run())

	// controls disagree → no-op
	psi := eng.Psi()
	assert.InDelta(t, 1, cmplx.Abs(psi[0]), tol)
}

func TestFanHadamardAll(t *testing.T) {
	qc, _ := New(3, 0, 2, "")
	require.NoError(t, qc.GateFan(Hadamard()))
	assert.Equal(t, 3, qc.GateCountName("H"))
	assert.Equal(t, 1, qc.StepCount())

	eng := NewEngine(qc)
	require.NoError(t, eng.Run())
	psi := eng.Psi()
	want := 1 / math.Sqrt(8)
	for i, a := range psi {
		assert.InDelta(t, want, real(a), tol, "amplitude %d", i)
		assert.InDelta(t, 0, imag(a), tol)
	}
}

func TestQutritFourierJointMeasurement(t *testing.T) {
	d := 3
	qc, _ := New(2, 1, d, "")
	V := Fourier(d).Kron(Fourier(d))
	require.NoError(t, qc.MeasureVMany(V, []int{0, 1}, 0))

	Seed(7)
	eng := NewEngine(qc)
	require.NoError(t, eng.Run())

	probs := eng.Probs()
	dits := eng.Dits()
	assert.InDelta(t, 1.0/9.0, probs[0], tol)
	assert.GreaterOrEqual(t, dits[0], 0)
	assert.Less(t, dits[0], 9)
	assert.Equal(t, []int{0, 1}, eng.MeasuredList())
	assert.Len(t, eng.Psi(), 1)
}

func TestMeasureVCollapse(t *testing.T) {
	// measuring |0⟩ in the Hadamard basis leaves either |+⟩ or |−⟩
	qc, _ := New(2, 1, 2, "")
	require.NoError(t, qc.MeasureV(Hadamard(), 0, 0))

	Seed(3)
	eng := NewEngine(qc)
	require.NoError(t, eng.Run())

	assert.InDelta(t, 0.5, eng.Probs()[0], tol)
	assert.Equal(t, []int{0}, eng.MeasuredList())
	assert.Len(t, eng.Psi(), 2)
	assert.InDelta(t, 1, norm(eng.Psi()), tol)
}

func TestEngineShapeInvariant(t *testing.T) {
	qc, _ := New(3, 3, 2, "")
	require.NoError(t, qc.GateFan(Hadamard()))
	require.NoError(t, qc.MeasureZ(1, 0))
	require.NoError(t, qc.Gate(PauliX(), 0))
	require.NoError(t, qc.MeasureZ(2, 1))
	require.NoError(t, qc.MeasureZ(0, 2))

	wantDims := []int{8, 4, 4, 2, 1}
	eng := NewEngine(qc)
	i := 0
	for it := qc.Begin(); !it.Done(); it.Next() {
		require.NoError(t, eng.ExecuteIterator(it))
		assert.Len(t, eng.Psi(), wantDims[i])
		assert.InDelta(t, 1, norm(eng.Psi()), tol)
		i++
	}
}

func TestRelativeRemapAfterMeasurement(t *testing.T) {
	// measure the middle qudit, then gate the outer ones: their
	// relative positions must have shifted down
	qc, _ := New(3, 1, 2, "")
	require.NoError(t, qc.Gate(PauliX(), 2))
	require.NoError(t, qc.MeasureZ(1, 0))
	require.NoError(t, qc.Gate(PauliX(), 2)) // undoes the first X
	require.NoError(t, qc.Gate(PauliX(), 0))

	eng := NewEngine(qc)
	require.NoError(t, eng.Run())

	assert.Equal(t, []int{1}, eng.MeasuredList())
	assert.Equal(t, []int{0, 2}, eng.NonMeasured())

	// state over (q0, q2) should be |1,0⟩ → index 2 of 4
	psi := eng.Psi()
	require.Len(t, psi, 4)
	assert.InDelta(t, 1, cmplx.Abs(psi[2]), tol)
}

func TestDeterministicGatePath(t *testing.T) {
	qc, _ := New(3, 0, 2, "")
	require.NoError(t, qc.GateFan(Hadamard()))
	require.NoError(t, qc.CTRL(PauliX(), []int{0}, []int{2}))
	require.NoError(t, qc.Gate(TGate(), 1))

	run := func() []complex128 {
		eng := NewEngine(qc)
		require.NoError(t, eng.Run())
		return eng.Psi()
	}
	assert.Equal(t, run(), run(), "no measurements → bitwise deterministic")
}

func TestResetIdempotent(t *testing.T) {
	qc := bellCircuit(t)
	eng := NewEngine(qc)
	require.NoError(t, eng.Run())

	eng.Reset()
	once := append([]complex128(nil), eng.Psi()...)
	onceDits := eng.Dits()
	eng.Reset()
	assert.Equal(t, once, eng.Psi())
	assert.Equal(t, onceDits, eng.Dits())
	assert.Equal(t, []int{0, 1}, eng.NonMeasured())
	assert.InDelta(t, 1, cmplx.Abs(eng.Psi()[0]), tol)

	// the circuit is still bound and runnable
	require.NoError(t, eng.Run())
	assert.Len(t, eng.Psi(), 1)
}

func TestEngineRejectsForeignStep(t *testing.T) {
	qc1 := bellCircuit(t)
	qc2 := bellCircuit(t)

	eng := NewEngine(qc1)
	err := eng.ExecuteIterator(qc2.Begin())
	assert.ErrorIs(t, err, ErrInvalidIterator)
}

func TestSetDitBounds(t *testing.T) {
	qc, _ := New(1, 1, 2, "")
	eng := NewEngine(qc)
	assert.ErrorIs(t, eng.SetDit(1, 0), ErrOutOfRange)
	require.NoError(t, eng.SetDit(0, 1))
	v, err := eng.Dit(0)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	_, err = eng.Dit(5)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestCTRLMultipleTargetsFans(t *testing.T) {
	// |1,0,0⟩ with CTRL(X) on targets {1,2}: control is 1 so X fires
	// on both targets
	qc, _ := New(3, 0, 2, "")
	require.NoError(t, qc.Gate(PauliX(), 0))
	require.NoError(t, qc.CTRL(PauliX(), []int{0}, []int{1, 2}))

	eng := NewEngine(qc)
	require.NoError(t, eng.Run())
	psi := eng.Psi()
	assert.InDelta(t, 1, cmplx.Abs(psi[7]), tol) // |1,1,1⟩
}

func TestCustomGateJoint(t *testing.T) {
	// SWAP as a custom two-qudit gate
	qc, _ := New(2, 0, 2, "")
	require.NoError(t, qc.Gate(PauliX(), 0))
	require.NoError(t, qc.GateCustom(SWAP(2), []int{0, 1}))

	eng := NewEngine(qc)
	require.NoError(t, eng.Run())
	psi := eng.Psi()
	assert.InDelta(t, 1, cmplx.Abs(psi[1]), tol) // |0,1⟩
}

func TestQutritShiftGate(t *testing.T) {
	d := 3
	qc, _ := New(2, 0, d, "")
	require.NoError(t, qc.Gate(ShiftX(d), 1))
	require.NoError(t, qc.Gate(ShiftX(d), 1))

	eng := NewEngine(qc)
	require.NoError(t, eng.Run())
	psi := eng.Psi()
	assert.InDelta(t, 1, cmplx.Abs(psi[2]), tol) // |0,2⟩
}
