package quditcirq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIteratorWalk(t *testing.T) {
	qc, _ := New(2, 2, 2, "")
	require.NoError(t, qc.Gate(Hadamard(), 0))
	require.NoError(t, qc.CTRL(PauliX(), []int{0}, []int{1}))
	require.NoError(t, qc.MeasureZ(0, 0))
	require.NoError(t, qc.MeasureZ(1, 1))

	wantTypes := []StepType{StepGate, StepGate, StepMeasurement, StepMeasurement}
	it := qc.Begin()
	for i, want := range wantTypes {
		ref, err := it.Ref()
		require.NoError(t, err)
		assert.Equal(t, want, ref.Type)
		assert.Equal(t, i, ref.IP)
		require.NoError(t, it.Next())
	}
	assert.True(t, it.Done())
	assert.True(t, it.Equal(qc.End()))
}

func TestIteratorPastEnd(t *testing.T) {
	qc, _ := New(1, 0, 2, "")
	require.NoError(t, qc.Gate(Hadamard(), 0))

	it := qc.Begin()
	require.NoError(t, it.Next())

	_, err := it.Ref()
	assert.ErrorIs(t, err, ErrInvalidIterator)
	assert.ErrorIs(t, it.Next(), ErrInvalidIterator)
}

func TestIteratorEmptyCircuit(t *testing.T) {
	qc, _ := New(1, 0, 2, "")
	it := qc.Begin()
	assert.True(t, it.Done())

	_, err := it.Ref()
	assert.ErrorIs(t, err, ErrInvalidIterator)
	assert.ErrorIs(t, it.Next(), ErrInvalidIterator)
}

func TestIteratorNil(t *testing.T) {
	var it Iterator
	assert.True(t, it.Done())
	_, err := it.Ref()
	assert.ErrorIs(t, err, ErrInvalidIterator)
	assert.ErrorIs(t, it.Next(), ErrInvalidIterator)
}

func TestIteratorEquality(t *testing.T) {
	qc, _ := New(2, 1, 2, "")
	require.NoError(t, qc.Gate(Hadamard(), 0))
	require.NoError(t, qc.MeasureZ(0, 0))

	a := qc.Begin()
	b := qc.Begin()
	assert.True(t, a.Equal(b))

	require.NoError(t, a.Next())
	assert.False(t, a.Equal(b))

	require.NoError(t, b.Next())
	assert.True(t, a.Equal(b))

	// iterators of different circuits never compare equal
	qc2, _ := New(2, 1, 2, "")
	require.NoError(t, qc2.Gate(Hadamard(), 0))
	assert.False(t, qc.Begin().Equal(qc2.Begin()))
}
