package quditcirq

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToJSONIsValidJSON(t *testing.T) {
	qc := bellCircuit(t)
	out := qc.ToJSON(true)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.EqualValues(t, 2, parsed["nq"])
	assert.EqualValues(t, 2, parsed["nc"])
	assert.EqualValues(t, 2, parsed["d"])
	assert.Equal(t, "bell", parsed["name"])
	assert.Contains(t, parsed, "gate count")
	assert.Contains(t, parsed, "measured positions")
	assert.Contains(t, parsed, "non-measured positions")
	assert.Len(t, parsed["steps"], 4)
}

func TestToJSONUnenclosed(t *testing.T) {
	qc := bellCircuit(t)
	out := qc.ToJSON(false)
	assert.False(t, strings.HasPrefix(out, "{"))
	assert.True(t, strings.HasPrefix(out, "\"nq\""))

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte("{"+out+"}"), &parsed))
}

func TestJSONCtrlFieldOnlyWhenPresent(t *testing.T) {
	qc, _ := New(2, 0, 2, "")
	require.NoError(t, qc.Gate(Hadamard(), 0))
	out := qc.ToJSON(true)
	assert.NotContains(t, out, "\"ctrl\"")

	require.NoError(t, qc.CTRL(PauliX(), []int{0}, []int{1}))
	out = qc.ToJSON(true)
	assert.Contains(t, out, "\"ctrl\" : [0]")
}

func TestJSONRoundTrip(t *testing.T) {
	qc, _ := New(3, 2, 2, "rt")
	require.NoError(t, qc.Gate(Hadamard(), 0))
	require.NoError(t, qc.CTRL(PauliX(), []int{0}, []int{1}))
	require.NoError(t, qc.CCTRL(PauliZ(), []int{0}, []int{2}))
	require.NoError(t, qc.GateFan(Hadamard(), 1, 2))
	require.NoError(t, qc.GateCustom(SWAP(2), []int{0, 1}))
	require.NoError(t, qc.MeasureZ(0, 0))
	require.NoError(t, qc.MeasureV(Hadamard(), 1, 1))

	got, err := FromJSON(qc.ToJSON(true), StandardCatalog(2))
	require.NoError(t, err)

	assert.Equal(t, qc.NQ(), got.NQ())
	assert.Equal(t, qc.NC(), got.NC())
	assert.Equal(t, qc.D(), got.D())
	assert.Equal(t, qc.Name(), got.Name())
	assert.Equal(t, qc.StepCount(), got.StepCount())
	assert.Equal(t, qc.GateCount(), got.GateCount())
	assert.Equal(t, qc.MeasurementCount(), got.MeasurementCount())
	assert.Equal(t, qc.MeasuredList(), got.MeasuredList())
	assert.Equal(t, qc.NonMeasured(), got.NonMeasured())

	// the serialized forms must agree step for step
	assert.Equal(t, qc.ToJSON(true), got.ToJSON(true))
}

func TestJSONRoundTripQutrit(t *testing.T) {
	d := 3
	qc, _ := New(2, 1, d, "qutrit")
	require.NoError(t, qc.Gate(Fourier(d), 0))
	require.NoError(t, qc.CTRL(ShiftX(d), []int{0}, []int{1}))
	require.NoError(t, qc.MeasureZ(1, 0))

	got, err := FromJSON(qc.ToJSON(true), StandardCatalog(d))
	require.NoError(t, err)
	assert.Equal(t, qc.ToJSON(true), got.ToJSON(true))
	assert.Equal(t, 1, got.GateCountName("CTRL-Xd"))
}

func TestFromJSONUnknownName(t *testing.T) {
	qc, _ := New(1, 0, 2, "")
	require.NoError(t, qc.GateNamed(RX(0.7), "mystery", 0))

	_, err := FromJSON(qc.ToJSON(true), StandardCatalog(2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mystery")
}

func TestEngineJSON(t *testing.T) {
	qc := bellCircuit(t)
	Seed(2)
	eng := NewEngine(qc)
	require.NoError(t, eng.Run())

	out := eng.ToJSON(true)
	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Contains(t, parsed, "measured")
	assert.Contains(t, parsed, "dits")
	assert.Contains(t, parsed, "probs")
	assert.Len(t, parsed["measured"], 2)
	assert.Len(t, parsed["dits"], 2)
	assert.Len(t, parsed["probs"], 2)
}

func TestCircuitDisplay(t *testing.T) {
	qc := bellCircuit(t)
	out := qc.String()
	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 8)

	assert.Equal(t, `nq = 2, nc = 2, d = 2, name = "bell"`, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0"))
	assert.Contains(t, lines[1], `SINGLE, target = [0], name = "H"`)
	assert.Contains(t, lines[2], `ctrl = [0], target = [1], name = "CTRL-X"`)
	assert.Contains(t, lines[3], "|> MEASURE_Z")
	assert.Contains(t, lines[3], "c_reg = 0")
	assert.Equal(t, "gate count: 2", lines[5])
	assert.Equal(t, "measured positions: [0, 1]", lines[6])
	assert.Equal(t, "non-measured positions: []", lines[7])
}

func TestEngineDisplay(t *testing.T) {
	qc := bellCircuit(t)
	Seed(2)
	eng := NewEngine(qc)
	require.NoError(t, eng.Run())

	out := eng.String()
	assert.Contains(t, out, "measured: [0, 1]")
	assert.Contains(t, out, "dits: [")
	assert.Contains(t, out, "probs: [")
}
