package quditcirq

import (
	"fmt"
	"strings"
)

// GateType tags the shape of a gate step. The cCTRL variants are
// classically controlled from the dit register; the bare CTRL variants
// are quantum controlled.
type GateType int

const (
	GateNone GateType = iota
	GateSingle
	GateTwo
	GateThree
	GateCustomType
	GateFanType
	GateQFT
	GateTFQ
	GateSingleCtrlSingleTarget
	GateSingleCtrlMultipleTarget
	GateMultipleCtrlSingleTarget
	GateMultipleCtrlMultipleTarget
	GateCustomCtrl
	GateSingleCCtrlSingleTarget
	GateSingleCCtrlMultipleTarget
	GateMultipleCCtrlSingleTarget
	GateMultipleCCtrlMultipleTarget
	GateCustomCCtrl
)

var gateTypeTags = map[GateType]string{
	GateNone:                        "GATE NONE",
	GateSingle:                      "SINGLE",
	GateTwo:                         "TWO",
	GateThree:                       "THREE",
	GateCustomType:                  "CUSTOM",
	GateFanType:                     "FAN",
	GateQFT:                         "QFT",
	GateTFQ:                         "TFQ",
	GateSingleCtrlSingleTarget:      "SINGLE_CTRL_SINGLE_TARGET",
	GateSingleCtrlMultipleTarget:    "SINGLE_CTRL_MULTIPLE_TARGET",
	GateMultipleCtrlSingleTarget:    "MULTIPLE_CTRL_SINGLE_TARGET",
	GateMultipleCtrlMultipleTarget:  "MULTIPLE_CTRL_MULTIPLE_TARGET",
	GateCustomCtrl:                  "CUSTOM_CTRL",
	GateSingleCCtrlSingleTarget:     "SINGLE_cCTRL_SINGLE_TARGET",
	GateSingleCCtrlMultipleTarget:   "SINGLE_cCTRL_MULTIPLE_TARGET",
	GateMultipleCCtrlSingleTarget:   "MULTIPLE_cCTRL_SINGLE_TARGET",
	GateMultipleCCtrlMultipleTarget: "MULTIPLE_cCTRL_MULTIPLE_TARGET",
	GateCustomCCtrl:                 "CUSTOM_cCTRL",
}

func (t GateType) String() string { return gateTypeTags[t] }

// IsQuantumCtrl reports whether the gate carries quantum controls.
func (t GateType) IsQuantumCtrl() bool {
	return t >= GateSingleCtrlSingleTarget && t <= GateCustomCtrl
}

// IsClassicalCtrl reports whether the gate carries classical controls.
func (t GateType) IsClassicalCtrl() bool {
	return t >= GateSingleCCtrlSingleTarget && t <= GateCustomCCtrl
}

// MeasureType tags the kind of a measurement step.
type MeasureType int

const (
	MeasureNone MeasureType = iota
	MeasureZType
	MeasureVType
	MeasureVManyType
)

var measureTypeTags = map[MeasureType]string{
	MeasureNone:      "MEASURE NONE",
	MeasureZType:     "MEASURE_Z",
	MeasureVType:     "MEASURE_V",
	MeasureVManyType: "MEASURE_V_MANY",
}

func (t MeasureType) String() string { return measureTypeTags[t] }

// StepType tags an entry of the circuit timeline.
type StepType int

const (
	StepNone StepType = iota
	StepGate
	StepMeasurement
)

func (t StepType) String() string {
	switch t {
	case StepGate:
		return "GATE"
	case StepMeasurement:
		return "MEASUREMENT"
	default:
		return "NONE"
	}
}

// GateStep is one gate entry of the circuit. Matrices are referenced
// by digest into the circuit's cache.
type GateStep struct {
	Type   GateType
	Hash   uint64
	Ctrl   []int
	Target []int
	Name   string
}

func (g GateStep) String() string {
	var sb strings.Builder
	sb.WriteString(g.Type.String())
	sb.WriteString(", ")
	if g.Type >= GateSingleCtrlSingleTarget {
		fmt.Fprintf(&sb, "ctrl = %s, ", fmtInts(g.Ctrl))
	}
	fmt.Fprintf(&sb, "target = %s, ", fmtInts(g.Target))
	fmt.Fprintf(&sb, "name = %q", g.Name)
	return sb.String()
}

// MeasureStep is one measurement entry of the circuit.
type MeasureStep struct {
	Type   MeasureType
	Hashes []uint64
	Target []int
	CReg   int
	Name   string
}

func (m MeasureStep) String() string {
	return fmt.Sprintf("%s, target = %s, c_reg = %d, name = %q",
		m.Type, fmtInts(m.Target), m.CReg, m.Name)
}

// fmtInts renders an index list as "[0, 1, 2]".
func fmtInts(v []int) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, x := range v {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%d", x)
	}
	sb.WriteByte(']')
	return sb.String()
}
