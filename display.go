package quditcirq

import (
	"fmt"
	"strings"
)

// String renders the circuit one step per line. Each line is prefixed
// by the instruction pointer, left-aligned and padded on the right to
// the width of the step count plus one; measurement lines carry the
// "|> " marker.
func (c *Circuit) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "nq = %d, nc = %d, d = %d, name = %q\n", c.nq, c.nc, c.d, c.name)

	width := len(fmt.Sprint(c.StepCount())) + 1
	for it := c.Begin(); !it.Done(); it.Next() {
		ref, _ := it.Ref()
		fmt.Fprintf(&sb, "%-*d", width, ref.IP)
		switch ref.Type {
		case StepGate:
			sb.WriteString(ref.Gate.String())
		case StepMeasurement:
			sb.WriteString("|> ")
			sb.WriteString(ref.Measure.String())
		}
		sb.WriteByte('\n')
	}

	fmt.Fprintf(&sb, "gate count: %d\n", c.GateCount())
	fmt.Fprintf(&sb, "measured positions: %s\n", fmtInts(c.MeasuredList()))
	fmt.Fprintf(&sb, "non-measured positions: %s", fmtInts(c.NonMeasured()))
	return sb.String()
}

// String renders the engine state: measured set, dits, and outcome
// probabilities.
func (e *Engine) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "measured: %s\n", fmtInts(e.MeasuredList()))
	fmt.Fprintf(&sb, "dits: %s\n", fmtInts(e.Dits()))
	sb.WriteString("probs: [")
	for i, p := range e.probs {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%g", p)
	}
	sb.WriteByte(']')
	return sb.String()
}
