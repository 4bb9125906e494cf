package quditcirq

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// The writer emits the wire format by hand so the key order and the
// spaced key names ("gate count", "measured positions") stay stable;
// the output is plain JSON and the reader parses it with
// encoding/json.

// ToJSON serializes the circuit. When enclosed is false the outer
// curly brackets are omitted.
func (c *Circuit) ToJSON(enclosed bool) string {
	var sb strings.Builder
	if enclosed {
		sb.WriteByte('{')
	}
	fmt.Fprintf(&sb, "\"nq\" : %d", c.nq)
	fmt.Fprintf(&sb, ", \"nc\" : %d", c.nc)
	fmt.Fprintf(&sb, ", \"d\" : %d", c.d)
	fmt.Fprintf(&sb, ", \"name\" : %q", c.name)

	sb.WriteString(", \"steps\" : [")
	first := true
	for it := c.Begin(); !it.Done(); it.Next() {
		ref, _ := it.Ref()
		if !first {
			sb.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&sb, "{\"step\" : %d, \"type\" : ", ref.IP)
		switch ref.Type {
		case StepGate:
			gs := ref.Gate
			fmt.Fprintf(&sb, "%q, ", gs.Type.String())
			if len(gs.Ctrl) != 0 {
				fmt.Fprintf(&sb, "\"ctrl\" : %s, ", fmtInts(gs.Ctrl))
			}
			fmt.Fprintf(&sb, "\"target\" : %s, ", fmtInts(gs.Target))
			fmt.Fprintf(&sb, "\"name\" : %q}", gs.Name)
		case StepMeasurement:
			ms := ref.Measure
			fmt.Fprintf(&sb, "%q, ", ms.Type.String())
			fmt.Fprintf(&sb, "\"target\" : %s, ", fmtInts(ms.Target))
			fmt.Fprintf(&sb, "\"c_reg\" : %d, ", ms.CReg)
			fmt.Fprintf(&sb, "\"name\" : %q}", ms.Name)
		}
	}
	sb.WriteString("], ")

	fmt.Fprintf(&sb, "\"gate count\" : %d, ", c.GateCount())
	fmt.Fprintf(&sb, "\"measured positions\" : %s, ", fmtInts(c.MeasuredList()))
	fmt.Fprintf(&sb, "\"non-measured positions\" : %s", fmtInts(c.NonMeasured()))

	if enclosed {
		sb.WriteByte('}')
	}
	return sb.String()
}

// ToJSON serializes the engine state.
func (e *Engine) ToJSON(enclosed bool) string {
	var sb strings.Builder
	if enclosed {
		sb.WriteByte('{')
	}
	fmt.Fprintf(&sb, "\"measured\" : %s", fmtInts(e.MeasuredList()))
	fmt.Fprintf(&sb, ", \"dits\" : %s", fmtInts(e.Dits()))
	sb.WriteString(", \"probs\" : [")
	for i, p := range e.probs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatFloat(p, 'g', -1, 64))
	}
	sb.WriteByte(']')
	if enclosed {
		sb.WriteByte('}')
	}
	return sb.String()
}

// ─────────────────────────── reader ───────────────────────────

var gateTypeByTag = func() map[string]GateType {
	out := make(map[string]GateType, len(gateTypeTags))
	for t, tag := range gateTypeTags {
		out[tag] = t
	}
	return out
}()

var measureTypeByTag = func() map[string]MeasureType {
	out := make(map[string]MeasureType, len(measureTypeTags))
	for t, tag := range measureTypeTags {
		out[tag] = t
	}
	return out
}()

type circuitJSON struct {
	NQ    int        `json:"nq"`
	NC    int        `json:"nc"`
	D     int        `json:"d"`
	Name  string     `json:"name"`
	Steps []stepJSON `json:"steps"`
}

type stepJSON struct {
	Step   int    `json:"step"`
	Type   string `json:"type"`
	Ctrl   []int  `json:"ctrl"`
	Target []int  `json:"target"`
	CReg   int    `json:"c_reg"`
	Name   string `json:"name"`
}

// FromJSON rebuilds a circuit from its serialized form. Matrices are
// not stored on the wire; each step's matrix is resolved from its name
// through the catalog (control prefixes are stripped first), so steps
// whose names the catalog does not know fail the parse.
func FromJSON(data string, cat *Catalog) (*Circuit, error) {
	data = strings.TrimSpace(data)
	if !strings.HasPrefix(data, "{") {
		data = "{" + data + "}"
	}
	var cj circuitJSON
	if err := json.Unmarshal([]byte(data), &cj); err != nil {
		return nil, err
	}
	c, err := NewWithCatalog(cj.NQ, cj.NC, cj.D, cj.Name, cat)
	if err != nil {
		return nil, err
	}
	for _, s := range cj.Steps {
		if mt, ok := measureTypeByTag[s.Type]; ok {
			if err := c.rebuildMeasurement(mt, s); err != nil {
				return nil, err
			}
			continue
		}
		gt, ok := gateTypeByTag[s.Type]
		if !ok {
			return nil, fmt.Errorf("step %d: unknown step type %q", s.Step, s.Type)
		}
		if err := c.rebuildGate(gt, s); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// resolveMatrix maps a serialized step name back to its matrix,
// stripping the control prefix for controlled variants.
func (c *Circuit) resolveMatrix(gt GateType, name string) (*Matrix, error) {
	base := name
	switch {
	case gt.IsQuantumCtrl():
		base = strings.TrimPrefix(name, "CTRL-")
	case gt.IsClassicalCtrl():
		base = strings.TrimPrefix(name, "cCTRL-")
	}
	U, ok := c.catalog.Lookup(base)
	if !ok {
		return nil, fmt.Errorf("gate name %q not in catalog: %w", name, ErrOutOfRange)
	}
	return U, nil
}

func (c *Circuit) rebuildGate(gt GateType, s stepJSON) error {
	U, err := c.resolveMatrix(gt, s.Name)
	if err != nil {
		return err
	}
	switch gt {
	case GateSingle, GateTwo, GateThree:
		return c.GateNamed(U, s.Name, s.Target...)
	case GateCustomType:
		return c.GateCustomNamed(U, s.Target, s.Name)
	case GateFanType:
		return c.GateFanNamed(U, s.Name, s.Target...)
	case GateSingleCtrlSingleTarget, GateSingleCtrlMultipleTarget,
		GateMultipleCtrlSingleTarget, GateMultipleCtrlMultipleTarget:
		return c.CTRLNamed(U, s.Ctrl, s.Target, s.Name)
	case GateCustomCtrl:
		return c.CTRLCustomNamed(U, s.Ctrl, s.Target, s.Name)
	case GateSingleCCtrlSingleTarget, GateSingleCCtrlMultipleTarget,
		GateMultipleCCtrlSingleTarget, GateMultipleCCtrlMultipleTarget:
		return c.CCTRLNamed(U, s.Ctrl, s.Target, s.Name)
	case GateCustomCCtrl:
		return c.CCTRLCustomNamed(U, s.Ctrl, s.Target, s.Name)
	}
	return fmt.Errorf("step %d: unsupported gate type %q", s.Step, gt)
}

func (c *Circuit) rebuildMeasurement(mt MeasureType, s stepJSON) error {
	if len(s.Target) == 0 {
		return fmt.Errorf("step %d: measurement without target: %w", s.Step, ErrZeroSize)
	}
	switch mt {
	case MeasureZType:
		return c.MeasureZNamed(s.Target[0], s.CReg, s.Name)
	case MeasureVType, MeasureVManyType:
		V, ok := c.catalog.Lookup(s.Name)
		if !ok {
			return fmt.Errorf("measurement basis %q not in catalog: %w", s.Name, ErrOutOfRange)
		}
		if mt == MeasureVType {
			return c.MeasureVNamed(V, s.Target[0], s.CReg, s.Name)
		}
		return c.MeasureVManyNamed(V, s.Target, s.CReg, s.Name)
	}
	return fmt.Errorf("step %d: unsupported measurement type %q", s.Step, mt)
}
