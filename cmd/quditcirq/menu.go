package main

import "quditcirq"

// menuItem is a single gate or measurement choice in the picker.
type menuItem struct {
	name        string
	symbol      string
	needsTarget bool // a second qudit beyond the cursor
	needsParam  bool // a rotation angle (d = 2 only)
	paramHint   string
	build       func(m *Model, params []float64) error
}

// menuCategory groups related items under a tab.
type menuCategory struct {
	name  string
	items []menuItem
}

// buildGateMenu assembles the picker for the circuit's dimension. The
// qubit tab only appears for d = 2; the shift/clock/Fourier family
// covers every d.
func buildGateMenu(d int) []menuCategory {
	var cats []menuCategory

	if d == 2 {
		cats = append(cats, menuCategory{
			name: "Single Qubit",
			items: []menuItem{
				{name: "Hadamard", symbol: "H", build: func(m *Model, _ []float64) error {
					return m.circ.Gate(quditcirq.Hadamard(), m.cursorQudit)
				}},
				{name: "Pauli-X (NOT)", symbol: "X", build: func(m *Model, _ []float64) error {
					return m.circ.Gate(quditcirq.PauliX(), m.cursorQudit)
				}},
				{name: "Pauli-Y", symbol: "Y", build: func(m *Model, _ []float64) error {
					return m.circ.Gate(quditcirq.PauliY(), m.cursorQudit)
				}},
				{name: "Pauli-Z", symbol: "Z", build: func(m *Model, _ []float64) error {
					return m.circ.Gate(quditcirq.PauliZ(), m.cursorQudit)
				}},
				{name: "Phase (S)", symbol: "S", build: func(m *Model, _ []float64) error {
					return m.circ.Gate(quditcirq.SGate(), m.cursorQudit)
				}},
				{name: "T Gate", symbol: "T", build: func(m *Model, _ []float64) error {
					return m.circ.Gate(quditcirq.TGate(), m.cursorQudit)
				}},
			},
		})
		cats = append(cats, menuCategory{
			name: "Rotation",
			items: []menuItem{
				{name: "Rotate X", symbol: "RX", needsParam: true, paramHint: "pi/2",
					build: func(m *Model, p []float64) error {
						return m.circ.GateNamed(quditcirq.RX(p[0]), "RX", m.cursorQudit)
					}},
				{name: "Rotate Y", symbol: "RY", needsParam: true, paramHint: "pi/2",
					build: func(m *Model, p []float64) error {
						return m.circ.GateNamed(quditcirq.RY(p[0]), "RY", m.cursorQudit)
					}},
				{name: "Rotate Z", symbol: "RZ", needsParam: true, paramHint: "pi/2",
					build: func(m *Model, p []float64) error {
						return m.circ.GateNamed(quditcirq.RZ(p[0]), "RZ", m.cursorQudit)
					}},
			},
		})
	} else {
		cats = append(cats, menuCategory{
			name: "Single Qudit",
			items: []menuItem{
				{name: "Fourier", symbol: "Fd", build: func(m *Model, _ []float64) error {
					return m.circ.Gate(quditcirq.Fourier(d), m.cursorQudit)
				}},
				{name: "Shift (Xd)", symbol: "Xd", build: func(m *Model, _ []float64) error {
					return m.circ.Gate(quditcirq.ShiftX(d), m.cursorQudit)
				}},
				{name: "Clock (Zd)", symbol: "Zd", build: func(m *Model, _ []float64) error {
					return m.circ.Gate(quditcirq.ClockZ(d), m.cursorQudit)
				}},
			},
		})
	}

	ctrlGate := func(d int) *quditcirq.Matrix {
		if d == 2 {
			return quditcirq.PauliX()
		}
		return quditcirq.ShiftX(d)
	}
	cats = append(cats, menuCategory{
		name: "Multi Qudit",
		items: []menuItem{
			{name: "Controlled shift", symbol: "●─⊕", needsTarget: true,
				build: func(m *Model, _ []float64) error {
					return m.circ.CTRL(ctrlGate(d), []int{m.cursorQudit}, []int{m.targetQudit})
				}},
			{name: "SWAP", symbol: "×─×", needsTarget: true,
				build: func(m *Model, _ []float64) error {
					return m.circ.GateCustom(quditcirq.SWAP(d), []int{m.cursorQudit, m.targetQudit})
				}},
			{name: "Classical ctrl shift", symbol: "c─⊕", needsTarget: false,
				build: func(m *Model, _ []float64) error {
					// controlled from dit 0
					return m.circ.CCTRL(ctrlGate(d), []int{0}, []int{m.cursorQudit})
				}},
			{name: "Fan Fourier (all)", symbol: "F*",
				build: func(m *Model, _ []float64) error {
					return m.circ.GateFan(quditcirq.Fourier(d))
				}},
		},
	})

	cats = append(cats, menuCategory{
		name: "Measurement",
		items: []menuItem{
			{name: "Measure Z", symbol: "M", build: func(m *Model, _ []float64) error {
				return m.circ.MeasureZ(m.cursorQudit, m.nextCReg())
			}},
			{name: "Measure Fourier", symbol: "M(F)", build: func(m *Model, _ []float64) error {
				return m.circ.MeasureV(quditcirq.Fourier(d), m.cursorQudit, m.nextCReg())
			}},
		},
	})

	return cats
}
