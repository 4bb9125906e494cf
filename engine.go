package quditcirq

// measuredPos marks a measured qudit in the subsystem relabeling
// table.
const measuredPos = -1

// Engine executes a circuit on a dense state vector starting from
// |0⟩^⊗nq. Measurements contract the vector, so the engine keeps a
// relabeling table mapping each original qudit index to its relative
// position within the shrunken state.
type Engine struct {
	circ   *Circuit
	psi    []complex128
	dits   []int
	probs  []float64
	subsys []int
}

// NewEngine binds an engine to a circuit. The circuit must outlive the
// engine and must not be mutated while bound.
func NewEngine(c *Circuit) *Engine {
	e := &Engine{circ: c}
	e.Reset()
	return e
}

// Reset restores the initial condition: psi = |0⟩^⊗nq, all dits and
// probabilities zero, identity relabeling. The bound circuit is kept.
func (e *Engine) Reset() {
	e.psi = make([]complex128, ipow(e.circ.d, e.circ.nq))
	e.psi[0] = 1
	e.dits = make([]int, e.circ.nc)
	e.probs = make([]float64, e.circ.nc)
	e.subsys = make([]int, e.circ.nq)
	for i := range e.subsys {
		e.subsys[i] = i
	}
}

// ─────────────────────────── getters ───────────────────────────

// Psi returns a copy of the current state vector.
func (e *Engine) Psi() []complex128 {
	out := make([]complex128, len(e.psi))
	copy(out, e.psi)
	return out
}

// Dits returns a copy of the classical dit vector.
func (e *Engine) Dits() []int {
	out := make([]int, len(e.dits))
	copy(out, e.dits)
	return out
}

// Dit returns the value of classical dit i.
func (e *Engine) Dit(i int) (int, error) {
	if i >= e.circ.nc || i < 0 {
		return 0, ErrOutOfRange
	}
	return e.dits[i], nil
}

// Probs returns a copy of the outcome-probability vector. Entries are
// conditional on the outcomes of earlier measurements: measuring both
// halves of (|00⟩+|11⟩)/√2 yields [0.5, 1].
func (e *Engine) Probs() []float64 {
	out := make([]float64, len(e.probs))
	copy(out, e.probs)
	return out
}

// Measured reports whether qudit i has been measured during
// execution.
func (e *Engine) Measured(i int) bool { return e.subsys[i] == measuredPos }

// MeasuredList returns the measured qudit indexes, ascending.
func (e *Engine) MeasuredList() []int {
	var out []int
	for i := range e.subsys {
		if e.subsys[i] == measuredPos {
			out = append(out, i)
		}
	}
	return out
}

// NonMeasured returns the non-measured qudit indexes, ascending.
func (e *Engine) NonMeasured() []int {
	var out []int
	for i := range e.subsys {
		if e.subsys[i] != measuredPos {
			out = append(out, i)
		}
	}
	return out
}

// Circuit returns the bound circuit.
func (e *Engine) Circuit() *Circuit { return e.circ }

// SetDit assigns classical dit i.
func (e *Engine) SetDit(i, value int) error {
	if i >= e.circ.nc || i < 0 {
		return ErrOutOfRange
	}
	e.dits[i] = value
	return nil
}

// ─────────────────────── relabeling helpers ───────────────────────

// setMeasured marks qudit i measured and shifts the relative position
// of every live qudit above it down by one. The loop starts past i so
// the freshly written sentinel is never decremented.
func (e *Engine) setMeasured(i int) error {
	if e.subsys[i] == measuredPos {
		return ErrQuditAlreadyMeasured
	}
	e.subsys[i] = measuredPos
	for m := i + 1; m < e.circ.nq; m++ {
		if e.subsys[m] != measuredPos {
			e.subsys[m]--
		}
	}
	return nil
}

// relativePos maps original qudit indexes to their positions within
// the current state vector, failing on any already-measured index.
func (e *Engine) relativePos(v []int) ([]int, error) {
	out := make([]int, len(v))
	for i, q := range v {
		if e.subsys[q] == measuredPos {
			return nil, ErrQuditAlreadyMeasured
		}
		out[i] = e.subsys[q]
	}
	return out, nil
}

// ───────────────────────── execution ─────────────────────────

// Execute advances the engine by one step. The step must belong to the
// bound circuit.
func (e *Engine) Execute(ref StepRef) error {
	if ref.Circuit != e.circ {
		return ErrInvalidIterator
	}
	switch ref.Type {
	case StepGate:
		return e.executeGate(ref.Gate)
	case StepMeasurement:
		return e.executeMeasure(ref.Measure)
	}
	return nil
}

// ExecuteIterator dereferences the iterator and executes its step.
func (e *Engine) ExecuteIterator(it Iterator) error {
	ref, err := it.Ref()
	if err != nil {
		return err
	}
	return e.Execute(ref)
}

// Run executes every step of the bound circuit in order.
func (e *Engine) Run() error {
	for it := e.circ.Begin(); !it.Done(); {
		if err := e.ExecuteIterator(it); err != nil {
			return err
		}
		if err := it.Next(); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) executeGate(gs *GateStep) error {
	if gs.Type == GateNone {
		return nil
	}
	if gs.Type == GateQFT || gs.Type == GateTFQ {
		return ErrNotImplemented
	}
	if gs.Type == GateFanType && len(gs.Target) == 0 {
		return nil
	}
	targetRel, err := e.relativePos(gs.Target)
	if err != nil {
		return err
	}
	U, ok := e.circ.cache.Get(gs.Hash)
	if !ok {
		// the builder inserts every digest it emits
		panic("quditcirq: gate matrix missing from cache")
	}
	d := e.circ.d

	switch {
	case gs.Type == GateSingle || gs.Type == GateTwo || gs.Type == GateThree || gs.Type == GateCustomType:
		e.psi = apply(e.psi, U, targetRel, d)
	case gs.Type == GateFanType:
		for _, t := range targetRel {
			e.psi = apply(e.psi, U, []int{t}, d)
		}
	case gs.Type.IsQuantumCtrl():
		ctrlRel, err := e.relativePos(gs.Ctrl)
		if err != nil {
			return err
		}
		e.psi = applyCTRL(e.psi, U, ctrlRel, targetRel, d)
	case gs.Type.IsClassicalCtrl():
		if len(e.dits) == 0 {
			e.psi = apply(e.psi, U, targetRel, d)
			return nil
		}
		first := e.dits[gs.Ctrl[0]]
		for _, cd := range gs.Ctrl[1:] {
			if e.dits[cd] != first {
				return nil
			}
		}
		e.psi = apply(e.psi, U.Pow(first), targetRel, d)
	}
	return nil
}

func (e *Engine) executeMeasure(ms *MeasureStep) error {
	if ms.Type == MeasureNone {
		return nil
	}
	targetRel, err := e.relativePos(ms.Target)
	if err != nil {
		return err
	}
	d := e.circ.d

	switch ms.Type {
	case MeasureZType:
		outcomes, prob, psi := measureSeq(e.psi, targetRel, d)
		e.psi = psi
		e.dits[ms.CReg] = outcomes[0]
		e.probs[ms.CReg] = prob
		return e.setMeasured(ms.Target[0])
	case MeasureVType, MeasureVManyType:
		V, ok := e.circ.cache.Get(ms.Hashes[0])
		if !ok {
			panic("quditcirq: measurement matrix missing from cache")
		}
		m, probs, states := measureBasis(e.psi, V, targetRel, d)
		e.psi = states[m]
		e.dits[ms.CReg] = m
		e.probs[ms.CReg] = probs[m]
		if ms.Type == MeasureVType {
			return e.setMeasured(ms.Target[0])
		}
		for _, t := range ms.Target {
			if err := e.setMeasured(t); err != nil {
				return err
			}
		}
	}
	return nil
}
