package quditcirq

// StepRef is the dereferenced value of an iterator: the timeline
// position plus a pointer to the gate or measurement entry it tags.
type StepRef struct {
	Circuit *Circuit
	Type    StepType
	IP      int
	Gate    *GateStep    // non-nil when Type is StepGate
	Measure *MeasureStep // non-nil when Type is StepMeasurement
}

// Iterator is a forward-only cursor over the circuit timeline. The
// gate and measurement sub-cursors advance jointly with the
// instruction pointer; there is no random access, because engine state
// evolves in place and cannot replay out of order.
type Iterator struct {
	circ *Circuit
	typ  StepType
	ip   int
	gi   int // gate sub-cursor
	mi   int // measurement sub-cursor
}

// Begin returns an iterator at the first step. On an empty circuit the
// iterator starts at the end.
func (c *Circuit) Begin() Iterator {
	it := Iterator{circ: c}
	if c.StepCount() == 0 {
		it.typ = StepNone
	} else {
		it.typ = c.stepTypes[0]
	}
	return it
}

// End returns the past-the-end iterator.
func (c *Circuit) End() Iterator {
	return Iterator{
		circ: c,
		typ:  StepNone,
		ip:   c.StepCount(),
		gi:   len(c.gates),
		mi:   len(c.measurements),
	}
}

// Done reports whether the iterator is past the last step.
func (it Iterator) Done() bool {
	return it.circ == nil || it.ip >= it.circ.StepCount()
}

// Next advances to the following step. Advancing a nil or past-the-end
// iterator is an ErrInvalidIterator.
func (it *Iterator) Next() error {
	if it.circ == nil || it.circ.StepCount() == 0 || it.ip == it.circ.StepCount() {
		return ErrInvalidIterator
	}
	switch it.typ {
	case StepGate:
		it.gi++
	case StepMeasurement:
		it.mi++
	}
	it.ip++
	if it.ip == it.circ.StepCount() {
		it.typ = StepNone
	} else {
		it.typ = it.circ.stepTypes[it.ip]
	}
	return nil
}

// Ref dereferences the iterator. Dereferencing a nil or past-the-end
// iterator is an ErrInvalidIterator.
func (it Iterator) Ref() (StepRef, error) {
	if it.circ == nil || it.ip >= it.circ.StepCount() {
		return StepRef{}, ErrInvalidIterator
	}
	ref := StepRef{Circuit: it.circ, Type: it.typ, IP: it.ip}
	switch it.typ {
	case StepGate:
		ref.Gate = &it.circ.gates[it.gi]
	case StepMeasurement:
		ref.Measure = &it.circ.measurements[it.mi]
	}
	return ref, nil
}

// Equal reports whether two iterators point at the same position:
// type, instruction pointer, and both sub-cursors must all match.
func (it Iterator) Equal(other Iterator) bool {
	return it.circ == other.circ &&
		it.typ == other.typ &&
		it.ip == other.ip &&
		it.gi == other.gi &&
		it.mi == other.mi
}
