// Package quditcirq builds, stores, and simulates quantum circuits over
// d-level systems (qudits).
//
// A Circuit is a validated, append-only sequence of gate and measurement
// steps over nq qudits and nc classical dits. Steps reference their
// matrices through a content-addressed cache, so structurally identical
// gates share storage. An Engine walks the circuit step by step with a
// dense state vector, sampling measurement outcomes and collapsing the
// state; a NoisyEngine additionally applies an uncorrelated noise
// channel to every non-measured qudit before each step.
//
//	qc, _ := quditcirq.New(2, 2, 2, "bell")
//	qc.Gate(quditcirq.Hadamard(), 0)
//	qc.CTRL(quditcirq.PauliX(), []int{0}, []int{1})
//	qc.MeasureZ(0, 0)
//	qc.MeasureZ(1, 1)
//
//	eng := quditcirq.NewEngine(qc)
//	eng.Run()
//
// Circuits bound to an engine must not be mutated while the engine is
// live. All operations are synchronous; the package has no internal
// concurrency.
package quditcirq
