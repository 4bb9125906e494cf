package quditcirq

import (
	"math"
	"math/cmplx"
	"math/rand"
)

// The linear-algebra kernels below treat the state vector as a tensor
// of n qudits with qudit 0 occupying the most significant digit of the
// basis-state index, matching the circuit's wire ordering.

// rng is the process-wide generator used for measurement outcome and
// noise branch sampling. The engine never seeds it; hosts that need
// reproducibility call Seed before executing.
var rng = rand.New(rand.NewSource(1))

// Seed re-seeds the process-wide generator.
func Seed(seed int64) { rng = rand.New(rand.NewSource(seed)) }

// ipow returns d^k for small non-negative k.
func ipow(d, k int) int {
	out := 1
	for i := 0; i < k; i++ {
		out *= d
	}
	return out
}

// numQudits returns n with d^n = dim.
func numQudits(dim, d int) int {
	n := 0
	for p := 1; p < dim; p *= d {
		n++
	}
	return n
}

// strides returns the index stride of each qudit position.
func strides(n, d int) []int {
	s := make([]int, n)
	acc := 1
	for q := n - 1; q >= 0; q-- {
		s[q] = acc
		acc *= d
	}
	return s
}

// norm returns the L2 norm of psi.
func norm(psi []complex128) float64 {
	acc := 0.0
	for _, a := range psi {
		acc += real(a)*real(a) + imag(a)*imag(a)
	}
	return math.Sqrt(acc)
}

// sampleOutcome draws an index from the probability vector using the
// process-wide generator.
func sampleOutcome(probs []float64) int {
	r := rng.Float64()
	acc := 0.0
	for i, p := range probs {
		acc += p
		if r < acc {
			return i
		}
	}
	return len(probs) - 1
}

// apply returns U acting jointly on the target qudits of psi. A d×d
// matrix with multiple targets is fanned, acting as U on each target.
func apply(psi []complex128, U *Matrix, target []int, d int) []complex128 {
	if len(target) == 0 {
		out := make([]complex128, len(psi))
		copy(out, psi)
		return out
	}
	if U.Rows == d && len(target) > 1 {
		out := psi
		for _, t := range target {
			out = applyJoint(out, U, []int{t}, d)
		}
		return out
	}
	return applyJoint(psi, U, target, d)
}

// applyJoint is the dense k-qudit gate kernel: for every basis index,
// the target digits select a row of U and the remaining digits are
// held fixed.
func applyJoint(psi []complex128, U *Matrix, target []int, d int) []complex128 {
	n := numQudits(len(psi), d)
	st := strides(n, d)
	k := len(target)
	dk := U.Rows
	out := make([]complex128, len(psi))
	for i := range psi {
		r := 0
		base := i
		for _, q := range target {
			dig := (i / st[q]) % d
			r = r*d + dig
			base -= dig * st[q]
		}
		row := U.Data[r*dk : (r+1)*dk]
		for c, u := range row {
			if u == 0 {
				continue
			}
			j := base
			cc := c
			for t := k - 1; t >= 0; t-- {
				j += (cc % d) * st[target[t]]
				cc /= d
			}
			out[i] += u * psi[j]
		}
	}
	return out
}

// applyCTRL applies the quantum-controlled gate: whenever every
// control digit holds the same value v, U^v acts on the targets;
// otherwise the amplitude passes through unchanged. v = 1 recovers the
// plain controlled gate; for qubits this is the usual fire-on-one.
func applyCTRL(psi []complex128, U *Matrix, ctrl, target []int, d int) []complex128 {
	n := numQudits(len(psi), d)
	st := strides(n, d)
	k := len(target)

	// pre-compute the joint operator for every control value
	ops := make([]*Matrix, d)
	for v := 0; v < d; v++ {
		p := U.Pow(v)
		if U.Rows == d && k > 1 {
			joint := p
			for t := 1; t < k; t++ {
				joint = joint.Kron(p)
			}
			p = joint
		}
		ops[v] = p
	}
	dk := ops[0].Rows

	out := make([]complex128, len(psi))
	for i := range psi {
		v := (i / st[ctrl[0]]) % d
		equal := true
		for _, q := range ctrl[1:] {
			if (i/st[q])%d != v {
				equal = false
				break
			}
		}
		if !equal {
			out[i] = psi[i]
			continue
		}
		r := 0
		base := i
		for _, q := range target {
			dig := (i / st[q]) % d
			r = r*d + dig
			base -= dig * st[q]
		}
		row := ops[v].Data[r*dk : (r+1)*dk]
		for c, u := range row {
			if u == 0 {
				continue
			}
			j := base
			cc := c
			for t := k - 1; t >= 0; t-- {
				j += (cc % d) * st[target[t]]
				cc /= d
			}
			out[i] += u * psi[j]
		}
	}
	return out
}

// marginal returns the outcome distribution of qudit q in the
// computational basis.
func marginal(psi []complex128, q, d int) []float64 {
	n := numQudits(len(psi), d)
	st := strides(n, d)
	probs := make([]float64, d)
	for i, a := range psi {
		probs[(i/st[q])%d] += real(a)*real(a) + imag(a)*imag(a)
	}
	return probs
}

// collapseRemove projects qudit q onto outcome v, removes it from the
// tensor product, and renormalizes by the outcome probability p.
func collapseRemove(psi []complex128, q, v int, d int, p float64) []complex128 {
	n := numQudits(len(psi), d)
	st := strides(n, d)
	out := make([]complex128, len(psi)/d)
	scale := complex(0, 0)
	if p > 0 {
		scale = complex(1/math.Sqrt(p), 0)
	}
	for j := range out {
		hi := j / st[q] // digits above q, packed
		lo := j % st[q]
		i := hi*st[q]*d + v*st[q] + lo
		out[j] = psi[i] * scale
	}
	return out
}

// measureSeq measures the listed qudits sequentially in the
// computational basis, sampling each outcome, collapsing, and removing
// the measured subsystem. It returns the outcomes in target order, the
// joint probability of the sampled branch, and the contracted state.
func measureSeq(psi []complex128, target []int, d int) ([]int, float64, []complex128) {
	res := make([]int, len(target))
	prob := 1.0
	tg := append([]int(nil), target...)
	for idx := range tg {
		q := tg[idx]
		probs := marginal(psi, q, d)
		v := sampleOutcome(probs)
		res[idx] = v
		prob *= probs[v]
		psi = collapseRemove(psi, q, v, d, probs[v])
		for j := idx + 1; j < len(tg); j++ {
			if tg[j] > q {
				tg[j]--
			}
		}
	}
	return res, prob, psi
}

// measureBasis performs the rank-1 projective measurement whose
// projectors are the columns of V, jointly over the target qudits. It
// samples an outcome and returns its index, the full outcome
// distribution, and the post-measurement states over the remaining
// subsystems, indexed by outcome.
func measureBasis(psi []complex128, V *Matrix, target []int, d int) (int, []float64, [][]complex128) {
	n := numQudits(len(psi), d)
	st := strides(n, d)
	k := len(target)
	dk := ipow(d, k)

	inTarget := make(map[int]int, k) // original position -> target rank
	for t, q := range target {
		inTarget[q] = t
	}
	rest := make([]int, 0, n-k)
	for q := 0; q < n; q++ {
		if _, ok := inTarget[q]; !ok {
			rest = append(rest, q)
		}
	}
	restDim := len(psi) / dk

	outcomes := V.Cols
	probs := make([]float64, outcomes)
	states := make([][]complex128, outcomes)
	for m := 0; m < outcomes; m++ {
		phi := make([]complex128, restDim)
		for j := range phi {
			// scatter j's digits over the non-target positions
			base := 0
			jj := j
			for t := len(rest) - 1; t >= 0; t-- {
				base += (jj % d) * st[rest[t]]
				jj /= d
			}
			var acc complex128
			for r := 0; r < dk; r++ {
				i := base
				rr := r
				for t := k - 1; t >= 0; t-- {
					i += (rr % d) * st[target[t]]
					rr /= d
				}
				acc += cmplx.Conj(V.At(r, m)) * psi[i]
			}
			phi[j] = acc
		}
		p := norm(phi)
		probs[m] = p * p
		if p > 0 {
			inv := complex(1/p, 0)
			for j := range phi {
				phi[j] *= inv
			}
		}
		states[m] = phi
	}

	m := sampleOutcome(probs)
	return m, probs, states
}
