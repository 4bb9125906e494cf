package quditcirq

import "math"

// NoiseModel is an uncorrelated single-qudit noise channel. Apply
// samples one Kraus branch for the qudit at relative position pos and
// returns the transformed state; LastBranch reports which branch
// fired.
type NoiseModel interface {
	Apply(psi []complex128, pos int) ([]complex128, error)
	LastBranch() int
	Dim() int
}

// KrausNoise is a noise channel given by an explicit set of Kraus
// operators over a d-dimensional qudit. Branch probabilities are
// computed state-dependently and the state is renormalized after the
// sampled operator is applied.
type KrausNoise struct {
	kraus []*Matrix
	d     int
	last  int
}

// NewKrausNoise builds a channel from d×d Kraus operators.
func NewKrausNoise(d int, kraus []*Matrix) (*KrausNoise, error) {
	if len(kraus) == 0 {
		return nil, ErrZeroSize
	}
	for _, k := range kraus {
		if !k.IsSquare() {
			return nil, ErrMatrixNotSquare
		}
		if k.Rows != d {
			return nil, ErrDimsMismatchMatrix
		}
	}
	return &KrausNoise{kraus: kraus, d: d}, nil
}

// Dim returns the qudit dimension of the channel.
func (n *KrausNoise) Dim() int { return n.d }

// LastBranch returns the index of the Kraus operator sampled by the
// most recent Apply.
func (n *KrausNoise) LastBranch() int { return n.last }

// Apply samples a Kraus branch for the qudit at relative position pos
// and collapses the state onto it.
func (n *KrausNoise) Apply(psi []complex128, pos int) ([]complex128, error) {
	branches := make([][]complex128, len(n.kraus))
	probs := make([]float64, len(n.kraus))
	for i, k := range n.kraus {
		branch := apply(psi, k, []int{pos}, n.d)
		p := norm(branch)
		branches[i] = branch
		probs[i] = p * p
	}
	idx := sampleOutcome(probs)
	n.last = idx
	out := branches[idx]
	if p := math.Sqrt(probs[idx]); p > 0 {
		inv := complex(1/p, 0)
		for i := range out {
			out[i] *= inv
		}
	}
	return out, nil
}

// NewDepolarizingNoise returns the qubit depolarizing channel with
// error probability p: X, Y, or Z each fire with probability p/3.
func NewDepolarizingNoise(p float64) *KrausNoise {
	id := Identity(2)
	scaleInPlace(id, math.Sqrt(1-p))
	x := PauliX()
	scaleInPlace(x, math.Sqrt(p/3))
	y := PauliY()
	scaleInPlace(y, math.Sqrt(p/3))
	z := PauliZ()
	scaleInPlace(z, math.Sqrt(p/3))
	n, _ := NewKrausNoise(2, []*Matrix{id, x, y, z})
	return n
}

// NewAmplitudeDampingNoise returns the qubit amplitude-damping channel
// with damping rate gamma.
func NewAmplitudeDampingNoise(gamma float64) *KrausNoise {
	k0 := &Matrix{Rows: 2, Cols: 2, Data: []complex128{1, 0, 0, complex(math.Sqrt(1-gamma), 0)}}
	k1 := &Matrix{Rows: 2, Cols: 2, Data: []complex128{0, complex(math.Sqrt(gamma), 0), 0, 0}}
	n, _ := NewKrausNoise(2, []*Matrix{k0, k1})
	return n
}

// NewPhaseDampingNoise returns the qubit phase-damping channel with
// rate lambda.
func NewPhaseDampingNoise(lambda float64) *KrausNoise {
	k0 := &Matrix{Rows: 2, Cols: 2, Data: []complex128{1, 0, 0, complex(math.Sqrt(1-lambda), 0)}}
	k1 := &Matrix{Rows: 2, Cols: 2, Data: []complex128{0, 0, 0, complex(math.Sqrt(lambda), 0)}}
	n, _ := NewKrausNoise(2, []*Matrix{k0, k1})
	return n
}

func scaleInPlace(m *Matrix, s float64) {
	c := complex(s, 0)
	for i := range m.Data {
		m.Data[i] *= c
	}
}

// NoisyEngine runs a circuit under an uncorrelated noise model that is
// applied to every non-measured qudit before each step, recording the
// Kraus branch sampled for each.
type NoisyEngine struct {
	*Engine
	noise   NoiseModel
	results [][]int
}

// NewNoisyEngine binds a noisy engine to a circuit. The noise model's
// dimension must equal the circuit's.
func NewNoisyEngine(c *Circuit, noise NoiseModel) (*NoisyEngine, error) {
	if noise.Dim() != c.D() {
		return nil, ErrDimsNotEqual
	}
	return &NoisyEngine{
		Engine:  NewEngine(c),
		noise:   noise,
		results: make([][]int, c.StepCount()),
	}, nil
}

// Execute applies the noise channel to every non-measured qudit, then
// executes the underlying step. Branch indexes are recorded per
// timeline position, ordered by non-measured original qudit ascending.
func (ne *NoisyEngine) Execute(ref StepRef) error {
	if ref.Circuit != ne.circ {
		return ErrInvalidIterator
	}
	rel, err := ne.relativePos(ne.NonMeasured())
	if err != nil {
		return err
	}
	for _, pos := range rel {
		psi, err := ne.noise.Apply(ne.psi, pos)
		if err != nil {
			return err
		}
		ne.psi = psi
		ne.results[ref.IP] = append(ne.results[ref.IP], ne.noise.LastBranch())
	}
	return ne.Engine.Execute(ref)
}

// ExecuteIterator dereferences the iterator and executes its step with
// the pre-step noise hook.
func (ne *NoisyEngine) ExecuteIterator(it Iterator) error {
	ref, err := it.Ref()
	if err != nil {
		return err
	}
	return ne.Execute(ref)
}

// Run executes every step of the bound circuit in order, with noise.
func (ne *NoisyEngine) Run() error {
	for it := ne.circ.Begin(); !it.Done(); {
		if err := ne.ExecuteIterator(it); err != nil {
			return err
		}
		if err := it.Next(); err != nil {
			return err
		}
	}
	return nil
}

// NoiseResults returns the per-step noise branch records. Entry ip
// lists, in ascending qudit order, the Kraus branch sampled on each
// qudit that was still unmeasured before step ip ran.
func (ne *NoisyEngine) NoiseResults() [][]int { return ne.results }
