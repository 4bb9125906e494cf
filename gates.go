package quditcirq

import (
	"math"
	"math/cmplx"
)

// Gate constructors. The qudit generalizations follow the standard
// shift/clock/Fourier family; the d=2 constructors are the usual qubit
// gates.

// ShiftX returns the generalized Pauli-X (shift) gate: X|j⟩ = |j+1 mod d⟩.
func ShiftX(d int) *Matrix {
	m := NewMatrix(d, d)
	for j := 0; j < d; j++ {
		m.Set((j+1)%d, j, 1)
	}
	return m
}

// ClockZ returns the generalized Pauli-Z (clock) gate: Z|j⟩ = ω^j |j⟩
// with ω = exp(2πi/d).
func ClockZ(d int) *Matrix {
	m := NewMatrix(d, d)
	for j := 0; j < d; j++ {
		m.Set(j, j, cmplx.Exp(complex(0, 2*math.Pi*float64(j)/float64(d))))
	}
	return m
}

// Fourier returns the d-dimensional discrete Fourier transform gate,
// F[j][k] = ω^(jk)/√d. For d = 2 this is the Hadamard gate.
func Fourier(d int) *Matrix {
	m := NewMatrix(d, d)
	norm := complex(1/math.Sqrt(float64(d)), 0)
	for j := 0; j < d; j++ {
		for k := 0; k < d; k++ {
			m.Set(j, k, norm*cmplx.Exp(complex(0, 2*math.Pi*float64(j*k)/float64(d))))
		}
	}
	return m
}

// SWAP returns the two-qudit swap gate for dimension d.
func SWAP(d int) *Matrix {
	m := NewMatrix(d*d, d*d)
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			m.Set(j*d+i, i*d+j, 1)
		}
	}
	return m
}

// Hadamard returns the qubit Hadamard gate.
func Hadamard() *Matrix {
	h := complex(1/math.Sqrt2, 0)
	return &Matrix{Rows: 2, Cols: 2, Data: []complex128{h, h, h, -h}}
}

// PauliX returns the qubit X gate.
func PauliX() *Matrix {
	return &Matrix{Rows: 2, Cols: 2, Data: []complex128{0, 1, 1, 0}}
}

// PauliY returns the qubit Y gate.
func PauliY() *Matrix {
	return &Matrix{Rows: 2, Cols: 2, Data: []complex128{0, -1i, 1i, 0}}
}

// PauliZ returns the qubit Z gate.
func PauliZ() *Matrix {
	return &Matrix{Rows: 2, Cols: 2, Data: []complex128{1, 0, 0, -1}}
}

// SGate returns the qubit phase gate S = diag(1, i).
func SGate() *Matrix {
	return &Matrix{Rows: 2, Cols: 2, Data: []complex128{1, 0, 0, 1i}}
}

// TGate returns the qubit T gate = diag(1, e^(iπ/4)).
func TGate() *Matrix {
	return &Matrix{Rows: 2, Cols: 2, Data: []complex128{1, 0, 0, cmplx.Exp(complex(0, math.Pi/4))}}
}

// RX returns the qubit rotation exp(-iθX/2).
func RX(theta float64) *Matrix {
	c := complex(math.Cos(theta/2), 0)
	s := complex(0, -math.Sin(theta/2))
	return &Matrix{Rows: 2, Cols: 2, Data: []complex128{c, s, s, c}}
}

// RY returns the qubit rotation exp(-iθY/2).
func RY(theta float64) *Matrix {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return &Matrix{Rows: 2, Cols: 2, Data: []complex128{c, -s, s, c}}
}

// RZ returns the qubit rotation exp(-iθZ/2).
func RZ(theta float64) *Matrix {
	p := cmplx.Exp(complex(0, theta/2))
	return &Matrix{Rows: 2, Cols: 2, Data: []complex128{cmplx.Conj(p), 0, 0, p}}
}

// CNOT returns the two-qubit controlled-NOT gate.
func CNOT() *Matrix {
	m := Identity(4)
	m.Set(2, 2, 0)
	m.Set(3, 3, 0)
	m.Set(2, 3, 1)
	m.Set(3, 2, 1)
	return m
}

// Catalog maps matrix digests to canonical display names, and names
// back to matrices. The builder consults it when the caller does not
// supply a step name; the JSON reader uses the reverse direction.
type Catalog struct {
	names map[uint64]string
	mats  map[string]*Matrix
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{names: make(map[uint64]string), mats: make(map[string]*Matrix)}
}

// Register associates a matrix with a canonical name. The first
// registration for a digest wins.
func (cat *Catalog) Register(name string, U *Matrix) {
	h := U.Hash()
	if _, ok := cat.names[h]; !ok {
		cat.names[h] = name
	}
	if _, ok := cat.mats[name]; !ok {
		cat.mats[name] = U
	}
}

// Name returns the canonical name of U, or "" when unknown.
func (cat *Catalog) Name(U *Matrix) string { return cat.names[U.Hash()] }

// Lookup returns the matrix registered under name.
func (cat *Catalog) Lookup(name string) (*Matrix, bool) {
	m, ok := cat.mats[name]
	return m, ok
}

// StandardCatalog returns the catalog of named gates for dimension d:
// the shift/clock/Fourier family for any d, plus the usual qubit set
// when d = 2.
func StandardCatalog(d int) *Catalog {
	cat := NewCatalog()
	cat.Register("Id", Identity(d))
	cat.Register("SWAP", SWAP(d))
	if d == 2 {
		cat.Register("H", Hadamard())
		cat.Register("X", PauliX())
		cat.Register("Y", PauliY())
		cat.Register("Z", PauliZ())
		cat.Register("S", SGate())
		cat.Register("T", TGate())
		cat.Register("CNOT", CNOT())
	}
	cat.Register("Xd", ShiftX(d))
	cat.Register("Zd", ClockZ(d))
	cat.Register("Fd", Fourier(d))
	return cat
}
