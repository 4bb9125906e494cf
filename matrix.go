package quditcirq

import (
	"encoding/binary"
	"math"
	"math/cmplx"

	"github.com/cespare/xxhash/v2"
)

// eqTol is the per-element tolerance used when comparing matrices.
const eqTol = 1e-12

// Matrix is a dense complex matrix in row-major order.
type Matrix struct {
	Rows, Cols int
	Data       []complex128
}

// NewMatrix returns a zero matrix of the given shape.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, Data: make([]complex128, rows*cols)}
}

// Identity returns the n×n identity matrix.
func Identity(n int) *Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.Data[i*n+i] = 1
	}
	return m
}

// At returns the element at row r, column c.
func (m *Matrix) At(r, c int) complex128 { return m.Data[r*m.Cols+c] }

// Set assigns the element at row r, column c.
func (m *Matrix) Set(r, c int, v complex128) { m.Data[r*m.Cols+c] = v }

// IsSquare reports whether the matrix is square.
func (m *Matrix) IsSquare() bool { return m.Rows == m.Cols }

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	out := NewMatrix(m.Rows, m.Cols)
	copy(out.Data, m.Data)
	return out
}

// Mul returns the matrix product m·n.
func (m *Matrix) Mul(n *Matrix) *Matrix {
	out := NewMatrix(m.Rows, n.Cols)
	for i := 0; i < m.Rows; i++ {
		for k := 0; k < m.Cols; k++ {
			a := m.Data[i*m.Cols+k]
			if a == 0 {
				continue
			}
			for j := 0; j < n.Cols; j++ {
				out.Data[i*n.Cols+j] += a * n.Data[k*n.Cols+j]
			}
		}
	}
	return out
}

// Kron returns the Kronecker product m⊗n.
func (m *Matrix) Kron(n *Matrix) *Matrix {
	out := NewMatrix(m.Rows*n.Rows, m.Cols*n.Cols)
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			a := m.Data[i*m.Cols+j]
			if a == 0 {
				continue
			}
			for k := 0; k < n.Rows; k++ {
				for l := 0; l < n.Cols; l++ {
					out.Set(i*n.Rows+k, j*n.Cols+l, a*n.At(k, l))
				}
			}
		}
	}
	return out
}

// Pow returns the p-th matrix power of a square matrix, with Pow(0)
// the identity.
func (m *Matrix) Pow(p int) *Matrix {
	out := Identity(m.Rows)
	base := m.Clone()
	for p > 0 {
		if p&1 == 1 {
			out = out.Mul(base)
		}
		base = base.Mul(base)
		p >>= 1
	}
	return out
}

// Dagger returns the conjugate transpose.
func (m *Matrix) Dagger() *Matrix {
	out := NewMatrix(m.Cols, m.Rows)
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			out.Set(j, i, cmplx.Conj(m.At(i, j)))
		}
	}
	return out
}

// Equal reports elementwise equality within eqTol. Shapes must match
// exactly.
func (m *Matrix) Equal(n *Matrix) bool {
	if m.Rows != n.Rows || m.Cols != n.Cols {
		return false
	}
	for i, v := range m.Data {
		w := n.Data[i]
		if math.Abs(real(v)-real(w)) > eqTol || math.Abs(imag(v)-imag(w)) > eqTol {
			return false
		}
	}
	return true
}

// Hash returns a 64-bit content digest over the shape and elements.
// The digest is lossy; the matrix cache verifies content on hit.
func (m *Matrix) Hash() uint64 {
	h := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(m.Rows))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(m.Cols))
	h.Write(buf[:])
	for _, v := range m.Data {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(real(v)))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(imag(v)))
		h.Write(buf[:])
	}
	return h.Sum64()
}
