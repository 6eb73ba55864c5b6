package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// Triplet collects (row, col, value) entries for a sparse matrix.
// Entries with the same (row, col) are summed when compressed.
type Triplet struct {
	nr, nc int
	rows   []int
	cols   []int
	vals   []float64
}

func NewTriplet(nr, nc, capacity int) (T *Triplet) {
	T = &Triplet{
		nr:   nr,
		nc:   nc,
		rows: make([]int, 0, capacity),
		cols: make([]int, 0, capacity),
		vals: make([]float64, 0, capacity),
	}
	return
}

func (T *Triplet) Dims() (r, c int) { return T.nr, T.nc }
func (T *Triplet) Len() int         { return len(T.vals) }

// Put appends one entry, it never overwrites a previous entry at (i, j)
func (T *Triplet) Put(i, j int, val float64) {
	if i < 0 || i >= T.nr || j < 0 || j >= T.nc {
		err := fmt.Errorf("triplet index out of range: (%d, %d) in %d x %d", i, j, T.nr, T.nc)
		panic(err)
	}
	T.rows = append(T.rows, i)
	T.cols = append(T.cols, j)
	T.vals = append(T.vals, val)
}

// ToDOK sums duplicate entries into a dictionary of keys matrix
func (T *Triplet) ToDOK() (R DOK) {
	R = NewDOK(T.nr, T.nc)
	for ii, val := range T.vals {
		i, j := T.rows[ii], T.cols[ii]
		R.M.Set(i, j, R.M.At(i, j)+val)
	}
	return
}

// ToCSR compresses the triplets, summing duplicates
func (T *Triplet) ToCSR() CSR {
	return T.ToDOK().ToCSR()
}

type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return m.M.T() }

func (m DOK) Set(i, j int, val float64) {
	m.checkWritable()
	m.M.Set(i, j, val)
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m DOK) ToCSR() CSR {
	return CSR{
		M:        m.M.ToCSR(),
		readOnly: m.readOnly,
		name:     m.name,
	}
}

// CSR wraps a compressed sparse row matrix. Once SetReadOnly is called the
// matrix may be shared freely, any write panics.
type CSR struct {
	M        *sparse.CSR
	readOnly bool
	name     string
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)    { return m.M.Dims() }
func (m CSR) At(i, j int) float64 { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix       { return m.M.T() }
func (m CSR) NNZ() int            { return m.M.NNZ() }
func (m CSR) Name() string        { return m.name }
func (m CSR) IsReadOnly() bool    { return m.readOnly }

func (m CSR) SetReadOnly(name ...string) CSR {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return m
}

func (m CSR) Set(i, j int, val float64) {
	m.checkWritable()
	m.M.Set(i, j, val)
}

func (m CSR) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m CSR) DoNonZero(fn func(i, j int, v float64)) {
	m.M.DoNonZero(fn)
}

// MulVecTo computes dst = m * x
func (m CSR) MulVecTo(dst, x []float64) {
	nr, nc := m.Dims()
	if len(dst) != nr || len(x) != nc {
		err := fmt.Errorf("dimension mismatch: %d x %d matrix, len(x) = %d, len(dst) = %d",
			nr, nc, len(x), len(dst))
		panic(err)
	}
	for i := range dst {
		dst[i] = 0
	}
	m.M.DoNonZero(func(i, j int, v float64) {
		dst[i] += v * x[j]
	})
}

// Submatrix returns the rows and columns listed in idx, in the order given
func (m CSR) Submatrix(idx []int) CSR {
	var (
		nr, _ = m.Dims()
		pos   = make([]int, nr)
		R     = NewDOK(len(idx), len(idx))
	)
	for i := range pos {
		pos[i] = -1
	}
	for ii, i := range idx {
		pos[i] = ii
	}
	m.M.DoNonZero(func(i, j int, v float64) {
		if pos[i] >= 0 && pos[j] >= 0 {
			R.M.Set(pos[i], pos[j], v)
		}
	})
	return R.ToCSR()
}

// ToSymDense expands the upper triangle into a dense symmetric matrix
func (m CSR) ToSymDense() *mat.SymDense {
	nr, nc := m.Dims()
	if nr != nc {
		panic(fmt.Errorf("matrix %q is not square: %d x %d", m.name, nr, nc))
	}
	S := mat.NewSymDense(nr, nil)
	m.M.DoNonZero(func(i, j int, v float64) {
		if j >= i {
			S.SetSym(i, j, v)
		}
	})
	return S
}

// IsSymmetric reports whether |A[i,j] - A[j,i]| <= tol*max|A| for all entries
func (m CSR) IsSymmetric(tol float64) bool {
	var (
		maxAbs float64
		sym    = true
	)
	m.M.DoNonZero(func(i, j int, v float64) {
		if v < 0 {
			v = -v
		}
		if v > maxAbs {
			maxAbs = v
		}
	})
	m.M.DoNonZero(func(i, j int, v float64) {
		d := v - m.M.At(j, i)
		if d < 0 {
			d = -d
		}
		if d > tol*maxAbs {
			sym = false
		}
	})
	return sym
}
