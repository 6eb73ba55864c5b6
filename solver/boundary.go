package solver

import (
	"fmt"
	"sort"

	"github.com/notargets/gocoax/mesh"
	"github.com/notargets/gocoax/utils"
)

// DOFs returns the sorted complement of the fixed node set in [0, n)
func DOFs(n int, fixed []int) (dof []int, err error) {
	isFixed := make([]bool, n)
	for _, i := range fixed {
		if i < 0 || i >= n {
			return nil, fmt.Errorf("%w: fixed node %d, %d nodes", ErrIndex, i, n)
		}
		isFixed[i] = true
	}
	for i, f := range isFixed {
		if !f {
			dof = append(dof, i)
		}
	}
	if len(dof) == 0 {
		return nil, ErrNoDOF
	}
	return
}

// Deflate restricts A x = b to the rows and columns listed in idx. Removing
// the other rows and columns imposes a zero potential on those nodes.
func Deflate(A utils.CSR, b []float64, idx []int) (Ad utils.CSR, bd []float64, err error) {
	nr, nc := A.Dims()
	if nr != nc || len(b) != nr {
		err = fmt.Errorf("%w: A is %d x %d, len(b) = %d", ErrDimension, nr, nc, len(b))
		return
	}
	if bd, err = DeflateVector(b, idx); err != nil {
		return
	}
	Ad = A.Submatrix(idx).SetReadOnly(A.Name() + "_deflated")
	return
}

// DeflateVector gathers the entries of b listed in idx, the right hand side
// for a matrix already deflated over the same idx
func DeflateVector(b []float64, idx []int) (bd []float64, err error) {
	if len(idx) == 0 {
		return nil, ErrNoDOF
	}
	seen := make([]bool, len(b))
	bd = make([]float64, len(idx))
	for ii, i := range idx {
		if i < 0 || i >= len(b) {
			return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndex, i, len(b))
		}
		if seen[i] {
			return nil, fmt.Errorf("%w: duplicate index %d", ErrIndex, i)
		}
		seen[i] = true
		bd[ii] = b[i]
	}
	return
}

// Inflate returns a copy of v with the entries at idx replaced by x, the
// other entries keep their value from v
func Inflate(v, x []float64, idx []int) (out []float64, err error) {
	if len(x) != len(idx) {
		err = fmt.Errorf("%w: len(x) = %d, len(idx) = %d", ErrDimension, len(x), len(idx))
		return
	}
	out = make([]float64, len(v))
	copy(out, v)
	for ii, i := range idx {
		if i < 0 || i >= len(v) {
			return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndex, i, len(v))
		}
		out[i] = x[ii]
	}
	return
}

// checkGrounded verifies every connected component of the mesh holds at
// least one fixed node, otherwise the deflated matrix is singular
func checkGrounded(m *mesh.Mesh, fixed []int) error {
	if len(fixed) == 0 {
		return ErrNoDirichlet
	}
	var (
		parent = make([]int, m.NumNodes())
		find   func(i int) int
	)
	for i := range parent {
		parent[i] = i
	}
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	for _, e := range m.UniqueEdges() {
		ri, rj := find(e[0]), find(e[1])
		if ri != rj {
			parent[ri] = rj
		}
	}
	grounded := make(map[int]bool)
	for _, i := range fixed {
		grounded[find(i)] = true
	}
	var floating []int
	for i := range parent {
		if !grounded[find(i)] {
			floating = append(floating, i)
		}
	}
	if len(floating) != 0 {
		sort.Ints(floating)
		return fmt.Errorf("%w: %d floating nodes, first %d", ErrFloating, len(floating), floating[0])
	}
	return nil
}
