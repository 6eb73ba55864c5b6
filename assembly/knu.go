package assembly

import (
	"errors"
	"fmt"
	"sync"

	"github.com/notargets/gocoax/geometry"
	"github.com/notargets/gocoax/utils"
)

var (
	ErrAxialLength = errors.New("assembly: axial length must be positive")
	ErrNoWire      = errors.New("assembly: wire region contains no elements")
)

// ElementStiffness computes the local 3x3 contribution of element k:
//
//	Ke[i][j] = nu * (b_i*b_j + c_i*c_j) / (4*S*lz)
//
// where nu is the element reluctivity, S its area and lz the axial length
func ElementStiffness(geo *geometry.Geo, k int, lz float64) (Ke [3][3]float64) {
	var (
		_, b, c = geo.Mesh.ShapeCoefficients(k)
		S       = geo.Mesh.ElementArea(k)
		nu      = geo.ElementReluctivity(k)
		scale   = nu / (4 * S * lz)
	)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			Ke[i][j] = scale * (b[i]*b[j] + c[i]*c[j])
		}
	}
	return
}

// Knu assembles the global N x N stiffness matrix. Contributions of elements
// sharing a node are summed. The result is read only and singular until the
// Dirichlet nodes are removed.
func Knu(geo *geometry.Geo, lz float64) (K utils.CSR, err error) {
	return KnuParallel(geo, lz, 0)
}

// KnuParallel computes the element matrices over procLimit goroutines, one
// contiguous bucket of elements each, zero uses every CPU. The elements are
// summed into the global matrix in element order so the result does not
// depend on procLimit.
func KnuParallel(geo *geometry.Geo, lz float64, procLimit int) (K utils.CSR, err error) {
	if !(lz > 0) {
		err = fmt.Errorf("%w: %g", ErrAxialLength, lz)
		return
	}
	var (
		msh   = geo.Mesh
		Nv    = msh.NumNodes()
		Nelem = msh.NumElements()
		pm    = utils.NewPartitionMap(utils.ParallelDegree(procLimit, Nelem), Nelem)
		Ke    = make([][3][3]float64, Nelem)
		T     = utils.NewTriplet(Nv, Nv, 9*Nelem)
		wg    = sync.WaitGroup{}
	)
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			kMin, kMax := pm.GetBucketRange(np)
			for k := kMin; k < kMax; k++ {
				Ke[k] = ElementStiffness(geo, k, lz)
			}
		}(np)
	}
	wg.Wait()
	for k := 0; k < Nelem; k++ {
		nodes := msh.Element(k)
		for i, I := range nodes {
			for j, J := range nodes {
				T.Put(I, J, Ke[k][i][j])
			}
		}
	}
	K = T.ToCSR().SetReadOnly("Knu")
	return
}
