package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTripletSumsDuplicates(t *testing.T) {
	T := NewTriplet(3, 3, 4)
	T.Put(0, 0, 1)
	T.Put(0, 0, 2.5)
	T.Put(2, 1, -1)
	T.Put(1, 2, -1)
	assert.Equal(t, 4, T.Len())
	A := T.ToCSR()
	assert.Equal(t, 3.5, A.At(0, 0))
	assert.Equal(t, -1., A.At(2, 1))
	assert.Equal(t, 0., A.At(1, 1))
	assert.Equal(t, 3, A.NNZ())
	assert.True(t, A.IsSymmetric(0))
	assert.False(t, A.IsReadOnly())

	assert.Panics(t, func() { T.Put(3, 0, 1) })
	assert.Panics(t, func() { T.Put(0, -1, 1) })
}

func TestReadOnly(t *testing.T) {
	D := NewDOK(2, 2)
	D.Set(0, 1, 4)
	A := D.ToCSR()
	A.Set(1, 1, 2)
	R := A.SetReadOnly("A")
	assert.Equal(t, "A", R.Name())
	assert.True(t, R.IsReadOnly())
	assert.Equal(t, 4., R.At(0, 1))
	assert.Equal(t, 2., R.At(1, 1))
	assert.Panics(t, func() { R.Set(0, 0, 1) })
	assert.False(t, R.IsSymmetric(1.e-12))
}

func TestMulVecTo(t *testing.T) {
	T := NewTriplet(2, 3, 3)
	T.Put(0, 0, 1)
	T.Put(0, 2, 2)
	T.Put(1, 1, 3)
	A := T.ToCSR()
	y := []float64{9, 9}
	A.MulVecTo(y, []float64{1, 2, 3})
	assert.Equal(t, []float64{7, 6}, y)
	assert.Panics(t, func() { A.MulVecTo(y, []float64{1}) })
}

func TestSubmatrix(t *testing.T) {
	T := NewTriplet(3, 3, 9)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			T.Put(i, j, float64(10*i+j))
		}
	}
	A := T.ToCSR()
	S := A.Submatrix([]int{2, 0})
	r, c := S.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 2, c)
	assert.Equal(t, 22., S.At(0, 0))
	assert.Equal(t, 20., S.At(0, 1))
	assert.Equal(t, 2., S.At(1, 0))
	assert.Equal(t, 0., S.At(1, 1))

	sym := NewTriplet(2, 2, 3)
	sym.Put(0, 0, 2)
	sym.Put(0, 1, -1)
	sym.Put(1, 0, -1)
	Ds := sym.ToCSR().ToSymDense()
	assert.Equal(t, -1., Ds.At(1, 0))
	assert.Equal(t, 0., Ds.At(1, 1))
}
