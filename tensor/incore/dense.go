// Package incore implements tensor.Storage over a contiguous in-process
// buffer of float64s, in row-major order (the right-most index varies
// fastest), per spec.md §4.A. It is the only backend this module
// implements directly; tensor.Register is the seam a disk-resident or
// cluster-distributed backend would use to plug in the same contract.
package incore

import (
	"math"

	"gonum.org/v1/gonum/blas/blas64"

	"github.com/lcyyork/ambit/tensor"
)

// Dense is the in-core implementation of tensor.Storage: a single
// contiguous []float64 with row-major strides. Element (i0,...,i{r-1})
// sits at offset sum(ik * stride[k]), where stride[r-1]=1 and
// stride[k]=stride[k+1]*shape[k+1].
type Dense struct {
	shape   []int
	strides []int
	data    []float64
}

var _ tensor.Storage = (*Dense)(nil)
var _ tensor.RawStorer = (*Dense)(nil)

// New allocates a zeroed Dense of the given shape.
func New(shape tensor.Shape) *Dense {
	d := &Dense{
		shape:   append([]int(nil), shape...),
		strides: rowMajorStrides(shape),
	}
	n := shape.Size()
	d.data = make([]float64, n)
	return d
}

// NewFromData wraps an existing row-major buffer as a Dense. data's
// length must equal shape.Size(); NewFromData does not copy it.
func NewFromData(shape tensor.Shape, data []float64) *Dense {
	if len(data) != shape.Size() {
		panic(tensor.ErrShape)
	}
	return &Dense{
		shape:   append([]int(nil), shape...),
		strides: rowMajorStrides(shape),
		data:    data,
	}
}

func rowMajorStrides(shape tensor.Shape) []int {
	strides := make([]int, len(shape))
	acc := 1
	for k := len(shape) - 1; k >= 0; k-- {
		strides[k] = acc
		acc *= shape[k]
	}
	return strides
}

// Kind implements tensor.Storage.
func (d *Dense) Kind() tensor.BackendKind { return tensor.InCore }

// Shape implements tensor.Storage.
func (d *Dense) Shape() tensor.Shape { return tensor.Shape(d.shape).Clone() }

// RawStorage implements tensor.RawStorer.
func (d *Dense) RawStorage() []float64 { return d.data }

func (d *Dense) vec() blas64.Vector { return blas64.Vector{N: len(d.data), Inc: 1, Data: d.data} }

// Zero implements tensor.Storage.
func (d *Dense) Zero() {
	for i := range d.data {
		d.data[i] = 0
	}
}

// Scale implements tensor.Storage.
func (d *Dense) Scale(alpha float64) {
	if alpha == 1 {
		return
	}
	if alpha == 0 {
		d.Zero()
		return
	}
	blas64.Scal(alpha, d.vec())
}

func (d *Dense) sameShape(o tensor.Storage) bool {
	od, ok := o.(*Dense)
	if !ok {
		return false
	}
	return tensor.Shape(d.shape).Equal(tensor.Shape(od.shape))
}

// Copy implements tensor.Storage: d <- alpha*src, elementwise. src must
// share d's shape exactly.
func (d *Dense) Copy(src tensor.Storage, alpha float64) {
	if !d.sameShape(src) {
		panic(tensor.ErrShape)
	}
	s := src.(*Dense)
	if alpha == 0 {
		d.Zero()
		return
	}
	copy(d.data, s.data)
	if alpha != 1 {
		blas64.Scal(alpha, d.vec())
	}
}

// Norm implements tensor.Storage.
func (d *Dense) Norm(p float64) float64 {
	switch p {
	case 0:
		m := 0.0
		for _, x := range d.data {
			if a := math.Abs(x); a > m {
				m = a
			}
		}
		return m
	case 1:
		return blas64.Asum(d.vec())
	case 2:
		return blas64.Nrm2(d.vec())
	default:
		sum := 0.0
		for _, x := range d.data {
			sum += math.Pow(math.Abs(x), p)
		}
		return math.Pow(sum, 1/p)
	}
}

// Dot implements tensor.Storage.
func (d *Dense) Dot(src tensor.Storage) float64 {
	if !d.sameShape(src) {
		panic(tensor.ErrShape)
	}
	s := src.(*Dense)
	return blas64.Dot(d.vec(), s.vec())
}

// PointwiseMultiply implements tensor.Storage.
func (d *Dense) PointwiseMultiply(src tensor.Storage) {
	if !d.sameShape(src) {
		panic(tensor.ErrShape)
	}
	s := src.(*Dense)
	for i := range d.data {
		d.data[i] *= s.data[i]
	}
}

// PointwiseDivide implements tensor.Storage.
func (d *Dense) PointwiseDivide(src tensor.Storage) {
	if !d.sameShape(src) {
		panic(tensor.ErrShape)
	}
	s := src.(*Dense)
	for i := range d.data {
		d.data[i] /= s.data[i]
	}
}
