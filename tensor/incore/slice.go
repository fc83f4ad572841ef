package incore

import "github.com/lcyyork/ambit/tensor"

// Slice implements tensor.Storage.Slice: C[cranges] <- alpha*A[aranges]
// + beta*C[cranges], where C is the receiver (spec.md §4.B). cranges
// and aranges must have matching rank and matching per-axis width, and
// every range must lie within its tensor's extents. No reordering is
// performed; this is an element-by-element hyper-rectangle copy.
func (d *Dense) Slice(as tensor.Storage, cranges, aranges []tensor.Range, alpha, beta float64) {
	a := as.(*Dense)
	if len(cranges) != len(d.shape) || len(aranges) != len(a.shape) {
		panic(tensor.ErrRange)
	}
	if len(cranges) != len(aranges) {
		panic(tensor.ErrRange)
	}
	shape := make([]int, len(cranges))
	for k := range cranges {
		cr, ar := cranges[k], aranges[k]
		if cr.Width() != ar.Width() {
			panic(tensor.ErrRange)
		}
		if cr.Lo < 0 || cr.Hi > d.shape[k] || cr.Lo > cr.Hi {
			panic(tensor.ErrRange)
		}
		if ar.Lo < 0 || ar.Hi > a.shape[k] || ar.Lo > ar.Hi {
			panic(tensor.ErrRange)
		}
		shape[k] = cr.Width()
	}

	n := len(shape)
	idx := make([]int, n)
	total := 1
	for _, e := range shape {
		total *= e
	}
	for count := 0; count < total; count++ {
		dOff, aOff := 0, 0
		for k := 0; k < n; k++ {
			dOff += (cranges[k].Lo + idx[k]) * d.strides[k]
			aOff += (aranges[k].Lo + idx[k]) * a.strides[k]
		}
		if beta == 0 {
			d.data[dOff] = alpha * a.data[aOff]
		} else {
			d.data[dOff] = alpha*a.data[aOff] + beta*d.data[dOff]
		}
		for k := n - 1; k >= 0; k-- {
			idx[k]++
			if idx[k] < shape[k] {
				break
			}
			idx[k] = 0
		}
	}
}
