package incore

import "github.com/lcyyork/ambit/tensor"

// Permute implements tensor.Storage.Permute: C(cinds) <- alpha*A(ainds) +
// beta*C(cinds), where C is the receiver. cinds must be a permutation of
// ainds with matching extents under that permutation (spec.md §4.B). For
// rank 0 and rank 1 this degenerates to a scalar update or a strided
// copy; for rank >= 2 it walks a strided multi-index odometer. No
// particular blocking is mandated by spec.md, only the numerical result,
// so this is the straightforward unblocked walk.
func (d *Dense) Permute(as tensor.Storage, cinds, ainds []tensor.Label, alpha, beta float64) {
	a := as.(*Dense)
	a, ainds = reduceRepeated(a, ainds, labelSet(cinds))
	if len(cinds) != len(d.shape) || len(ainds) != len(a.shape) {
		panic(tensor.ErrLabel)
	}
	aStrideForC, err := permutedStrides(cinds, ainds, a)
	if err != nil {
		panic(err)
	}
	for k, l := range cinds {
		ai := indexOf(ainds, l)
		if d.shape[k] != a.shape[ai] {
			panic(tensor.ErrShape)
		}
	}
	permuteInto(d.data, d.strides, d.shape, a.data, aStrideForC, alpha, beta)
}

// permutedStrides maps each label of cinds to the stride a's buffer has
// for that same label (found via its position in ainds), so a single
// odometer over C's shape can read A in the right order. It also
// validates that cinds is a permutation of ainds (spec.md's "Cᵢ is a
// permutation of Aᵢ").
func permutedStrides(cinds, ainds []tensor.Label, a *Dense) ([]int, error) {
	if len(cinds) != len(ainds) {
		return nil, tensor.ErrLabel
	}
	used := make([]bool, len(ainds))
	strides := make([]int, len(cinds))
	for k, l := range cinds {
		ai := -1
		for j, al := range ainds {
			if al == l && !used[j] {
				ai = j
				used[j] = true
				break
			}
		}
		if ai < 0 {
			return nil, tensor.ErrLabel
		}
		strides[k] = a.strides[ai]
	}
	return strides, nil
}

func indexOf(ls []tensor.Label, l tensor.Label) int {
	for i, x := range ls {
		if x == l {
			return i
		}
	}
	return -1
}

// permuteInto walks shape's odometer once, writing
// dst[stride dot idx] = alpha*src[srcStride dot idx] + beta*dst[...].
func permuteInto(dst []float64, dstStride []int, shape []int, src []float64, srcStride []int, alpha, beta float64) {
	n := len(shape)
	if n == 0 {
		if beta == 0 {
			dst[0] = alpha * src[0]
		} else {
			dst[0] = alpha*src[0] + beta*dst[0]
		}
		return
	}
	idx := make([]int, n)
	total := 1
	for _, e := range shape {
		total *= e
	}
	for count := 0; count < total; count++ {
		dOff, sOff := 0, 0
		for k := 0; k < n; k++ {
			dOff += idx[k] * dstStride[k]
			sOff += idx[k] * srcStride[k]
		}
		if beta == 0 {
			dst[dOff] = alpha * src[sOff]
		} else {
			dst[dOff] = alpha*src[sOff] + beta*dst[dOff]
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
