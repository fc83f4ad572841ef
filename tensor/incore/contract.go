package incore

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/lcyyork/ambit/tensor"
)

// Contract implements tensor.Storage.Contract: C(cinds) <-
// alpha*A(ainds)*B(binds) + beta*C(cinds), where C is the receiver
// (spec.md §4.B). Labels are partitioned into external (E, in C),
// Hadamard (H, in A, B and C), internal/contracted (I, in A and B but
// not C), and the per-operand-only sets PA/PB (in one operand and C).
// Labels private to one operand and absent from C are summed away first
// ("unilateral reduction", per spec.md §4.B's parenthetical). The
// remaining A/B views are reduced to a GEMM (or, when there is no
// contracted dimension, an outer product via Ger) after permuting each
// operand into the canonical [rows, cols] layout GEMM expects; the
// result is permuted into C's label order as the final step, folding in
// beta.
func (d *Dense) Contract(as, bs tensor.Storage, cinds, ainds, binds []tensor.Label, alpha, beta float64) {
	a := as.(*Dense)
	b := bs.(*Dense)

	keepC := labelSet(cinds)
	a, ainds = reduceRepeated(a, ainds, keepC)
	b, binds = reduceRepeated(b, binds, keepC)

	inA := labelSet(ainds)
	inB := labelSet(binds)

	var uniA, uniB []tensor.Label
	for _, l := range ainds {
		if !inB[l] && !keepC[l] {
			uniA = append(uniA, l)
		}
	}
	for _, l := range binds {
		if !inA[l] && !keepC[l] {
			uniB = append(uniB, l)
		}
	}
	if len(uniA) > 0 {
		a, ainds = marginalize(a, ainds, uniA)
		inA = labelSet(ainds)
	}
	if len(uniB) > 0 {
		b, binds = marginalize(b, binds, uniB)
		inB = labelSet(binds)
	}

	for _, l := range cinds {
		if !inA[l] && !inB[l] {
			panic(tensor.ErrLabel)
		}
	}

	var hLabels, iLabels, paLabels, pbLabels []tensor.Label
	for _, l := range ainds {
		switch {
		case inB[l] && keepC[l]:
			hLabels = append(hLabels, l)
		case inB[l]:
			iLabels = append(iLabels, l)
		case keepC[l]:
			paLabels = append(paLabels, l)
		default:
			panic(tensor.ErrLabel)
		}
	}
	for _, l := range binds {
		if !inA[l] && keepC[l] {
			pbLabels = append(pbLabels, l)
		}
	}
	checkConsistentExtents(a, ainds, b, binds)

	if len(hLabels) == 0 {
		contractPair(d, cinds, a, ainds, b, binds, iLabels, paLabels, pbLabels, alpha, beta)
		return
	}
	contractHadamard(d, cinds, a, ainds, b, binds, hLabels, alpha, beta)
}

// checkConsistentExtents panics with ErrShape if a label shared between
// A and B has different extents in each.
func checkConsistentExtents(a *Dense, ainds []tensor.Label, b *Dense, binds []tensor.Label) {
	ext := make(map[tensor.Label]int, len(ainds))
	for i, l := range ainds {
		ext[l] = a.shape[i]
	}
	for i, l := range binds {
		if e, ok := ext[l]; ok && e != b.shape[i] {
			panic(tensor.ErrShape)
		}
	}
}

// marginalize sums a out over the axes named in drop, which must be
// labels private to a (not shared with the other operand or C).
func marginalize(a *Dense, ls []tensor.Label, drop []tensor.Label) (*Dense, []tensor.Label) {
	dropSet := labelSet(drop)
	var keep []tensor.Label
	keepShape := make([]int, 0, len(ls))
	for i, l := range ls {
		if !dropSet[l] {
			keep = append(keep, l)
			keepShape = append(keepShape, a.shape[i])
		}
	}
	out := New(tensor.Shape(keepShape))
	idx := make([]int, len(ls))
	total := a.Shape().Size()
	if total == 0 {
		return out, keep
	}
	for count := 0; count < total; count++ {
		aOff, oOff := 0, 0
		oi := 0
		for i, l := range ls {
			aOff += idx[i] * a.strides[i]
			if !dropSet[l] {
				oOff += idx[i] * out.strides[oi]
				oi++
			}
		}
		out.data[oOff] += a.data[aOff]
		for k := len(idx) - 1; k >= 0; k-- {
			idx[k]++
			if idx[k] < a.shape[k] {
				break
			}
			idx[k] = 0
		}
	}
	return out, keep
}

// viewExtents returns the extents of labels, in order, as found within
// a's label sequence ls.
func viewExtents(a *Dense, ls []tensor.Label, labels []tensor.Label) []int {
	ext := make([]int, len(labels))
	for i, l := range labels {
		ext[i] = a.shape[indexOf(ls, l)]
	}
	return ext
}

func size(ext []int) int {
	n := 1
	for _, e := range ext {
		n *= e
	}
	return n
}

// contractPair performs the no-Hadamard case: a single GEMM (or, absent
// any contracted dimension, an outer product via Ger).
func contractPair(d *Dense, cinds []tensor.Label, a *Dense, ainds []tensor.Label, b *Dense, binds []tensor.Label, iLabels, paLabels, pbLabels []tensor.Label, alpha, beta float64) {
	paExt := viewExtents(a, ainds, paLabels)
	pbExt := viewExtents(b, binds, pbLabels)
	m, n := size(paExt), size(pbExt)

	if len(iLabels) == 0 {
		outerProduct(d, cinds, a, ainds, paLabels, paExt, b, binds, pbLabels, pbExt, alpha, beta)
		return
	}

	iExt := viewExtents(a, ainds, iLabels)
	k := size(iExt)

	aViewLabels := append(append([]tensor.Label{}, paLabels...), iLabels...)
	bViewLabels := append(append([]tensor.Label{}, iLabels...), pbLabels...)
	aView := New(tensor.Shape(append(append([]int{}, paExt...), iExt...)))
	bView := New(tensor.Shape(append(append([]int{}, iExt...), pbExt...)))
	aView.Permute(a, aViewLabels, ainds, 1, 0)
	bView.Permute(b, bViewLabels, binds, 1, 0)

	out := New(tensor.Shape(append(append([]int{}, paExt...), pbExt...)))
	blas64.Gemm(blas.NoTrans, blas.NoTrans, alpha,
		blas64.General{Rows: m, Cols: k, Stride: k, Data: aView.data},
		blas64.General{Rows: k, Cols: n, Stride: n, Data: bView.data},
		0,
		blas64.General{Rows: m, Cols: n, Stride: n, Data: out.data})

	outLabels := append(append([]tensor.Label{}, paLabels...), pbLabels...)
	d.Permute(out, cinds, outLabels, 1, beta)
}

// outerProduct handles the case where A and B share no contracted
// label: C(cinds) <- alpha * outer(A(paLabels), B(pbLabels)) +
// beta*C(cinds), computed with one blas64.Ger over A and B each
// flattened to a vector, whatever their rank.
func outerProduct(d *Dense, cinds []tensor.Label, a *Dense, ainds []tensor.Label, paLabels []tensor.Label, paExt []int, b *Dense, binds []tensor.Label, pbLabels []tensor.Label, pbExt []int, alpha, beta float64) {
	m, n := size(paExt), size(pbExt)
	aView := New(tensor.Shape(append([]int{}, paExt...)))
	bView := New(tensor.Shape(append([]int{}, pbExt...)))
	aView.Permute(a, paLabels, ainds, 1, 0)
	bView.Permute(b, pbLabels, binds, 1, 0)

	out := New(tensor.Shape(append(append([]int{}, paExt...), pbExt...)))
	if m > 0 && n > 0 {
		blas64.Ger(alpha,
			blas64.Vector{N: m, Inc: 1, Data: aView.data},
			blas64.Vector{N: n, Inc: 1, Data: bView.data},
			blas64.General{Rows: m, Cols: n, Stride: n, Data: out.data})
	}
	outLabels := append(append([]tensor.Label{}, paLabels...), pbLabels...)
	d.Permute(out, cinds, outLabels, 1, beta)
}

// contractHadamard handles labels shared by A, B and C: it batches over
// every Hadamard multi-index, contracting the corresponding slices of A
// and B with contractPair and writing into the matching slice of C
// (spec.md §4.B, "When Hadamard labels are present, batch over H").
func contractHadamard(d *Dense, cinds []tensor.Label, a *Dense, ainds []tensor.Label, b *Dense, binds []tensor.Label, hLabels []tensor.Label, alpha, beta float64) {
	hExt := viewExtents(a, ainds, hLabels)
	total := size(hExt)
	idx := make([]int, len(hLabels))
	for count := 0; count < total; count++ {
		aSlice, aRest := fixAxes(a, ainds, hLabels, idx)
		bSlice, bRest := fixAxes(b, binds, hLabels, idx)
		cSlice, cRest := fixAxes(d, cinds, hLabels, idx)

		cSlice.Contract(aSlice, bSlice, cRest, aRest, bRest, alpha, beta)

		for k := len(idx) - 1; k >= 0; k-- {
			idx[k]++
			if idx[k] < hExt[k] {
				break
			}
			idx[k] = 0
		}
	}
}

// fixAxes returns a view that aliases t's backing buffer with each axis
// named by a label in fixed pinned to idx's corresponding value, and
// every other axis left free in t's original relative order. Writes
// through the returned Dense land directly in t, which is what lets the
// Hadamard batch in contractHadamard accumulate straight into C's
// slices without a gather/scatter copy.
func fixAxes(t *Dense, ls []tensor.Label, fixed []tensor.Label, idx []int) (*Dense, []tensor.Label) {
	pin := make(map[tensor.Label]int, len(fixed))
	for i, l := range fixed {
		pin[l] = idx[i]
	}
	offset := 0
	var outShape, outStrides []int
	var outLabels []tensor.Label
	for i, l := range ls {
		if v, ok := pin[l]; ok {
			offset += v * t.strides[i]
			continue
		}
		outShape = append(outShape, t.shape[i])
		outStrides = append(outStrides, t.strides[i])
		outLabels = append(outLabels, l)
	}
	view := &Dense{shape: outShape, strides: outStrides, data: t.data[offset:]}
	return view, outLabels
}
