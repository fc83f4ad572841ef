package expr

import "github.com/lcyyork/ambit/tensor"

// Sliced is the triple (Tensor, IndexRange, scalar factor) selecting a
// hyper-rectangle of elements within T (spec.md §3, "Sliced tensor").
// Ranges must have one entry per axis of T, each a half-open [lo, hi)
// interval with 0 <= lo <= hi <= extent.
type Sliced struct {
	T      tensor.Tensor
	Ranges []tensor.Range
	Factor float64
}

// SliceOf builds a Sliced view of t over ranges with an implicit factor
// of 1.
func SliceOf(t tensor.Tensor, ranges []tensor.Range) Sliced {
	return Sliced{T: t, Ranges: ranges, Factor: 1}
}

// Scale returns s with its factor multiplied by f.
func (s Sliced) Scale(f float64) Sliced {
	s.Factor *= f
	return s
}

// Neg returns s with its factor negated.
func (s Sliced) Neg() Sliced {
	return s.Scale(-1)
}
