package planner

import "github.com/lcyyork/ambit/tensor"

// Primitive names the in-core kernel a pair-step dispatches to, chosen
// by the decision list in spec.md §4.D.
type Primitive int

const (
	// Permute is the Primitive of a leaf Step (the zero value), such as
	// the lone factor of a length-1 product. Select never returns it,
	// since a pair-step always has two operands.
	Permute Primitive = iota
	// ScaleAndAdd is used when one side of a pair-step is a scalar
	// (rank 0).
	ScaleAndAdd
	// Outer is used when the pair has no contracted and no Hadamard
	// labels: a pure outer product, which the in-core kernel computes
	// with one blas64.Ger over both operands flattened to vectors.
	Outer
	// GEMM is used when both sides and the output are rank 2 with no
	// Hadamard labels: a direct matrix product after at most one
	// transpose flag.
	GEMM
	// HadamardBatchedGEMM is the general case: permute to canonical
	// [PA,I]/[I,PB] layout, batching over any Hadamard labels.
	HadamardBatchedGEMM
)

func (p Primitive) String() string {
	switch p {
	case Permute:
		return "permute"
	case ScaleAndAdd:
		return "scale_and_add"
	case Outer:
		return "outer"
	case GEMM:
		return "gemm"
	case HadamardBatchedGEMM:
		return "hadamard_batched_gemm"
	default:
		return "unknown"
	}
}

// Select implements spec.md §4.D's per-pair primitive selection: given
// the label sequences of a pair-step's two operands and its required
// output, choose which in-core primitive to dispatch.
func Select(left, right, out []tensor.Label) Primitive {
	if len(left) == 0 || len(right) == 0 {
		return ScaleAndAdd
	}

	leftSet := toSet(left)
	rightSet := toSet(right)
	outSet := toSet(out)

	var contracted, hadamard []tensor.Label
	for l := range leftSet {
		if !rightSet[l] {
			continue
		}
		if outSet[l] {
			hadamard = append(hadamard, l)
		} else {
			contracted = append(contracted, l)
		}
	}

	if len(contracted) == 0 && len(hadamard) == 0 {
		return Outer
	}
	if len(left) == 2 && len(right) == 2 && len(out) == 2 && len(hadamard) == 0 {
		return GEMM
	}
	return HadamardBatchedGEMM
}

func toSet(ls []tensor.Label) map[tensor.Label]bool {
	s := make(map[tensor.Label]bool, len(ls))
	for _, l := range ls {
		s[l] = true
	}
	return s
}
