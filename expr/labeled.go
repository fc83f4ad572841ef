// Package expr implements the labeled-index expression algebra: a small,
// value-typed sum of variants (LabeledTensor, Product, Addition,
// Distributive, SumOfProducts) built by named combinators rather than
// operator overloading, matching the idiom of mat.Dense's Add/Sub/Mul/
// MulElem methods (spec.md §4.C, §9 "Deferred expression trees"). Nodes
// are cheap to copy — they only hold a tensor.Tensor handle and a label
// slice — and are normalized lazily by package lower at assignment time,
// not during construction.
package expr

import "github.com/lcyyork/ambit/tensor"

// LabeledTensor pairs a Tensor with an ordered index labeling and a
// scalar factor, the atomic building block of the expression algebra
// (spec.md §3, "Labeled tensor"). |Labels| must equal T's rank; a label
// may repeat within Labels only to express a trace over those axes.
type LabeledTensor struct {
	T      tensor.Tensor
	Labels []tensor.Label
	Factor float64
}

// Label builds a LabeledTensor over t with index string ls and an
// implicit factor of 1, e.g. Label(a, "ik").
func Label(t tensor.Tensor, ls string) LabeledTensor {
	return LabeledTensor{T: t, Labels: tensor.Labels(ls), Factor: 1}
}

// Scale returns l with its factor multiplied by s.
func (l LabeledTensor) Scale(s float64) LabeledTensor {
	l.Factor *= s
	return l
}

// Neg returns l with its factor negated.
func (l LabeledTensor) Neg() LabeledTensor {
	return l.Scale(-1)
}

// Mul builds the two-factor Product l*o (spec.md §4.C,
// "LabeledTensor × LabeledTensor → Product").
func (l LabeledTensor) Mul(o LabeledTensor) Product {
	return Product{Terms: []LabeledTensor{l, o}}
}

// Add builds the Addition l+o (spec.md §4.C, "LabeledTensor ± LabeledTensor
// → Addition").
func (l LabeledTensor) Add(o LabeledTensor) Addition {
	return Addition{Terms: []LabeledTensor{l, o}}
}

// Sub builds the Addition l-o; o's factor is negated before being
// appended (spec.md §4.C, "Subtraction negates the appended term's
// factor").
func (l LabeledTensor) Sub(o LabeledTensor) Addition {
	return Addition{Terms: []LabeledTensor{l, o.Neg()}}
}

// Distribute builds the Distributive node l·sum, representing
// l·(t₁+t₂+…) (spec.md §4.C, "LabeledTensor × Addition → Distributive").
func (l LabeledTensor) Distribute(sum Addition) Distributive {
	return Distributive{L: l, Sum: sum}
}
