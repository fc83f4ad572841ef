// Package ambit implements a labeled-index tensor algebra: an expression
// AST for Einstein-style contractions (package expr), a cost-based
// contraction planner (package planner), an expression lowerer that
// schedules primitive Storage calls against a pluggable backend (package
// lower), and a dense in-core backend built on BLAS (package
// tensor/incore). See spec.md and SPEC_FULL.md for the full design.
//
// A typical assignment builds an expr.Node from one or more
// expr.LabeledTensor operands and lowers it onto a target:
//
//	a := expr.Label(tensor.New(tensor.InCore, "A", tensor.Shape{2, 2}), "ik")
//	b := expr.Label(tensor.New(tensor.InCore, "B", tensor.Shape{2, 2}), "kj")
//	c := expr.Label(tensor.New(tensor.InCore, "C", tensor.Shape{2, 2}), "ij")
//	lower.Run(lower.Set, c, a.Mul(b)) // C(ij) = A(ik) * B(kj)
package ambit
