// Package lower implements the expression lowerer (spec.md §4.E, §4.F):
// it accepts an assignment of an expr.Node to a labeled or sliced
// target and emits a schedule of primitive Storage calls, allocating
// temporaries through a scoped pool and honoring the =/+=/-=
// accumulation discipline. Grounded on the Must/Maybe eager-validation
// discipline in mat64/matrix.go and on mat.Dense.Mul's reuse-or-panic
// shape-check-before-compute pattern: every error this package can
// detect is raised before the first Storage call runs, so a failed
// assignment leaves its target unchanged (spec.md §7).
package lower

import (
	"github.com/lcyyork/ambit/expr"
	"github.com/lcyyork/ambit/planner"
	"github.com/lcyyork/ambit/tensor"
)

// Op names an assignment's accumulation discipline.
type Op int

const (
	// Set is target(indices) = expr: zero then accumulate.
	Set Op = iota
	// Inc is target(indices) += expr: accumulate in place.
	Inc
	// Dec is target(indices) -= expr: negate expr's top-level factor,
	// then accumulate in place (spec.md §4.E).
	Dec
)

// action is one unit of work the lowerer has already validated and is
// ready to execute: either a direct permute from a single labeled
// tensor, or a planned product to run through the planner's tree.
type action struct {
	isProduct bool
	labeled   expr.LabeledTensor
	plan      *planner.Step
}

// Run lowers op applied to target from node, per spec.md §4.E's
// dispatch table. It panics with tensor.ErrLabel, tensor.ErrShape, or
// tensor.ErrPlanning (via package planner) if node's label algebra does
// not match target — always before any Storage call executes.
func Run(op Op, target expr.LabeledTensor, node expr.Node) {
	if op == Dec {
		node = negate(node)
	}
	actions := buildActions(target, node)

	firstBeta := 1.0
	if op == Set {
		firstBeta = 0
	}

	ts := newTempStack(target.T.Kind())
	for i, act := range actions {
		beta := firstBeta
		if i > 0 {
			beta = 1
		}
		if act.isProduct {
			execProduct(target, act.plan, beta, ts)
			continue
		}
		permuteAliasSafe(target, act.labeled, beta, ts)
	}
}

// permuteAliasSafe writes target(target.Labels) <- alpha*src(src.Labels)
// + beta*target(target.Labels). When target and src wrap the same
// storage under a genuine rearrangement (not merely the same label
// order), the fused single-buffer odometer in incore.permuteInto would
// read elements Permute has already overwritten, so this routes the
// write through a pooled temporary instead and copies it back into
// target at the end (spec.md §5, "Aliasing").
func permuteAliasSafe(target expr.LabeledTensor, src expr.LabeledTensor, beta float64, ts *tempStack) {
	alpha := src.Factor * target.Factor
	if target.T.Storage() != src.T.Storage() || sameLabelOrder(target.Labels, src.Labels) {
		target.T.Storage().Permute(src.T.Storage(), target.Labels, src.Labels, alpha, beta)
		return
	}
	h := ts.alloc("alias", target.T.Shape())
	h.T.Storage().Permute(src.T.Storage(), target.Labels, src.Labels, alpha, 0)
	target.T.Storage().Permute(h.T.Storage(), target.Labels, target.Labels, 1, beta)
	ts.release(h)
}

// sameLabelOrder reports whether a and b name the same axes in the same
// order, i.e. the permutation between them is the identity.
func sameLabelOrder(a, b []tensor.Label) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// RunSliced lowers op applied to a sliced target from a sliced source
// (spec.md §4.F). Rank and per-axis width must match before any kernel
// runs.
func RunSliced(op Op, target expr.Sliced, src expr.Sliced) {
	if len(target.Ranges) != len(src.Ranges) {
		panic(tensor.ErrRange)
	}
	for i := range target.Ranges {
		if target.Ranges[i].Width() != src.Ranges[i].Width() {
			panic(tensor.ErrRange)
		}
	}
	if op == Dec {
		src = src.Neg()
	}
	beta := 1.0
	if op == Set {
		beta = 0
	}
	target.T.Storage().Slice(src.T.Storage(), target.Ranges, src.Ranges, src.Factor, beta)
}

// buildActions validates node against target's label set and expands it
// into an ordered list of executable actions, without calling any
// Storage method.
func buildActions(target expr.LabeledTensor, node expr.Node) []action {
	switch v := node.(type) {
	case expr.LabeledTensor:
		checkPermutation(target.Labels, v.Labels)
		return []action{{labeled: v}}

	case expr.Product:
		plan := planner.Plan(target.Labels, v.Terms)
		return []action{{isProduct: true, plan: plan}}

	case expr.Addition:
		actions := make([]action, len(v.Terms))
		for i, t := range v.Terms {
			checkPermutation(target.Labels, t.Labels)
			actions[i] = action{labeled: t}
		}
		return actions

	case expr.Distributive:
		return buildActions(target, v.Expand())

	case expr.SumOfProducts:
		actions := make([]action, len(v.Terms))
		for i, p := range v.Terms {
			actions[i] = action{isProduct: true, plan: planner.Plan(target.Labels, p.Terms)}
		}
		return actions

	default:
		panic(tensor.ErrLabel)
	}
}

// checkPermutation panics with tensor.ErrLabel unless src, once its own
// repeated labels are resolved by self-contraction (diagonal-kept if
// the label survives in target, traced away otherwise — the same rule
// incore.reduceRepeated applies), is a permutation of target: same
// length, same labels with the same multiplicities. This lets a direct
// Labeled ← Labeled assignment such as C("i") = A("ii") validate eagerly
// without running the kernel first.
func checkPermutation(target, src []tensor.Label) {
	keep := make(map[tensor.Label]bool, len(target))
	for _, l := range target {
		keep[l] = true
	}
	reduced := externalLabels(src, keep)

	if len(target) != len(reduced) {
		panic(tensor.ErrLabel)
	}
	count := make(map[tensor.Label]int, len(target))
	for _, l := range target {
		count[l]++
	}
	for _, l := range reduced {
		count[l]--
	}
	for _, c := range count {
		if c != 0 {
			panic(tensor.ErrLabel)
		}
	}
}

// externalLabels reduces ls the way incore.reduceRepeated does: a label
// occupying more than one position collapses to a single occurrence,
// kept if it is in keep (diagonal) or dropped entirely otherwise
// (traced/summed). A label occupying exactly one position always
// passes through.
func externalLabels(ls []tensor.Label, keep map[tensor.Label]bool) []tensor.Label {
	count := make(map[tensor.Label]int, len(ls))
	var order []tensor.Label
	for _, l := range ls {
		if count[l] == 0 {
			order = append(order, l)
		}
		count[l]++
	}
	var out []tensor.Label
	for _, l := range order {
		if count[l] == 1 || keep[l] {
			out = append(out, l)
		}
	}
	return out
}

// negate returns node with its overall contribution's sign flipped,
// implementing -='s "negate the top-level scalar factor" rule uniformly
// across every node variant.
func negate(node expr.Node) expr.Node {
	switch v := node.(type) {
	case expr.LabeledTensor:
		return v.Neg()
	case expr.Product:
		return v.Neg()
	case expr.Addition:
		return v.Neg()
	case expr.Distributive:
		return expr.Distributive{L: v.L.Neg(), Sum: v.Sum}
	case expr.SumOfProducts:
		terms := make([]expr.Product, len(v.Terms))
		for i, p := range v.Terms {
			terms[i] = p.Neg()
		}
		return expr.SumOfProducts{Terms: terms}
	default:
		panic(tensor.ErrLabel)
	}
}
