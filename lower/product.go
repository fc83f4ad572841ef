package lower

import (
	"github.com/lcyyork/ambit/expr"
	"github.com/lcyyork/ambit/planner"
	"github.com/lcyyork/ambit/tensor"
)

// operand is an intermediate result flowing up through a planner.Step
// tree: the storage to read, the label order it is laid out in, and
// (for pooled temporaries) the handle to release once its parent has
// consumed it.
type operand struct {
	storage tensor.Storage
	labels  []tensor.Label
	handle  *tempHandle
}

// execProduct runs plan's pair-step schedule and writes the final
// result into target with the given beta, folding the product's
// accumulated leaf factors into the final pair-step's alpha (spec.md
// §4.E, "Labeled ← Product").
func execProduct(target expr.LabeledTensor, plan *planner.Step, beta float64, ts *tempStack) {
	if plan.IsLeaf() {
		target.T.Storage().Permute(
			plan.Factor.T.Storage(),
			target.Labels, plan.Factor.Labels,
			plan.Factor.Factor*target.Factor, beta)
		return
	}

	extents := collectExtents(plan)
	left := computeOperand(plan.Left, extents, ts)
	right := computeOperand(plan.Right, extents, ts)

	target.T.Storage().Contract(
		left.storage, right.storage,
		target.Labels, left.labels, right.labels,
		totalFactor(plan)*target.Factor, beta)

	releaseOperand(ts, left)
	releaseOperand(ts, right)
}

// computeOperand evaluates step, allocating a fresh temporary for an
// internal node (written with alpha=1, beta=0) or returning a leaf
// factor's own storage directly with no allocation.
func computeOperand(step *planner.Step, extents map[tensor.Label]int, ts *tempStack) operand {
	if step.IsLeaf() {
		return operand{storage: step.Factor.T.Storage(), labels: step.Factor.Labels}
	}

	left := computeOperand(step.Left, extents, ts)
	right := computeOperand(step.Right, extents, ts)

	shape := make(tensor.Shape, len(step.Labels))
	for i, l := range step.Labels {
		shape[i] = extents[l]
	}
	h := ts.alloc(step.String(), shape)
	h.T.Storage().Contract(left.storage, right.storage, step.Labels, left.labels, right.labels, 1, 0)

	releaseOperand(ts, left)
	releaseOperand(ts, right)

	return operand{storage: h.T.Storage(), labels: step.Labels, handle: &h}
}

func releaseOperand(ts *tempStack, o operand) {
	if o.handle != nil {
		ts.release(*o.handle)
	}
}

// totalFactor is the product of every leaf factor's scalar in plan's
// tree, folded into the final pair-step's alpha.
func totalFactor(step *planner.Step) float64 {
	if step.IsLeaf() {
		return step.Factor.Factor
	}
	return totalFactor(step.Left) * totalFactor(step.Right)
}

// collectExtents walks plan's leaves to build a label->extent lookup,
// used to shape the temporaries allocated for internal nodes.
func collectExtents(step *planner.Step) map[tensor.Label]int {
	ext := map[tensor.Label]int{}
	var walk func(s *planner.Step)
	walk = func(s *planner.Step) {
		if s == nil {
			return
		}
		if s.IsLeaf() {
			for axis, l := range s.Factor.Labels {
				ext[l] = s.Factor.T.Shape()[axis]
			}
			return
		}
		walk(s.Left)
		walk(s.Right)
	}
	walk(step)
	return ext
}
