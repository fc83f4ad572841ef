// Package planner implements the contraction planner (spec.md §4.D): for
// an N-way product it chooses a pairwise evaluation order minimizing a
// two-part (FLOPs, then peak memory) cost over the fixed factor
// sequence, then assigns each pair-step a primitive. It is directly
// grounded on the dynamic-programming matrix-chain optimizer in
// _examples/other_examples/1fc74876_ccamateur-gonum__mat64-product.go.go
// (gonum's mat64.Dense.Product): that file's table/cost/split recurrence
// over a chain of plain matrices is generalized here from a single
// scalar dimension per link to an arbitrary set of labeled extents per
// pair-step.
package planner

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lcyyork/ambit/expr"
	"github.com/lcyyork/ambit/tensor"
)

// Step is one node of the planner's binary contraction tree. A leaf
// (Left == Right == nil) is an original factor; an internal node is the
// pair-step combining Left and Right. Labels gives the label order of
// this node's result, the layout the lowerer/primitive dispatcher will
// use to address it.
type Step struct {
	Left, Right *Step
	Factor      expr.LabeledTensor // valid only for a leaf
	Labels      []tensor.Label
	FLOPs       float64
	MemWords    float64
	Primitive   Primitive
}

// IsLeaf reports whether the step is an original factor rather than a
// pair-step.
func (s *Step) IsLeaf() bool { return s.Left == nil && s.Right == nil }

// cell is one entry of the bracketing DP table: the best (FLOPs, peak
// memory, bracketing key) achievable for a span, plus the split that
// achieves it.
type cell struct {
	flops float64
	peak  float64
	key   string
	split int
	valid bool
}

func better(a, b cell) bool {
	if a.flops != b.flops {
		return a.flops < b.flops
	}
	if a.peak != b.peak {
		return a.peak < b.peak
	}
	return a.key < b.key
}

// Plan chooses a pairwise bracketing for terms that produces target's
// label set, minimizing total FLOPs, breaking ties by lowest peak
// memory and then by lexicographically smallest bracketing (spec.md
// §4.D). It panics with tensor.ErrPlanning if the product's label
// algebra is inconsistent (a label spanning more than two factors, or a
// target label absent from every factor).
func Plan(target []tensor.Label, terms []expr.LabeledTensor) *Step {
	n := len(terms)
	if n == 0 {
		panic(tensor.ErrPlanning)
	}

	factorLabels := make([][]tensor.Label, n)
	extent := map[tensor.Label]int{}
	occ := map[tensor.Label][]int{}
	for i, term := range terms {
		seen := map[tensor.Label]bool{}
		for axis, l := range term.Labels {
			if seen[l] {
				continue
			}
			seen[l] = true
			factorLabels[i] = append(factorLabels[i], l)
			e := term.T.Shape()[axis]
			if prev, ok := extent[l]; ok && prev != e {
				panic(tensor.ErrShape)
			}
			extent[l] = e
			occ[l] = append(occ[l], i)
		}
	}
	for _, positions := range occ {
		if len(positions) > 2 {
			panic(tensor.ErrPlanning)
		}
	}
	targetSet := map[tensor.Label]bool{}
	for _, l := range target {
		targetSet[l] = true
	}
	for _, l := range target {
		if _, ok := occ[l]; !ok {
			panic(tensor.ErrPlanning)
		}
	}

	// extSet[i][j] is the label set that must survive as the external
	// interface of the subtree spanning factors [i,j]: a label belongs
	// to it either because an occurrence of it lies outside [i,j] (it
	// has not yet met its contraction partner) or because all of its
	// occurrences lie inside [i,j] but it is one of target's labels (a
	// Hadamard label, retained rather than summed). This depends only
	// on the span's endpoints, not on how the span is internally
	// bracketed, which is what lets the DP below treat it as a fixed
	// per-span quantity.
	extSet := make([][][]tensor.Label, n)
	memSize := make([][]float64, n)
	for i := range extSet {
		extSet[i] = make([][]tensor.Label, n)
		memSize[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			var labels []tensor.Label
			for l, positions := range occ {
				within := 0
				for _, p := range positions {
					if p >= i && p <= j {
						within++
					}
				}
				if within == 0 {
					continue
				}
				if within < len(positions) || targetSet[l] {
					labels = append(labels, l)
				}
			}
			sort.Slice(labels, func(a, b int) bool { return labels[a] < labels[b] })
			extSet[i][j] = labels
			memSize[i][j] = product(labels, extent)
		}
	}

	dp := make([][]cell, n)
	for i := range dp {
		dp[i] = make([]cell, n)
	}
	for i := 0; i < n; i++ {
		dp[i][i] = cell{flops: 0, peak: 0, key: strconv.Itoa(i), valid: true}
	}
	for span := 1; span < n; span++ {
		for i := 0; i+span < n; i++ {
			j := i + span
			var best cell
			for k := i; k < j; k++ {
				left := dp[i][k]
				right := dp[k+1][j]
				stepFlops := product(union(extSet[i][k], extSet[k+1][j]), extent)
				cand := cell{
					flops: left.flops + right.flops + stepFlops,
					peak:  maxf(left.peak, right.peak, memSize[i][j]),
					key:   "(" + left.key + " " + right.key + ")",
					split: k,
					valid: true,
				}
				if !best.valid || better(cand, best) {
					best = cand
				}
			}
			dp[i][j] = best
		}
	}

	return build(terms, factorLabels, extSet, extent, dp, 0, n-1, target)
}

func build(terms []expr.LabeledTensor, factorLabels [][]tensor.Label, extSet [][][]tensor.Label, extent map[tensor.Label]int, dp [][]cell, i, j int, target []tensor.Label) *Step {
	if i == j {
		return &Step{Factor: terms[i], Labels: factorLabels[i]}
	}
	k := dp[i][j].split
	left := build(terms, factorLabels, extSet, extent, dp, i, k, target)
	right := build(terms, factorLabels, extSet, extent, dp, k+1, j, target)
	labels := extSet[i][j]
	if i == 0 && j == len(terms)-1 {
		labels = target
	}
	step := &Step{Left: left, Right: right, Labels: labels}
	step.FLOPs = left.FLOPs + right.FLOPs + product(union(extSet[i][k], extSet[k+1][j]), extent)
	step.MemWords = maxf(left.MemWords, right.MemWords, product(labels, extent))
	step.Primitive = Select(left.Labels, right.Labels, labels)
	return step
}

func union(a, b []tensor.Label) []tensor.Label {
	set := map[tensor.Label]bool{}
	for _, l := range a {
		set[l] = true
	}
	for _, l := range b {
		set[l] = true
	}
	out := make([]tensor.Label, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func product(labels []tensor.Label, extent map[tensor.Label]int) float64 {
	p := 1.0
	for _, l := range labels {
		p *= float64(extent[l])
	}
	return p
}

func maxf(vs ...float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// String renders a step's bracketing for diagnostics, e.g. "(A (B C))".
func (s *Step) String() string {
	if s.IsLeaf() {
		return s.Factor.T.Name()
	}
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(s.Left.String())
	b.WriteByte(' ')
	b.WriteString(s.Right.String())
	b.WriteByte(')')
	return b.String()
}
