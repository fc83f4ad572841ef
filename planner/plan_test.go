package planner_test

import (
	"testing"

	"github.com/lcyyork/ambit/expr"
	"github.com/lcyyork/ambit/planner"
	"github.com/lcyyork/ambit/tensor"
	_ "github.com/lcyyork/ambit/tensor/incore"
)

func newLabeled(t *testing.T, name, labels string, shape tensor.Shape) expr.LabeledTensor {
	t.Helper()
	tt := tensor.New(tensor.InCore, name, shape)
	return expr.Label(tt, labels)
}

// TestPlanTwoFactorIsSinglePairStep covers the N=2 base case: C("ik") =
// A("ij")*B("jk") should produce a single internal node with no further
// splits.
func TestPlanTwoFactorIsSinglePairStep(t *testing.T) {
	a := newLabeled(t, "A", "ij", tensor.Shape{2, 3})
	b := newLabeled(t, "B", "jk", tensor.Shape{3, 2})
	step := planner.Plan(tensor.Labels("ik"), []expr.LabeledTensor{a, b})

	if step.IsLeaf() {
		t.Fatalf("two-factor product should not plan to a leaf")
	}
	if !step.Left.IsLeaf() || !step.Right.IsLeaf() {
		t.Fatalf("two-factor product should have leaf children")
	}
	if step.Primitive != planner.GEMM {
		t.Errorf("primitive = %v, want GEMM", step.Primitive)
	}
}

// TestPlanThreeWayProductEqualFlopCost is spec.md §8 scenario 5:
// C("il") = A("ij")*B("jk")*D("kl") over 3x3 identities; the planner
// must choose (AB)D or A(BD), and both cost the same number of FLOPs.
func TestPlanThreeWayProductEqualFlopCost(t *testing.T) {
	a := newLabeled(t, "A", "ij", tensor.Shape{3, 3})
	b := newLabeled(t, "B", "jk", tensor.Shape{3, 3})
	d := newLabeled(t, "D", "kl", tensor.Shape{3, 3})

	step := planner.Plan(tensor.Labels("il"), []expr.LabeledTensor{a, b, d})

	wantFlops := 3.0*3*3 + 3.0*3*3 // each pair-step touches 3 distinct labels of extent 3
	if step.FLOPs != wantFlops {
		t.Errorf("FLOPs = %v, want %v", step.FLOPs, wantFlops)
	}

	// Whichever bracketing was chosen, confirm the alternative bracketing
	// (manually costed) is equal, matching the scenario's requirement.
	altFlops := manualThreeWayFlops(t)
	if step.FLOPs != altFlops {
		t.Errorf("chosen bracketing cost %v, alternative bracketing cost %v, want equal", step.FLOPs, altFlops)
	}
}

// manualThreeWayFlops costs by hand the bracketing planner.Plan does NOT
// choose for the A*B*D case above. FLOPs and peak memory tie, so Plan
// breaks the tie on the bracketing key and picks (A*B)*D; this sums the
// pair-step costs of the alternative, A*(B*D).
func manualThreeWayFlops(t *testing.T) float64 {
	t.Helper()
	// A*(B*D): BD costs j*k*l, A*(BD) costs i*j*l.
	abCost := 3.0 * 3 * 3
	abdCost := 3.0 * 3 * 3
	return abCost + abdCost
}

func TestPlanLabelInThreeFactorsPanics(t *testing.T) {
	a := newLabeled(t, "A", "ij", tensor.Shape{2, 2})
	b := newLabeled(t, "B", "ij", tensor.Shape{2, 2})
	c := newLabeled(t, "C", "ij", tensor.Shape{2, 2})

	defer func() {
		r := recover()
		if r != tensor.ErrPlanning {
			t.Fatalf("expected ErrPlanning panic, got %v", r)
		}
	}()
	planner.Plan(tensor.Labels("ij"), []expr.LabeledTensor{a, b, c})
}

func TestSelectOuterProduct(t *testing.T) {
	if got := planner.Select(tensor.Labels("i"), tensor.Labels("j"), tensor.Labels("ij")); got != planner.Outer {
		t.Errorf("Select = %v, want Outer", got)
	}
}

func TestSelectScaleAndAdd(t *testing.T) {
	if got := planner.Select(nil, tensor.Labels("ij"), tensor.Labels("ij")); got != planner.ScaleAndAdd {
		t.Errorf("Select = %v, want ScaleAndAdd", got)
	}
}

func TestSelectHadamardBatchedGEMM(t *testing.T) {
	got := planner.Select(tensor.Labels("xij"), tensor.Labels("xjk"), tensor.Labels("xik"))
	if got != planner.HadamardBatchedGEMM {
		t.Errorf("Select = %v, want HadamardBatchedGEMM", got)
	}
}
