package incore_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/lcyyork/ambit/tensor"
	"github.com/lcyyork/ambit/tensor/incore"
)

// TestContractMatMul is spec.md §8 scenario 1: C("ik") = A("ij") * B("jk").
func TestContractMatMul(t *testing.T) {
	a := mustLoad(tensor.Shape{2, 3}, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	b := mustLoad(tensor.Shape{3, 2}, []float64{
		7, 8,
		9, 10,
		11, 12,
	})
	c := incore.New(tensor.Shape{2, 2})
	c.Contract(a, b, tensor.Labels("ik"), tensor.Labels("ij"), tensor.Labels("jk"), 1, 0)

	// row0: [1*7+2*9+3*11, 1*8+2*10+3*12] = [58, 64]
	// row1: [4*7+5*9+6*11, 4*8+5*10+6*12] = [139, 154]
	want := []float64{58, 64, 139, 154}
	if diff := cmp.Diff(want, c.RawStorage()); diff != "" {
		t.Fatalf("matmul mismatch (-want +got):\n%s", diff)
	}
}

// TestContractOuterProduct exercises the no-contracted-axis path (Ger):
// C("ij") = A("i") * B("j").
func TestContractOuterProduct(t *testing.T) {
	a := mustLoad(tensor.Shape{2}, []float64{1, 2})
	b := mustLoad(tensor.Shape{3}, []float64{3, 4, 5})
	c := incore.New(tensor.Shape{2, 3})
	c.Contract(a, b, tensor.Labels("ij"), tensor.Labels("i"), tensor.Labels("j"), 1, 0)

	want := []float64{
		3, 4, 5,
		6, 8, 10,
	}
	if diff := cmp.Diff(want, c.RawStorage()); diff != "" {
		t.Fatalf("outer product mismatch (-want +got):\n%s", diff)
	}
}

// TestContractFullReduction: C() = A("i") * B("i"), the pure dot-product
// case (no external labels at all).
func TestContractFullReduction(t *testing.T) {
	a := mustLoad(tensor.Shape{3}, []float64{1, 2, 3})
	b := mustLoad(tensor.Shape{3}, []float64{4, 5, 6})
	c := incore.New(tensor.Shape{})
	c.Contract(a, b, nil, tensor.Labels("i"), tensor.Labels("i"), 1, 0)

	want := 1*4 + 2*5 + 3*6
	if got := c.RawStorage()[0]; got != float64(want) {
		t.Fatalf("dot product = %v, want %v", got, want)
	}
}

// TestContractHadamard exercises the batched-Hadamard-label path: C("xik")
// = A("xij") * B("xjk") for a batch label x shared by A, B and C.
func TestContractHadamard(t *testing.T) {
	// x has extent 2; each batch element is an independent 2x2 matmul.
	a := mustLoad(tensor.Shape{2, 2, 2}, []float64{
		// x=0
		1, 0,
		0, 1,
		// x=1
		2, 0,
		0, 2,
	})
	b := mustLoad(tensor.Shape{2, 2, 2}, []float64{
		// x=0
		1, 2,
		3, 4,
		// x=1
		5, 6,
		7, 8,
	})
	c := incore.New(tensor.Shape{2, 2, 2})
	c.Contract(a, b, tensor.Labels("xik"), tensor.Labels("xij"), tensor.Labels("xjk"), 1, 0)

	want := []float64{
		// x=0: identity * [[1,2],[3,4]] = [[1,2],[3,4]]
		1, 2,
		3, 4,
		// x=1: 2*I * [[5,6],[7,8]] = [[10,12],[14,16]]
		10, 12,
		14, 16,
	}
	if diff := cmp.Diff(want, c.RawStorage()); diff != "" {
		t.Fatalf("hadamard-batched contract mismatch (-want +got):\n%s", diff)
	}
}

// TestContractBetaAccumulate checks that an existing C value is scaled by
// beta and accumulated into, not overwritten, when beta != 0.
func TestContractBetaAccumulate(t *testing.T) {
	a := mustLoad(tensor.Shape{2, 2}, []float64{1, 0, 0, 1})
	b := mustLoad(tensor.Shape{2, 2}, []float64{1, 2, 3, 4})
	c := mustLoad(tensor.Shape{2, 2}, []float64{100, 100, 100, 100})
	c.Contract(a, b, tensor.Labels("ik"), tensor.Labels("ij"), tensor.Labels("jk"), 1, 2)

	want := []float64{1 + 200, 2 + 200, 3 + 200, 4 + 200}
	if diff := cmp.Diff(want, c.RawStorage(), cmpopts.EquateApprox(0, tol)); diff != "" {
		t.Fatalf("beta accumulate mismatch (-want +got):\n%s", diff)
	}
}

// TestContractSelfContractedOperand exercises reduceRepeated inside
// Contract: A("iij") traces its repeated label i before contracting,
// i.e. C("k") = trace_i(A("iij"))("j") * B("jk"). Only the i==i' diagonal
// contributes to a trace; off-diagonal entries are set to a value that
// would throw the result off if they were wrongly included.
func TestContractSelfContractedOperand(t *testing.T) {
	a := mustLoad(tensor.Shape{2, 2, 2}, []float64{
		// i=0: i'=0 (diag, value 2), i'=1 (off, unused)
		2, 2,
		99, 99,
		// i=1: i'=0 (off, unused), i'=1 (diag, value 3)
		99, 99,
		3, 3,
	})
	b := mustLoad(tensor.Shape{2, 2}, []float64{
		1, 2,
		3, 4,
	})
	c := incore.New(tensor.Shape{2})
	c.Contract(a, b, tensor.Labels("k"), tensor.Labels("iij"), tensor.Labels("jk"), 1, 0)

	// trace_i(A) = [2+3, 2+3] = [5, 5]; dotted against B's columns [1,3]
	// and [2,4] gives [5*4, 5*6].
	want := []float64{5 * 4, 5 * 6}
	if diff := cmp.Diff(want, c.RawStorage(), cmpopts.EquateApprox(0, tol)); diff != "" {
		t.Fatalf("self-contracted operand mismatch (-want +got):\n%s", diff)
	}
}
