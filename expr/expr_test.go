package expr_test

import (
	"testing"

	"github.com/lcyyork/ambit/expr"
	"github.com/lcyyork/ambit/tensor"
	_ "github.com/lcyyork/ambit/tensor/incore"
)

func newLabeled(name, labels string, shape tensor.Shape) expr.LabeledTensor {
	t := tensor.New(tensor.InCore, name, shape)
	return expr.Label(t, labels)
}

func TestLabeledMulBuildsProduct(t *testing.T) {
	a := newLabeled("A", "ik", tensor.Shape{2, 3})
	b := newLabeled("B", "kj", tensor.Shape{3, 2})
	p := a.Mul(b)
	if len(p.Terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(p.Terms))
	}
	if tensor.LabelString(p.Terms[0].Labels) != "ik" || tensor.LabelString(p.Terms[1].Labels) != "kj" {
		t.Fatalf("unexpected label order: %q, %q",
			tensor.LabelString(p.Terms[0].Labels), tensor.LabelString(p.Terms[1].Labels))
	}
}

func TestProductMulAppends(t *testing.T) {
	a := newLabeled("A", "ij", tensor.Shape{2, 2})
	b := newLabeled("B", "jk", tensor.Shape{2, 2})
	c := newLabeled("C", "kl", tensor.Shape{2, 2})
	p := a.Mul(b).Mul(c)
	if len(p.Terms) != 3 {
		t.Fatalf("expected 3 terms, got %d", len(p.Terms))
	}
}

func TestProductMulDoesNotMutateOriginal(t *testing.T) {
	a := newLabeled("A", "ij", tensor.Shape{2, 2})
	b := newLabeled("B", "jk", tensor.Shape{2, 2})
	c := newLabeled("C", "kl", tensor.Shape{2, 2})
	p2 := a.Mul(b)
	p3 := p2.Mul(c)
	if len(p2.Terms) != 2 {
		t.Fatalf("appending to p3 mutated p2: len=%d", len(p2.Terms))
	}
	if len(p3.Terms) != 3 {
		t.Fatalf("expected 3 terms in p3, got %d", len(p3.Terms))
	}
}

func TestSubNegatesFactor(t *testing.T) {
	a := newLabeled("A", "ij", tensor.Shape{2, 2})
	b := newLabeled("B", "ij", tensor.Shape{2, 2})
	sum := a.Sub(b)
	if sum.Terms[0].Factor != 1 {
		t.Errorf("first term factor = %v, want 1", sum.Terms[0].Factor)
	}
	if sum.Terms[1].Factor != -1 {
		t.Errorf("second term factor = %v, want -1", sum.Terms[1].Factor)
	}
}

func TestAdditionAppendPreservesEarlierTerms(t *testing.T) {
	a := newLabeled("A", "ij", tensor.Shape{2, 2})
	b := newLabeled("B", "ij", tensor.Shape{2, 2})
	c := newLabeled("C", "ij", tensor.Shape{2, 2})
	sum2 := a.Add(b)
	sum3 := sum2.Sub(c)
	if len(sum2.Terms) != 2 {
		t.Fatalf("appending to sum3 mutated sum2: len=%d", len(sum2.Terms))
	}
	if len(sum3.Terms) != 3 || sum3.Terms[2].Factor != -1 {
		t.Fatalf("sum3 = %+v, want 3 terms with last factor -1", sum3)
	}
}

func TestScaleMultipliesFactor(t *testing.T) {
	a := newLabeled("A", "ij", tensor.Shape{2, 2})
	scaled := a.Scale(2).Scale(3)
	if scaled.Factor != 6 {
		t.Errorf("Factor = %v, want 6", scaled.Factor)
	}
}

func TestNegTwiceIsIdentity(t *testing.T) {
	a := newLabeled("A", "ij", tensor.Shape{2, 2})
	if a.Neg().Neg().Factor != a.Factor {
		t.Errorf("double negation changed factor: %v vs %v", a.Neg().Neg().Factor, a.Factor)
	}
}

func TestProductFactorAccumulates(t *testing.T) {
	a := newLabeled("A", "ij", tensor.Shape{2, 2}).Scale(2)
	b := newLabeled("B", "jk", tensor.Shape{2, 2}).Scale(3)
	p := a.Mul(b)
	if got := p.Factor(); got != 6 {
		t.Errorf("Product.Factor() = %v, want 6", got)
	}
}

// TestDistributiveExpand is spec.md §8 invariant 5's setup: D·(J−K)
// expands to the sum of products D·J and D·(-K).
func TestDistributiveExpand(t *testing.T) {
	d := newLabeled("D", "ij", tensor.Shape{2, 2})
	j := newLabeled("J", "jk", tensor.Shape{2, 2})
	k := newLabeled("K", "jk", tensor.Shape{2, 2})
	sop := d.Distribute(j.Sub(k)).Expand()

	if len(sop.Terms) != 2 {
		t.Fatalf("expected 2 products, got %d", len(sop.Terms))
	}
	if sop.Terms[0].Factor() != 1 {
		t.Errorf("D*J factor = %v, want 1", sop.Terms[0].Factor())
	}
	if sop.Terms[1].Factor() != -1 {
		t.Errorf("D*(-K) factor = %v, want -1", sop.Terms[1].Factor())
	}
}

func TestProductAddBuildsSumOfProducts(t *testing.T) {
	a := newLabeled("A", "ij", tensor.Shape{2, 2})
	b := newLabeled("B", "jk", tensor.Shape{2, 2})
	c := newLabeled("C", "ij", tensor.Shape{2, 2})
	e := newLabeled("E", "jk", tensor.Shape{2, 2})

	sop := a.Mul(b).Add(c.Mul(e))
	if len(sop.Terms) != 2 {
		t.Fatalf("expected 2 products, got %d", len(sop.Terms))
	}
}
