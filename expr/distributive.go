package expr

// Distributive is the pair (L, Sum) representing L·(t1+t2+…); it lowers
// to Σᵢ(L·tᵢ) (spec.md §3, "Distributive node").
type Distributive struct {
	L   LabeledTensor
	Sum Addition
}

// Expand rewrites the distributive node into its equivalent
// SumOfProducts, one two-factor Product per addition term (spec.md
// §4.E, "Labeled ← Distributive. Expand to addition of products and
// lower.").
func (d Distributive) Expand() SumOfProducts {
	products := make([]Product, len(d.Sum.Terms))
	for i, t := range d.Sum.Terms {
		products[i] = d.L.Mul(t)
	}
	return SumOfProducts{Terms: products}
}
