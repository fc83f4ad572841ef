package expr

// Product is an ordered sequence of labeled tensors, representing their
// scalar-times-product (spec.md §3, "Product node"). A Product of
// length 1 is identity; length 2 is the binary contraction used
// throughout the lowerer; length >= 3 requires the planner.
type Product struct {
	Terms []LabeledTensor
}

// Mul appends o to the product (spec.md §4.C, "Product × LabeledTensor
// → Product (append)").
func (p Product) Mul(o LabeledTensor) Product {
	terms := make([]LabeledTensor, len(p.Terms)+1)
	copy(terms, p.Terms)
	terms[len(p.Terms)] = o
	return Product{Terms: terms}
}

// Scale multiplies the product's accumulated scalar factor by s,
// applied to the first term so the overall product value scales by s
// (spec.md §4.C, "scalar · anything scales the accumulated factor").
func (p Product) Scale(s float64) Product {
	if len(p.Terms) == 0 {
		return p
	}
	terms := append([]LabeledTensor(nil), p.Terms...)
	terms[0] = terms[0].Scale(s)
	return Product{Terms: terms}
}

// Neg negates the product's accumulated scalar factor.
func (p Product) Neg() Product {
	return p.Scale(-1)
}

// Add builds the SumOfProducts p+o (spec.md §4.E, "Labeled ←
// Sum-of-products").
func (p Product) Add(o Product) SumOfProducts {
	return SumOfProducts{Terms: []Product{p, o}}
}

// Sub builds the SumOfProducts p-o; o is negated before being appended.
func (p Product) Sub(o Product) SumOfProducts {
	return SumOfProducts{Terms: []Product{p, o.Neg()}}
}

// Factor reports the product's overall scalar factor: the product of
// every term's individual factor.
func (p Product) Factor() float64 {
	f := 1.0
	for _, t := range p.Terms {
		f *= t.Factor
	}
	return f
}
