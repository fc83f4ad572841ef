package expr

// SumOfProducts is an ordered sequence of Products to be summed, the
// result of expanding a Distributive node or of directly adding two
// Products (spec.md §4.E, "Labeled ← Sum-of-products").
type SumOfProducts struct {
	Terms []Product
}

// Add appends o to the sum.
func (s SumOfProducts) Add(o Product) SumOfProducts {
	terms := make([]Product, len(s.Terms)+1)
	copy(terms, s.Terms)
	terms[len(s.Terms)] = o
	return SumOfProducts{Terms: terms}
}

// Sub appends o to the sum with its factor negated.
func (s SumOfProducts) Sub(o Product) SumOfProducts {
	return s.Add(o.Neg())
}
