package expr

// Node is implemented by every expression-algebra variant (LabeledTensor,
// Product, Addition, Distributive, SumOfProducts), letting package lower
// accept any of them as the right-hand side of an assignment and
// type-switch to the right lowering rule (spec.md §4.E).
type Node interface {
	isNode()
}

func (LabeledTensor) isNode() {}
func (Product) isNode()       {}
func (Addition) isNode()      {}
func (Distributive) isNode()  {}
func (SumOfProducts) isNode() {}
