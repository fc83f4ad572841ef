package expr

// Addition is an ordered sequence of labeled tensors to be summed, each
// term's own scalar factor already carrying any sign from subtraction
// (spec.md §3, "Addition node").
type Addition struct {
	Terms []LabeledTensor
}

// Add appends o to the sum (spec.md §4.C, "Addition ± LabeledTensor →
// Addition (append)").
func (a Addition) Add(o LabeledTensor) Addition {
	terms := make([]LabeledTensor, len(a.Terms)+1)
	copy(terms, a.Terms)
	terms[len(a.Terms)] = o
	return Addition{Terms: terms}
}

// Sub appends o to the sum with its factor negated.
func (a Addition) Sub(o LabeledTensor) Addition {
	return a.Add(o.Neg())
}

// Scale multiplies every term's factor by s, scaling the sum as a
// whole.
func (a Addition) Scale(s float64) Addition {
	terms := make([]LabeledTensor, len(a.Terms))
	for i, t := range a.Terms {
		terms[i] = t.Scale(s)
	}
	return Addition{Terms: terms}
}

// Neg negates every term's factor.
func (a Addition) Neg() Addition {
	return a.Scale(-1)
}
