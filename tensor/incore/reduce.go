package incore

import "github.com/lcyyork/ambit/tensor"

// reduceRepeated resolves a repeated label within a single labeled
// tensor's index string (spec.md §9, Open Question 2: "self-contraction
// ... C(\"i\") = A(\"ij\",\"j\")"). A label occupying more than one axis
// of ls requires those axes to share an extent; it is then resolved to
// the diagonal (a single surviving axis) if it appears in keep, or
// traced out entirely (summed away) if it does not. Labels that occupy
// exactly one axis pass through unchanged.
//
// It returns a (possibly new) Dense and the label sequence describing
// it. If ls has no repeats, it returns a and ls unchanged without
// allocating.
func reduceRepeated(a *Dense, ls []tensor.Label, keep map[tensor.Label]bool) (*Dense, []tensor.Label) {
	type group struct {
		positions []int
		extent    int
	}
	groups := make(map[tensor.Label]*group)
	var order []tensor.Label
	repeated := false
	for pos, l := range ls {
		g, ok := groups[l]
		if !ok {
			groups[l] = &group{positions: []int{pos}, extent: a.shape[pos]}
			order = append(order, l)
			continue
		}
		if g.extent != a.shape[pos] {
			panic(tensor.ErrShape)
		}
		g.positions = append(g.positions, pos)
		repeated = true
	}
	if !repeated {
		return a, ls
	}

	var outLabels []tensor.Label
	var outExtent []int
	for _, l := range order {
		g := groups[l]
		if len(g.positions) == 1 || keep[l] {
			outLabels = append(outLabels, l)
			outExtent = append(outExtent, g.extent)
		}
	}
	out := New(tensor.Shape(outExtent))

	extents := make([]int, len(order))
	for i, l := range order {
		extents[i] = groups[l].extent
	}
	outPos := make(map[tensor.Label]int, len(outLabels))
	for i, l := range outLabels {
		outPos[l] = i
	}

	idx := make([]int, len(order))
	total := 1
	for _, e := range extents {
		total *= e
	}
	for count := 0; count < total; count++ {
		aOff := 0
		for i, l := range order {
			for _, pos := range groups[l].positions {
				aOff += idx[i] * a.strides[pos]
			}
		}
		oOff := 0
		for i, l := range order {
			if oi, ok := outPos[l]; ok {
				oOff += idx[i] * out.strides[oi]
			}
		}
		out.data[oOff] += a.data[aOff]
		for k := len(idx) - 1; k >= 0; k-- {
			idx[k]++
			if idx[k] < extents[k] {
				break
			}
			idx[k] = 0
		}
	}
	return out, outLabels
}

// labelSet builds a membership set from a label sequence, for keep-set
// arguments to reduceRepeated.
func labelSet(ls []tensor.Label) map[tensor.Label]bool {
	s := make(map[tensor.Label]bool, len(ls))
	for _, l := range ls {
		s[l] = true
	}
	return s
}
