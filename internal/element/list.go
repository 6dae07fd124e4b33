package element

import "sort"

// List is an in-memory Source over a fixed set of elements.
type List []*Element

// NewList returns a List sorted by Begin, then by decreasing End so that
// enclosing elements precede the elements they contain.
func NewList(elems ...*Element) List {
	l := List(append([]*Element(nil), elems...))
	sort.SliceStable(l, func(i, j int) bool {
		if l[i].Begin != l[j].Begin {
			return l[i].Begin < l[j].Begin
		}
		return l[i].End > l[j].End
	})
	return l
}

// ElementAt returns the innermost element containing pos.
func (l List) ElementAt(pos int) *Element {
	var best *Element
	for _, e := range l {
		if e.Begin > pos {
			break
		}
		if pos >= e.End {
			continue
		}
		if best == nil || e.End-e.Begin <= best.End-best.Begin {
			best = e
		}
	}
	return best
}

// ElementsIn returns the elements overlapping [start, end).
func (l List) ElementsIn(start, end int) []*Element {
	var out []*Element
	for _, e := range l {
		if e.Begin >= end {
			break
		}
		if e.End > start {
			out = append(out, e)
		}
	}
	return out
}
