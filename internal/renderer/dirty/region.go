// Package dirty tracks which parts of a document still need their default
// presentation applied. Regions are half-open rune offset ranges; adjacent
// and overlapping regions are coalesced.
package dirty

// Region represents a range of the document that needs rendering.
type Region struct {
	// Start is the first offset of the region (inclusive).
	Start int

	// End is the last offset of the region (exclusive).
	End int
}

// NewRegion creates a region, swapping inverted bounds.
func NewRegion(start, end int) Region {
	if end < start {
		start, end = end, start
	}
	return Region{Start: start, End: end}
}

// IsEmpty returns true if the region covers no text.
func (r Region) IsEmpty() bool {
	return r.Start >= r.End
}

// Len returns the number of offsets covered.
func (r Region) Len() int {
	if r.IsEmpty() {
		return 0
	}
	return r.End - r.Start
}

// Contains returns true if the region contains pos.
func (r Region) Contains(pos int) bool {
	return pos >= r.Start && pos < r.End
}

// Overlaps returns true if two regions share at least one offset.
func (r Region) Overlaps(other Region) bool {
	return r.Start < other.End && other.Start < r.End
}

// Adjacent returns true if one region ends where the other starts.
func (r Region) Adjacent(other Region) bool {
	return r.End == other.Start || other.End == r.Start
}

// Merge combines two regions into a single region that covers both.
// Returns false if the regions neither overlap nor touch.
func (r Region) Merge(other Region) (Region, bool) {
	if !r.Overlaps(other) && !r.Adjacent(other) {
		return Region{}, false
	}
	return Region{Start: min(r.Start, other.Start), End: max(r.End, other.End)}, true
}

// Intersect returns the intersection of two regions.
// Returns an empty region if they don't overlap.
func (r Region) Intersect(other Region) Region {
	if !r.Overlaps(other) {
		return Region{}
	}
	return Region{Start: max(r.Start, other.Start), End: min(r.End, other.End)}
}

// Subtract returns the parts of r not covered by other.
func (r Region) Subtract(other Region) []Region {
	if !r.Overlaps(other) {
		return []Region{r}
	}
	var out []Region
	if r.Start < other.Start {
		out = append(out, Region{Start: r.Start, End: other.Start})
	}
	if other.End < r.End {
		out = append(out, Region{Start: other.End, End: r.End})
	}
	return out
}

// Shift moves the region after an edit that replaced [start, delEnd) with
// inserted runes. Regions touching the edit grow or shrink to stay around it.
func (r Region) Shift(start, delEnd, inserted int) Region {
	delta := inserted - (delEnd - start)
	switch {
	case r.End < start:
		return r
	case r.Start > delEnd:
		return Region{Start: r.Start + delta, End: r.End + delta}
	}
	out := r
	if out.Start > start {
		out.Start = start
	}
	if out.End >= delEnd {
		out.End += delta
	} else {
		out.End = start + inserted
	}
	if out.End < out.Start {
		out.End = out.Start
	}
	return out
}
