package dirty

import (
	"sort"
	"sync"
)

// Tracker tracks unrendered regions and coalesces them.
type Tracker struct {
	mu sync.RWMutex

	// regions contains the current dirty regions, sorted and disjoint.
	regions []Region

	// marks counts regions marked since creation.
	marks uint64

	// cleans counts regions cleaned since creation.
	cleans uint64
}

// NewTracker creates a new dirty region tracker.
func NewTracker() *Tracker {
	return &Tracker{
		regions: make([]Region, 0, 16),
	}
}

// MarkRegion marks [start, end) as needing rendering.
func (t *Tracker) MarkRegion(start, end int) {
	region := NewRegion(start, end)
	if region.IsEmpty() {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.marks++
	t.regions = append(t.regions, region)
	t.coalesceRegions()
}

// MarkAll replaces the dirty set with the whole document of length n.
func (t *Tracker) MarkAll(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.marks++
	t.regions = t.regions[:0]
	if n > 0 {
		t.regions = append(t.regions, Region{Start: 0, End: n})
	}
}

// Clean marks [start, end) as rendered.
func (t *Tracker) Clean(start, end int) {
	region := NewRegion(start, end)
	if region.IsEmpty() {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.cleans++
	kept := make([]Region, 0, len(t.regions)+1)
	for _, r := range t.regions {
		kept = append(kept, r.Subtract(region)...)
	}
	t.regions = kept
}

// Adjust keeps regions aligned with the text after an edit that replaced
// [start, delEnd) with inserted runes.
func (t *Tracker) Adjust(start, delEnd, inserted int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.regions[:0]
	for _, r := range t.regions {
		r = r.Shift(start, delEnd, inserted)
		if !r.IsEmpty() {
			kept = append(kept, r)
		}
	}
	t.regions = kept
	t.coalesceRegions()
}

// coalesceRegions sorts and merges overlapping or adjacent regions.
func (t *Tracker) coalesceRegions() {
	if len(t.regions) <= 1 {
		return
	}

	sort.Slice(t.regions, func(i, j int) bool {
		return t.regions[i].Start < t.regions[j].Start
	})

	merged := t.regions[:1]
	for _, r := range t.regions[1:] {
		last := &merged[len(merged)-1]
		if m, ok := last.Merge(r); ok {
			*last = m
			continue
		}
		merged = append(merged, r)
	}
	t.regions = merged
}

// IsDirty returns true if any region is marked dirty.
func (t *Tracker) IsDirty() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.regions) > 0
}

// IsRegionDirty returns true if any part of [start, end) needs rendering.
func (t *Tracker) IsRegionDirty(start, end int) bool {
	region := NewRegion(start, end)

	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, r := range t.regions {
		if r.Overlaps(region) {
			return true
		}
	}
	return false
}

// DirtyIn returns the dirty parts of [start, end).
func (t *Tracker) DirtyIn(start, end int) []Region {
	region := NewRegion(start, end)

	t.mu.RLock()
	defer t.mu.RUnlock()

	var result []Region
	for _, r := range t.regions {
		if in := r.Intersect(region); !in.IsEmpty() {
			result = append(result, in)
		}
	}
	return result
}

// DirtyRegions returns a copy of the current dirty regions.
func (t *Tracker) DirtyRegions() []Region {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]Region, len(t.regions))
	copy(result, t.regions)
	return result
}

// Clear clears all dirty regions.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.regions = t.regions[:0]
}

// RegionCount returns the number of dirty regions.
func (t *Tracker) RegionCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.regions)
}

// Stats returns statistics about the tracker state.
func (t *Tracker) Stats() TrackerStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	dirty := 0
	for _, r := range t.regions {
		dirty += r.Len()
	}
	return TrackerStats{
		RegionCount: len(t.regions),
		DirtyRunes:  dirty,
		Marks:       t.marks,
		Cleans:      t.cleans,
	}
}

// TrackerStats contains statistics about the tracker state.
type TrackerStats struct {
	RegionCount int
	DirtyRunes  int
	Marks       uint64
	Cleans      uint64
}
