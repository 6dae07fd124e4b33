package overlay

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Manager manages all overlays of a document.
type Manager struct {
	mu sync.RWMutex

	// overlays contains all registered overlays, keyed by ID.
	overlays map[string]*Overlay

	// sortedIDs contains overlay IDs sorted by priority.
	sortedIDs []string

	// needsSort indicates the sortedIDs needs re-sorting.
	needsSort bool
}

// NewManager creates a new overlay manager.
func NewManager() *Manager {
	return &Manager{
		overlays:  make(map[string]*Overlay),
		sortedIDs: make([]string, 0),
	}
}

// Add registers an overlay on layer covering [start, end) and returns its ID.
func (m *Manager) Add(layer string, start, end int, text string, priority Priority) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	o := &Overlay{
		ID:       uuid.NewString(),
		Layer:    layer,
		Start:    start,
		End:      end,
		Text:     text,
		Priority: priority,
	}
	m.overlays[o.ID] = o
	m.sortedIDs = append(m.sortedIDs, o.ID)
	m.needsSort = true
	return o.ID
}

// Remove removes an overlay by ID.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.overlays[id]; !ok {
		return false
	}
	m.removeOverlayLocked(id)
	return true
}

// Get returns a copy of an overlay by ID.
func (m *Manager) Get(id string) (Overlay, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.overlays[id]
	if !ok {
		return Overlay{}, false
	}
	return *o, true
}

// SetHidden shows or hides an overlay without removing it.
func (m *Manager) SetHidden(id string, hidden bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.overlays[id]
	if !ok {
		return false
	}
	o.Hidden = hidden
	return true
}

// Clear removes all overlays.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.overlays = make(map[string]*Overlay)
	m.sortedIDs = make([]string, 0)
}

// ClearLayer removes all overlays of a layer.
func (m *Manager) ClearLayer(layer string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	var toRemove []string
	for id, o := range m.overlays {
		if o.Layer == layer {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		m.removeOverlayLocked(id)
	}
	return len(toRemove)
}

// Count returns the number of overlays.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.overlays)
}

// At returns copies of the visible overlays covering pos, highest priority first.
func (m *Manager) At(pos int) []Overlay {
	m.mu.Lock()
	m.ensureSorted()
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []Overlay
	for i := len(m.sortedIDs) - 1; i >= 0; i-- {
		o := m.overlays[m.sortedIDs[i]]
		if o.IsVisible() && o.Contains(pos) {
			result = append(result, *o)
		}
	}
	return result
}

// OccupiedByOther reports whether an overlay from a layer other than layer
// covers pos.
func (m *Manager) OccupiedByOther(pos int, layer string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, o := range m.overlays {
		if o.Layer != layer && o.IsVisible() && o.Contains(pos) {
			return true
		}
	}
	return false
}

// Adjust shifts overlays after an edit that replaced [start, delEnd) with
// inserted runes. Overlays overlapping the replaced text are removed.
func (m *Manager) Adjust(start, delEnd, inserted int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delta := inserted - (delEnd - start)
	var toRemove []string
	for id, o := range m.overlays {
		switch {
		case o.End <= start:
		case o.Start >= delEnd:
			o.Start += delta
			o.End += delta
		default:
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		m.removeOverlayLocked(id)
	}
}

// ensureSorted ensures the sortedIDs list is sorted by priority.
func (m *Manager) ensureSorted() {
	if !m.needsSort {
		return
	}

	sort.SliceStable(m.sortedIDs, func(i, j int) bool {
		oi := m.overlays[m.sortedIDs[i]]
		oj := m.overlays[m.sortedIDs[j]]
		return oi.Priority < oj.Priority
	})

	m.needsSort = false
}

// removeOverlayLocked removes an overlay (must hold write lock).
func (m *Manager) removeOverlayLocked(id string) {
	delete(m.overlays, id)
	for i, sid := range m.sortedIDs {
		if sid == id {
			m.sortedIDs = append(m.sortedIDs[:i], m.sortedIDs[i+1:]...)
			break
		}
	}
}
