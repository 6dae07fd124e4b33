package layer

import (
	"fmt"
	"sort"
	"sync"
)

// Manager holds the layers and provides merged access.
type Manager struct {
	mu     sync.RWMutex
	layers []*Layer // ascending priority
	merged map[string]any
	dirty  bool
}

// NewManager creates an empty layer manager.
func NewManager() *Manager {
	return &Manager{dirty: true}
}

// AddLayer adds a layer, replacing any layer with the same name.
func (m *Manager) AddLayer(layer *Layer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, l := range m.layers {
		if l.Name == layer.Name {
			m.layers = append(m.layers[:i:i], m.layers[i+1:]...)
			break
		}
	}
	m.layers = append(m.layers, layer)
	sort.SliceStable(m.layers, func(i, j int) bool {
		return m.layers[i].Priority < m.layers[j].Priority
	})
	m.dirty = true
}

// RemoveLayer removes a layer by name and reports whether it existed.
func (m *Manager) RemoveLayer(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, l := range m.layers {
		if l.Name == name {
			m.layers = append(m.layers[:i:i], m.layers[i+1:]...)
			m.dirty = true
			return true
		}
	}
	return false
}

// GetLayer returns a layer by name, or nil.
func (m *Manager) GetLayer(name string) *Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findLayer(name)
}

// Layers returns the layers in ascending priority.
func (m *Manager) Layers() []*Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*Layer(nil), m.layers...)
}

// Merge combines all layers into one map. The result is a copy.
func (m *Manager) Merge() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneMap(m.mergedData())
}

func (m *Manager) mergedData() map[string]any {
	if m.dirty || m.merged == nil {
		result := make(map[string]any)
		for _, l := range m.layers {
			result = DeepMerge(result, l.Data)
		}
		m.merged = result
		m.dirty = false
	}
	return m.merged
}

// Get returns the effective value for path and the layer providing it.
func (m *Manager) Get(path string) (any, *Layer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.layers) - 1; i >= 0; i-- {
		if val, ok := GetByPath(m.layers[i].Data, path); ok {
			return cloneValue(val), m.layers[i], true
		}
	}
	return nil, nil, false
}

// Set sets path in the named layer.
func (m *Manager) Set(layerName, path string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, err := m.writable(layerName)
	if err != nil {
		return err
	}
	if l.Data == nil {
		l.Data = make(map[string]any)
	}
	SetByPath(l.Data, path, value)
	m.dirty = true
	return nil
}

// Delete removes path from the named layer.
func (m *Manager) Delete(layerName, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, err := m.writable(layerName)
	if err != nil {
		return err
	}
	if DeleteByPath(l.Data, path) {
		m.dirty = true
	}
	return nil
}

// UpdateLayer replaces the data of the named layer.
func (m *Manager) UpdateLayer(name string, data map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l := m.findLayer(name)
	if l == nil {
		return fmt.Errorf("%s: %w", name, ErrLayerNotFound)
	}
	l.Data = cloneMap(data)
	m.dirty = true
	return nil
}

// WhichLayer returns the name of the layer providing path, or "".
func (m *Manager) WhichLayer(path string) string {
	_, l, ok := m.Get(path)
	if !ok {
		return ""
	}
	return l.Name
}

func (m *Manager) writable(name string) (*Layer, error) {
	l := m.findLayer(name)
	if l == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrLayerNotFound)
	}
	if l.ReadOnly {
		return nil, fmt.Errorf("%s: %w", name, ErrReadOnly)
	}
	return l, nil
}

func (m *Manager) findLayer(name string) *Layer {
	for _, l := range m.layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}
