package overlay

import "testing"

func TestNewManager(t *testing.T) {
	m := NewManager()
	if m.Count() != 0 {
		t.Errorf("Count() = %d, want 0", m.Count())
	}
}

func TestManagerAddRemove(t *testing.T) {
	m := NewManager()

	id := m.Add(LayerMathPreview, 4, 12, "x²", PriorityNormal)
	if m.Count() != 1 {
		t.Errorf("Count() = %d, want 1", m.Count())
	}

	got, ok := m.Get(id)
	if !ok {
		t.Fatal("Get should find added overlay")
	}
	if got.Layer != LayerMathPreview || got.Start != 4 || got.End != 12 {
		t.Errorf("Get() = %+v", got)
	}

	if !m.Remove(id) {
		t.Error("Remove should return true for existing overlay")
	}
	if m.Remove(id) {
		t.Error("Remove should return false for missing overlay")
	}
	if m.Count() != 0 {
		t.Errorf("Count() = %d after remove, want 0", m.Count())
	}
}

func TestManagerOccupiedByOther(t *testing.T) {
	m := NewManager()
	m.Add(LayerMathPreview, 10, 20, "preview", PriorityNormal)

	tests := []struct {
		pos   int
		layer string
		want  bool
	}{
		{10, LayerScript, true},
		{19, LayerScript, true},
		{20, LayerScript, false},
		{9, LayerScript, false},
		{10, LayerMathPreview, false},
	}
	for _, tt := range tests {
		if got := m.OccupiedByOther(tt.pos, tt.layer); got != tt.want {
			t.Errorf("OccupiedByOther(%d, %q) = %v, want %v", tt.pos, tt.layer, got, tt.want)
		}
	}
}

func TestManagerHiddenOverlayIgnored(t *testing.T) {
	m := NewManager()
	id := m.Add(LayerMathPreview, 0, 5, "p", PriorityNormal)
	m.SetHidden(id, true)

	if m.OccupiedByOther(2, LayerScript) {
		t.Error("hidden overlay reported as occupying")
	}
	if len(m.At(2)) != 0 {
		t.Error("hidden overlay returned by At")
	}
}

func TestManagerAtPriority(t *testing.T) {
	m := NewManager()
	m.Add(LayerScript, 0, 10, "low", PriorityLow)
	m.Add(LayerMathPreview, 0, 10, "high", PriorityHigh)

	got := m.At(3)
	if len(got) != 2 {
		t.Fatalf("At() returned %d overlays, want 2", len(got))
	}
	if got[0].Text != "high" {
		t.Errorf("At()[0] = %q, want highest priority first", got[0].Text)
	}
}

func TestManagerClearLayer(t *testing.T) {
	m := NewManager()
	m.Add(LayerScript, 0, 1, "a", PriorityNormal)
	m.Add(LayerScript, 2, 3, "b", PriorityNormal)
	m.Add(LayerMathPreview, 4, 5, "c", PriorityNormal)

	if n := m.ClearLayer(LayerScript); n != 2 {
		t.Errorf("ClearLayer() = %d, want 2", n)
	}
	if m.Count() != 1 {
		t.Errorf("Count() = %d, want 1", m.Count())
	}

	m.Clear()
	if m.Count() != 0 {
		t.Errorf("Count() = %d after Clear, want 0", m.Count())
	}
}

func TestManagerAdjust(t *testing.T) {
	m := NewManager()
	before := m.Add(LayerScript, 0, 3, "a", PriorityNormal)
	after := m.Add(LayerScript, 10, 14, "b", PriorityNormal)
	inside := m.Add(LayerScript, 5, 8, "c", PriorityNormal)

	// Replace [6, 7) with three runes.
	m.Adjust(6, 7, 3)

	if o, _ := m.Get(before); o.Start != 0 || o.End != 3 {
		t.Errorf("overlay before edit moved: %+v", o)
	}
	if o, _ := m.Get(after); o.Start != 12 || o.End != 16 {
		t.Errorf("overlay after edit = [%d,%d), want [12,16)", o.Start, o.End)
	}
	if _, ok := m.Get(inside); ok {
		t.Error("overlay overlapping the edit survived")
	}
}
