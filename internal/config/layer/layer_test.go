package layer

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestManagerMergePriority(t *testing.T) {
	m := NewManager()
	m.AddLayer(NewLayerWithData("file", SourceFile, PriorityFile, map[string]any{
		"reveal": map[string]any{"trigger": "manual", "math": false},
	}))
	m.AddLayer(NewLayerWithData("defaults", SourceBuiltin, PriorityBuiltin, map[string]any{
		"reveal":  map[string]any{"trigger": "always", "math": true, "links": true},
		"markers": map[string]any{"hide_emphasis": true},
	}))
	m.AddLayer(NewLayerWithData("environment", SourceEnv, PriorityEnv, map[string]any{
		"reveal": map[string]any{"math": true},
	}))

	want := map[string]any{
		"reveal":  map[string]any{"trigger": "manual", "math": true, "links": true},
		"markers": map[string]any{"hide_emphasis": true},
	}
	if diff := cmp.Diff(want, m.Merge()); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}

	if got := m.WhichLayer("reveal.trigger"); got != "file" {
		t.Errorf("WhichLayer(reveal.trigger) = %q, want file", got)
	}
	if got := m.WhichLayer("reveal.links"); got != "defaults" {
		t.Errorf("WhichLayer(reveal.links) = %q, want defaults", got)
	}
	if got := m.WhichLayer("missing"); got != "" {
		t.Errorf("WhichLayer(missing) = %q", got)
	}
}

func TestManagerMergeReturnsCopy(t *testing.T) {
	m := NewManager()
	m.AddLayer(NewLayerWithData("defaults", SourceBuiltin, PriorityBuiltin, map[string]any{
		"markers": map[string]any{"hidden_keywords": []any{"title"}},
	}))

	merged := m.Merge()
	merged["markers"].(map[string]any)["hidden_keywords"].([]any)[0] = "changed"

	got, _, _ := m.Get("markers.hidden_keywords")
	if diff := cmp.Diff([]any{"title"}, got); diff != "" {
		t.Errorf("layer data changed through Merge result:\n%s", diff)
	}
}

func TestManagerSetDelete(t *testing.T) {
	m := NewManager()
	ro := NewStandardLayer(SourceBuiltin)
	ro.ReadOnly = true
	m.AddLayer(ro)
	m.AddLayer(NewStandardLayer(SourceRuntime))

	if err := m.Set("runtime", "reveal.trigger", "manual"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if v, _, ok := m.Get("reveal.trigger"); !ok || v != "manual" {
		t.Errorf("Get() = %v, %v", v, ok)
	}

	if err := m.Set("defaults", "x", 1); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Set(read-only) error = %v, want ErrReadOnly", err)
	}
	if err := m.Set("nope", "x", 1); !errors.Is(err, ErrLayerNotFound) {
		t.Errorf("Set(missing) error = %v, want ErrLayerNotFound", err)
	}

	if err := m.Delete("runtime", "reveal.trigger"); err != nil {
		t.Fatal(err)
	}
	if _, _, ok := m.Get("reveal.trigger"); ok {
		t.Error("value survived Delete")
	}
}

func TestManagerAddLayerReplaces(t *testing.T) {
	m := NewManager()
	m.AddLayer(NewLayerWithData("file", SourceFile, PriorityFile, map[string]any{"a": 1}))
	m.AddLayer(NewLayerWithData("file", SourceFile, PriorityFile, map[string]any{"b": 2}))

	if len(m.Layers()) != 1 {
		t.Fatalf("Layers() = %d, want 1", len(m.Layers()))
	}
	if diff := cmp.Diff(map[string]any{"b": 2}, m.Merge()); diff != "" {
		t.Errorf("Merge() mismatch:\n%s", diff)
	}
	if !m.RemoveLayer("file") || m.RemoveLayer("file") {
		t.Error("RemoveLayer() results wrong")
	}
}

func TestChangedPaths(t *testing.T) {
	old := map[string]any{
		"reveal":  map[string]any{"trigger": "always", "math": true},
		"markers": map[string]any{"hidden_keywords": []any{"title"}},
	}
	new := map[string]any{
		"reveal":  map[string]any{"trigger": "manual", "links": true},
		"markers": map[string]any{"hidden_keywords": []any{"title"}},
	}

	want := []string{"reveal.links", "reveal.math", "reveal.trigger"}
	if diff := cmp.Diff(want, ChangedPaths(old, new)); diff != "" {
		t.Errorf("ChangedPaths() mismatch (-want +got):\n%s", diff)
	}
	if got := ChangedPaths(new, new); len(got) != 0 {
		t.Errorf("ChangedPaths(same) = %v", got)
	}
}

func TestByPath(t *testing.T) {
	data := map[string]any{}
	SetByPath(data, "a.b.c", 1)

	if v, ok := GetByPath(data, "a.b.c"); !ok || v != 1 {
		t.Errorf("GetByPath() = %v, %v", v, ok)
	}
	if _, ok := GetByPath(data, "a.x"); ok {
		t.Error("GetByPath(missing) found a value")
	}
	if _, ok := GetByPath(nil, "a"); ok {
		t.Error("GetByPath(nil) found a value")
	}
	if !DeleteByPath(data, "a.b.c") || DeleteByPath(data, "a.b.c") {
		t.Error("DeleteByPath() results wrong")
	}
}
