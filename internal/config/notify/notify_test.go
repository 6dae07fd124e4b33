package notify

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNotifierPathMatching(t *testing.T) {
	n := New()
	var all, reveal, trigger []string
	n.Subscribe(func(c Change) { all = append(all, c.Path) })
	n.SubscribePath("reveal", func(c Change) { reveal = append(reveal, c.Path) })
	n.SubscribePath("reveal.trigger", func(c Change) { trigger = append(trigger, c.Path) })

	n.NotifySet("reveal.trigger", "always", "manual", "runtime")
	n.NotifySet("reveal.math", true, false, "runtime")
	n.NotifySet("revealx", 1, 2, "runtime")
	n.NotifyDelete("markers.hide_emphasis", true, "runtime")

	if diff := cmp.Diff([]string{"reveal.trigger", "reveal.math", "revealx", "markers.hide_emphasis"}, all); diff != "" {
		t.Errorf("global observer mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"reveal.trigger", "reveal.math"}, reveal); diff != "" {
		t.Errorf("reveal observer mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"reveal.trigger"}, trigger); diff != "" {
		t.Errorf("trigger observer mismatch:\n%s", diff)
	}
}

func TestNotifierReload(t *testing.T) {
	n := New()
	var markers, reveal []Change
	n.SubscribePath("markers", func(c Change) { markers = append(markers, c) })
	n.SubscribePath("reveal", func(c Change) { reveal = append(reveal, c) })

	n.NotifyReload([]string{"reveal.math", "reveal.links"}, "file")

	if len(markers) != 0 {
		t.Errorf("markers observer got %d reloads", len(markers))
	}
	if len(reveal) != 1 {
		t.Fatalf("reveal observer got %d reloads, want 1", len(reveal))
	}
	if diff := cmp.Diff([]string{"reveal.links", "reveal.math"}, reveal[0].Paths); diff != "" {
		t.Errorf("Paths mismatch:\n%s", diff)
	}
	if reveal[0].Type != ChangeReload || reveal[0].Source != "file" {
		t.Errorf("change = %+v", reveal[0])
	}
}

func TestNotifierUnsubscribeAndClose(t *testing.T) {
	n := New()
	calls := 0
	sub := n.Subscribe(func(Change) { calls++ })
	n.Subscribe(func(Change) { calls++ })

	sub.Unsubscribe()
	sub.Unsubscribe()
	if n.Count() != 1 {
		t.Errorf("Count() = %d, want 1", n.Count())
	}

	n.NotifySet("a", nil, 1, "test")
	n.Close()
	n.Close()
	n.NotifySet("a", nil, 2, "test")

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestChangeTypeString(t *testing.T) {
	for ct, want := range map[ChangeType]string{ChangeSet: "set", ChangeDelete: "delete", ChangeReload: "reload", 9: "unknown"} {
		if got := ct.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", ct, got, want)
		}
	}
}
