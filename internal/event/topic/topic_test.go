package topic

import "testing"

func TestTopicMatches(t *testing.T) {
	tests := []struct {
		topic   Topic
		pattern Topic
		want    bool
	}{
		{"reveal.revealed", "reveal.revealed", true},
		{"reveal.revealed", "reveal.*", true},
		{"reveal.revealed", "*.revealed", true},
		{"reveal.revealed", "reveal", false},
		{"reveal.revealed", "**", true},
		{"document.edited", "document.**", true},
		{"document", "document.**", true},
		{"command.completed", "reveal.*", false},
		{"a.b.c", "a.*", false},
		{"a.b.c", "a.**.c", true},
	}

	for _, tt := range tests {
		if got := tt.topic.Matches(tt.pattern); got != tt.want {
			t.Errorf("%q.Matches(%q) = %v, want %v", tt.topic, tt.pattern, got, tt.want)
		}
	}
}

func TestTopicIsValid(t *testing.T) {
	tests := []struct {
		topic Topic
		want  bool
	}{
		{"config.changed", true},
		{"", false},
		{".config", false},
		{"config.", false},
		{"config..changed", false},
	}

	for _, tt := range tests {
		if got := tt.topic.IsValid(); got != tt.want {
			t.Errorf("%q.IsValid() = %v, want %v", tt.topic, got, tt.want)
		}
	}
}

func TestTopicParentAndJoin(t *testing.T) {
	if got := Topic("reveal.revealed").Parent(); got != "reveal" {
		t.Errorf("Parent() = %q, want reveal", got)
	}
	if got := Topic("reveal").Parent(); got != "" {
		t.Errorf("Parent() = %q, want empty", got)
	}
	if got := Join("document", "edited"); got != "document.edited" {
		t.Errorf("Join() = %q", got)
	}
	if !Topic("reveal.*").IsWildcard() {
		t.Error("IsWildcard() = false for pattern")
	}
}
