package loader

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestFileLoaders(t *testing.T) {
	fsys := fstest.MapFS{
		"peekmark.toml": {Data: []byte(`
[markers]
hide_emphasis = false
hidden_keywords = ["title", "date"]

[reveal]
trigger = "on-change"
`)},
		"peekmark.yaml": {Data: []byte(`
markers:
  hide_emphasis: false
  hidden_keywords: [title, date]
reveal:
  trigger: on-change
`)},
	}

	want := map[string]any{
		"markers": map[string]any{
			"hide_emphasis":   false,
			"hidden_keywords": []any{"title", "date"},
		},
		"reveal": map[string]any{"trigger": "on-change"},
	}

	for _, path := range []string{"peekmark.toml", "peekmark.yaml"} {
		t.Run(path, func(t *testing.T) {
			l, err := ForPath(fsys, path)
			if err != nil {
				t.Fatalf("ForPath() error = %v", err)
			}
			got, err := l.Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFileLoaderMissing(t *testing.T) {
	got, err := NewTOMLLoaderWithFS(fstest.MapFS{}, "missing.toml").Load()
	if err != nil || got != nil {
		t.Errorf("Load(missing) = %v, %v; want nil, nil", got, err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		load func() (map[string]any, error)
		line int
	}{
		{
			name: "toml",
			load: func() (map[string]any, error) {
				return NewTOMLLoader("").LoadFromReader(strings.NewReader("[reveal]\ntrigger = \n"))
			},
			line: 2,
		},
		{
			name: "yaml scalar root",
			load: func() (map[string]any, error) {
				return NewYAMLLoader("").LoadFromReader(strings.NewReader("just a string\n"))
			},
			line: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.load()
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error = %v, want *ParseError", err)
			}
			if perr.Line != tt.line {
				t.Errorf("Line = %d, want %d", perr.Line, tt.line)
			}
		})
	}
}

func TestFormatOf(t *testing.T) {
	for path, want := range map[string]Format{"a.toml": FormatTOML, "b.YML": FormatYAML, "c.yaml": FormatYAML} {
		if got, err := FormatOf(path); err != nil || got != want {
			t.Errorf("FormatOf(%q) = %q, %v", path, got, err)
		}
	}
	if _, err := FormatOf("settings.json"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("FormatOf(json) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestEnvLoader(t *testing.T) {
	l := NewEnvLoader(DefaultEnvPrefix).WithEnviron(func() []string {
		return []string{
			"PEEKMARK_REVEAL_TRIGGER=manual",
			"PEEKMARK_MARKERS_HIDE_EMPHASIS=off",
			"PEEKMARK_MARKERS_HIDDEN_KEYWORDS=title, author",
			"PEEKMARK_LOG=ignored",
			"PEEKMARK_MATH=1",
			"HOME=/root",
		}
	})
	l.AddMapping("PEEKMARK_MATH", "reveal.math")

	got, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"reveal": map[string]any{"trigger": "manual", "math": int64(1)},
		"markers": map[string]any{
			"hide_emphasis":   false,
			"hidden_keywords": []any{"title", "author"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"yes", true},
		{"FALSE", false},
		{"42", int64(42)},
		{`["a","b"]`, []any{"a", "b"}},
		{"a,b,", []any{"a", "b"}},
		{"always", "always"},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, parseValue(tt.in)); diff != "" {
			t.Errorf("parseValue(%q) mismatch:\n%s", tt.in, diff)
		}
	}
}
