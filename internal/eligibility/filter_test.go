package eligibility

import (
	"testing"

	"github.com/dshills/peekmark/internal/element"
)

func TestKindsFor(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
		has    []element.Class
		hasNot []element.Class
	}{
		{
			name:   "defaults",
			modify: func(*Settings) {},
			has:    element.Classes,
		},
		{
			name:   "emphasis markers shown",
			modify: func(s *Settings) { s.HideEmphasisMarkers = false },
			hasNot: []element.Class{element.ClassEmphasis},
			has:    []element.Class{element.ClassScript, element.ClassLink},
		},
		{
			name:   "pretty entities off gates scripts and entities",
			modify: func(s *Settings) { s.PrettyEntities = false },
			hasNot: []element.Class{element.ClassScript, element.ClassEntity},
			has:    []element.Class{element.ClassEmphasis},
		},
		{
			name:   "auto links off",
			modify: func(s *Settings) { s.AutoLinks = false },
			hasNot: []element.Class{element.ClassLink},
		},
		{
			name:   "no hidden keywords",
			modify: func(s *Settings) { s.HiddenKeywords = nil },
			hasNot: []element.Class{element.ClassKeyword},
		},
		{
			name:   "math toggle standalone",
			modify: func(s *Settings) { s.ClearMath = false; s.PrettyEntities = false },
			hasNot: []element.Class{element.ClassMath},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(&s)
			set := KindsFor(s)
			for _, c := range tt.has {
				if !set.Has(c) {
					t.Errorf("set %s missing %s", set, c)
				}
			}
			for _, c := range tt.hasNot {
				if set.Has(c) {
					t.Errorf("set %s unexpectedly has %s", set, c)
				}
			}
		})
	}
}

func TestKindSetEmpty(t *testing.T) {
	var s Settings
	set := KindsFor(s)
	if !set.Empty() {
		t.Errorf("KindsFor(zero) = %s, want empty", set)
	}
	if set.Has(element.ClassNone) {
		t.Error("empty set has ClassNone")
	}
	if got := set.Add(element.ClassLink).String(); got != "{link}" {
		t.Errorf("String() = %q", got)
	}
}

func TestFilterEligible(t *testing.T) {
	f := NewFilter(DefaultSettings())

	bold := &element.Element{Kind: element.KindBold, Begin: 0, End: 8, PostBlank: 2}
	link := &element.Element{Kind: element.KindLink, Begin: 0, End: 13, LinkFormat: element.LinkBracket}
	plain := &element.Element{Kind: element.KindLink, Begin: 0, End: 18, LinkFormat: element.LinkPlain}
	override := &element.Element{Kind: element.KindLink, Begin: 0, End: 13, DisplayOverride: true}
	title := &element.Element{Kind: element.KindKeyword, Begin: 0, End: 15, Key: "TITLE"}
	options := &element.Element{Kind: element.KindKeyword, Begin: 0, End: 15, Key: "OPTIONS"}
	unknown := &element.Element{Kind: element.KindUnknown, Begin: 0, End: 4}

	tests := []struct {
		name  string
		elem  *element.Element
		point int
		want  bool
	}{
		{"nil", nil, 0, false},
		{"inside bold", bold, 3, true},
		{"last char before blanks", bold, 5, true},
		{"trailing blank", bold, 6, false},
		{"bracket link", link, 4, true},
		{"plain link", plain, 4, false},
		{"display override", override, 4, false},
		{"hidden keyword case-insensitive", title, 2, true},
		{"keyword not hidden", options, 2, false},
		{"unknown kind", unknown, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Eligible(tt.elem, tt.point)
			if (got != nil) != tt.want {
				t.Errorf("Eligible() = %v, want eligible=%v", got, tt.want)
			}
			if got != nil && got != tt.elem {
				t.Error("Eligible() returned a different element")
			}
		})
	}
}

func TestFilterUpdate(t *testing.T) {
	f := NewFilter(DefaultSettings())
	bold := &element.Element{Kind: element.KindBold, Begin: 0, End: 6}

	if f.Eligible(bold, 1) == nil {
		t.Fatal("bold not eligible with defaults")
	}

	s := DefaultSettings()
	s.AutoEmphasis = false
	f.Update(s)

	if f.Eligible(bold, 1) != nil {
		t.Error("bold eligible after AutoEmphasis disabled")
	}
	if f.Kinds().Has(element.ClassEmphasis) {
		t.Error("Kinds() still has emphasis")
	}
}

func TestFilterCopiesKeywords(t *testing.T) {
	s := DefaultSettings()
	f := NewFilter(s)
	s.HiddenKeywords[0] = "changed"

	if !f.Settings().KeywordHidden("title") {
		t.Error("filter shares HiddenKeywords backing array with caller")
	}
}

func TestTriggerValid(t *testing.T) {
	for _, tr := range []Trigger{TriggerAlways, TriggerOnChange, TriggerManual} {
		if !tr.Valid() {
			t.Errorf("%q.Valid() = false", tr)
		}
	}
	if Trigger("sometimes").Valid() {
		t.Error(`"sometimes".Valid() = true`)
	}
}
