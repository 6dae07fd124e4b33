package eligibility

import "github.com/dshills/peekmark/internal/element"

// Filter accepts or rejects parsed elements.
// Update must be called whenever the configuration changes.
type Filter struct {
	settings Settings
	kinds    KindSet
}

// NewFilter creates a filter for the given settings.
func NewFilter(s Settings) *Filter {
	f := &Filter{}
	f.Update(s)
	return f
}

// Update recomputes the Eligible-Kinds Set.
func (f *Filter) Update(s Settings) {
	s.HiddenKeywords = append([]string(nil), s.HiddenKeywords...)
	f.settings = s
	f.kinds = KindsFor(s)
}

// Kinds returns the current Eligible-Kinds Set.
func (f *Filter) Kinds() KindSet {
	return f.kinds
}

// Settings returns the settings the filter was last updated with.
func (f *Filter) Settings() Settings {
	return f.settings
}

// Eligible returns e if it participates in tracking with the cursor at
// point, or nil otherwise.
func (f *Filter) Eligible(e *element.Element, point int) *element.Element {
	if e == nil {
		return nil
	}
	if !f.kinds.Has(e.Kind.Class()) {
		return nil
	}
	if point >= e.ContentEnd() {
		return nil
	}
	switch e.Kind.Class() {
	case element.ClassLink:
		if e.DisplayOverride || e.LinkFormat == element.LinkPlain {
			return nil
		}
	case element.ClassKeyword:
		if !f.settings.KeywordHidden(e.Key) {
			return nil
		}
	}
	return e
}
