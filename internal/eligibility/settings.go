// Package eligibility decides which parsed elements take part in cursor
// tracking, based on configuration and per-kind ignore rules.
package eligibility

import "strings"

// Trigger selects when tracking starts.
type Trigger string

const (
	// TriggerAlways tracks on every command.
	TriggerAlways Trigger = "always"

	// TriggerOnChange starts tracking when an edit lands inside an element.
	TriggerOnChange Trigger = "on-change"

	// TriggerManual starts tracking only on an explicit request.
	TriggerManual Trigger = "manual"
)

// Valid returns true if t is a known trigger.
func (t Trigger) Valid() bool {
	switch t {
	case TriggerAlways, TriggerOnChange, TriggerManual:
		return true
	default:
		return false
	}
}

// Settings is the configuration the filter depends on.
type Settings struct {
	// Presentation settings: what the host renderer hides by default.
	HideEmphasisMarkers bool
	PrettyEntities      bool
	DescriptiveLinks    bool
	HiddenKeywords      []string

	// Per-kind reveal toggles.
	AutoEmphasis   bool
	AutoSubmarkers bool
	AutoEntities   bool
	AutoLinks      bool
	AutoKeywords   bool
	ClearMath      bool

	Trigger Trigger
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		HideEmphasisMarkers: true,
		PrettyEntities:      true,
		DescriptiveLinks:    true,
		HiddenKeywords:      []string{"title", "author", "date", "email"},
		AutoEmphasis:        true,
		AutoSubmarkers:      true,
		AutoEntities:        true,
		AutoLinks:           true,
		AutoKeywords:        true,
		ClearMath:           true,
		Trigger:             TriggerAlways,
	}
}

// KeywordHidden reports whether key is, case-insensitively, a hidden keyword.
func (s Settings) KeywordHidden(key string) bool {
	for _, k := range s.HiddenKeywords {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}
