package eligibility

import (
	"strings"

	"github.com/dshills/peekmark/internal/element"
)

// KindSet is the set of element classes allowed to participate.
type KindSet uint8

// Add returns the set with c included.
func (s KindSet) Add(c element.Class) KindSet {
	return s | 1<<c
}

// Has returns true if c is in the set.
func (s KindSet) Has(c element.Class) bool {
	if c == element.ClassNone {
		return false
	}
	return s&(1<<c) != 0
}

// Empty returns true if no class participates.
func (s KindSet) Empty() bool {
	return s == 0
}

// String lists the member classes.
func (s KindSet) String() string {
	var names []string
	for _, c := range element.Classes {
		if s.Has(c) {
			names = append(names, c.String())
		}
	}
	return "{" + strings.Join(names, ",") + "}"
}

// KindsFor derives the Eligible-Kinds Set from settings.
func KindsFor(s Settings) KindSet {
	var set KindSet
	if s.HideEmphasisMarkers && s.AutoEmphasis {
		set = set.Add(element.ClassEmphasis)
	}
	if s.PrettyEntities && s.AutoSubmarkers {
		set = set.Add(element.ClassScript)
	}
	if s.PrettyEntities && s.AutoEntities {
		set = set.Add(element.ClassEntity)
	}
	if s.DescriptiveLinks && s.AutoLinks {
		set = set.Add(element.ClassLink)
	}
	if len(s.HiddenKeywords) > 0 && s.AutoKeywords {
		set = set.Add(element.ClassKeyword)
	}
	if s.ClearMath {
		set = set.Add(element.ClassMath)
	}
	return set
}
