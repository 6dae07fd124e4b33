package config

import (
	"fmt"
	"strings"

	"github.com/dshills/peekmark/internal/eligibility"
)

// Setting paths.
const (
	KeyHideEmphasis     = "markers.hide_emphasis"
	KeyPrettyEntities   = "markers.pretty_entities"
	KeyDescriptiveLinks = "markers.descriptive_links"
	KeyHiddenKeywords   = "markers.hidden_keywords"

	KeyRevealEmphasis   = "reveal.emphasis"
	KeyRevealSubmarkers = "reveal.submarkers"
	KeyRevealEntities   = "reveal.entities"
	KeyRevealLinks      = "reveal.links"
	KeyRevealKeywords   = "reveal.keywords"
	KeyRevealMath       = "reveal.math"
	KeyTrigger          = "reveal.trigger"
)

type valueKind uint8

const (
	kindBool valueKind = iota
	kindStrings
	kindTrigger
)

var settingKinds = map[string]valueKind{
	KeyHideEmphasis:     kindBool,
	KeyPrettyEntities:   kindBool,
	KeyDescriptiveLinks: kindBool,
	KeyHiddenKeywords:   kindStrings,
	KeyRevealEmphasis:   kindBool,
	KeyRevealSubmarkers: kindBool,
	KeyRevealEntities:   kindBool,
	KeyRevealLinks:      kindBool,
	KeyRevealKeywords:   kindBool,
	KeyRevealMath:       kindBool,
	KeyTrigger:          kindTrigger,
}

// Keys returns every known setting path.
func Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	return keys
}

// boolBindings ties each boolean path to its field.
func boolBindings(s *eligibility.Settings) map[string]*bool {
	return map[string]*bool{
		KeyHideEmphasis:     &s.HideEmphasisMarkers,
		KeyPrettyEntities:   &s.PrettyEntities,
		KeyDescriptiveLinks: &s.DescriptiveLinks,
		KeyRevealEmphasis:   &s.AutoEmphasis,
		KeyRevealSubmarkers: &s.AutoSubmarkers,
		KeyRevealEntities:   &s.AutoEntities,
		KeyRevealLinks:      &s.AutoLinks,
		KeyRevealKeywords:   &s.AutoKeywords,
		KeyRevealMath:       &s.ClearMath,
	}
}

// defaultsMap renders the built-in settings as a layer map.
func defaultsMap() map[string]any {
	s := eligibility.DefaultSettings()
	data := map[string]any{}
	set := func(path string, v any) {
		section, key, _ := strings.Cut(path, ".")
		m, ok := data[section].(map[string]any)
		if !ok {
			m = map[string]any{}
			data[section] = m
		}
		m[key] = v
	}
	for path, field := range boolBindings(&s) {
		set(path, *field)
	}
	keywords := make([]any, len(s.HiddenKeywords))
	for i, k := range s.HiddenKeywords {
		keywords[i] = k
	}
	set(KeyHiddenKeywords, keywords)
	set(KeyTrigger, string(s.Trigger))
	return data
}

// normalize checks value against the kind of path and returns it in the
// form stored in layers.
func normalize(path string, value any) (any, error) {
	kind, ok := settingKinds[path]
	if !ok {
		return nil, &ValidationError{Path: path, Message: "unknown setting", Value: value, Code: ErrCodeUnknownSetting}
	}
	switch kind {
	case kindBool:
		switch v := value.(type) {
		case bool:
			return v, nil
		case int64:
			if v == 0 || v == 1 {
				return v == 1, nil
			}
		case int:
			if v == 0 || v == 1 {
				return v == 1, nil
			}
		}
		return nil, typeError(path, "bool", value)
	case kindStrings:
		return normalizeStrings(path, value)
	default:
		s, ok := value.(string)
		if !ok {
			return nil, typeError(path, "string", value)
		}
		if !eligibility.Trigger(s).Valid() {
			return nil, &ValidationError{
				Path:    path,
				Message: "must be one of always, on-change, manual",
				Value:   value,
				Code:    ErrCodeInvalidEnum,
			}
		}
		return s, nil
	}
}

func normalizeStrings(path string, value any) (any, error) {
	switch v := value.(type) {
	case string:
		var out []any
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, nil
	case []any:
		for _, item := range v {
			if _, ok := item.(string); !ok {
				return nil, typeError(path, "[]string", value)
			}
		}
		return append([]any(nil), v...), nil
	default:
		return nil, typeError(path, "[]string", value)
	}
}

func typeError(path, expected string, value any) error {
	return &ValidationError{
		Path:    path,
		Message: fmt.Sprintf("expected %s, got %T", expected, value),
		Value:   value,
		Code:    ErrCodeTypeMismatch,
	}
}

// decodeSettings builds settings from a merged map. Values that fail to
// normalize keep their defaults.
func decodeSettings(merged map[string]any) eligibility.Settings {
	s := eligibility.DefaultSettings()
	for path, field := range boolBindings(&s) {
		if v, ok := lookup(merged, path); ok {
			if b, err := normalize(path, v); err == nil {
				*field = b.(bool)
			}
		}
	}
	if v, ok := lookup(merged, KeyHiddenKeywords); ok {
		if list, err := normalize(KeyHiddenKeywords, v); err == nil {
			s.HiddenKeywords = s.HiddenKeywords[:0:0]
			for _, k := range list.([]any) {
				s.HiddenKeywords = append(s.HiddenKeywords, k.(string))
			}
		}
	}
	if v, ok := lookup(merged, KeyTrigger); ok {
		if t, err := normalize(KeyTrigger, v); err == nil {
			s.Trigger = eligibility.Trigger(t.(string))
		}
	}
	return s
}
