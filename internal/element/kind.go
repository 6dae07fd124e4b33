package element

// Kind is the closed enumeration of raw element kinds reported by a parser.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindBold
	KindItalic
	KindUnderline
	KindStrikeThrough
	KindVerbatim
	KindCode
	KindSubscript
	KindSuperscript
	KindEntity
	KindLink
	KindKeyword
	KindLatexFragment
	KindLatexEnvironment
)

var kindNames = [...]string{
	KindUnknown:          "unknown",
	KindBold:             "bold",
	KindItalic:           "italic",
	KindUnderline:        "underline",
	KindStrikeThrough:    "strike-through",
	KindVerbatim:         "verbatim",
	KindCode:             "code",
	KindSubscript:        "subscript",
	KindSuperscript:      "superscript",
	KindEntity:           "entity",
	KindLink:             "link",
	KindKeyword:          "keyword",
	KindLatexFragment:    "latex-fragment",
	KindLatexEnvironment: "latex-environment",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Class returns the descriptor class the kind dispatches to.
func (k Kind) Class() Class {
	switch k {
	case KindBold, KindItalic, KindUnderline, KindStrikeThrough, KindVerbatim, KindCode:
		return ClassEmphasis
	case KindSubscript, KindSuperscript:
		return ClassScript
	case KindEntity:
		return ClassEntity
	case KindLink:
		return ClassLink
	case KindKeyword:
		return ClassKeyword
	case KindLatexFragment, KindLatexEnvironment:
		return ClassMath
	default:
		return ClassNone
	}
}

// Class is the descriptor tag used for dispatch.
type Class uint8

const (
	ClassNone Class = iota
	ClassEmphasis
	ClassScript
	ClassEntity
	ClassLink
	ClassKeyword
	ClassMath
)

// Classes lists every dispatchable class.
var Classes = []Class{ClassEmphasis, ClassScript, ClassEntity, ClassLink, ClassKeyword, ClassMath}

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassEmphasis:
		return "emphasis"
	case ClassScript:
		return "script"
	case ClassEntity:
		return "entity"
	case ClassLink:
		return "link"
	case ClassKeyword:
		return "keyword"
	case ClassMath:
		return "math"
	default:
		return "none"
	}
}

// Partial reports whether elements of the class keep a visible interior
// between hidden delimiters. Other classes are toggled as a whole.
func (c Class) Partial() bool {
	return c == ClassEmphasis || c == ClassScript || c == ClassLink
}
