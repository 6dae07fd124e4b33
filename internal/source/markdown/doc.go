// Package markdown reports the markup elements of a Markdown document.
//
// Inline structure (emphasis, strike-through, code spans, links, images and
// autolinks) comes from goldmark. Constructs goldmark does not know about
// are found by scanning the text outside code: "#+KEY: value" keyword
// lines, TeX math ("$..$", "\(..\)", "$$..$$", "\[..\]" and
// "\begin{env}..\end{env}"), "^superscript^" and HTML entities. A single
// tilde pair, which goldmark reads as strike-through, is reported as a
// subscript.
//
// All offsets are rune offsets into the text.
package markdown
