package markdown

import (
	"sync"

	"github.com/dshills/peekmark/internal/document"
	"github.com/dshills/peekmark/internal/element"
)

// Source reports the elements of a document, reparsing it whenever the
// document revision changes.
type Source struct {
	mu     sync.Mutex
	doc    *document.Document
	parser *Parser

	parsed   bool
	revision uint64
	elems    element.List
	parses   int
}

// Option configures a Source.
type Option func(*Source)

// WithParser shares a parser between sources.
func WithParser(p *Parser) Option {
	return func(s *Source) {
		if p != nil {
			s.parser = p
		}
	}
}

// NewSource creates a source over doc.
func NewSource(doc *document.Document, opts ...Option) *Source {
	s := &Source{doc: doc}
	for _, opt := range opts {
		opt(s)
	}
	if s.parser == nil {
		s.parser = NewParser()
	}
	return s
}

// ElementAt returns the innermost element whose span, trailing blanks
// included, contains pos.
func (s *Source) ElementAt(pos int) *element.Element {
	return s.Elements().ElementAt(pos)
}

// ElementsIn returns the elements overlapping [start, end), ordered by start.
func (s *Source) ElementsIn(start, end int) []*element.Element {
	return s.Elements().ElementsIn(start, end)
}

// Elements returns every element of the current revision.
func (s *Source) Elements() element.List {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rev := s.doc.Revision(); !s.parsed || rev != s.revision {
		s.elems = s.parser.Parse(s.doc.Text())
		s.revision = rev
		s.parsed = true
		s.parses++
	}
	return s.elems
}

// Parses returns how many times the document has been parsed.
func (s *Source) Parses() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parses
}
