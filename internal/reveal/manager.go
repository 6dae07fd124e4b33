package reveal

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/peekmark/internal/document"
	"github.com/dshills/peekmark/internal/element"
	"github.com/dshills/peekmark/internal/eligibility"
	"github.com/dshills/peekmark/internal/event"
	"github.com/dshills/peekmark/internal/event/events"
)

// Manager owns the sessions of all open documents.
type Manager struct {
	mu       sync.RWMutex
	bus      event.Bus
	settings eligibility.Settings
	sessions map[string]*Session
}

// NewManager creates a session manager. bus may be nil, in which case
// sessions only respond to direct calls.
func NewManager(bus event.Bus, settings eligibility.Settings) *Manager {
	return &Manager{
		bus:      bus,
		settings: settings,
		sessions: make(map[string]*Session),
	}
}

// OpenOption configures a session opened by Manager.Open.
type OpenOption func(*openConfig)

type openConfig struct {
	calc   *Calculator
	enable bool
}

// WithCalculator sets the descriptor calculator of the session.
func WithCalculator(c *Calculator) OpenOption {
	return func(o *openConfig) {
		o.calc = c
	}
}

// WithEnabled controls whether the session starts enabled. Defaults to true.
func WithEnabled(enabled bool) OpenOption {
	return func(o *openConfig) {
		o.enable = enabled
	}
}

// Open creates the session of doc.
func (m *Manager) Open(doc *document.Document, source element.Source, scheduler Scheduler, opts ...OpenOption) (*Session, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if source == nil {
		return nil, ErrNilSource
	}
	cfg := openConfig{enable: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	m.mu.Lock()
	if _, exists := m.sessions[doc.Name()]; exists {
		m.mu.Unlock()
		return nil, fmt.Errorf("open %q: %w", doc.Name(), ErrSessionExists)
	}
	s := newSession(uuid.NewString(), doc, source, NewToggler(doc, scheduler, cfg.calc), m.bus, m.settings)
	m.sessions[doc.Name()] = s
	m.mu.Unlock()

	if cfg.enable {
		if err := s.Enable(); err != nil {
			m.mu.Lock()
			delete(m.sessions, doc.Name())
			m.mu.Unlock()
			return nil, fmt.Errorf("enable %q: %w", doc.Name(), err)
		}
	}
	if m.bus != nil {
		_ = m.bus.Publish(context.Background(), event.NewEvent(events.TopicDocumentOpened,
			events.DocumentOpened{Document: doc.Name(), SessionID: s.id}, eventSource))
	}
	return s, nil
}

// Get returns the session of the named document.
func (m *Manager) Get(name string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[name]
	return s, ok
}

// Sessions returns all sessions ordered by document name.
func (m *Manager) Sessions() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].doc.Name() < result[j].doc.Name()
	})
	return result
}

// Count returns the number of open sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close disables and removes the session of the named document.
func (m *Manager) Close(name string) error {
	m.mu.Lock()
	s, ok := m.sessions[name]
	if ok {
		delete(m.sessions, name)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("close %q: %w", name, ErrSessionNotFound)
	}
	s.Disable()
	if m.bus != nil {
		_ = m.bus.Publish(context.Background(), event.NewEvent(events.TopicDocumentClosed,
			events.DocumentClosed{Document: name, SessionID: s.id}, eventSource))
	}
	return nil
}

// CloseAll closes every session.
func (m *Manager) CloseAll() {
	for _, s := range m.Sessions() {
		_ = m.Close(s.doc.Name())
	}
}

// Settings returns the settings new sessions are opened with.
func (m *Manager) Settings() eligibility.Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// UpdateSettings applies new settings to every session.
func (m *Manager) UpdateSettings(settings eligibility.Settings) error {
	m.mu.Lock()
	m.settings = settings
	m.mu.Unlock()

	var firstErr error
	for _, s := range m.Sessions() {
		if err := s.UpdateSettings(settings); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("update %q: %w", s.doc.Name(), err)
		}
	}
	return firstErr
}
