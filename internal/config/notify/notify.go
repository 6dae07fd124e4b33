// Package notify delivers configuration change notifications to observers.
package notify

import (
	"sort"
	"strings"
	"sync"
)

// ChangeType is the kind of configuration change.
type ChangeType int

const (
	// ChangeSet means a value was set or updated.
	ChangeSet ChangeType = iota

	// ChangeDelete means a value was removed.
	ChangeDelete

	// ChangeReload means a whole layer was reloaded.
	ChangeReload
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeDelete:
		return "delete"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change describes one configuration change.
type Change struct {
	// Path is the dot-separated setting path. Empty for reloads.
	Path string

	Type     ChangeType
	OldValue any
	NewValue any

	// Paths lists the leaf paths a reload changed.
	Paths []string

	// Source names the layer the change came from.
	Source string
}

// Observer is called for each delivered change.
type Observer func(change Change)

// Subscription is an active observer registration.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes the observer. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
		s.notifier = nil
	}
}

type registration struct {
	id       uint64
	path     string
	observer Observer
}

// Notifier fans changes out to observers synchronously, in subscription
// order.
type Notifier struct {
	mu     sync.RWMutex
	regs   []registration
	nextID uint64
	closed bool
}

// New creates a Notifier.
func New() *Notifier {
	return &Notifier{}
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.SubscribePath("", observer)
}

// SubscribePath registers an observer for changes at or below path.
// "reveal" receives changes to "reveal.trigger". Reloads are delivered
// when any of their paths is at or below path.
func (n *Notifier) SubscribePath(path string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.regs = append(n.regs, registration{id: id, path: path, observer: observer})
	return &Subscription{id: id, notifier: n}
}

// Notify delivers change to every matching observer.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}
	var observers []Observer
	for _, r := range n.regs {
		if r.matches(change) {
			observers = append(observers, r.observer)
		}
	}
	n.mu.RUnlock()

	for _, obs := range observers {
		obs(change)
	}
}

// NotifySet reports a set change.
func (n *Notifier) NotifySet(path string, oldValue, newValue any, source string) {
	n.Notify(Change{Path: path, Type: ChangeSet, OldValue: oldValue, NewValue: newValue, Source: source})
}

// NotifyDelete reports a delete change.
func (n *Notifier) NotifyDelete(path string, oldValue any, source string) {
	n.Notify(Change{Path: path, Type: ChangeDelete, OldValue: oldValue, Source: source})
}

// NotifyReload reports a reload that changed paths.
func (n *Notifier) NotifyReload(paths []string, source string) {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	n.Notify(Change{Type: ChangeReload, Paths: sorted, Source: source})
}

// Count returns the number of registered observers.
func (n *Notifier) Count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.regs)
}

// Close stops delivery. It is safe to call Close more than once.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.regs = nil
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, r := range n.regs {
		if r.id == id {
			n.regs = append(n.regs[:i:i], n.regs[i+1:]...)
			return
		}
	}
}

func (r registration) matches(c Change) bool {
	if r.path == "" {
		return true
	}
	if c.Type != ChangeReload {
		return underPath(r.path, c.Path)
	}
	for _, p := range c.Paths {
		if underPath(r.path, p) {
			return true
		}
	}
	return false
}

// underPath reports whether child equals parent or lies below it.
func underPath(parent, child string) bool {
	return child == parent || strings.HasPrefix(child, parent+".")
}
