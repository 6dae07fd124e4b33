package event

import (
	"sort"
	"sync"

	"github.com/dshills/peekmark/internal/event/topic"
)

// Registry manages subscriptions organized by topic pattern.
// It is safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	subs map[topic.Topic][]*subscription
	byID map[string]*subscription
	seq  uint64
}

// NewRegistry creates a new subscription registry.
func NewRegistry() *Registry {
	return &Registry{
		subs: make(map[topic.Topic][]*subscription),
		byID: make(map[string]*subscription),
	}
}

// Add adds a subscription for its topic pattern.
func (r *Registry) Add(sub *subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	sub.seq = r.seq
	r.subs[sub.topic] = append(r.subs[sub.topic], sub)
	r.byID[sub.id] = sub
}

// Remove removes a subscription by ID.
func (r *Registry) Remove(subID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, exists := r.byID[subID]
	if !exists {
		return false
	}

	subs := r.subs[sub.topic]
	for i, s := range subs {
		if s.id == subID {
			r.subs[sub.topic] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(r.subs[sub.topic]) == 0 {
		delete(r.subs, sub.topic)
	}
	delete(r.byID, subID)
	return true
}

// Match returns the active subscriptions whose pattern matches eventTopic,
// ordered by priority and then by registration order.
func (r *Registry) Match(eventTopic topic.Topic) []*subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*subscription
	for pattern, subs := range r.subs {
		if !eventTopic.Matches(pattern) {
			continue
		}
		for _, s := range subs {
			if s.IsActive() {
				result = append(result, s)
			}
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].config.Priority != result[j].config.Priority {
			return result[i].config.Priority < result[j].config.Priority
		}
		return result[i].seq < result[j].seq
	})
	return result
}

// Count returns the total number of subscriptions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// CountByTopic returns the number of subscriptions for a topic pattern.
func (r *Registry) CountByTopic(topicPattern topic.Topic) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs[topicPattern])
}
