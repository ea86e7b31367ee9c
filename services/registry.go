package services

import (
	"sync"

	"swarm-replica/contract"
)

type Set map[string]struct{}

// Registry tracks which external observers (UI windows, notification layer)
// want the change events of which conversation.
type Registry struct {
	mu        sync.RWMutex
	observers map[string]contract.EventSink // map observer -> sink
	watchers  map[string]Set                // map conversation -> observers
	watched   map[string]Set                // map observer -> conversations
}

func NewRegistry() *Registry {
	return &Registry{
		observers: make(map[string]contract.EventSink),
		watchers:  make(map[string]Set),
		watched:   make(map[string]Set),
	}
}

// GetSinksFor retrieves all active sinks watching a conversation.
// It performs a two-step lookup:
// 1. Identifies observer IDs associated with the conversation via watchers.
// 2. Resolves those IDs into actual EventSinks using the observers map.
//
// An observer watching several conversations keeps a single sink entry.
// Returns nil when nobody watches the conversation.
func (r *Registry) GetSinksFor(conversationID string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	watching, ok := r.watchers[conversationID]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for observerID := range watching {
		if sink, exists := r.observers[observerID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// Subscribe registers an observer's sink and points it at a conversation.
func (r *Registry) Subscribe(observerID string, conversationID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.observers[observerID] = sink

	if _, ok := r.watchers[conversationID]; !ok {
		r.watchers[conversationID] = make(Set)
	}
	r.watchers[conversationID][observerID] = struct{}{}

	if _, ok := r.watched[observerID]; !ok {
		r.watched[observerID] = make(Set)
	}
	r.watched[observerID][conversationID] = struct{}{}
}

// Unsubscribe detaches an observer from one conversation. Its sink is kept
// while the observer still watches other conversations and dropped with the
// last one. Empty watcher sets are removed to avoid leaking conversation
// entries.
func (r *Registry) Unsubscribe(observerID string, conversationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if watching, ok := r.watchers[conversationID]; ok {
		delete(watching, observerID)

		if len(watching) == 0 {
			delete(r.watchers, conversationID)
		}
	}

	if conversations, ok := r.watched[observerID]; ok {
		delete(conversations, conversationID)

		if len(conversations) == 0 {
			delete(r.watched, observerID)
			delete(r.observers, observerID)
		}
	}
}
