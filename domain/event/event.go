// Package event defines the change events a conversation replica broadcasts
// to observers (UI, notifications, call layer). Events are emitted after the
// mutation is fully applied, never from a partial state.
package event

import "swarm-replica/domain"

// ChangeKind describes what happened to an interaction.
type ChangeKind int

const (
	Added ChangeKind = iota
	Updated
	Removed
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Updated:
		return "updated"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// ConversationEvent is anything published on a conversation's change stream.
type ConversationEvent interface {
	ConversationID() string
}

// InteractionChanged reports one affected message. The message is a value
// copy taken after the mutation, safe to hold across goroutines.
type InteractionChanged struct {
	Conversation string
	Message      domain.Message
	Kind         ChangeKind
}

func (e InteractionChanged) ConversationID() string {
	return e.Conversation
}

// HistoryCleared is the batch event emitted instead of per-message events when
// a conversation history is wiped. Cleared holds the full prior list.
type HistoryCleared struct {
	Conversation string
	Cleared      []domain.Message
}

func (e HistoryCleared) ConversationID() string {
	return e.Conversation
}
