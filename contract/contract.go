//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"

	"swarm-replica/domain/event"
)

// EventSink consumes change events flowing out of a conversation replica.
// Implementations must be cheap or hand off to their own goroutine: sinks run
// on the fan-out path.
type EventSink interface {
	Consume(ctx context.Context, e event.ConversationEvent) error
}

// IObserverRegistry resolves which external observers (UI, notification
// layer) want the events of a given conversation.
type IObserverRegistry interface {
	GetSinksFor(conversationID string) []EventSink
	Subscribe(observerID string, conversationID string, sink EventSink)
	Unsubscribe(observerID string, conversationID string)
}
