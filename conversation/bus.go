package conversation

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"swarm-replica/domain/event"
)

// DefaultBusBuffer is the per-subscriber channel capacity when the
// configuration does not say otherwise.
const DefaultBusBuffer = 64

// Bus fans conversation change events out to multiple subscribers.
//
// Delivery is at-least-once within the process for keeping-up consumers: each
// subscriber has a bounded channel and the oldest pending event is dropped
// when it overflows. Late subscribers get a replay of the most recent event;
// consumers needing full history must read the store snapshot on subscribe,
// not rely on the stream.
//
// Bus is safe for concurrent use.
type Bus struct {
	mu     sync.Mutex
	log    *slog.Logger
	buffer int
	subs   map[string]chan event.ConversationEvent
	last   event.ConversationEvent
	closed bool
}

func NewBus(log *slog.Logger, buffer int) *Bus {
	if buffer <= 0 {
		buffer = DefaultBusBuffer
	}
	return &Bus{
		log:    log,
		buffer: buffer,
		subs:   make(map[string]chan event.ConversationEvent),
	}
}

// Subscribe registers a consumer and returns its token and channel. The most
// recent event, if any, is already queued on the channel.
func (b *Bus) Subscribe() (string, <-chan event.ConversationEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	token := uuid.NewString()
	ch := make(chan event.ConversationEvent, b.buffer)
	if b.closed {
		close(ch)
		return token, ch
	}
	if b.last != nil {
		ch <- b.last
	}
	b.subs[token] = ch
	return token, ch
}

// Unsubscribe drops a consumer and closes its channel.
func (b *Bus) Unsubscribe(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[token]; ok {
		delete(b.subs, token)
		close(ch)
	}
}

// Publish delivers an event to every subscriber without blocking the
// publisher. A full subscriber loses its oldest pending event.
func (b *Bus) Publish(e event.ConversationEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.last = e
	for token, ch := range b.subs {
		select {
		case ch <- e:
		default:
			select {
			case <-ch:
				b.log.Debug("slow subscriber, dropping oldest event", "subscriber", token)
			default:
			}
			select {
			case ch <- e:
			default:
			}
		}
	}
}

// Close terminates every subscription. Further publishes are no-ops.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for token, ch := range b.subs {
		delete(b.subs, token)
		close(ch)
	}
}
