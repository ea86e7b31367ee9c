// Package sink contains EventSink implementations mirroring conversation
// change events into external stores. Sinks receive events only after the
// in-memory mutation is fully applied.
package sink

import (
	"context"
	"fmt"
	"log/slog"

	"swarm-replica/domain"
	"swarm-replica/domain/event"
	"swarm-replica/repositories"
)

// DiskSink mirrors interaction changes into the badger-backed history
// repository, keeping durable state replayable into a fresh replica.
type DiskSink struct {
	repository repositories.IHistoryRepository
	log        *slog.Logger
}

func NewDiskSink(repository repositories.IHistoryRepository, log *slog.Logger) DiskSink {
	return DiskSink{repository: repository, log: log}
}

func (d DiskSink) Consume(_ context.Context, e event.ConversationEvent) error {
	switch evt := e.(type) {
	case event.InteractionChanged:
		return d.repository.StoreInteraction(ToDiskInteraction(evt.Conversation, evt.Message))
	case event.HistoryCleared:
		return d.repository.DeleteConversation(evt.Conversation)
	default:
		d.log.Debug(fmt.Sprintf("Not implemented event : %v", evt))
		return nil
	}
}

// ToDiskInteraction flattens a message envelope into its persisted document.
// The current body (latest edition) is what gets stored.
func ToDiskInteraction(conversation string, m domain.Message) repositories.DiskInteraction {
	rec := repositories.DiskInteraction{
		ID:           string(m.ID),
		Parent:       string(m.ParentID),
		Conversation: conversation,
		Author:       string(m.Author),
		At:           m.Timestamp,
	}
	body := m.CurrentBody()
	if body == nil {
		body = domain.InvalidBody{}
	}
	rec.Kind = body.Kind().String()
	switch b := body.(type) {
	case domain.TextBody:
		rec.Body = b.Text
	case domain.TransferBody:
		rec.Body = b.FileName
	case domain.MemberBody:
		rec.Body = fmt.Sprintf("%s %s", b.Peer, b.Action)
	}
	if len(m.Status) > 0 {
		rec.Status = make(map[string]int, len(m.Status))
		for peer, state := range m.Status {
			rec.Status[string(peer)] = int(state)
		}
	}
	return rec
}

// FromDiskInteraction rebuilds the message envelope used to replay persisted
// history through the store's idempotent insert.
func FromDiskInteraction(rec repositories.DiskInteraction) domain.Message {
	m := domain.Message{
		ID:        domain.MessageID(rec.ID),
		ParentID:  domain.MessageID(rec.Parent),
		Author:    domain.PeerID(rec.Author),
		Timestamp: rec.At,
	}
	switch rec.Kind {
	case domain.KindCall.String():
		m.Body = domain.CallBody{}
	case domain.KindMember.String():
		m.Body = domain.MemberBody{}
	case domain.KindDataTransfer.String():
		m.Body = domain.TransferBody{FileName: rec.Body}
	case domain.KindInvalid.String():
		m.Body = domain.InvalidBody{}
	default:
		m.Body = domain.TextBody{Text: rec.Body}
	}
	if len(rec.Status) > 0 {
		m.Status = make(map[domain.PeerID]domain.AckState, len(rec.Status))
		for peer, state := range rec.Status {
			m.Status[domain.PeerID(peer)] = domain.AckState(state)
		}
	}
	return m
}
