package sink

import (
	"context"
	"log/slog"

	"swarm-replica/domain"
	"swarm-replica/domain/event"
	"swarm-replica/repositories"
)

// SearchSink keeps the full-text index aligned with the change stream: text
// additions and edits are indexed, removals drop the document.
type SearchSink struct {
	repository *repositories.SearchRepository
	log        *slog.Logger
}

func NewSearchSink(repository *repositories.SearchRepository, log *slog.Logger) SearchSink {
	return SearchSink{repository: repository, log: log}
}

func (s SearchSink) Consume(_ context.Context, e event.ConversationEvent) error {
	switch evt := e.(type) {
	case event.InteractionChanged:
		if evt.Kind == event.Removed || evt.Message.IsTombstone() {
			return s.repository.Delete(string(evt.Message.ID))
		}
		if evt.Message.CurrentBody().Kind() != domain.KindText {
			return nil
		}
		return s.repository.Index(ToDiskInteraction(evt.Conversation, evt.Message))
	case event.HistoryCleared:
		for i := range evt.Cleared {
			if err := s.repository.Delete(string(evt.Cleared[i].ID)); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}
