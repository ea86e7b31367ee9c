package services

import (
	"context"

	"swarm-replica/domain"
	"swarm-replica/history"
	"swarm-replica/repositories"
	"swarm-replica/sink"
)

// ReplayFromDisk rebuilds a conversation replica from its persisted mirror.
// Insertion is idempotent, so replaying on top of a live replica only merges:
// already-known ids come back as duplicates, and out-of-order records heal
// through the store's orphan handling.
func (s *ConversationService) ReplayFromDisk(ctx context.Context, repo repositories.IHistoryRepository, conversationID string, mode domain.Mode) (int, error) {
	records, err := repo.LoadConversation(conversationID)
	if err != nil {
		return 0, err
	}
	agg := s.getOrCreate(conversationID, mode)

	replayed := 0
	for _, rec := range records {
		if outcome := agg.Insert(sink.FromDiskInteraction(rec)); outcome != history.Duplicate {
			replayed++
		}
	}
	s.log.Info("conversation replayed from disk",
		"conversation", conversationID, "records", len(records), "applied", replayed)
	return replayed, nil
}
