package sink

import (
	"context"
	"log/slog"
	"testing"

	"github.com/blugelabs/bluge"
	"github.com/stretchr/testify/require"

	"swarm-replica/domain"
	"swarm-replica/domain/event"
	"swarm-replica/repositories"
)

func newSearchSink(t *testing.T) (SearchSink, *repositories.SearchRepository) {
	t.Helper()
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	repo := repositories.NewSearchRepository(writer, slog.Default(), 10)
	return NewSearchSink(repo, slog.Default()), repo
}

func textEvent(id, body string, kind event.ChangeKind) event.InteractionChanged {
	return event.InteractionChanged{
		Conversation: "conv",
		Message: domain.Message{
			ID: domain.MessageID(id), Author: "alice", Timestamp: 100,
			Body: domain.TextBody{Text: body},
		},
		Kind: kind,
	}
}

func TestSearchSink_IndexesTextOnly(t *testing.T) {
	req := require.New(t)
	searchSink, repo := newSearchSink(t)
	ctx := context.Background()

	req.NoError(searchSink.Consume(ctx, textEvent("m1", "where is the meeting", event.Added)))
	req.NoError(searchSink.Consume(ctx, event.InteractionChanged{
		Conversation: "conv",
		Message:      domain.Message{ID: "c1", Author: "bob", Body: domain.CallBody{}},
		Kind:         event.Added,
	}))

	_, total, err := repo.Search(ctx, "conv", "", "meeting")
	req.NoError(err)
	req.EqualValues(1, total)
}

func TestSearchSink_RemovalDropsDocument(t *testing.T) {
	req := require.New(t)
	searchSink, repo := newSearchSink(t)
	ctx := context.Background()

	req.NoError(searchSink.Consume(ctx, textEvent("m1", "secret plans", event.Added)))

	removed := textEvent("m1", "secret plans", event.Removed)
	removed.Message.Tombstone()
	req.NoError(searchSink.Consume(ctx, removed))

	_, total, err := repo.Search(ctx, "conv", "", "secret")
	req.NoError(err)
	req.Zero(total)
}

func TestSearchSink_HistoryClearedDropsEverything(t *testing.T) {
	req := require.New(t)
	searchSink, repo := newSearchSink(t)
	ctx := context.Background()

	req.NoError(searchSink.Consume(ctx, textEvent("m1", "first", event.Added)))
	req.NoError(searchSink.Consume(ctx, textEvent("m2", "second", event.Added)))

	req.NoError(searchSink.Consume(ctx, event.HistoryCleared{
		Conversation: "conv",
		Cleared: []domain.Message{
			{ID: "m1", Body: domain.TextBody{Text: "first"}},
			{ID: "m2", Body: domain.TextBody{Text: "second"}},
		},
	}))

	_, total, err := repo.Search(ctx, "conv", "", "first second")
	req.NoError(err)
	req.Zero(total)
}
