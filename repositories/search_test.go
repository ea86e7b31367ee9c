package repositories

import (
	"context"
	"log/slog"
	"testing"

	"github.com/blugelabs/bluge"
	"github.com/stretchr/testify/require"
)

func openTestIndex(t *testing.T) *bluge.Writer {
	t.Helper()
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	return writer
}

func TestSearchRepository_IndexAndSearch(t *testing.T) {
	req := require.New(t)
	repo := NewSearchRepository(openTestIndex(t), slog.Default(), 10)

	req.NoError(repo.Index(DiskInteraction{ID: "m1", Conversation: "conv", Author: "alice", Kind: "text", Body: "lunch tomorrow?"}))
	req.NoError(repo.Index(DiskInteraction{ID: "m2", Conversation: "conv", Author: "bob", Kind: "text", Body: "lunch works for me"}))
	req.NoError(repo.Index(DiskInteraction{ID: "m3", Conversation: "other", Author: "alice", Kind: "text", Body: "lunch is cancelled"}))

	hits, total, err := repo.Search(context.Background(), "", "", "lunch")
	req.NoError(err)
	req.EqualValues(3, total)
	req.Len(hits, 3)

	hits, total, err = repo.Search(context.Background(), "conv", "", "lunch")
	req.NoError(err)
	req.EqualValues(2, total)

	hits, total, err = repo.Search(context.Background(), "conv", "alice", "lunch")
	req.NoError(err)
	req.EqualValues(1, total)
	req.Equal("m1", hits[0].ID)
	req.Equal("lunch tomorrow?", hits[0].Body)
}

func TestSearchRepository_EmptyBodyIsSkipped(t *testing.T) {
	req := require.New(t)
	repo := NewSearchRepository(openTestIndex(t), slog.Default(), 10)

	req.NoError(repo.Index(DiskInteraction{ID: "m1", Conversation: "conv", Author: "alice", Kind: "call"}))

	_, total, err := repo.Search(context.Background(), "conv", "", "anything")
	req.NoError(err)
	req.Zero(total)
}

func TestSearchRepository_ReindexAndDelete(t *testing.T) {
	req := require.New(t)
	repo := NewSearchRepository(openTestIndex(t), slog.Default(), 10)

	req.NoError(repo.Index(DiskInteraction{ID: "m1", Conversation: "conv", Author: "alice", Kind: "text", Body: "helo"}))
	req.NoError(repo.Index(DiskInteraction{ID: "m1", Conversation: "conv", Author: "alice", Kind: "text", Body: "hello"}))

	hits, total, err := repo.Search(context.Background(), "conv", "", "hello")
	req.NoError(err)
	req.EqualValues(1, total)
	req.Equal("hello", hits[0].Body)

	req.NoError(repo.Delete("m1"))
	_, total, err = repo.Search(context.Background(), "conv", "", "hello")
	req.NoError(err)
	req.Zero(total)
}
