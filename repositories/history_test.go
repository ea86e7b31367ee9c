package repositories

import (
	"log/slog"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	options := badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR)
	db, err := badger.Open(options)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestHistoryRepository_RoundTrip(t *testing.T) {
	req := require.New(t)
	repo := NewHistoryRepository(openTestDB(t), slog.Default())

	req.NoError(repo.StoreInteraction(DiskInteraction{
		ID: "m1", Parent: "root", Conversation: "conv", Author: "bob",
		Kind: "text", Body: "one", At: 200,
		Status: map[string]int{"alice": 3},
	}))
	req.NoError(repo.StoreInteraction(DiskInteraction{
		ID: "root", Conversation: "conv", Author: "alice",
		Kind: "text", Body: "hi", At: 100,
	}))
	req.NoError(repo.StoreInteraction(DiskInteraction{
		ID: "x1", Conversation: "other", Author: "carol",
		Kind: "text", Body: "elsewhere", At: 50,
	}))

	records, err := repo.LoadConversation("conv")
	req.NoError(err)
	req.Len(records, 2)

	// Keys are timestamp ordered within the conversation prefix
	req.Equal("root", records[0].ID)
	req.Equal("m1", records[1].ID)
	req.Equal(map[string]int{"alice": 3}, records[1].Status)
}

func TestHistoryRepository_StoreIsAnUpsert(t *testing.T) {
	req := require.New(t)
	repo := NewHistoryRepository(openTestDB(t), slog.Default())

	rec := DiskInteraction{ID: "m1", Conversation: "conv", Author: "bob", Kind: "text", Body: "first", At: 100}
	req.NoError(repo.StoreInteraction(rec))
	rec.Body = "edited"
	req.NoError(repo.StoreInteraction(rec))

	records, err := repo.LoadConversation("conv")
	req.NoError(err)
	req.Len(records, 1)
	req.Equal("edited", records[0].Body)
}

func TestHistoryRepository_DeleteConversationScopesToPrefix(t *testing.T) {
	req := require.New(t)
	repo := NewHistoryRepository(openTestDB(t), slog.Default())

	req.NoError(repo.StoreInteraction(DiskInteraction{ID: "m1", Conversation: "conv", Author: "a", Kind: "text", Body: "x", At: 1}))
	req.NoError(repo.StoreInteraction(DiskInteraction{ID: "m2", Conversation: "conversation-b", Author: "a", Kind: "text", Body: "y", At: 2}))

	req.NoError(repo.DeleteConversation("conv"))

	records, err := repo.LoadConversation("conv")
	req.NoError(err)
	req.Empty(records)

	// "conversation-b" does not share the "int:conv:" prefix
	records, err = repo.LoadConversation("conversation-b")
	req.NoError(err)
	req.Len(records, 1)
}
