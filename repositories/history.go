//go:generate go run go.uber.org/mock/mockgen -source=history.go -destination=../mocks/mock_history_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// IHistoryRepository mirrors conversation mutations into durable storage.
// The core holds no database handle; a sink feeds this repository and replay
// goes back through the idempotent Insert of the store.
type IHistoryRepository interface {
	StoreInteraction(rec DiskInteraction) error
	LoadConversation(conversation string) ([]DiskInteraction, error)
	DeleteConversation(conversation string) error
}

// DiskInteraction is the JSON document persisted per message. Self-describing
// so inspection tools can read records without a schema.
type DiskInteraction struct {
	ID           string         `json:"id"`
	Parent       string         `json:"parent,omitempty"`
	Conversation string         `json:"conversation"`
	Author       string         `json:"author"`
	Kind         string         `json:"kind"`
	Body         string         `json:"body,omitempty"`
	At           uint64         `json:"at"`
	Status       map[string]int `json:"status,omitempty"`
}

type HistoryRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewHistoryRepository(db *badger.DB, log *slog.Logger) HistoryRepository {
	return HistoryRepository{db: db, log: log}
}

// StoreInteraction persists one interaction. The key is formatted as
// "int:{conversation}:{timestamp_padded}:{id}" to:
//  1. Group records per conversation for prefix scans.
//  2. Keep a stable, roughly chronological iteration order via 19-digit zero
//     padding; exact causal order is rebuilt at replay time by the store.
//  3. Disambiguate identical timestamps with the content hash.
func (r HistoryRepository) StoreInteraction(rec DiskInteraction) error {
	key := interactionKey(rec.Conversation, rec.At, rec.ID)
	bytes, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding interaction %s: %w", rec.ID, err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// LoadConversation returns every persisted interaction of a conversation in
// key order. Feeding these back through Insert reproduces the replica state:
// re-insertion of known ids is a no-op merge.
func (r HistoryRepository) LoadConversation(conversation string) ([]DiskInteraction, error) {
	var records []DiskInteraction
	prefix := []byte(fmt.Sprintf("int:%s:", conversation))
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var rec DiskInteraction
				if err := json.Unmarshal(value, &rec); err != nil {
					// A corrupt record is skipped, not fatal: the replica
					// degrades to the records it can read.
					r.log.Warn("skipping unreadable interaction record",
						"key", string(it.Item().Key()), "error", err)
					return nil
				}
				records = append(records, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteConversation drops every record of a conversation, mirroring a
// cleared history.
func (r HistoryRepository) DeleteConversation(conversation string) error {
	prefix := []byte(fmt.Sprintf("int:%s:", conversation))
	var keys [][]byte
	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

func interactionKey(conversation string, at uint64, id string) string {
	return fmt.Sprintf("int:%s:%019d:%s", conversation, at, id)
}
