package repositories

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/blugelabs/bluge"
)

// SearchHit is one interaction matched by a full-text query.
type SearchHit struct {
	ID           string
	Conversation string
	Author       string
	Body         string
}

// SearchRepository indexes text interactions for full-text lookup across a
// conversation. Only text bodies are indexed; calls, membership changes and
// tombstones carry nothing searchable.
type SearchRepository struct {
	writer *bluge.Writer
	log    *slog.Logger
	limit  int
}

func NewSearchRepository(writer *bluge.Writer, log *slog.Logger, limit int) *SearchRepository {
	if limit <= 0 {
		limit = 25
	}
	return &SearchRepository{writer: writer, log: log, limit: limit}
}

// Index upserts one interaction. Re-indexing the same id overwrites the
// previous document, so edits land naturally.
func (s *SearchRepository) Index(rec DiskInteraction) error {
	if rec.Body == "" {
		return nil
	}
	doc := bluge.NewDocument(rec.ID).
		AddField(bluge.NewTextField("body", rec.Body).StoreValue()).
		AddField(bluge.NewKeywordField("conversation", rec.Conversation).StoreValue()).
		AddField(bluge.NewKeywordField("author", rec.Author).StoreValue())

	if err := s.writer.Update(doc.ID(), doc); err != nil {
		return fmt.Errorf("indexing interaction %s: %w", rec.ID, err)
	}
	return nil
}

// Delete removes an interaction from the index, mirroring a tombstone.
func (s *SearchRepository) Delete(id string) error {
	doc := bluge.NewDocument(id)
	return s.writer.Delete(doc.ID())
}

// Search runs a match query over interaction bodies, optionally scoped to one
// conversation and one author. Returns the hits and the total match count.
func (s *SearchRepository) Search(ctx context.Context, conversation, author, terms string) ([]SearchHit, uint64, error) {
	reader, err := s.writer.Reader()
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = reader.Close() }()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(terms).SetField("body"))
	if conversation != "" {
		query.AddMust(bluge.NewTermQuery(conversation).SetField("conversation"))
	}
	if author != "" {
		query.AddMust(bluge.NewTermQuery(author).SetField("author"))
	}

	request := bluge.NewTopNSearch(s.limit, query).WithStandardAggregations()
	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, 0, err
	}

	var hits []SearchHit
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, 0, err
		}
		if match == nil {
			break
		}
		var hit SearchHit
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.ID = string(value)
			case "body":
				hit.Body = string(value)
			case "conversation":
				hit.Conversation = string(value)
			case "author":
				hit.Author = string(value)
			}
			return true
		})
		if err != nil {
			s.log.Warn("skipping unreadable search hit", "error", err)
			continue
		}
		hits = append(hits, hit)
	}
	return hits, iterator.Aggregations().Count(), nil
}
