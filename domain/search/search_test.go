package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseQuery_PlainTerms(t *testing.T) {
	req := require.New(t)
	query := ParseQuery("lunch tomorrow")

	req.Equal("lunch tomorrow", query.Terms)
	req.Empty(query.Author)
	req.Empty(query.Conversation)
	req.Equal(10, query.Limit)
}

func TestParseQuery_FlagsAndCommandPrefix(t *testing.T) {
	req := require.New(t)
	query := ParseQuery("/find invoice --author alice --conversation swarm:abc --limit 5")

	req.Equal("invoice", query.Terms)
	req.Equal("alice", query.Author)
	req.Equal("swarm:abc", query.Conversation)
	req.Equal(5, query.Limit)
}

func TestParseQuery_InvalidLimitKeepsDefault(t *testing.T) {
	req := require.New(t)

	req.Equal(10, ParseQuery("hello --limit zero").Limit)
	req.Equal(10, ParseQuery("hello --limit -3").Limit)

	// A trailing flag without a value is treated as a search term
	query := ParseQuery("hello --author")
	req.Equal("hello --author", query.Terms)
}
