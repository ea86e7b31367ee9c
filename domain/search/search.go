package search

import (
	"strconv"
	"strings"
)

// Query represents the structured parameters of a history search. It
// decouples the raw user input from the index engine requirements.
type Query struct {
	RawInput     string // the original input line
	Terms        string // the text to match against interaction bodies
	Author       string // restrict to one peer
	Conversation string // restrict to one conversation
	Limit        int    // number of results
}

// ParseQuery extracts command-line style arguments from a raw string.
// Example: /find invoice --author alice --conversation swarm:abc --limit 5
func ParseQuery(input string) *Query {
	query := &Query{
		RawInput: input,
		Limit:    10, // default limit
	}

	parts := strings.Fields(input)
	var textTerms []string

	for i := 0; i < len(parts); i++ {
		part := parts[i]

		if strings.HasPrefix(part, "--") && i+1 < len(parts) {
			key := strings.TrimPrefix(part, "--")
			val := parts[i+1]

			switch key {
			case "author":
				query.Author = val
			case "conversation":
				query.Conversation = val
			case "limit":
				if n, err := strconv.Atoi(val); err == nil && n > 0 {
					query.Limit = n
				}
			}
			i++ // skip the value part in the next iteration
			continue
		}

		if !strings.HasPrefix(part, "/") {
			textTerms = append(textTerms, part)
		}
	}

	query.Terms = strings.Join(textTerms, " ")
	return query
}
