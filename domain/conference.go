package domain

import "github.com/google/uuid"

// Conference is an active call attached to a conversation. The call media
// itself is owned by the daemon; the replica only tracks attachment.
type Conference struct {
	ID      string
	Host    PeerID
	URI     string
	Started uint64
}

// NewConference builds a conference with a fresh identifier when the daemon
// did not assign one.
func NewConference(host PeerID, uri string, started uint64) Conference {
	return Conference{
		ID:      uuid.NewString(),
		Host:    host,
		URI:     uri,
		Started: started,
	}
}
