package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessage_SetStatus_NeverRegresses(t *testing.T) {
	req := require.New(t)
	msg := Message{ID: "m1", Author: "alice", Body: TextBody{Text: "hi"}}

	req.True(msg.SetStatus("bob", AckSending))
	req.True(msg.SetStatus("bob", AckDisplayed))

	// Displayed is final, delivery confirmations arriving late are ignored
	req.False(msg.SetStatus("bob", AckSuccess))
	req.Equal(AckDisplayed, msg.Status["bob"])

	req.False(msg.SetStatus("bob", AckUnknown))
	req.False(msg.SetStatus("carol", AckUnknown))
}

func TestMessage_MergeFrom_UnionsWithoutOverwriting(t *testing.T) {
	req := require.New(t)
	stored := Message{
		ID:     "m1",
		Author: "alice",
		Body:   TextBody{Text: "hi"},
		Status: map[PeerID]AckState{"bob": AckDisplayed},
	}
	dup := Message{
		ID:     "m1",
		Author: "alice",
		Body:   TextBody{Text: "hi"},
		Status: map[PeerID]AckState{"bob": AckSuccess, "carol": AckSuccess},
		Reactions: []Message{
			{ID: "r1", Author: "carol", Body: TextBody{Text: ":+1:"}},
		},
	}

	req.True(stored.MergeFrom(&dup))
	req.Equal(AckDisplayed, stored.Status["bob"])
	req.Equal(AckSuccess, stored.Status["carol"])
	req.Len(stored.Reactions, 1)

	// Merging the same duplicate again changes nothing
	req.False(stored.MergeFrom(&dup))
}

func TestMessage_MergeFrom_FillsMissingParent(t *testing.T) {
	req := require.New(t)
	stored := Message{ID: "m1", Author: "alice", Body: TextBody{Text: "hi"}}
	dup := Message{ID: "m1", ParentID: "root", Author: "alice", Body: TextBody{Text: "hi"}}

	req.True(stored.MergeFrom(&dup))
	req.Equal(MessageID("root"), stored.ParentID)
}

func TestMessage_CurrentBody_FollowsEditions(t *testing.T) {
	req := require.New(t)
	msg := Message{ID: "m1", Author: "alice", Body: TextBody{Text: "helo"}}
	req.Equal(TextBody{Text: "helo"}, msg.CurrentBody())

	req.True(msg.MergeEdition(Message{ID: "e1", Author: "alice", Body: TextBody{Text: "hello"}}))
	req.True(msg.MergeEdition(Message{ID: "e2", Author: "alice", Body: TextBody{Text: "hello!"}}))
	req.False(msg.MergeEdition(Message{ID: "e2", Author: "alice", Body: TextBody{Text: "hello!"}}))

	req.Equal(TextBody{Text: "hello!"}, msg.CurrentBody())
}

func TestMessage_Tombstone_KeepsEnvelope(t *testing.T) {
	req := require.New(t)
	msg := Message{ID: "m1", ParentID: "root", Author: "alice", Body: TextBody{Text: "oops"}}

	msg.Tombstone()

	req.True(msg.IsTombstone())
	req.Equal(MessageID("root"), msg.ParentID)
	req.Equal(KindInvalid, msg.Body.Kind())
}
