// Package domain contains core concepts of the swarm conversation replica.
// This file defines Message envelopes, acknowledgment states and body variants.
// Messages are handed over already authenticated and deduplicated by the
// transport daemon, but in arbitrary order.
package domain

// MessageID is the globally unique content hash assigned by the transport layer.
type MessageID string

// PeerID identifies a device/peer taking part in a conversation.
type PeerID string

// AckState is the per-peer delivery/read acknowledgment attached to a message.
type AckState int

const (
	AckUnknown AckState = iota
	AckSending
	AckSuccess
	AckDisplayed
	AckFailure
	AckCancelled
)

func (s AckState) String() string {
	switch s {
	case AckSending:
		return "sending"
	case AckSuccess:
		return "success"
	case AckDisplayed:
		return "displayed"
	case AckFailure:
		return "failure"
	case AckCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// BodyKind tags the payload variant carried by a message envelope.
type BodyKind int

const (
	KindText BodyKind = iota
	KindCall
	KindMember
	KindDataTransfer
	KindInvalid
)

func (k BodyKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindCall:
		return "call"
	case KindMember:
		return "member"
	case KindDataTransfer:
		return "transfer"
	default:
		return "invalid"
	}
}

// Body is the tagged payload of a message. Shared fields (id, parent, author,
// timestamp, status) live on the envelope so the history store stays
// homogeneous.
type Body interface {
	Kind() BodyKind
}

type TextBody struct {
	Text string
}

func (TextBody) Kind() BodyKind { return KindText }

type CallBody struct {
	DurationMs uint64
	Missed     bool
}

func (CallBody) Kind() BodyKind { return KindCall }

// MemberBody records a membership change carried in-band by the swarm.
type MemberBody struct {
	Peer   PeerID
	Action string // join, leave, add, ban...
}

func (MemberBody) Kind() BodyKind { return KindMember }

type TransferBody struct {
	FileName string
	Size     int64
}

func (TransferBody) Kind() BodyKind { return KindDataTransfer }

// InvalidBody is the tombstone payload of a deleted message. The envelope
// keeps its position in the DAG so children stay anchored.
type InvalidBody struct{}

func (InvalidBody) Kind() BodyKind { return KindInvalid }

// Message is an interaction envelope. Identity fields (ID, Author) are
// immutable; ParentID changes only through the store's re-parenting of
// orphans, and status fields evolve as acknowledgments arrive.
type Message struct {
	ID       MessageID
	ParentID MessageID // empty only for the conversation root
	Author   PeerID
	// Timestamp is author-provided wall/logical time. Advisory metadata only:
	// peer clocks are not trusted, causal order always wins for swarm history.
	Timestamp uint64
	Body      Body
	Status    map[PeerID]AckState
	Reactions []Message
	Editions  []Message // oldest first
}

// IsTombstone reports whether the message was deleted and replaced by an
// Invalid placeholder.
func (m *Message) IsTombstone() bool {
	return m.Body == nil || m.Body.Kind() == KindInvalid
}

// CurrentBody resolves the content to display: the latest edition if the
// message was edited, the original body otherwise.
func (m *Message) CurrentBody() Body {
	if n := len(m.Editions); n > 0 {
		return m.Editions[n-1].Body
	}
	return m.Body
}

// Tombstone replaces the payload with an Invalid placeholder while keeping
// the envelope in place.
func (m *Message) Tombstone() {
	m.Body = InvalidBody{}
}

// SetStatus records an acknowledgment for a peer. The transition is
// conservative: a populated state never goes back to Unknown, and a final
// Displayed never regresses to an in-flight state.
func (m *Message) SetStatus(peer PeerID, state AckState) bool {
	if state == AckUnknown {
		return false
	}
	if m.Status == nil {
		m.Status = make(map[PeerID]AckState)
	}
	if current, ok := m.Status[peer]; ok && current >= state {
		return false
	}
	m.Status[peer] = state
	return true
}

// MergeFrom folds a duplicate delivery of the same message into the stored
// one. Status entries, reactions and editions are unioned; populated fields
// are never overwritten with empty ones.
func (m *Message) MergeFrom(other *Message) bool {
	changed := false
	for peer, state := range other.Status {
		if m.SetStatus(peer, state) {
			changed = true
		}
	}
	for i := range other.Reactions {
		if m.MergeReaction(other.Reactions[i]) {
			changed = true
		}
	}
	for i := range other.Editions {
		if m.MergeEdition(other.Editions[i]) {
			changed = true
		}
	}
	if m.ParentID == "" && other.ParentID != "" {
		m.ParentID = other.ParentID
		changed = true
	}
	return changed
}

// MergeReaction appends a reaction unless it is already attached.
func (m *Message) MergeReaction(r Message) bool {
	for i := range m.Reactions {
		if m.Reactions[i].ID == r.ID {
			return false
		}
	}
	m.Reactions = append(m.Reactions, r)
	return true
}

// MergeEdition appends an edit unless it is already recorded. The last
// edition is the current content.
func (m *Message) MergeEdition(e Message) bool {
	for i := range m.Editions {
		if m.Editions[i].ID == e.ID {
			return false
		}
	}
	m.Editions = append(m.Editions, e)
	return true
}
