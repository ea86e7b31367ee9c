// Package ack tracks per-peer acknowledgment cursors over a conversation
// history. Cursors only ever move forward along the causal order; the
// causal "after" test is the single mechanism allowed to advance them.
package ack

import (
	"log/slog"

	"swarm-replica/domain"
)

// ChainReader gives the tracker read access to the message graph it walks.
// Implemented by the history store.
type ChainReader interface {
	// Parent returns the declared parent of a message, ok=false when the id
	// itself is unknown. The root returns an empty parent with ok=true.
	Parent(id domain.MessageID) (domain.MessageID, bool)
	// Timestamp returns the author-declared timestamp, used only in legacy
	// (non-swarm) mode.
	Timestamp(id domain.MessageID) (uint64, bool)
	// Size is the number of known messages, bounding causal walks.
	Size() int
}

// Tracker keeps the local read/sent cursors and the per-peer displayed
// cursors of one conversation. It is not safe for concurrent use; the owning
// aggregate serializes access.
type Tracker struct {
	log       *slog.Logger
	chain     ChainReader
	swarm     bool
	localPeer domain.PeerID

	lastRead      domain.MessageID
	lastNotified  domain.MessageID
	lastSent      domain.MessageID
	lastDisplayed map[domain.PeerID]domain.MessageID
}

func NewTracker(log *slog.Logger, chain ChainReader, swarm bool, localPeer domain.PeerID) *Tracker {
	return &Tracker{
		log:           log,
		chain:         chain,
		swarm:         swarm,
		localPeer:     localPeer,
		lastDisplayed: make(map[domain.PeerID]domain.MessageID),
	}
}

// IsAfter reports whether candidate is causally after reference.
//
// Swarm mode walks the parentId chain from candidate toward the root until
// reference is found. The walk is bounded by the store size: exceeding the
// bound means a peer produced a parent cycle, which is logged and treated as
// false, never a panic. Legacy mode degrades to a timestamp comparison.
func (t *Tracker) IsAfter(reference, candidate domain.MessageID) bool {
	if reference == candidate {
		return false
	}
	if !t.swarm {
		ref, okRef := t.chain.Timestamp(reference)
		cand, okCand := t.chain.Timestamp(candidate)
		return okRef && okCand && ref < cand
	}

	cur := candidate
	for steps := t.chain.Size(); steps > 0; steps-- {
		parent, ok := t.chain.Parent(cur)
		if !ok || parent == "" {
			return false
		}
		if parent == reference {
			return true
		}
		cur = parent
	}
	t.log.Warn("parent chain exceeded store size, assuming cycle",
		"reference", reference, "candidate", candidate)
	return false
}

// advance moves a cursor to candidate when there is no cursor yet or
// candidate is causally after it.
func (t *Tracker) advance(cursor *domain.MessageID, candidate domain.MessageID) bool {
	if candidate == "" {
		return false
	}
	if *cursor != "" && !t.IsAfter(*cursor, candidate) {
		return false
	}
	*cursor = candidate
	return true
}

func (t *Tracker) AdvanceRead(candidate domain.MessageID) bool {
	return t.advance(&t.lastRead, candidate)
}

func (t *Tracker) AdvanceNotified(candidate domain.MessageID) bool {
	return t.advance(&t.lastNotified, candidate)
}

func (t *Tracker) AdvanceSent(candidate domain.MessageID) bool {
	return t.advance(&t.lastSent, candidate)
}

// AdvanceDisplayed moves a remote peer's displayed cursor. Displayed events
// for the local user are filtered out by the caller.
func (t *Tracker) AdvanceDisplayed(peer domain.PeerID, candidate domain.MessageID) bool {
	if candidate == "" {
		return false
	}
	current, ok := t.lastDisplayed[peer]
	if ok && current != "" && !t.IsAfter(current, candidate) {
		return false
	}
	t.lastDisplayed[peer] = candidate
	return true
}

func (t *Tracker) LastRead() domain.MessageID     { return t.lastRead }
func (t *Tracker) LastNotified() domain.MessageID { return t.lastNotified }
func (t *Tracker) LastSent() domain.MessageID     { return t.lastSent }

func (t *Tracker) LastDisplayed(peer domain.PeerID) (domain.MessageID, bool) {
	id, ok := t.lastDisplayed[peer]
	return id, ok
}

// DisplayedByPeer returns a copy of the per-peer displayed cursors.
func (t *Tracker) DisplayedByPeer() map[domain.PeerID]domain.MessageID {
	out := make(map[domain.PeerID]domain.MessageID, len(t.lastDisplayed))
	for peer, id := range t.lastDisplayed {
		out[peer] = id
	}
	return out
}

// Reset drops every cursor, used when the history is cleared.
func (t *Tracker) Reset() {
	t.lastRead = ""
	t.lastNotified = ""
	t.lastSent = ""
	t.lastDisplayed = make(map[domain.PeerID]domain.MessageID)
}

func (t *Tracker) LocalPeer() domain.PeerID { return t.localPeer }
