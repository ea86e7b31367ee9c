// Package conversation binds the history store, acknowledgment tracker and
// membership state machine into the per-conversation replica unit, and
// publishes change events to observers.
package conversation

import (
	"log/slog"
	"sync"

	"swarm-replica/ack"
	"swarm-replica/domain"
	"swarm-replica/domain/event"
	"swarm-replica/history"
	"swarm-replica/membership"
)

// Options tunes a replica. Zero values fall back to package defaults.
type Options struct {
	OrphanCap int
	BusBuffer int
}

// Aggregate is the local replica of one conversation. All mutation goes
// through its methods and is serialized by an aggregate-scoped mutex; derived
// views are copy-on-write snapshots, safe to read while mutations proceed.
type Aggregate struct {
	mu sync.Mutex

	log       *slog.Logger
	AccountID string
	URI       string
	localPeer domain.PeerID

	store      *history.Store
	tracker    *ack.Tracker
	membership *membership.StateMachine

	conferences []domain.Conference
	bus         *Bus
}

// New creates the replica for a conversation identifier the first time it is
// observed, from a local start or an incoming invite.
func New(log *slog.Logger, accountID, uri string, localPeer domain.PeerID, mode domain.Mode, opts Options) *Aggregate {
	log = log.With("conversation", uri)
	store := history.NewStore(log, localPeer, mode.IsSwarm(), opts.OrphanCap)
	tracker := ack.NewTracker(log, store, mode.IsSwarm(), localPeer)
	store.AttachTracker(tracker)

	return &Aggregate{
		log:        log,
		AccountID:  accountID,
		URI:        uri,
		localPeer:  localPeer,
		store:      store,
		tracker:    tracker,
		membership: membership.NewStateMachine(log, localPeer, mode),
		bus:        NewBus(log, opts.BusBuffer),
	}
}

// Insert ingests one message. Events are emitted after the mutation is fully
// applied: Added for a fresh placement, Updated for a duplicate merge and for
// every orphan re-spliced by this arrival.
func (a *Aggregate) Insert(msg domain.Message) history.InsertOutcome {
	a.mu.Lock()
	owned := msg
	outcome := a.store.Insert(&owned)
	healed := a.store.DrainHealed()
	a.mu.Unlock()

	kind := event.Added
	if outcome == history.Duplicate {
		kind = event.Updated
	}
	a.publishMessage(msg.ID, kind)
	for _, id := range healed {
		if id != msg.ID {
			a.publishMessage(id, event.Updated)
		}
	}
	return outcome
}

// UpdateStatus applies an acknowledgment delta for one peer. Returns false
// for an unknown message id; the caller surfaces that, nothing is thrown.
func (a *Aggregate) UpdateStatus(id domain.MessageID, peer domain.PeerID, state domain.AckState) bool {
	a.mu.Lock()
	m, ok := a.store.Get(id)
	if !ok {
		a.mu.Unlock()
		return false
	}
	changed := m.SetStatus(peer, state)
	if changed {
		switch state {
		case domain.AckDisplayed:
			if peer != a.tracker.LocalPeer() {
				a.tracker.AdvanceDisplayed(peer, id)
			}
		case domain.AckSuccess:
			a.tracker.AdvanceSent(id)
		}
	}
	a.mu.Unlock()

	if changed {
		a.publishMessage(id, event.Updated)
	}
	return true
}

// UpdateParent re-parents an orphan once the transport resolves its true
// parent.
func (a *Aggregate) UpdateParent(id, parent domain.MessageID) bool {
	a.mu.Lock()
	ok := a.store.UpdateParent(id, parent)
	a.store.DrainHealed()
	a.mu.Unlock()

	if ok {
		a.publishMessage(id, event.Updated)
	}
	return ok
}

// Remove tombstones a message while keeping its DAG position.
func (a *Aggregate) Remove(id domain.MessageID) bool {
	a.mu.Lock()
	ok := a.store.Remove(id)
	a.mu.Unlock()

	if ok {
		a.publishMessage(id, event.Removed)
	}
	return ok
}

// ApplyReaction attaches a reaction message to its target. Unknown target is
// a no-op reported through the return value.
func (a *Aggregate) ApplyReaction(target domain.MessageID, reaction domain.Message) bool {
	return a.applyAnnotation(target, reaction, (*domain.Message).MergeReaction)
}

// ApplyEdition appends an edit to the target's edition history; the latest
// edition becomes the current content.
func (a *Aggregate) ApplyEdition(target domain.MessageID, edition domain.Message) bool {
	return a.applyAnnotation(target, edition, (*domain.Message).MergeEdition)
}

func (a *Aggregate) applyAnnotation(target domain.MessageID, msg domain.Message, merge func(*domain.Message, domain.Message) bool) bool {
	a.mu.Lock()
	m, ok := a.store.Get(target)
	if !ok {
		a.mu.Unlock()
		a.log.Debug("annotation for unknown message dropped", "target", target)
		return false
	}
	changed := merge(m, msg)
	a.mu.Unlock()

	if changed {
		a.publishMessage(target, event.Updated)
	}
	return true
}

// ClearHistory wipes the conversation and emits one batch event carrying the
// prior list instead of per-message events.
func (a *Aggregate) ClearHistory() {
	a.mu.Lock()
	prior := a.store.Clear()
	a.tracker.Reset()
	cleared := make([]domain.Message, 0, len(prior))
	for _, m := range prior {
		cleared = append(cleared, *m)
	}
	a.mu.Unlock()

	a.bus.Publish(event.HistoryCleared{Conversation: a.URI, Cleared: cleared})
}

// MarkRead advances the read cursor to the newest non-tombstoned message and
// returns it. ok is false when there is nothing to read.
func (a *Aggregate) MarkRead() (domain.MessageID, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	snapshot := a.store.Snapshot()
	for i := len(snapshot) - 1; i >= 0; i-- {
		if snapshot[i].IsTombstone() {
			continue
		}
		tip := snapshot[i].ID
		a.tracker.AdvanceRead(tip)
		return tip, true
	}
	return "", false
}

// MarkNotified records that a notification was shown for a message, keeping
// restarts and duplicate deliveries from notifying again. Only causally newer
// messages advance the cursor.
func (a *Aggregate) MarkNotified(id domain.MessageID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tracker.AdvanceNotified(id)
}

// ShouldNotify reports whether a message still warrants a notification: it
// must be known, authored by someone else, and past the notified cursor.
func (a *Aggregate) ShouldNotify(id domain.MessageID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	msg, ok := a.store.Get(id)
	if !ok || msg.Author == a.localPeer {
		return false
	}
	last := a.tracker.LastNotified()
	return last == "" || a.tracker.IsAfter(last, id)
}

// SetVisible tells the replica whether the conversation is on screen; new
// leaves of a visible conversation are read immediately.
func (a *Aggregate) SetVisible(visible bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.store.SetVisible(visible)
}

// Snapshot returns the current linear history as value copies.
func (a *Aggregate) Snapshot() []domain.Message {
	a.mu.Lock()
	defer a.mu.Unlock()

	list := a.store.Snapshot()
	out := make([]domain.Message, 0, len(list))
	for _, m := range list {
		out = append(out, *m)
	}
	return out
}

// UnreadCount counts messages past the read cursor.
func (a *Aggregate) UnreadCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.UnreadCount()
}

// LastEvent returns the preview message for conversation lists.
func (a *Aggregate) LastEvent() (domain.Message, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.LastEvent()
}

func (a *Aggregate) LastRead() domain.MessageID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tracker.LastRead()
}

func (a *Aggregate) LastNotified() domain.MessageID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tracker.LastNotified()
}

func (a *Aggregate) LastSent() domain.MessageID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tracker.LastSent()
}

func (a *Aggregate) LastDisplayed(peer domain.PeerID) (domain.MessageID, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tracker.LastDisplayed(peer)
}

// SetMode applies an externally driven mode change.
func (a *Aggregate) SetMode(mode domain.Mode) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.membership.SetMode(mode)
}

// SetRequestedMode records the mode carried by a pending invite so group
// predicates answer correctly while the conversation is still a request.
func (a *Aggregate) SetRequestedMode(mode domain.Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.membership.SetRequestedMode(mode)
}

func (a *Aggregate) Mode() domain.Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.membership.Mode()
}

func (a *Aggregate) AddMember(peer domain.PeerID, role domain.Role) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.membership.AddMember(peer, role)
}

func (a *Aggregate) RemoveMember(peer domain.PeerID, role domain.Role) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.membership.RemoveMember(peer, role)
}

func (a *Aggregate) Members() []domain.PeerID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.membership.Members()
}

func (a *Aggregate) Role(peer domain.PeerID) domain.Role {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.membership.Role(peer)
}

func (a *Aggregate) IsSwarmGroup() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.membership.IsSwarmGroup()
}

func (a *Aggregate) IsUserGroupAdmin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.membership.IsUserGroupAdmin()
}

func (a *Aggregate) IsEnded() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.membership.IsEnded()
}

// AttachConference records an active call on this conversation.
func (a *Aggregate) AttachConference(conf domain.Conference) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.conferences {
		if a.conferences[i].ID == conf.ID {
			a.conferences[i] = conf
			return
		}
	}
	a.conferences = append(a.conferences, conf)
}

// DetachConference drops a call by id.
func (a *Aggregate) DetachConference(confID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.conferences {
		if a.conferences[i].ID == confID {
			a.conferences = append(a.conferences[:i:i], a.conferences[i+1:]...)
			return true
		}
	}
	return false
}

func (a *Aggregate) Conferences() []domain.Conference {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.Conference(nil), a.conferences...)
}

// Subscribe attaches an observer to the change stream. See Bus for the
// fan-out and replay contract.
func (a *Aggregate) Subscribe() (string, <-chan event.ConversationEvent) {
	return a.bus.Subscribe()
}

func (a *Aggregate) Unsubscribe(token string) {
	a.bus.Unsubscribe(token)
}

// Close terminates the change stream when the conversation is removed
// locally.
func (a *Aggregate) Close() {
	a.bus.Close()
}

// publishMessage emits one event for the current state of a message.
func (a *Aggregate) publishMessage(id domain.MessageID, kind event.ChangeKind) {
	a.mu.Lock()
	m, ok := a.store.Get(id)
	if !ok {
		a.mu.Unlock()
		return
	}
	copied := *m
	a.mu.Unlock()

	a.bus.Publish(event.InteractionChanged{
		Conversation: a.URI,
		Message:      copied,
		Kind:         kind,
	})
}
