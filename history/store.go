// Package history owns the authoritative message set of one conversation and
// its linearization. Swarm deliveries carry no ordering guarantee: the store
// accepts messages whose parent has not arrived yet and converges to a
// parent-consistent order once it does.
package history

import (
	"log/slog"
	"sort"

	"github.com/samber/lo"

	"swarm-replica/ack"
	"swarm-replica/domain"
)

// InsertOutcome classifies what Insert did with a message. Duplicates and
// orphans are not errors, only different outcomes.
type InsertOutcome int

const (
	Linearized InsertOutcome = iota
	Duplicate
	AppendedAsOrphan
	LegacyInserted
)

func (o InsertOutcome) String() string {
	switch o {
	case Linearized:
		return "linearized"
	case Duplicate:
		return "duplicate"
	case AppendedAsOrphan:
		return "appended-as-orphan"
	case LegacyInserted:
		return "legacy-inserted"
	default:
		return "unknown"
	}
}

// DefaultOrphanCap bounds the re-insertion table when the configuration does
// not say otherwise.
const DefaultOrphanCap = 256

// Store holds the messages of a single conversation. It is not safe for
// concurrent use; the owning aggregate serializes mutations. The linear
// history is published copy-on-write: every mutation builds a fresh slice so
// snapshots handed to readers are never modified in place.
type Store struct {
	log       *slog.Logger
	swarm     bool
	localPeer domain.PeerID
	tracker   *ack.Tracker

	byID   map[domain.MessageID]*domain.Message
	linear []*domain.Message

	// orphans flags messages appended at the end while waiting for their
	// declared parent, in arrival order for eviction.
	orphans     map[domain.MessageID]struct{}
	orphanOrder []domain.MessageID
	orphanCap   int
	healed      []domain.MessageID

	dirty     bool // legacy history needs a resort
	visible   bool
	lastEvent *domain.Message
}

func NewStore(log *slog.Logger, localPeer domain.PeerID, swarm bool, orphanCap int) *Store {
	if orphanCap <= 0 {
		orphanCap = DefaultOrphanCap
	}
	return &Store{
		log:       log,
		swarm:     swarm,
		localPeer: localPeer,
		byID:      make(map[domain.MessageID]*domain.Message),
		orphans:   make(map[domain.MessageID]struct{}),
		orphanCap: orphanCap,
	}
}

// AttachTracker wires the acknowledgment tracker the store feeds as a side
// effect of insertion. The tracker reads the parent chain back through the
// store's ChainReader methods.
func (s *Store) AttachTracker(t *ack.Tracker) {
	s.tracker = t
}

// Parent implements ack.ChainReader.
func (s *Store) Parent(id domain.MessageID) (domain.MessageID, bool) {
	m, ok := s.byID[id]
	if !ok {
		return "", false
	}
	return m.ParentID, true
}

// Timestamp implements ack.ChainReader.
func (s *Store) Timestamp(id domain.MessageID) (uint64, bool) {
	m, ok := s.byID[id]
	if !ok {
		return 0, false
	}
	return m.Timestamp, true
}

// Size implements ack.ChainReader.
func (s *Store) Size() int {
	return len(s.byID)
}

// Insert places a message in the linear history.
//
// Placement for swarm conversations, in order of preference:
//  1. already known: merge conservatively, report Duplicate
//  2. parent is the current tip (or history empty): append
//  3. parent is mid-history: insert right after it
//  4. a child of the message is already present (history loaded out of
//     causal order): insert right before that child
//  5. nobody knows this message yet: append at the end and flag it for
//     re-splicing once the parent shows up
//
// Causal order from parent links always wins; timestamps never reorder swarm
// history.
func (s *Store) Insert(msg *domain.Message) InsertOutcome {
	if existing, ok := s.byID[msg.ID]; ok {
		existing.MergeFrom(msg)
		s.applyStatus(existing.ID, msg.Status)
		return Duplicate
	}
	if !s.swarm {
		return s.insertLegacy(msg)
	}

	s.byID[msg.ID] = msg
	outcome := Linearized
	isNewLeaf := false

	switch {
	case len(s.linear) == 0:
		s.linear = insertAt(s.linear, 0, msg)
		isNewLeaf = true
		// First message seen but not the root: still an orphan waiting for
		// its parent, even though placement is trivial.
		if msg.ParentID != "" {
			s.flagOrphan(msg.ID)
			outcome = AppendedAsOrphan
		}
	case s.linear[len(s.linear)-1].ID == msg.ParentID:
		s.linear = insertAt(s.linear, len(s.linear), msg)
		isNewLeaf = true
	default:
		if i := s.indexOf(msg.ParentID); i >= 0 {
			s.linear = insertAt(s.linear, i+1, msg)
			// The insertion becomes the new tip of its branch only when
			// everything after it is tombstoned.
			isNewLeaf = lo.EveryBy(s.linear[i+2:], func(m *domain.Message) bool {
				return m.IsTombstone()
			})
		} else if j := s.lastIndexChildOf(msg.ID); j >= 0 {
			s.linear = insertAt(s.linear, j, msg)
			isNewLeaf = true
		} else {
			s.linear = insertAt(s.linear, len(s.linear), msg)
			isNewLeaf = true
			// A parentless message here is a second root (a fork), placed
			// best-effort; only messages declaring a parent can heal later.
			if msg.ParentID != "" {
				s.flagOrphan(msg.ID)
				outcome = AppendedAsOrphan
			}
		}
	}

	s.healOrphansOf(msg.ID)

	if isNewLeaf {
		if s.visible {
			s.tracker.AdvanceRead(msg.ID)
		}
		if !msg.IsTombstone() {
			s.lastEvent = msg
		}
	}
	s.applyStatus(msg.ID, msg.Status)
	return outcome
}

func (s *Store) insertLegacy(msg *domain.Message) InsertOutcome {
	s.byID[msg.ID] = msg
	s.linear = insertAt(s.linear, len(s.linear), msg)
	s.dirty = true
	if !msg.IsTombstone() && (s.lastEvent == nil || s.lastEvent.Timestamp <= msg.Timestamp) {
		s.lastEvent = msg
	}
	s.applyStatus(msg.ID, msg.Status)
	return LegacyInserted
}

// applyStatus feeds the tracker from the status map of a freshly placed or
// merged message. Displayed acknowledgments of the local user are the local
// read cursor's business, not the per-peer map's.
func (s *Store) applyStatus(id domain.MessageID, status map[domain.PeerID]domain.AckState) {
	for peer, state := range status {
		switch state {
		case domain.AckDisplayed:
			if peer != s.localPeer {
				s.tracker.AdvanceDisplayed(peer, id)
			}
		case domain.AckSuccess:
			s.tracker.AdvanceSent(id)
		}
	}
}

// UpdateParent re-parents a message, used when the transport resolves the
// true parent of an orphan. The message is spliced next to its parent when
// the parent is known, or flagged for later healing otherwise.
func (s *Store) UpdateParent(id, parent domain.MessageID) bool {
	m, ok := s.byID[id]
	if !ok {
		return false
	}
	m.ParentID = parent
	if _, known := s.byID[parent]; !known {
		s.flagOrphan(id)
		return true
	}
	s.splice(id, parent)
	s.unflagOrphan(id)
	return true
}

// healOrphansOf splices every orphan waiting for the given parent. Children
// of a healed orphan were already placed relative to it and stay put.
func (s *Store) healOrphansOf(parent domain.MessageID) {
	if len(s.orphans) == 0 {
		return
	}
	for _, id := range append([]domain.MessageID(nil), s.orphanOrder...) {
		o, ok := s.byID[id]
		if !ok {
			s.unflagOrphan(id)
			continue
		}
		if o.ParentID != parent {
			continue
		}
		s.splice(id, parent)
		s.unflagOrphan(id)
		s.healed = append(s.healed, id)
	}
}

// splice moves a message right after its parent when it currently sits
// before it. Descendants placed next to the message while it was stranded
// form a contiguous run behind it and move along, or they would end up in
// front of their ancestor. A message already after its parent satisfies the
// linear extension invariant and is left where it is.
func (s *Store) splice(id, parent domain.MessageID) {
	oi := s.indexOf(id)
	pi := s.indexOf(parent)
	if oi < 0 || pi < 0 || oi > pi {
		return
	}
	end := oi
	for end+1 < len(s.linear) && s.isDescendant(s.linear[end+1].ID, id) {
		end++
	}
	if pi <= end {
		// The "parent" sits inside the block it should anchor: a peer
		// produced a cycle. Leave placement as is.
		s.log.Warn("refusing to splice message under its own descendant",
			"message", id, "parent", parent)
		return
	}

	block := append([]*domain.Message(nil), s.linear[oi:end+1]...)
	rest := make([]*domain.Message, 0, len(s.linear)-len(block))
	rest = append(rest, s.linear[:oi]...)
	rest = append(rest, s.linear[end+1:]...)

	at := pi - len(block) + 1 // parent position after the block is taken out
	out := make([]*domain.Message, 0, len(s.linear))
	out = append(out, rest[:at]...)
	out = append(out, block...)
	out = append(out, rest[at:]...)
	s.linear = out
}

// isDescendant walks candidate's parent chain looking for ancestor, bounded
// by the store size.
func (s *Store) isDescendant(candidate, ancestor domain.MessageID) bool {
	cur := candidate
	for steps := len(s.byID); steps > 0; steps-- {
		m, ok := s.byID[cur]
		if !ok || m.ParentID == "" {
			return false
		}
		if m.ParentID == ancestor {
			return true
		}
		cur = m.ParentID
	}
	return false
}

// DrainHealed returns the orphans re-spliced by operations since the last
// call, so the aggregate can emit one update per affected message.
func (s *Store) DrainHealed() []domain.MessageID {
	healed := s.healed
	s.healed = nil
	return healed
}

func (s *Store) flagOrphan(id domain.MessageID) {
	if _, ok := s.orphans[id]; ok {
		return
	}
	if len(s.orphanOrder) >= s.orphanCap {
		evicted := s.orphanOrder[0]
		s.orphanOrder = s.orphanOrder[1:]
		delete(s.orphans, evicted)
		s.log.Debug("orphan table full, oldest entry no longer eligible for re-splicing",
			"evicted", evicted)
	}
	s.orphans[id] = struct{}{}
	s.orphanOrder = append(s.orphanOrder, id)
}

func (s *Store) unflagOrphan(id domain.MessageID) {
	if _, ok := s.orphans[id]; !ok {
		return
	}
	delete(s.orphans, id)
	s.orphanOrder = lo.Without(s.orphanOrder, id)
}

// Get returns the stored message for an id.
func (s *Store) Get(id domain.MessageID) (*domain.Message, bool) {
	m, ok := s.byID[id]
	return m, ok
}

// Remove tombstones a message in place. The envelope keeps its DAG position
// so later children still find their anchor.
func (s *Store) Remove(id domain.MessageID) bool {
	m, ok := s.byID[id]
	if !ok {
		return false
	}
	m.Tombstone()
	if s.lastEvent != nil && s.lastEvent.ID == id {
		s.lastEvent = s.newestNonTombstone()
	}
	return true
}

func (s *Store) newestNonTombstone() *domain.Message {
	for i := len(s.linear) - 1; i >= 0; i-- {
		if !s.linear[i].IsTombstone() {
			return s.linear[i]
		}
	}
	return nil
}

// Clear wipes the history and returns the prior linear view for the batch
// cleared event.
func (s *Store) Clear() []*domain.Message {
	prior := s.linear
	s.byID = make(map[domain.MessageID]*domain.Message)
	s.linear = nil
	s.orphans = make(map[domain.MessageID]struct{})
	s.orphanOrder = nil
	s.healed = nil
	s.lastEvent = nil
	s.dirty = false
	return prior
}

// Snapshot returns the current linear history reference. Swarm history is
// never globally resorted; legacy history is stably resorted by timestamp
// when dirty.
func (s *Store) Snapshot() []*domain.Message {
	if !s.swarm && s.dirty {
		sorted := append([]*domain.Message(nil), s.linear...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Timestamp < sorted[j].Timestamp
		})
		s.linear = sorted
		s.dirty = false
	}
	return s.linear
}

// IndexOf returns the position of a message in the current linear view, -1
// when absent.
func (s *Store) IndexOf(id domain.MessageID) int {
	if !s.swarm && s.dirty {
		s.Snapshot()
	}
	return s.indexOf(id)
}

func (s *Store) indexOf(id domain.MessageID) int {
	if id == "" {
		return -1
	}
	for i, m := range s.linear {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// lastIndexChildOf scans backward for a message declaring the given id as
// parent.
func (s *Store) lastIndexChildOf(id domain.MessageID) int {
	for i := len(s.linear) - 1; i >= 0; i-- {
		if s.linear[i].ParentID == id {
			return i
		}
	}
	return -1
}

// UnreadCount counts non-tombstoned messages after the read cursor.
func (s *Store) UnreadCount() int {
	snapshot := s.Snapshot()
	start := 0
	if last := s.tracker.LastRead(); last != "" {
		if i := s.indexOf(last); i >= 0 {
			start = i + 1
		}
	}
	return lo.CountBy(snapshot[start:], func(m *domain.Message) bool {
		return !m.IsTombstone()
	})
}

// SetVisible toggles whether new leaves are immediately marked read.
func (s *Store) SetVisible(visible bool) {
	s.visible = visible
}

func (s *Store) Visible() bool { return s.visible }

// LastEvent is the newest non-tombstoned leaf, used for conversation-list
// previews.
func (s *Store) LastEvent() (domain.Message, bool) {
	if s.lastEvent == nil {
		return domain.Message{}, false
	}
	return *s.lastEvent, true
}

// OrphanCount reports how many messages still wait for their parent.
func (s *Store) OrphanCount() int {
	return len(s.orphans)
}

func insertAt(list []*domain.Message, i int, m *domain.Message) []*domain.Message {
	out := make([]*domain.Message, 0, len(list)+1)
	out = append(out, list[:i]...)
	out = append(out, m)
	return append(out, list[i:]...)
}
