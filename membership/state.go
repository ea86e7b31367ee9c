// Package membership tracks the conversation mode and per-member roles.
// Transitions happen only through explicit external membership/invite events;
// derived predicates are recomputed on demand, never cached.
package membership

import (
	"fmt"
	"log/slog"
	"sort"

	"swarm-replica/domain"
	"swarm-replica/errors"
)

// StateMachine is the membership/mode state of one conversation. Not safe for
// concurrent use; the owning aggregate serializes access.
type StateMachine struct {
	log       *slog.Logger
	localPeer domain.PeerID
	mode      domain.Mode
	// requestedMode is the mode the conversation will have once the pending
	// request is accepted, consulted while mode is still Request.
	requestedMode domain.Mode
	roles         map[domain.PeerID]domain.Role
	members       map[domain.PeerID]struct{}
}

func NewStateMachine(log *slog.Logger, localPeer domain.PeerID, mode domain.Mode) *StateMachine {
	return &StateMachine{
		log:           log,
		localPeer:     localPeer,
		mode:          mode,
		requestedMode: mode,
		roles:         make(map[domain.PeerID]domain.Role),
		members:       make(map[domain.PeerID]struct{}),
	}
}

func (s *StateMachine) Mode() domain.Mode { return s.mode }

// SetRequestedMode records the mode a pending conversation request carries,
// so group predicates answer correctly before the request is accepted.
func (s *StateMachine) SetRequestedMode(mode domain.Mode) {
	s.requestedMode = mode
}

// SetMode applies an externally driven mode change. Syncing and Request may
// settle into any concrete mode; group modes may move among themselves.
// One-to-one and group shapes never convert into each other, and legacy
// conversations never change mode.
func (s *StateMachine) SetMode(mode domain.Mode) error {
	if mode == s.mode {
		return nil
	}
	if !s.transitionAllowed(mode) {
		return fmt.Errorf("%w: %s -> %s", errors.ErrInvalidModeTransition, s.mode, mode)
	}
	s.log.Debug("conversation mode changed", "from", s.mode, "to", mode)
	s.mode = mode
	return nil
}

func (s *StateMachine) transitionAllowed(target domain.Mode) bool {
	switch s.mode {
	case domain.ModeSyncing, domain.ModeRequest:
		return target != domain.ModeLegacy
	case domain.ModeLegacy:
		return false
	case domain.ModeOneToOne:
		return target == domain.ModeSyncing
	default: // group modes
		return target.IsGroupCapable()
	}
}

// effectiveMode is the mode predicates reason about: the requested mode while
// the conversation is still a pending request.
func (s *StateMachine) effectiveMode() domain.Mode {
	if s.mode == domain.ModeRequest {
		return s.requestedMode
	}
	return s.mode
}

// IsSwarm reports whether the conversation history is DAG-ordered.
func (s *StateMachine) IsSwarm() bool {
	return s.effectiveMode().IsSwarm()
}

// IsSwarmGroup reports whether this is a swarm conversation with more than
// two possible members.
func (s *StateMachine) IsSwarmGroup() bool {
	mode := s.effectiveMode()
	return mode.IsSwarm() && mode != domain.ModeOneToOne
}

// IsUserGroupAdmin reports whether the local user administrates this group.
// Only meaningful for swarm groups.
func (s *StateMachine) IsUserGroupAdmin() bool {
	return s.IsSwarmGroup() && s.roles[s.localPeer] == domain.RoleAdmin
}

// IsEnded reports whether the conversation cannot continue: every tracked
// peer left or was blocked, and the local user has no way to revive it. A
// one-to-one conversation with no tracked peer roles is never ended.
func (s *StateMachine) IsEnded() bool {
	peers := 0
	for peer, role := range s.roles {
		if peer == s.localPeer {
			continue
		}
		peers++
		if role != domain.RoleLeft && role != domain.RoleBlocked {
			return false
		}
	}
	if peers == 0 {
		return s.IsSwarmGroup() && !s.IsUserGroupAdmin()
	}
	return !s.IsSwarmGroup() || !s.IsUserGroupAdmin()
}

// AddMember records a role and, when the role allows participation, adds the
// peer to the active member list. Blocked peers are tracked but never listed;
// a Left role in a group is tracked only.
func (s *StateMachine) AddMember(peer domain.PeerID, role domain.Role) {
	if role == domain.RoleUnknown {
		role = domain.RoleMember
	}
	s.roles[peer] = role
	if role == domain.RoleBlocked {
		return
	}
	if role == domain.RoleLeft && s.effectiveMode().IsGroupCapable() {
		return
	}
	s.members[peer] = struct{}{}
}

// RemoveMember records the terminal role. One-to-one membership is immutable:
// the member list is untouched, only the role is kept for history.
func (s *StateMachine) RemoveMember(peer domain.PeerID, role domain.Role) {
	if role != domain.RoleLeft && role != domain.RoleBlocked {
		role = domain.RoleLeft
	}
	s.roles[peer] = role
	if s.effectiveMode() == domain.ModeOneToOne {
		return
	}
	delete(s.members, peer)
}

// Role returns the tracked role of a peer.
func (s *StateMachine) Role(peer domain.PeerID) domain.Role {
	return s.roles[peer]
}

// Roles returns a copy of the tracked role map.
func (s *StateMachine) Roles() map[domain.PeerID]domain.Role {
	out := make(map[domain.PeerID]domain.Role, len(s.roles))
	for peer, role := range s.roles {
		out[peer] = role
	}
	return out
}

// Members returns the active member list, sorted for stable output.
func (s *StateMachine) Members() []domain.PeerID {
	out := make([]domain.PeerID, 0, len(s.members))
	for peer := range s.members {
		out = append(out, peer)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *StateMachine) LocalPeer() domain.PeerID { return s.localPeer }
