package domain

// Mode is the conversation mode, set by explicit membership/invite events
// coming from the daemon, never inferred locally.
type Mode int

const (
	ModeOneToOne Mode = iota
	ModeAdminInvitesOnly
	ModeInvitesOnly
	ModeSyncing
	ModePublic
	ModeLegacy
	ModeRequest
)

func (m Mode) String() string {
	switch m {
	case ModeOneToOne:
		return "one-to-one"
	case ModeAdminInvitesOnly:
		return "admin-invites-only"
	case ModeInvitesOnly:
		return "invites-only"
	case ModeSyncing:
		return "syncing"
	case ModePublic:
		return "public"
	case ModeLegacy:
		return "legacy"
	case ModeRequest:
		return "request"
	default:
		return "unknown"
	}
}

// IsSwarm reports whether history for this mode is a content-addressed DAG.
// Only legacy conversations are timestamp-ordered.
func (m Mode) IsSwarm() bool {
	return m != ModeLegacy
}

// IsGroupCapable reports whether the mode admits more than two members.
func (m Mode) IsGroupCapable() bool {
	switch m {
	case ModeAdminInvitesOnly, ModeInvitesOnly, ModePublic:
		return true
	default:
		return false
	}
}

// Role is the membership role of a peer within a conversation.
type Role int

const (
	RoleUnknown Role = iota
	RoleAdmin
	RoleMember
	RoleInvited
	RoleBlocked
	RoleLeft
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleMember:
		return "member"
	case RoleInvited:
		return "invited"
	case RoleBlocked:
		return "blocked"
	case RoleLeft:
		return "left"
	default:
		return "unknown"
	}
}
