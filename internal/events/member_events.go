package events

import "time"

const MemberLifecycleTopic = "leave.member.lifecycle.v1"

const (
	EventMemberInvited       = "member_invited"
	EventMemberInviteBlocked = "member_invite_blocked"
)

type MemberInvitedEvent struct {
	EventType  string    `json:"event_type"`
	MemberID   string    `json:"member_id"`
	TeamID     string    `json:"team_id"`
	TeamName   string    `json:"team_name"`
	Handle     string    `json:"handle"`
	Role       string    `json:"role"`
	ExternalID string    `json:"external_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Emitted when an invite hits a member of another team. The member has
// to leave their current team before the invite can go through.
type MemberInviteBlockedEvent struct {
	EventType   string    `json:"event_type"`
	Handle      string    `json:"handle"`
	TeamID      string    `json:"team_id"`
	TeamName    string    `json:"team_name"`
	CurrentTeam string    `json:"current_team"`
	ExternalID  string    `json:"external_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
