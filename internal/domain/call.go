package domain

import "time"

// CallStatus is the lifecycle state of a CallRequest. Transitions only move
// forward through the order below; there is no path back.
type CallStatus string

const (
	CallPending   CallStatus = "pending"
	CallAccepted  CallStatus = "accepted"
	CallScheduled CallStatus = "scheduled"
	CallActive    CallStatus = "active"
	CallCompleted CallStatus = "completed"
)

// JoinWindow is the tolerance around the scheduled time during which joining
// is permitted.
const JoinWindow = 10 * time.Minute

var statusRank = map[CallStatus]int{
	CallPending:   0,
	CallAccepted:  1,
	CallScheduled: 2,
	CallActive:    3,
	CallCompleted: 4,
}

// Valid reports whether s is one of the five known statuses.
func (s CallStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanAdvanceTo reports whether moving from s to next respects the forward-only
// ordering. Staying on the same status counts as allowed (idempotent writes).
func (s CallStatus) CanAdvanceTo(next CallStatus) bool {
	a, okA := statusRank[s]
	b, okB := statusRank[next]
	return okA && okB && b >= a
}

// CallParticipant is one entry of the append-only participant log: who actually
// joined (as opposed to who was invited), and when they joined and left.
type CallParticipant struct {
	UserID   uint       `json:"userId"`
	Role     Role       `json:"userType"`
	JoinedAt time.Time  `json:"joinedAt"`
	LeftAt   *time.Time `json:"leftAt,omitempty"`
}

// CallRequest is the persistent record of one requested/scheduled/active video
// interaction between a recruiter, a college and zero or more invited students.
type CallRequest struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	RecruiterID    uint              `gorm:"index;not null" json:"recruiterId"`
	CollegeID      uint              `gorm:"index;not null" json:"collegeId"`
	StudentIDs     []uint            `gorm:"serializer:json;type:json" json:"studentIds"`
	ConversationID uint              `gorm:"index;not null" json:"conversationId"`
	Message        string            `gorm:"type:text" json:"message"`
	Status         CallStatus        `gorm:"type:varchar(20);index;not null;default:pending" json:"status"`
	ScheduledTime  *time.Time        `gorm:"index" json:"scheduledTime,omitempty"`
	RoomID         string            `gorm:"type:varchar(64);index" json:"roomId,omitempty"`
	Participants   []CallParticipant `gorm:"serializer:json;type:json" json:"participants"`
	CreatedAt      time.Time         `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime" json:"updatedAt"`
}

// MayJoin reports whether the actor is one of the parties allowed to join this
// call: the initiating recruiter, the target college, or a named invitee.
func (c *CallRequest) MayJoin(actor Identity) bool {
	switch actor.Role {
	case RoleRecruiter:
		return actor.ID == c.RecruiterID
	case RoleCollege:
		return actor.ID == c.CollegeID
	case RoleStudent:
		for _, id := range c.StudentIDs {
			if id == actor.ID {
				return true
			}
		}
	}
	return false
}

// WithinJoinWindow reports whether now falls inside the join window around the
// scheduled time. A call with no scheduled time has no window.
func (c *CallRequest) WithinJoinWindow(now time.Time) bool {
	if c.ScheduledTime == nil {
		return false
	}
	diff := now.Sub(*c.ScheduledTime)
	if diff < 0 {
		diff = -diff
	}
	return diff <= JoinWindow
}

// CurrentlyJoined reports whether the actor already has a participant-log entry
// without a left-at stamp.
func (c *CallRequest) CurrentlyJoined(actor Identity) bool {
	for _, p := range c.Participants {
		if p.UserID == actor.ID && p.Role == actor.Role && p.LeftAt == nil {
			return true
		}
	}
	return false
}
