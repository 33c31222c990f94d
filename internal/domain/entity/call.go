package entity

import "time"

type CallStatus string

const (
	CallStatusRinging  CallStatus = "ringing"
	CallStatusActive   CallStatus = "active"
	CallStatusEnded    CallStatus = "ended"
	CallStatusMissed   CallStatus = "missed"
	CallStatusDeclined CallStatus = "declined"
)

type CallType string

const (
	CallTypeVideo CallType = "video"
	CallTypeAudio CallType = "audio"
)

// Terminal reports whether no further status transition is accepted.
func (s CallStatus) Terminal() bool {
	switch s {
	case CallStatusEnded, CallStatusMissed, CallStatusDeclined:
		return true
	}
	return false
}

// CanTransition implements the call lifecycle graph:
// ringing -> {active, declined, missed, ended}; active -> ended.
func (s CallStatus) CanTransition(to CallStatus) bool {
	if s.Terminal() {
		return false
	}
	switch s {
	case CallStatusRinging:
		return to == CallStatusActive || to == CallStatusDeclined ||
			to == CallStatusMissed || to == CallStatusEnded
	case CallStatusActive:
		return to == CallStatusEnded
	}
	return false
}

// ParticipantStatus tracks one member of a group call. Group calls never
// reach declined/missed as a whole; those states live on the entries.
type CallParticipant struct {
	UserID   string     `json:"user_id" firestore:"userId"`
	Status   CallStatus `json:"status" firestore:"status"`
	JoinedAt time.Time  `json:"joined_at,omitempty" firestore:"joinedAt,omitempty"`
}

// Call is the authoritative record of one call attempt. Records are
// retained as history and never deleted.
type Call struct {
	ID       string `json:"id" firestore:"id"`
	CallerID string `json:"caller_id" firestore:"callerId"`
	// ReceiverID is set for 1:1 calls; group calls use Participants.
	ReceiverID   string            `json:"receiver_id,omitempty" firestore:"receiverId,omitempty"`
	Participants []CallParticipant `json:"participants,omitempty" firestore:"participants,omitempty"`
	// ParticipantIDs duplicates the member ids as a flat array so call
	// history can be queried with array-contains.
	ParticipantIDs []string   `json:"participant_ids" firestore:"participantIds"`
	CallType       CallType   `json:"call_type" firestore:"callType"`
	Status         CallStatus `json:"status" firestore:"status"`
	IsGroupCall    bool       `json:"is_group_call" firestore:"isGroupCall"`
	StartTime      time.Time  `json:"start_time" firestore:"startTime"`
	EndTime        time.Time  `json:"end_time,omitempty" firestore:"endTime,omitempty"`
	// Duration in seconds, set once when the call ends. Supplied by the
	// ending client and trusted as-is.
	Duration  int64     `json:"duration,omitempty" firestore:"duration,omitempty"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
