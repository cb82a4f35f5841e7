// Package tasks defines the asynq task types and payloads shared between the
// producers (call service, signaling hub) and the worker server.
package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/harshrajsoni/campusconnect/internal/domain"
)

const (
	// TypeCallReminder fires shortly before a scheduled call opens its join
	// window and posts a reminder message into the linked conversation.
	TypeCallReminder = "call:reminder"

	// TypeParticipantLeft stamps left-at on a participant-log entry after the
	// signaling relay saw the peer leave or disconnect.
	TypeParticipantLeft = "call:participant_left"
)

// CallReminderPayload identifies the call request to remind about.
type CallReminderPayload struct {
	RequestID uint `json:"requestId"`
}

// NewCallReminderTask builds the reminder task for a call request.
func NewCallReminderTask(requestID uint) (*asynq.Task, error) {
	payload, err := json.Marshal(CallReminderPayload{RequestID: requestID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCallReminder, payload), nil
}

// ParticipantLeftPayload carries the leave event from the relay to the store.
type ParticipantLeftPayload struct {
	RoomID string          `json:"roomId"`
	Actor  domain.Identity `json:"actor"`
	LeftAt time.Time       `json:"leftAt"`
}

// NewParticipantLeftTask builds the left-at stamping task.
func NewParticipantLeftTask(roomID string, actor domain.Identity, leftAt time.Time) (*asynq.Task, error) {
	payload, err := json.Marshal(ParticipantLeftPayload{RoomID: roomID, Actor: actor, LeftAt: leftAt})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeParticipantLeft, payload), nil
}
