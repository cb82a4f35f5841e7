package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/harshrajsoni/campusconnect/internal/domain"
	"github.com/harshrajsoni/campusconnect/internal/repository"
	"github.com/harshrajsoni/campusconnect/internal/service"
	"github.com/harshrajsoni/campusconnect/internal/tasks"
)

// TaskHandler processes the background tasks the call service and signaling
// hub enqueue.
type TaskHandler struct {
	callRepo    repository.CallRequestRepository
	callService *service.CallService
	convService *service.ConversationService
}

func NewTaskHandler(callRepo repository.CallRequestRepository, callService *service.CallService, convService *service.ConversationService) *TaskHandler {
	if callRepo == nil || callService == nil || convService == nil {
		panic("TaskHandler dependencies cannot be nil")
	}
	return &TaskHandler{callRepo: callRepo, callService: callService, convService: convService}
}

// HandleCallReminder posts a reminder into the call's conversation shortly
// before the join window opens. If the call moved on (cancelled schedule,
// already completed) the reminder is silently skipped.
func (h *TaskHandler) HandleCallReminder(ctx context.Context, t *asynq.Task) error {
	var p tasks.CallReminderPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("invalid reminder payload: %v: %w", err, asynq.SkipRetry)
	}
	logCtx := logrus.WithField("request_id", p.RequestID)

	call, err := h.callRepo.FindByID(ctx, p.RequestID)
	if err != nil {
		if errors.Is(err, repository.ErrCallNotFound) {
			logCtx.Warn("Reminder skipped: call request gone")
			return nil
		}
		return fmt.Errorf("load call request %d: %w", p.RequestID, err)
	}
	if call.Status != domain.CallScheduled || call.ScheduledTime == nil {
		logCtx.WithField("status", call.Status).Info("Reminder skipped: call no longer scheduled")
		return nil
	}

	body := fmt.Sprintf("Reminder: your video call starts at %s. The room opens 10 minutes before.",
		call.ScheduledTime.Format("15:04 MST, Jan 2"))
	sender := domain.Identity{ID: call.RecruiterID, Role: domain.RoleRecruiter}
	if _, err := h.convService.Send(ctx, sender, call.ConversationID, body); err != nil {
		return fmt.Errorf("post reminder for request %d: %w", p.RequestID, err)
	}

	logCtx.Info("Call reminder posted")
	return nil
}

// HandleParticipantLeft stamps left-at on the participant-log entry for a peer
// the relay saw leave. Unknown rooms are not retried; the call may simply have
// been completed and its participants already stamped.
func (h *TaskHandler) HandleParticipantLeft(ctx context.Context, t *asynq.Task) error {
	var p tasks.ParticipantLeftPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("invalid participant-left payload: %v: %w", err, asynq.SkipRetry)
	}

	err := h.callService.MarkLeft(ctx, p.RoomID, p.Actor, p.LeftAt)
	if err != nil {
		if errors.Is(err, service.ErrCallNotFound) {
			logrus.WithField("room_id", p.RoomID).Warn("Participant-left skipped: unknown room")
			return nil
		}
		return fmt.Errorf("mark participant left in room %s: %w", p.RoomID, err)
	}
	return nil
}
