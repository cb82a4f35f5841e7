package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/harshrajsoni/campusconnect/internal/domain"
	"github.com/harshrajsoni/campusconnect/internal/metrics"
	"github.com/harshrajsoni/campusconnect/internal/repository"
	"github.com/harshrajsoni/campusconnect/internal/tasks"
)

// scheduledListWindow bounds the "current" scheduled-calls view: requests whose
// scheduled time is older than this are left out of the listing, without being
// deleted or transitioned.
const scheduledListWindow = 24 * time.Hour

// TaskEnqueuer is the slice of asynq.Client the call service needs. Satisfied
// by *asynq.Client; nil disables background tasks (tests, degraded mode).
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// CallService enforces the call request lifecycle: who may move a request
// through pending → accepted → scheduled → active → completed, and when.
// Every transition validates the caller against the record before mutating;
// concurrent transitions on one request are serialized by the repository's
// locked read-modify-write.
type CallService struct {
	callRepo repository.CallRequestRepository
	enqueuer TaskEnqueuer
}

func NewCallService(callRepo repository.CallRequestRepository, enqueuer TaskEnqueuer) *CallService {
	if callRepo == nil {
		panic("CallRequestRepository cannot be nil for CallService")
	}
	return &CallService{callRepo: callRepo, enqueuer: enqueuer}
}

// Request creates a pending call request. Only recruiters may initiate.
func (s *CallService) Request(ctx context.Context, actor domain.Identity, collegeID uint, studentIDs []uint, message string, conversationID uint) (*domain.CallRequest, error) {
	logCtx := logrus.WithFields(logrus.Fields{"actor": actor.String(), "college_id": collegeID})

	if actor.Role != domain.RoleRecruiter {
		return nil, ErrForbidden
	}
	if collegeID == 0 || conversationID == 0 {
		return nil, ErrValidation
	}
	if message == "" {
		message = "Video call request"
	}

	call := &domain.CallRequest{
		RecruiterID:    actor.ID,
		CollegeID:      collegeID,
		StudentIDs:     studentIDs,
		ConversationID: conversationID,
		Message:        message,
		Status:         domain.CallPending,
	}
	if err := s.callRepo.Create(ctx, call); err != nil {
		logCtx.WithError(err).Error("Failed to create call request")
		return nil, ErrInternalServer
	}

	metrics.CallTransitions.WithLabelValues(string(domain.CallPending)).Inc()
	logCtx.WithField("request_id", call.ID).Info("Call request created")
	return call, nil
}

// Accept moves a pending request to accepted. Only the target college may
// accept. Accepting an already-accepted request is a no-op success; anything
// further along fails with ErrStateConflict.
func (s *CallService) Accept(ctx context.Context, actor domain.Identity, requestID uint) (*domain.CallRequest, error) {
	logCtx := logrus.WithFields(logrus.Fields{"actor": actor.String(), "request_id": requestID})

	call, err := s.callRepo.Update(ctx, requestID, func(call *domain.CallRequest) error {
		if actor.Role != domain.RoleCollege || actor.ID != call.CollegeID {
			return ErrForbidden
		}
		switch call.Status {
		case domain.CallPending:
			call.Status = domain.CallAccepted
			return nil
		case domain.CallAccepted:
			return nil // idempotent
		default:
			return ErrStateConflict
		}
	})
	if err != nil {
		return nil, s.mapUpdateError(logCtx, "accept", err)
	}

	metrics.CallTransitions.WithLabelValues(string(domain.CallAccepted)).Inc()
	logCtx.Info("Call request accepted")
	return call, nil
}

// Schedule sets the scheduled time on an accepted request and advances it to
// scheduled. Re-scheduling a still-scheduled request just moves the time.
func (s *CallService) Schedule(ctx context.Context, actor domain.Identity, requestID uint, at time.Time) (*domain.CallRequest, error) {
	logCtx := logrus.WithFields(logrus.Fields{"actor": actor.String(), "request_id": requestID, "scheduled_time": at})

	if at.Before(time.Now()) {
		return nil, ErrValidation
	}

	call, err := s.callRepo.Update(ctx, requestID, func(call *domain.CallRequest) error {
		if actor.Role != domain.RoleCollege || actor.ID != call.CollegeID {
			return ErrForbidden
		}
		if call.Status != domain.CallAccepted && call.Status != domain.CallScheduled {
			return ErrStateConflict
		}
		t := at
		call.ScheduledTime = &t
		call.Status = domain.CallScheduled
		return nil
	})
	if err != nil {
		return nil, s.mapUpdateError(logCtx, "schedule", err)
	}

	s.enqueueReminder(call, at)
	metrics.CallTransitions.WithLabelValues(string(domain.CallScheduled)).Inc()
	logCtx.Info("Call scheduled")
	return call, nil
}

// Join validates that the caller is a party to the call and that the wall
// clock is within the join window, then assigns the room identifier (once,
// on the first successful join), appends a participant-log entry and marks
// the call active. On any failure nothing is mutated.
func (s *CallService) Join(ctx context.Context, actor domain.Identity, requestID uint) (string, *domain.CallRequest, error) {
	logCtx := logrus.WithFields(logrus.Fields{"actor": actor.String(), "request_id": requestID})

	call, err := s.callRepo.Update(ctx, requestID, func(call *domain.CallRequest) error {
		if !call.MayJoin(actor) {
			return ErrForbidden
		}
		if call.Status != domain.CallScheduled && call.Status != domain.CallActive {
			return ErrStateConflict
		}
		if !call.WithinJoinWindow(time.Now()) {
			return ErrStateConflict
		}
		if call.RoomID == "" {
			call.RoomID = uuid.NewString()
		}
		if !call.CurrentlyJoined(actor) {
			call.Participants = append(call.Participants, domain.CallParticipant{
				UserID:   actor.ID,
				Role:     actor.Role,
				JoinedAt: time.Now(),
			})
		}
		call.Status = domain.CallActive
		return nil
	})
	if err != nil {
		return "", nil, s.mapUpdateError(logCtx, "join", err)
	}

	metrics.CallTransitions.WithLabelValues(string(domain.CallActive)).Inc()
	logCtx.WithField("room_id", call.RoomID).Info("Participant joined call")
	return call.RoomID, call, nil
}

// Complete is the administrative end-of-call transition. It is never inferred
// from an empty signaling room; the recruiter or the target college invokes it
// explicitly. Completing a completed call is a no-op success.
func (s *CallService) Complete(ctx context.Context, actor domain.Identity, requestID uint) (*domain.CallRequest, error) {
	logCtx := logrus.WithFields(logrus.Fields{"actor": actor.String(), "request_id": requestID})

	call, err := s.callRepo.Update(ctx, requestID, func(call *domain.CallRequest) error {
		authorized := (actor.Role == domain.RoleCollege && actor.ID == call.CollegeID) ||
			(actor.Role == domain.RoleRecruiter && actor.ID == call.RecruiterID)
		if !authorized {
			return ErrForbidden
		}
		switch call.Status {
		case domain.CallActive:
			now := time.Now()
			for i := range call.Participants {
				if call.Participants[i].LeftAt == nil {
					call.Participants[i].LeftAt = &now
				}
			}
			call.Status = domain.CallCompleted
			return nil
		case domain.CallCompleted:
			return nil // idempotent
		default:
			return ErrStateConflict
		}
	})
	if err != nil {
		return nil, s.mapUpdateError(logCtx, "complete", err)
	}

	metrics.CallTransitions.WithLabelValues(string(domain.CallCompleted)).Inc()
	logCtx.Info("Call completed")
	return call, nil
}

// MarkLeft stamps left-at on the actor's currently-joined participant entry.
// Called from the background worker when the signaling relay sees the peer
// leave; missing entries are ignored (the peer may never have joined the call
// through the lifecycle API).
func (s *CallService) MarkLeft(ctx context.Context, roomID string, actor domain.Identity, leftAt time.Time) error {
	if roomID == "" {
		return ErrValidation
	}
	_, err := s.callRepo.UpdateByRoomID(ctx, roomID, func(call *domain.CallRequest) error {
		for i := range call.Participants {
			p := &call.Participants[i]
			if p.UserID == actor.ID && p.Role == actor.Role && p.LeftAt == nil {
				t := leftAt
				p.LeftAt = &t
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrCallNotFound) {
			return ErrCallNotFound
		}
		logrus.WithError(err).WithField("room_id", roomID).Error("Failed to mark participant left")
		return ErrInternalServer
	}
	return nil
}

// CollegeRequests lists all requests targeting the calling college, newest first.
func (s *CallService) CollegeRequests(ctx context.Context, actor domain.Identity) ([]domain.CallRequest, error) {
	if actor.Role != domain.RoleCollege {
		return nil, ErrForbidden
	}
	calls, err := s.callRepo.FindByCollege(ctx, actor.ID)
	if err != nil {
		logrus.WithError(err).WithField("college_id", actor.ID).Error("Failed to list college requests")
		return nil, ErrInternalServer
	}
	return calls, nil
}

// RecruiterRequests lists all requests created by the calling recruiter.
func (s *CallService) RecruiterRequests(ctx context.Context, actor domain.Identity) ([]domain.CallRequest, error) {
	if actor.Role != domain.RoleRecruiter {
		return nil, ErrForbidden
	}
	calls, err := s.callRepo.FindByRecruiter(ctx, actor.ID)
	if err != nil {
		logrus.WithError(err).WithField("recruiter_id", actor.ID).Error("Failed to list recruiter requests")
		return nil, ErrInternalServer
	}
	return calls, nil
}

// ScheduledCalls lists the caller's scheduled or active calls whose scheduled
// time falls within the last 24 hours. Older records stay in the store but
// drop out of this view.
func (s *CallService) ScheduledCalls(ctx context.Context, actor domain.Identity) ([]domain.CallRequest, error) {
	calls, err := s.callRepo.FindScheduledFor(ctx, actor, time.Now().Add(-scheduledListWindow))
	if err != nil {
		logrus.WithError(err).WithField("actor", actor.String()).Error("Failed to list scheduled calls")
		return nil, ErrInternalServer
	}
	return calls, nil
}

// enqueueReminder schedules the pre-call reminder task. Failures are logged
// only: a missing reminder must not fail the schedule transition.
func (s *CallService) enqueueReminder(call *domain.CallRequest, at time.Time) {
	if s.enqueuer == nil {
		return
	}
	task, err := tasks.NewCallReminderTask(call.ID)
	if err != nil {
		logrus.WithError(err).WithField("request_id", call.ID).Error("Failed to build reminder task")
		return
	}
	_, err = s.enqueuer.Enqueue(task, asynq.ProcessAt(at.Add(-domain.JoinWindow)), asynq.Queue("default"))
	if err != nil {
		logrus.WithError(err).WithField("request_id", call.ID).Error("Failed to enqueue reminder task")
	}
}

func (s *CallService) mapUpdateError(logCtx *logrus.Entry, op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrCallNotFound):
		logCtx.Warnf("Call %s failed: request not found", op)
		return ErrCallNotFound
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrStateConflict), errors.Is(err, ErrValidation):
		logCtx.WithError(err).Warnf("Call %s rejected", op)
		return err
	default:
		logCtx.WithError(err).Errorf("Call %s failed: store error", op)
		return ErrInternalServer
	}
}
