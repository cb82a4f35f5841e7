package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/harshrajsoni/campusconnect/internal/domain"
	"github.com/harshrajsoni/campusconnect/internal/repository"
	"github.com/harshrajsoni/campusconnect/internal/repository/mocks"
	"github.com/harshrajsoni/campusconnect/internal/service"
	"github.com/harshrajsoni/campusconnect/internal/tasks"
	"github.com/harshrajsoni/campusconnect/internal/worker"
)

func newHandler(callRepo *mocks.MockCallRequestRepository, convRepo *mocks.MockConversationRepository) *worker.TaskHandler {
	callService := service.NewCallService(callRepo, nil)
	convService := service.NewConversationService(convRepo)
	return worker.NewTaskHandler(callRepo, callService, convService)
}

func TestHandleCallReminder_PostsIntoConversation(t *testing.T) {
	callRepo := new(mocks.MockCallRequestRepository)
	convRepo := new(mocks.MockConversationRepository)
	handler := newHandler(callRepo, convRepo)
	ctx := context.Background()

	at := time.Now().Add(domain.JoinWindow)
	callRepo.On("FindByID", ctx, uint(1)).Return(&domain.CallRequest{
		ID:             1,
		RecruiterID:    7,
		CollegeID:      3,
		ConversationID: 42,
		Status:         domain.CallScheduled,
		ScheduledTime:  &at,
	}, nil).Once()
	convRepo.On("FindConversationByID", ctx, uint(42)).
		Return(&domain.Conversation{ID: 42, RecruiterID: 7, CollegeID: 3}, nil).Once()
	convRepo.On("CreateMessage", ctx, mock.MatchedBy(func(msg *domain.Message) bool {
		assert.Equal(t, uint(42), msg.ConversationID)
		assert.Contains(t, msg.Body, "Reminder")
		return true
	})).Return(nil).Once()

	task, err := tasks.NewCallReminderTask(1)
	require.NoError(t, err)

	err = handler.HandleCallReminder(ctx, task)

	require.NoError(t, err)
	callRepo.AssertExpectations(t)
	convRepo.AssertExpectations(t)
}

func TestHandleCallReminder_SkipsWhenNoLongerScheduled(t *testing.T) {
	callRepo := new(mocks.MockCallRequestRepository)
	convRepo := new(mocks.MockConversationRepository)
	handler := newHandler(callRepo, convRepo)
	ctx := context.Background()

	callRepo.On("FindByID", ctx, uint(1)).Return(&domain.CallRequest{
		ID:     1,
		Status: domain.CallCompleted,
	}, nil).Once()

	task, _ := tasks.NewCallReminderTask(1)
	err := handler.HandleCallReminder(ctx, task)

	require.NoError(t, err, "a stale reminder is dropped, not retried")
	convRepo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestHandleCallReminder_SkipsWhenCallGone(t *testing.T) {
	callRepo := new(mocks.MockCallRequestRepository)
	convRepo := new(mocks.MockConversationRepository)
	handler := newHandler(callRepo, convRepo)
	ctx := context.Background()

	callRepo.On("FindByID", ctx, uint(404)).Return(nil, repository.ErrCallNotFound).Once()

	task, _ := tasks.NewCallReminderTask(404)
	assert.NoError(t, handler.HandleCallReminder(ctx, task))
}

func TestHandleParticipantLeft_StampsLeftAt(t *testing.T) {
	callRepo := new(mocks.MockCallRequestRepository)
	convRepo := new(mocks.MockConversationRepository)
	handler := newHandler(callRepo, convRepo)
	ctx := context.Background()

	stored := &domain.CallRequest{
		ID:     1,
		RoomID: "room-1",
		Status: domain.CallActive,
		Participants: []domain.CallParticipant{
			{UserID: 10, Role: domain.RoleStudent, JoinedAt: time.Now().Add(-20 * time.Minute)},
		},
	}
	callRepo.On("UpdateByRoomID", ctx, "room-1", mock.Anything).Return(stored, nil).Once()

	leftAt := time.Now()
	task, err := tasks.NewParticipantLeftTask("room-1", domain.Identity{ID: 10, Role: domain.RoleStudent}, leftAt)
	require.NoError(t, err)

	err = handler.HandleParticipantLeft(ctx, task)

	require.NoError(t, err)
	require.NotNil(t, stored.Participants[0].LeftAt)
	assert.WithinDuration(t, leftAt, *stored.Participants[0].LeftAt, time.Second)
}

func TestHandleParticipantLeft_UnknownRoomNotRetried(t *testing.T) {
	callRepo := new(mocks.MockCallRequestRepository)
	convRepo := new(mocks.MockConversationRepository)
	handler := newHandler(callRepo, convRepo)
	ctx := context.Background()

	callRepo.On("UpdateByRoomID", ctx, "ghost", mock.Anything).Return(nil, repository.ErrCallNotFound).Once()

	task, _ := tasks.NewParticipantLeftTask("ghost", domain.Identity{ID: 10, Role: domain.RoleStudent}, time.Now())
	assert.NoError(t, handler.HandleParticipantLeft(ctx, task))
}
