package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/harshrajsoni/campusconnect/internal/domain"
)

// MockConversationRepository mocks repository.ConversationRepository.
type MockConversationRepository struct {
	mock.Mock
}

func (m *MockConversationRepository) CreateConversation(ctx context.Context, conv *domain.Conversation) error {
	args := m.Called(ctx, conv)
	return args.Error(0)
}

func (m *MockConversationRepository) FindConversationByID(ctx context.Context, id uint) (*domain.Conversation, error) {
	args := m.Called(ctx, id)
	if conv, ok := args.Get(0).(*domain.Conversation); ok {
		return conv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockConversationRepository) FindConversationsFor(ctx context.Context, actor domain.Identity) ([]domain.Conversation, error) {
	args := m.Called(ctx, actor)
	if convs, ok := args.Get(0).([]domain.Conversation); ok {
		return convs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockConversationRepository) CreateMessage(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockConversationRepository) FindMessages(ctx context.Context, conversationID uint) ([]domain.Message, error) {
	args := m.Called(ctx, conversationID)
	if msgs, ok := args.Get(0).([]domain.Message); ok {
		return msgs, args.Error(1)
	}
	return nil, args.Error(1)
}
