package repository

import (
	"context"

	"github.com/harshrajsoni/campusconnect/internal/domain"
)

// ConversationRepository stores conversations and their messages.
type ConversationRepository interface {
	// CreateConversation inserts a conversation between a recruiter and a college.
	CreateConversation(ctx context.Context, conv *domain.Conversation) error

	// FindConversationByID returns the conversation or ErrConversationNotFound.
	FindConversationByID(ctx context.Context, id uint) (*domain.Conversation, error)

	// FindConversationsFor returns all conversations the actor takes part in,
	// newest first.
	FindConversationsFor(ctx context.Context, actor domain.Identity) ([]domain.Conversation, error)

	// CreateMessage appends a message to a conversation.
	CreateMessage(ctx context.Context, msg *domain.Message) error

	// FindMessages returns a conversation's messages oldest first.
	FindMessages(ctx context.Context, conversationID uint) ([]domain.Message, error)
}
