package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/harshrajsoni/campusconnect/internal/domain"
	"github.com/harshrajsoni/campusconnect/internal/repository"
)

// ConversationService handles recruiter-college messaging. Call requests link
// to a conversation for context; the reminder worker posts into it.
type ConversationService struct {
	convRepo repository.ConversationRepository
}

func NewConversationService(convRepo repository.ConversationRepository) *ConversationService {
	if convRepo == nil {
		panic("ConversationRepository cannot be nil for ConversationService")
	}
	return &ConversationService{convRepo: convRepo}
}

// Create opens a conversation between the calling recruiter and a college, or
// the calling college and a recruiter.
func (s *ConversationService) Create(ctx context.Context, actor domain.Identity, otherID uint) (*domain.Conversation, error) {
	if otherID == 0 {
		return nil, ErrValidation
	}

	conv := &domain.Conversation{}
	switch actor.Role {
	case domain.RoleRecruiter:
		conv.RecruiterID = actor.ID
		conv.CollegeID = otherID
	case domain.RoleCollege:
		conv.CollegeID = actor.ID
		conv.RecruiterID = otherID
	default:
		return nil, ErrForbidden
	}

	if err := s.convRepo.CreateConversation(ctx, conv); err != nil {
		logrus.WithError(err).WithField("actor", actor.String()).Error("Failed to create conversation")
		return nil, ErrInternalServer
	}
	return conv, nil
}

// List returns the caller's conversations, newest first.
func (s *ConversationService) List(ctx context.Context, actor domain.Identity) ([]domain.Conversation, error) {
	convs, err := s.convRepo.FindConversationsFor(ctx, actor)
	if err != nil {
		logrus.WithError(err).WithField("actor", actor.String()).Error("Failed to list conversations")
		return nil, ErrInternalServer
	}
	return convs, nil
}

// Send appends a message. Only the two parties of the conversation may post.
func (s *ConversationService) Send(ctx context.Context, actor domain.Identity, conversationID uint, body string) (*domain.Message, error) {
	if body == "" || conversationID == 0 {
		return nil, ErrValidation
	}

	conv, err := s.findAuthorized(ctx, actor, conversationID)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ConversationID: conv.ID,
		SenderID:       actor.ID,
		SenderRole:     actor.Role,
		Body:           body,
	}
	if err := s.convRepo.CreateMessage(ctx, msg); err != nil {
		logrus.WithError(err).WithField("conversation_id", conversationID).Error("Failed to create message")
		return nil, ErrInternalServer
	}
	return msg, nil
}

// Messages returns a conversation's history, oldest first, to its parties only.
func (s *ConversationService) Messages(ctx context.Context, actor domain.Identity, conversationID uint) ([]domain.Message, error) {
	if _, err := s.findAuthorized(ctx, actor, conversationID); err != nil {
		return nil, err
	}
	msgs, err := s.convRepo.FindMessages(ctx, conversationID)
	if err != nil {
		logrus.WithError(err).WithField("conversation_id", conversationID).Error("Failed to list messages")
		return nil, ErrInternalServer
	}
	return msgs, nil
}

func (s *ConversationService) findAuthorized(ctx context.Context, actor domain.Identity, conversationID uint) (*domain.Conversation, error) {
	conv, err := s.convRepo.FindConversationByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return nil, ErrConversationNotFound
		}
		logrus.WithError(err).WithField("conversation_id", conversationID).Error("Failed to load conversation")
		return nil, ErrInternalServer
	}
	switch actor.Role {
	case domain.RoleRecruiter:
		if conv.RecruiterID != actor.ID {
			return nil, ErrForbidden
		}
	case domain.RoleCollege:
		if conv.CollegeID != actor.ID {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}
	return conv, nil
}
