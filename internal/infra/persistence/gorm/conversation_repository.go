package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/harshrajsoni/campusconnect/internal/domain"
	"github.com/harshrajsoni/campusconnect/internal/repository"
)

// GormConversationRepository is the GORM implementation of ConversationRepository.
type GormConversationRepository struct {
	db *gorm.DB
}

func NewGormConversationRepository(db *gorm.DB) *GormConversationRepository {
	if db == nil {
		panic("database connection cannot be nil for GormConversationRepository")
	}
	return &GormConversationRepository{db: db}
}

func (r *GormConversationRepository) CreateConversation(ctx context.Context, conv *domain.Conversation) error {
	if err := r.db.WithContext(ctx).Create(conv).Error; err != nil {
		return fmt.Errorf("gorm: create conversation: %w", err)
	}
	return nil
}

func (r *GormConversationRepository) FindConversationByID(ctx context.Context, id uint) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := r.db.WithContext(ctx).First(&conv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrConversationNotFound
		}
		return nil, fmt.Errorf("gorm: find conversation %d: %w", id, err)
	}
	return &conv, nil
}

func (r *GormConversationRepository) FindConversationsFor(ctx context.Context, actor domain.Identity) ([]domain.Conversation, error) {
	tx := r.db.WithContext(ctx)
	switch actor.Role {
	case domain.RoleRecruiter:
		tx = tx.Where("recruiter_id = ?", actor.ID)
	case domain.RoleCollege:
		tx = tx.Where("college_id = ?", actor.ID)
	default:
		// Students do not hold conversations.
		return nil, nil
	}

	var convs []domain.Conversation
	if err := tx.Order("created_at DESC").Find(&convs).Error; err != nil {
		return nil, fmt.Errorf("gorm: find conversations for %s: %w", actor, err)
	}
	return convs, nil
}

func (r *GormConversationRepository) CreateMessage(ctx context.Context, msg *domain.Message) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("gorm: create message: %w", err)
	}
	return nil
}

func (r *GormConversationRepository) FindMessages(ctx context.Context, conversationID uint) ([]domain.Message, error) {
	var msgs []domain.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find messages for conversation %d: %w", conversationID, err)
	}
	return msgs, nil
}
