package gormpersistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/harshrajsoni/campusconnect/internal/domain"
	"github.com/harshrajsoni/campusconnect/internal/repository"
)

// GormCallRepository is the GORM implementation of CallRequestRepository.
type GormCallRepository struct {
	db *gorm.DB
}

func NewGormCallRepository(db *gorm.DB) *GormCallRepository {
	if db == nil {
		panic("database connection cannot be nil for GormCallRepository")
	}
	return &GormCallRepository{db: db}
}

func (r *GormCallRepository) Create(ctx context.Context, call *domain.CallRequest) error {
	if err := r.db.WithContext(ctx).Create(call).Error; err != nil {
		if isDuplicateEntry(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create call request: %w", err)
	}
	return nil
}

func (r *GormCallRepository) FindByID(ctx context.Context, id uint) (*domain.CallRequest, error) {
	var call domain.CallRequest
	err := r.db.WithContext(ctx).First(&call, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCallNotFound
		}
		return nil, fmt.Errorf("gorm: find call by id %d: %w", id, err)
	}
	return &call, nil
}

func (r *GormCallRepository) FindByRoomID(ctx context.Context, roomID string) (*domain.CallRequest, error) {
	var call domain.CallRequest
	err := r.db.WithContext(ctx).Where("room_id = ?", roomID).First(&call).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCallNotFound
		}
		return nil, fmt.Errorf("gorm: find call by room id %q: %w", roomID, err)
	}
	return &call, nil
}

// Update runs mutate against the row locked with SELECT ... FOR UPDATE, so
// concurrent transitions on the same request are serialized by the database.
func (r *GormCallRepository) Update(ctx context.Context, id uint, mutate func(*domain.CallRequest) error) (*domain.CallRequest, error) {
	return r.updateWhere(ctx, func(tx *gorm.DB) *gorm.DB { return tx.Where("id = ?", id) }, mutate)
}

func (r *GormCallRepository) UpdateByRoomID(ctx context.Context, roomID string, mutate func(*domain.CallRequest) error) (*domain.CallRequest, error) {
	return r.updateWhere(ctx, func(tx *gorm.DB) *gorm.DB { return tx.Where("room_id = ?", roomID) }, mutate)
}

func (r *GormCallRepository) updateWhere(ctx context.Context, scope func(*gorm.DB) *gorm.DB, mutate func(*domain.CallRequest) error) (*domain.CallRequest, error) {
	var out *domain.CallRequest
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var call domain.CallRequest
		err := scope(tx.Clauses(clause.Locking{Strength: "UPDATE"})).First(&call).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repository.ErrCallNotFound
			}
			return fmt.Errorf("gorm: lock call request: %w", err)
		}
		if err := mutate(&call); err != nil {
			return err
		}
		if err := tx.Save(&call).Error; err != nil {
			return fmt.Errorf("gorm: save call request %d: %w", call.ID, err)
		}
		out = &call
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormCallRepository) FindByCollege(ctx context.Context, collegeID uint) ([]domain.CallRequest, error) {
	var calls []domain.CallRequest
	err := r.db.WithContext(ctx).
		Where("college_id = ?", collegeID).
		Order("created_at DESC").
		Find(&calls).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find calls for college %d: %w", collegeID, err)
	}
	return calls, nil
}

func (r *GormCallRepository) FindByRecruiter(ctx context.Context, recruiterID uint) ([]domain.CallRequest, error) {
	var calls []domain.CallRequest
	err := r.db.WithContext(ctx).
		Where("recruiter_id = ?", recruiterID).
		Order("created_at DESC").
		Find(&calls).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find calls for recruiter %d: %w", recruiterID, err)
	}
	return calls, nil
}

func (r *GormCallRepository) FindScheduledFor(ctx context.Context, actor domain.Identity, notBefore time.Time) ([]domain.CallRequest, error) {
	tx := r.db.WithContext(ctx).
		Where("status IN ?", []domain.CallStatus{domain.CallScheduled, domain.CallActive}).
		Where("scheduled_time >= ?", notBefore)

	switch actor.Role {
	case domain.RoleRecruiter:
		tx = tx.Where("recruiter_id = ?", actor.ID)
	case domain.RoleCollege:
		tx = tx.Where("college_id = ?", actor.ID)
	case domain.RoleStudent:
		// student_ids is a JSON array column.
		tx = tx.Where("JSON_CONTAINS(student_ids, ?)", strconv.FormatUint(uint64(actor.ID), 10))
	default:
		return nil, fmt.Errorf("gorm: unknown role %q", actor.Role)
	}

	var calls []domain.CallRequest
	if err := tx.Order("scheduled_time ASC").Find(&calls).Error; err != nil {
		return nil, fmt.Errorf("gorm: find scheduled calls for %s: %w", actor, err)
	}
	return calls, nil
}
