package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/harshrajsoni/campusconnect/internal/domain"
	"github.com/harshrajsoni/campusconnect/internal/repository"
)

// GormAccountRepository is the GORM implementation of AccountRepository.
type GormAccountRepository struct {
	db *gorm.DB
}

func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	if db == nil {
		panic("database connection cannot be nil for GormAccountRepository")
	}
	return &GormAccountRepository{db: db}
}

// isDuplicateEntry reports whether err is MySQL error 1062 (unique violation).
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

func (r *GormAccountRepository) CreateStudent(ctx context.Context, s *domain.Student) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		if isDuplicateEntry(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create student: %w", err)
	}
	return nil
}

func (r *GormAccountRepository) CreateRecruiter(ctx context.Context, rec *domain.Recruiter) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if isDuplicateEntry(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create recruiter: %w", err)
	}
	return nil
}

func (r *GormAccountRepository) CreateCollege(ctx context.Context, c *domain.College) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if isDuplicateEntry(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create college: %w", err)
	}
	return nil
}

func (r *GormAccountRepository) FindStudentByEmail(ctx context.Context, email string) (*domain.Student, error) {
	var s domain.Student
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}
		return nil, fmt.Errorf("gorm: find student by email: %w", err)
	}
	return &s, nil
}

func (r *GormAccountRepository) FindRecruiterByEmail(ctx context.Context, email string) (*domain.Recruiter, error) {
	var rec domain.Recruiter
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}
		return nil, fmt.Errorf("gorm: find recruiter by email: %w", err)
	}
	return &rec, nil
}

func (r *GormAccountRepository) FindCollegeByEmail(ctx context.Context, email string) (*domain.College, error) {
	var c domain.College
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}
		return nil, fmt.Errorf("gorm: find college by email: %w", err)
	}
	return &c, nil
}

func (r *GormAccountRepository) FindByIdentity(ctx context.Context, id domain.Identity) error {
	var (
		count int64
		err   error
	)
	switch id.Role {
	case domain.RoleStudent:
		err = r.db.WithContext(ctx).Model(&domain.Student{}).Where("id = ?", id.ID).Count(&count).Error
	case domain.RoleRecruiter:
		err = r.db.WithContext(ctx).Model(&domain.Recruiter{}).Where("id = ?", id.ID).Count(&count).Error
	case domain.RoleCollege:
		err = r.db.WithContext(ctx).Model(&domain.College{}).Where("id = ?", id.ID).Count(&count).Error
	default:
		return fmt.Errorf("gorm: unknown role %q", id.Role)
	}
	if err != nil {
		return fmt.Errorf("gorm: find account %s: %w", id, err)
	}
	if count == 0 {
		return repository.ErrAccountNotFound
	}
	return nil
}

func (r *GormAccountRepository) FindStudentsByCollege(ctx context.Context, collegeName string) ([]domain.Student, error) {
	var students []domain.Student
	err := r.db.WithContext(ctx).
		Select("id", "name", "email", "roll_number", "course", "college").
		Where("college = ?", collegeName).
		Order("name ASC").
		Find(&students).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find students for college %q: %w", collegeName, err)
	}
	return students, nil
}
