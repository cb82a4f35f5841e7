package repository

import (
	"context"

	"github.com/harshrajsoni/campusconnect/internal/domain"
)

// AccountRepository stores the three account classes. Lookups return
// ErrAccountNotFound when no row matches.
type AccountRepository interface {
	CreateStudent(ctx context.Context, s *domain.Student) error
	CreateRecruiter(ctx context.Context, r *domain.Recruiter) error
	CreateCollege(ctx context.Context, c *domain.College) error

	FindStudentByEmail(ctx context.Context, email string) (*domain.Student, error)
	FindRecruiterByEmail(ctx context.Context, email string) (*domain.Recruiter, error)
	FindCollegeByEmail(ctx context.Context, email string) (*domain.College, error)

	// FindByIdentity confirms an identity still maps to a live account.
	// It returns ErrAccountNotFound when the id is stale.
	FindByIdentity(ctx context.Context, id domain.Identity) error

	// FindStudentsByCollege returns students of the named college ordered by
	// name, projected to the fields the selection UI needs.
	FindStudentsByCollege(ctx context.Context, collegeName string) ([]domain.Student, error)
}
