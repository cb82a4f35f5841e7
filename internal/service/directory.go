package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/harshrajsoni/campusconnect/internal/domain"
	"github.com/harshrajsoni/campusconnect/internal/repository"
)

// DirectoryService serves the read-only account lookups the call UIs need,
// currently just the student roster a recruiter picks invitees from.
type DirectoryService struct {
	accountRepo repository.AccountRepository
}

func NewDirectoryService(accountRepo repository.AccountRepository) *DirectoryService {
	if accountRepo == nil {
		panic("AccountRepository cannot be nil for DirectoryService")
	}
	return &DirectoryService{accountRepo: accountRepo}
}

// StudentsByCollege returns the students registered under the named college,
// ordered by name. An unknown college name yields an empty list, not an error.
func (s *DirectoryService) StudentsByCollege(ctx context.Context, collegeName string) ([]domain.Student, error) {
	if collegeName == "" {
		return nil, ErrValidation
	}
	students, err := s.accountRepo.FindStudentsByCollege(ctx, collegeName)
	if err != nil {
		logrus.WithError(err).WithField("college", collegeName).Error("Failed to list students")
		return nil, ErrInternalServer
	}
	return students, nil
}
