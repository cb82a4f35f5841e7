package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/harshrajsoni/campusconnect/internal/domain"
)

// MockAccountRepository mocks repository.AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) CreateStudent(ctx context.Context, s *domain.Student) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockAccountRepository) CreateRecruiter(ctx context.Context, r *domain.Recruiter) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockAccountRepository) CreateCollege(ctx context.Context, c *domain.College) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockAccountRepository) FindStudentByEmail(ctx context.Context, email string) (*domain.Student, error) {
	args := m.Called(ctx, email)
	if s, ok := args.Get(0).(*domain.Student); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountRepository) FindRecruiterByEmail(ctx context.Context, email string) (*domain.Recruiter, error) {
	args := m.Called(ctx, email)
	if r, ok := args.Get(0).(*domain.Recruiter); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountRepository) FindCollegeByEmail(ctx context.Context, email string) (*domain.College, error) {
	args := m.Called(ctx, email)
	if c, ok := args.Get(0).(*domain.College); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountRepository) FindByIdentity(ctx context.Context, id domain.Identity) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAccountRepository) FindStudentsByCollege(ctx context.Context, collegeName string) ([]domain.Student, error) {
	args := m.Called(ctx, collegeName)
	if students, ok := args.Get(0).([]domain.Student); ok {
		return students, args.Error(1)
	}
	return nil, args.Error(1)
}
