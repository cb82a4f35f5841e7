// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/harshrajsoni/campusconnect/internal/domain"
)

// MockCallRequestRepository mocks repository.CallRequestRepository.
//
// For Update and UpdateByRoomID the mock executes the mutate callback against
// the *domain.CallRequest supplied as the first return argument, so tests
// exercise the real transition logic inside the callback.
type MockCallRequestRepository struct {
	mock.Mock
}

func (m *MockCallRequestRepository) Create(ctx context.Context, call *domain.CallRequest) error {
	args := m.Called(ctx, call)
	return args.Error(0)
}

func (m *MockCallRequestRepository) FindByID(ctx context.Context, id uint) (*domain.CallRequest, error) {
	args := m.Called(ctx, id)
	if call, ok := args.Get(0).(*domain.CallRequest); ok {
		return call, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCallRequestRepository) FindByRoomID(ctx context.Context, roomID string) (*domain.CallRequest, error) {
	args := m.Called(ctx, roomID)
	if call, ok := args.Get(0).(*domain.CallRequest); ok {
		return call, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCallRequestRepository) Update(ctx context.Context, id uint, mutate func(*domain.CallRequest) error) (*domain.CallRequest, error) {
	args := m.Called(ctx, id, mutate)
	call, _ := args.Get(0).(*domain.CallRequest)
	if call != nil && mutate != nil {
		if err := mutate(call); err != nil {
			return nil, err
		}
	}
	return call, args.Error(1)
}

func (m *MockCallRequestRepository) UpdateByRoomID(ctx context.Context, roomID string, mutate func(*domain.CallRequest) error) (*domain.CallRequest, error) {
	args := m.Called(ctx, roomID, mutate)
	call, _ := args.Get(0).(*domain.CallRequest)
	if call != nil && mutate != nil {
		if err := mutate(call); err != nil {
			return nil, err
		}
	}
	return call, args.Error(1)
}

func (m *MockCallRequestRepository) FindByCollege(ctx context.Context, collegeID uint) ([]domain.CallRequest, error) {
	args := m.Called(ctx, collegeID)
	if calls, ok := args.Get(0).([]domain.CallRequest); ok {
		return calls, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCallRequestRepository) FindByRecruiter(ctx context.Context, recruiterID uint) ([]domain.CallRequest, error) {
	args := m.Called(ctx, recruiterID)
	if calls, ok := args.Get(0).([]domain.CallRequest); ok {
		return calls, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCallRequestRepository) FindScheduledFor(ctx context.Context, actor domain.Identity, notBefore time.Time) ([]domain.CallRequest, error) {
	args := m.Called(ctx, actor, notBefore)
	if calls, ok := args.Get(0).([]domain.CallRequest); ok {
		return calls, args.Error(1)
	}
	return nil, args.Error(1)
}
