package repository

import (
	"context"
	"time"

	"github.com/harshrajsoni/campusconnect/internal/domain"
)

// CallRequestRepository stores and retrieves CallRequest records.
//
// Mutation of an existing record goes through Update so that concurrent
// transitions on the same id are serialized at the storage layer (the GORM
// implementation takes a row lock for the duration of the callback). Two
// concurrent accepts, or two joins racing to assign a room id, therefore see
// each other's writes.
type CallRequestRepository interface {
	// Create inserts a new request. The record's ID is filled in on return.
	Create(ctx context.Context, call *domain.CallRequest) error

	// FindByID returns the request with the given id, or ErrCallNotFound.
	FindByID(ctx context.Context, id uint) (*domain.CallRequest, error)

	// FindByRoomID returns the request owning the given room identifier, or
	// ErrCallNotFound.
	FindByRoomID(ctx context.Context, roomID string) (*domain.CallRequest, error)

	// Update loads the request with the given id under a write lock, applies
	// mutate, and persists the result. If mutate returns an error nothing is
	// written and the error is returned unchanged.
	Update(ctx context.Context, id uint, mutate func(*domain.CallRequest) error) (*domain.CallRequest, error)

	// UpdateByRoomID is Update keyed by room identifier instead of record id.
	UpdateByRoomID(ctx context.Context, roomID string, mutate func(*domain.CallRequest) error) (*domain.CallRequest, error)

	// FindByCollege returns all requests targeting the college, newest first.
	FindByCollege(ctx context.Context, collegeID uint) ([]domain.CallRequest, error)

	// FindByRecruiter returns all requests created by the recruiter, newest first.
	FindByRecruiter(ctx context.Context, recruiterID uint) ([]domain.CallRequest, error)

	// FindScheduledFor returns the caller's requests with status scheduled or
	// active whose scheduled time is not older than the given bound, ordered by
	// scheduled time ascending.
	FindScheduledFor(ctx context.Context, actor domain.Identity, notBefore time.Time) ([]domain.CallRequest, error)
}
