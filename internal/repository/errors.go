package repository

import "errors"

// Generic storage errors. GORM implementations map driver errors onto these so
// the service layer never has to know which database sits underneath.
var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry means an insert or update violated a unique constraint.
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
)

// Resource-specific aliases, kept for readable errors.Is checks at call sites.
var (
	ErrCallNotFound         = ErrNotFound
	ErrAccountNotFound      = ErrNotFound
	ErrConversationNotFound = ErrNotFound
)
