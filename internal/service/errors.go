package service

import "errors"

// Business errors returned by the service layer. Handlers map these onto HTTP
// status codes in one place; anything not listed here surfaces as a 500.
var (
	// ErrValidation: missing or malformed input the caller can fix.
	ErrValidation = errors.New("invalid input")
	// ErrCallNotFound: unknown call request id or room id.
	ErrCallNotFound = errors.New("video call request not found")
	// ErrForbidden: the caller is not a party to the call or lacks the role
	// required for the transition. The record is never mutated.
	ErrForbidden = errors.New("not authorized for this call")
	// ErrStateConflict: the transition is legal for some state but not the
	// current one (join outside the window, schedule before accept, ...).
	ErrStateConflict = errors.New("call is not in a state that allows this")
	// ErrAuthenticationFailed: bad credentials on login.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrRegistrationFailed: signup collided with an existing account.
	ErrRegistrationFailed = errors.New("registration failed: email or id already exists")
	// ErrConversationNotFound: unknown conversation id.
	ErrConversationNotFound = errors.New("conversation not found")
	// ErrInternalServer: persistence or other infrastructure failure.
	ErrInternalServer = errors.New("internal server error")
)
