package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/harshrajsoni/campusconnect/internal/service"
)

// handleServiceError maps the service layer's sentinel errors onto HTTP
// statuses. Unknown errors report a generic 500 and the detail goes to the
// log only.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respondError(c, http.StatusBadRequest, "Invalid request parameters")
	case errors.Is(err, service.ErrStateConflict):
		respondError(c, http.StatusBadRequest, "Request is not in a valid state for this action")
	case errors.Is(err, service.ErrCallNotFound):
		respondError(c, http.StatusNotFound, "Call request not found")
	case errors.Is(err, service.ErrConversationNotFound):
		respondError(c, http.StatusNotFound, "Conversation not found")
	case errors.Is(err, service.ErrForbidden):
		respondError(c, http.StatusForbidden, "You are not allowed to perform this action")
	case errors.Is(err, service.ErrAuthenticationFailed):
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrRegistrationFailed):
		respondError(c, http.StatusBadRequest, "An account with these details already exists")
	default:
		logrus.WithError(err).Error("Unhandled service error")
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
