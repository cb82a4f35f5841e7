package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/harshrajsoni/campusconnect/internal/middleware"
	"github.com/harshrajsoni/campusconnect/internal/service"
)

// ConversationHandler exposes recruiter-college messaging.
type ConversationHandler struct {
	convService *service.ConversationService
}

func NewConversationHandler(convService *service.ConversationService) *ConversationHandler {
	if convService == nil {
		panic("ConversationService cannot be nil for ConversationHandler")
	}
	return &ConversationHandler{convService: convService}
}

type createConversationRequest struct {
	OtherID uint `json:"otherId" binding:"required"`
}

// Create handles POST /api/conversations.
func (h *ConversationHandler) Create(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req createConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid payload: "+err.Error())
		return
	}

	conv, err := h.convService.Create(c.Request.Context(), identity, req.OtherID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, conv)
}

// List handles GET /api/conversations.
func (h *ConversationHandler) List(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	convs, err := h.convService.List(c.Request.Context(), identity)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, convs)
}

type sendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// Send handles POST /api/conversations/:id/messages.
func (h *ConversationHandler) Send(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	convID, err := parseIDParam(c, "id")
	if err != nil {
		badRequest(c, "Invalid conversation id")
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid payload: "+err.Error())
		return
	}

	msg, err := h.convService.Send(c.Request.Context(), identity, convID, req.Body)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, msg)
}

// Messages handles GET /api/conversations/:id/messages.
func (h *ConversationHandler) Messages(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	convID, err := parseIDParam(c, "id")
	if err != nil {
		badRequest(c, "Invalid conversation id")
		return
	}

	msgs, err := h.convService.Messages(c.Request.Context(), identity, convID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, msgs)
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}
