package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harshrajsoni/campusconnect/internal/middleware"
	"github.com/harshrajsoni/campusconnect/internal/service"
)

// CallHandler exposes the call request lifecycle over REST. The signaling
// relay is separate; these endpoints only move the persistent record.
type CallHandler struct {
	callService *service.CallService
}

func NewCallHandler(callService *service.CallService) *CallHandler {
	if callService == nil {
		panic("CallService cannot be nil for CallHandler")
	}
	return &CallHandler{callService: callService}
}

type createCallRequest struct {
	CollegeID      uint   `json:"collegeId" binding:"required"`
	StudentIDs     []uint `json:"studentIds"`
	Message        string `json:"message"`
	ConversationID uint   `json:"conversationId" binding:"required"`
}

// Create handles POST /api/calls/request.
func (h *CallHandler) Create(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req createCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid call request payload: "+err.Error())
		return
	}

	call, err := h.callService.Request(c.Request.Context(), identity, req.CollegeID, req.StudentIDs, req.Message, req.ConversationID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, call)
}

type callActionRequest struct {
	RequestID uint `json:"requestId" binding:"required"`
}

// Accept handles POST /api/calls/accept.
func (h *CallHandler) Accept(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req callActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid payload: "+err.Error())
		return
	}

	call, err := h.callService.Accept(c.Request.Context(), identity, req.RequestID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, call)
}

type scheduleCallRequest struct {
	RequestID     uint      `json:"requestId" binding:"required"`
	ScheduledTime time.Time `json:"scheduledTime" binding:"required"`
}

// Schedule handles POST /api/calls/schedule.
func (h *CallHandler) Schedule(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req scheduleCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid payload: "+err.Error())
		return
	}

	call, err := h.callService.Schedule(c.Request.Context(), identity, req.RequestID, req.ScheduledTime)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, call)
}

// Join handles POST /api/calls/join. On success the response carries the room
// identifier the client then uses on the signaling socket.
func (h *CallHandler) Join(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req callActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid payload: "+err.Error())
		return
	}

	roomID, call, err := h.callService.Join(c.Request.Context(), identity, req.RequestID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"roomId": roomID, "call": call})
}

// Complete handles POST /api/calls/complete.
func (h *CallHandler) Complete(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req callActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid payload: "+err.Error())
		return
	}

	call, err := h.callService.Complete(c.Request.Context(), identity, req.RequestID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, call)
}

// CollegeRequests handles GET /api/calls/college-requests.
func (h *CallHandler) CollegeRequests(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	calls, err := h.callService.CollegeRequests(c.Request.Context(), identity)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, calls)
}

// RecruiterRequests handles GET /api/calls/recruiter-requests.
func (h *CallHandler) RecruiterRequests(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	calls, err := h.callService.RecruiterRequests(c.Request.Context(), identity)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, calls)
}

// ScheduledCalls handles GET /api/calls/scheduled-calls.
func (h *CallHandler) ScheduledCalls(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	calls, err := h.callService.ScheduledCalls(c.Request.Context(), identity)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, calls)
}
