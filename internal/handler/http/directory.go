package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harshrajsoni/campusconnect/internal/service"
)

// DirectoryHandler serves account lookups used when composing call requests.
type DirectoryHandler struct {
	directoryService *service.DirectoryService
}

func NewDirectoryHandler(directoryService *service.DirectoryService) *DirectoryHandler {
	if directoryService == nil {
		panic("DirectoryService cannot be nil for DirectoryHandler")
	}
	return &DirectoryHandler{directoryService: directoryService}
}

// StudentsByCollege handles GET /api/students/:collegeName.
func (h *DirectoryHandler) StudentsByCollege(c *gin.Context) {
	collegeName := c.Param("collegeName")
	students, err := h.directoryService.StudentsByCollege(c.Request.Context(), collegeName)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, students)
}
