package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondOK wraps a payload in the standard success envelope.
func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// respondMessage returns a success envelope carrying only a human message.
func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": true, "message": message})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

func badRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, message)
}
