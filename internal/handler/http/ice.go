package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ICEServer is one STUN/TURN entry in the format browsers pass straight into
// RTCPeerConnection.
type ICEServer struct {
	URLs       []string `json:"urls"`
	Username   string   `json:"username,omitempty"`
	Credential string   `json:"credential,omitempty"`
}

// ICEHandler serves the ICE server pool clients use for connectivity
// establishment. The pool is static configuration; media never touches this
// server.
type ICEHandler struct {
	servers []ICEServer
}

func NewICEHandler(servers []ICEServer) *ICEHandler {
	if len(servers) == 0 {
		servers = []ICEServer{{URLs: []string{"stun:stun.l.google.com:19302"}}}
	}
	return &ICEHandler{servers: servers}
}

// Servers handles GET /api/ice-servers.
func (h *ICEHandler) Servers(c *gin.Context) {
	respondOK(c, http.StatusOK, gin.H{"iceServers": h.servers})
}
