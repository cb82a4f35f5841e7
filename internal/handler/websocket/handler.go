package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/harshrajsoni/campusconnect/internal/hub"
	"github.com/harshrajsoni/campusconnect/internal/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Browser clients connect from the front-end origin; auth happens via the
	// JWT the Auth middleware already verified, not the Origin header.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades authenticated requests into signaling connections.
type Handler struct {
	hub *hub.Hub
}

func NewHandler(h *hub.Hub) *Handler {
	if h == nil {
		panic("Hub cannot be nil for websocket handler")
	}
	return &Handler{hub: h}
}

// Serve handles GET /ws. The route sits behind the Auth middleware, so the
// identity is always present here.
func (h *Handler) Serve(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	client := hub.NewClient(h.hub, conn, identity)
	logrus.WithFields(logrus.Fields{"conn_id": client.ConnID(), "peer": identity.String()}).Info("Signaling connection established")
	client.Run()
}
