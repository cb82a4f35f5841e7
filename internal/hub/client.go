package hub

import (
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/harshrajsoni/campusconnect/internal/domain"
	"github.com/harshrajsoni/campusconnect/internal/metrics"
)

var connSeq uint64

// Client is one websocket signaling connection. It pumps inbound frames into
// the hub's event loop and outbound messages from its buffered send channel to
// the socket, with the usual ping/pong liveness checks.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	id       uint64
	identity domain.Identity
	send     chan []byte
}

func NewClient(h *Hub, conn *websocket.Conn, identity domain.Identity) *Client {
	return &Client{
		hub:      h,
		conn:     conn,
		id:       atomic.AddUint64(&connSeq, 1),
		identity: identity,
		send:     make(chan []byte, 256),
	}
}

func (c *Client) ConnID() uint64            { return c.id }
func (c *Client) Identity() domain.Identity { return c.identity }

// Send enqueues without blocking; a full buffer means the peer is too slow and
// the message is dropped.
func (c *Client) Send(msg []byte) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// Run starts the read and write pumps.
func (c *Client) Run() {
	metrics.ConnectedPeers.Inc()
	go c.writePump()
	go c.readPump()
}

func (c *Client) readPump() {
	logCtx := logrus.WithFields(logrus.Fields{"conn_id": c.id, "peer": c.identity.String()})
	defer func() {
		c.hub.QueueDisconnect(c)
		c.conn.Close()
		metrics.ConnectedPeers.Dec()
		logCtx.Debug("Signaling read pump exited")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logCtx.WithError(err).Warn("Websocket read error")
			}
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}
		c.hub.QueueMessage(c, message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logrus.WithFields(logrus.Fields{"conn_id": c.id, "peer": c.identity.String()}).WithError(err).Warn("Failed to write signaling message")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
