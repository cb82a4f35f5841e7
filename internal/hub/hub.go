// Package hub implements the signaling relay: a broker that forwards WebRTC
// negotiation messages between the peers of a room without interpreting them.
// Delivery is best-effort and fire-and-forget; a peer that is not connected at
// send time simply misses the message and re-negotiates after re-joining.
package hub

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/harshrajsoni/campusconnect/internal/domain"
	"github.com/harshrajsoni/campusconnect/internal/metrics"
	"github.com/harshrajsoni/campusconnect/internal/registry"
	"github.com/harshrajsoni/campusconnect/internal/tasks"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. SDP offers run to a few KB.
	maxMessageSize = 16384
)

// TaskEnqueuer is the slice of asynq.Client the hub needs; nil disables the
// background participant-log updates.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type eventKind int

const (
	eventMessage eventKind = iota
	eventDisconnect
)

type event struct {
	kind eventKind
	peer registry.Peer
	raw  []byte
}

// Hub runs the relay's single event loop. Clients queue raw inbound messages
// and disconnect notifications; the loop dispatches them against the room
// registry. A misbehaving message is logged and dropped, never fatal: one
// peer's garbage must not take down the room.
type Hub struct {
	events   chan event
	quit     chan struct{}
	reg      *registry.Registry
	enqueuer TaskEnqueuer
}

func NewHub(reg *registry.Registry, enqueuer TaskEnqueuer) *Hub {
	if reg == nil {
		panic("registry cannot be nil for Hub")
	}
	return &Hub{
		events:   make(chan event, 512),
		quit:     make(chan struct{}),
		reg:      reg,
		enqueuer: enqueuer,
	}
}

// Run processes queued events until Stop is called. It should run in its own
// goroutine, started at process boot.
func (h *Hub) Run() {
	log := logrus.WithField("component", "hub")
	log.Info("Signaling hub running")
	for {
		select {
		case ev := <-h.events:
			switch ev.kind {
			case eventMessage:
				h.handleMessage(ev.peer, ev.raw)
			case eventDisconnect:
				h.handleDisconnect(ev.peer)
			}
		case <-h.quit:
			log.Info("Signaling hub stopped")
			return
		}
	}
}

// Stop terminates the event loop. Messages still queued are discarded, which
// is consistent with the relay's no-delivery-guarantee contract.
func (h *Hub) Stop() {
	close(h.quit)
}

// QueueMessage hands a raw inbound message to the event loop without blocking.
// Returns false if the hub is saturated and the message was dropped.
func (h *Hub) QueueMessage(p registry.Peer, raw []byte) bool {
	select {
	case h.events <- event{kind: eventMessage, peer: p, raw: raw}:
		return true
	default:
		logrus.WithField("conn_id", p.ConnID()).Warn("Hub event queue full, dropping message")
		return false
	}
}

// QueueDisconnect notifies the loop that a connection dropped without an
// explicit leave.
func (h *Hub) QueueDisconnect(p registry.Peer) {
	select {
	case h.events <- event{kind: eventDisconnect, peer: p}:
	default:
		// Queue saturated: clean up inline rather than leak the membership.
		h.handleDisconnect(p)
	}
}

func (h *Hub) handleMessage(p registry.Peer, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logrus.WithError(err).WithField("conn_id", p.ConnID()).Warn("Malformed signaling message dropped")
		metrics.SignalMessages.WithLabelValues("unknown", "dropped").Inc()
		return
	}
	if env.RoomID == "" {
		logrus.WithFields(logrus.Fields{"conn_id": p.ConnID(), "kind": env.Type}).Warn("Signaling message without room dropped")
		metrics.SignalMessages.WithLabelValues(env.Type, "dropped").Inc()
		return
	}

	switch env.Type {
	case KindJoinRoom:
		h.handleJoin(p, env.RoomID)
	case KindLeaveRoom:
		h.handleLeave(p, env.RoomID)
	case KindOffer, KindAnswer, KindICECandidate:
		h.forward(p, env)
	default:
		logrus.WithFields(logrus.Fields{"conn_id": p.ConnID(), "kind": env.Type}).Warn("Unknown signaling kind dropped")
		metrics.SignalMessages.WithLabelValues(env.Type, "dropped").Inc()
	}
}

// handleJoin registers the peer and tells the peers already present. The
// joiner learns about existing peers through their own earlier user-joined
// broadcasts plus the offer cycle they initiate towards it; no membership
// snapshot is sent back.
func (h *Hub) handleJoin(p registry.Peer, room string) {
	others := h.reg.Join(room, p)
	msg := marshalUserJoined(room, p.Identity())
	for _, member := range others {
		if !member.Send(msg) {
			logrus.WithFields(logrus.Fields{"room": room, "peer": member.Identity().String()}).Warn("Peer send buffer full, user-joined dropped")
		}
	}
	metrics.SignalMessages.WithLabelValues(KindJoinRoom, "broadcast").Inc()
	logrus.WithFields(logrus.Fields{"room": room, "peer": p.Identity().String()}).Info("Peer joined room")
}

func (h *Hub) handleLeave(p registry.Peer, room string) {
	if !h.reg.Leave(room, p.ConnID()) {
		metrics.SignalMessages.WithLabelValues(KindLeaveRoom, "dropped").Inc()
		return
	}
	h.notifyLeft(room, p.Identity())
	metrics.SignalMessages.WithLabelValues(KindLeaveRoom, "broadcast").Inc()
	logrus.WithFields(logrus.Fields{"room": room, "peer": p.Identity().String()}).Info("Peer left room")
}

// forward delivers an offer/answer/ice-candidate to the single peer named as
// target. It is never broadcast: with more than two peers in a room each pair
// negotiates separately.
func (h *Hub) forward(p registry.Peer, env Envelope) {
	if !h.reg.Contains(env.RoomID, p.ConnID()) {
		logrus.WithFields(logrus.Fields{"room": env.RoomID, "kind": env.Type, "peer": p.Identity().String()}).Warn("Signal from non-member dropped")
		metrics.SignalMessages.WithLabelValues(env.Type, "dropped").Inc()
		return
	}

	role, err := domain.ParseRole(env.TargetType)
	if err != nil || env.TargetID == 0 {
		logrus.WithFields(logrus.Fields{"room": env.RoomID, "kind": env.Type}).Warn("Signal without valid target dropped")
		metrics.SignalMessages.WithLabelValues(env.Type, "dropped").Inc()
		return
	}

	target, ok := h.reg.Find(env.RoomID, domain.Identity{ID: env.TargetID, Role: role})
	if !ok {
		// Target may have just left; per the best-effort contract the message
		// is simply lost.
		metrics.SignalMessages.WithLabelValues(env.Type, "dropped").Inc()
		return
	}

	if target.Send(marshalForward(env.Type, env.RoomID, env.Payload, p.Identity())) {
		metrics.SignalMessages.WithLabelValues(env.Type, "forwarded").Inc()
	} else {
		metrics.SignalMessages.WithLabelValues(env.Type, "dropped").Inc()
	}
}

func (h *Hub) handleDisconnect(p registry.Peer) {
	rooms := h.reg.DisconnectCleanup(p.ConnID())
	for _, room := range rooms {
		h.notifyLeft(room, p.Identity())
	}
	if len(rooms) > 0 {
		logrus.WithFields(logrus.Fields{"peer": p.Identity().String(), "rooms": len(rooms)}).Info("Disconnected peer cleaned up")
	}
}

// notifyLeft broadcasts user-left to the room's remaining members and queues
// the participant-log update.
func (h *Hub) notifyLeft(room string, id domain.Identity) {
	msg := marshalUserLeft(room, id)
	for _, member := range h.reg.Members(room, 0) {
		if !member.Send(msg) {
			logrus.WithFields(logrus.Fields{"room": room, "peer": member.Identity().String()}).Warn("Peer send buffer full, user-left dropped")
		}
	}
	h.enqueueParticipantLeft(room, id)
}

func (h *Hub) enqueueParticipantLeft(room string, id domain.Identity) {
	if h.enqueuer == nil {
		return
	}
	task, err := tasks.NewParticipantLeftTask(room, id, time.Now())
	if err != nil {
		logrus.WithError(err).Error("Failed to build participant-left task")
		return
	}
	if _, err := h.enqueuer.Enqueue(task, asynq.Queue("low")); err != nil {
		logrus.WithError(err).WithField("room", room).Warn("Failed to enqueue participant-left task")
	}
}
