package hub

import (
	"encoding/json"

	"github.com/harshrajsoni/campusconnect/internal/domain"
)

// Signaling message kinds. The relay never looks inside Payload; it routes on
// the kind and target only.
const (
	KindJoinRoom     = "join-room"
	KindOffer        = "offer"
	KindAnswer       = "answer"
	KindICECandidate = "ice-candidate"
	KindLeaveRoom    = "leave-room"

	// Server → client notifications.
	KindUserJoined = "user-joined"
	KindUserLeft   = "user-left"
)

// Envelope is the wire format of a client → server signaling message.
// Offer/answer/ice-candidate must name a target peer; join/leave need only the
// room. The sender's identity always comes from the authenticated connection,
// never from the message body.
type Envelope struct {
	Type       string          `json:"type"`
	RoomID     string          `json:"roomId"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	TargetID   uint            `json:"targetId,omitempty"`
	TargetType string          `json:"targetType,omitempty"`
}

// outbound is the wire format of every server → client message.
type outbound struct {
	Type     string          `json:"type"`
	RoomID   string          `json:"roomId"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	UserID   uint            `json:"userId,omitempty"`
	UserType domain.Role     `json:"userType,omitempty"`
}

func marshalUserJoined(room string, id domain.Identity) []byte {
	b, _ := json.Marshal(outbound{Type: KindUserJoined, RoomID: room, UserID: id.ID, UserType: id.Role})
	return b
}

func marshalUserLeft(room string, id domain.Identity) []byte {
	b, _ := json.Marshal(outbound{Type: KindUserLeft, RoomID: room, UserID: id.ID, UserType: id.Role})
	return b
}

// marshalForward wraps a payload being relayed to a targeted peer, stamping
// the sender so the receiver knows which peer connection to negotiate.
func marshalForward(kind, room string, payload json.RawMessage, from domain.Identity) []byte {
	b, _ := json.Marshal(outbound{Type: kind, RoomID: room, Payload: payload, UserID: from.ID, UserType: from.Role})
	return b
}
