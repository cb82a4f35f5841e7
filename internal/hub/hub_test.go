package hub

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshrajsoni/campusconnect/internal/domain"
	"github.com/harshrajsoni/campusconnect/internal/registry"
)

// fakePeer records everything the relay sends it.
type fakePeer struct {
	id       uint64
	identity domain.Identity
	sent     [][]byte
	full     bool
}

func (p *fakePeer) ConnID() uint64            { return p.id }
func (p *fakePeer) Identity() domain.Identity { return p.identity }
func (p *fakePeer) Send(msg []byte) bool {
	if p.full {
		return false
	}
	p.sent = append(p.sent, msg)
	return true
}

func (p *fakePeer) lastMessage(t *testing.T) outbound {
	t.Helper()
	require.NotEmpty(t, p.sent, "peer %s expected a message", p.identity)
	var out outbound
	require.NoError(t, json.Unmarshal(p.sent[len(p.sent)-1], &out))
	return out
}

func newTestHub() *Hub {
	return NewHub(registry.New(), nil)
}

func join(h *Hub, p registry.Peer, room string) {
	raw, _ := json.Marshal(Envelope{Type: KindJoinRoom, RoomID: room})
	h.handleMessage(p, raw)
}

func TestHub_JoinNotifiesExistingMembersOnly(t *testing.T) {
	h := newTestHub()
	recruiter := &fakePeer{id: 1, identity: domain.Identity{ID: 7, Role: domain.RoleRecruiter}}
	student := &fakePeer{id: 2, identity: domain.Identity{ID: 10, Role: domain.RoleStudent}}

	join(h, recruiter, "room-a")
	assert.Empty(t, recruiter.sent, "first joiner gets no notification")

	join(h, student, "room-a")
	assert.Empty(t, student.sent, "the joiner itself is not notified")

	out := recruiter.lastMessage(t)
	assert.Equal(t, KindUserJoined, out.Type)
	assert.Equal(t, "room-a", out.RoomID)
	assert.Equal(t, uint(10), out.UserID)
	assert.Equal(t, domain.RoleStudent, out.UserType)
}

func TestHub_ForwardReachesOnlyTarget(t *testing.T) {
	h := newTestHub()
	recruiter := &fakePeer{id: 1, identity: domain.Identity{ID: 7, Role: domain.RoleRecruiter}}
	s1 := &fakePeer{id: 2, identity: domain.Identity{ID: 10, Role: domain.RoleStudent}}
	s2 := &fakePeer{id: 3, identity: domain.Identity{ID: 11, Role: domain.RoleStudent}}
	join(h, recruiter, "room-a")
	join(h, s1, "room-a")
	join(h, s2, "room-a")
	s1.sent, s2.sent, recruiter.sent = nil, nil, nil

	sdp := json.RawMessage(`{"sdp":"v=0...","type":"offer"}`)
	raw, _ := json.Marshal(Envelope{Type: KindOffer, RoomID: "room-a", Payload: sdp, TargetID: 10, TargetType: "student"})
	h.handleMessage(recruiter, raw)

	out := s1.lastMessage(t)
	assert.Equal(t, KindOffer, out.Type)
	assert.JSONEq(t, string(sdp), string(out.Payload))
	// The forwarded message is stamped with the sender, not the target.
	assert.Equal(t, uint(7), out.UserID)
	assert.Equal(t, domain.RoleRecruiter, out.UserType)

	assert.Empty(t, s2.sent, "offer is never broadcast to other peers")
	assert.Empty(t, recruiter.sent)
}

func TestHub_ForwardFromNonMemberDropped(t *testing.T) {
	h := newTestHub()
	member := &fakePeer{id: 1, identity: domain.Identity{ID: 10, Role: domain.RoleStudent}}
	outsider := &fakePeer{id: 2, identity: domain.Identity{ID: 7, Role: domain.RoleRecruiter}}
	join(h, member, "room-a")

	raw, _ := json.Marshal(Envelope{Type: KindAnswer, RoomID: "room-a", TargetID: 10, TargetType: "student"})
	h.handleMessage(outsider, raw)

	assert.Empty(t, member.sent, "a non-member cannot signal into the room")
}

func TestHub_ForwardToAbsentTargetDropped(t *testing.T) {
	h := newTestHub()
	sender := &fakePeer{id: 1, identity: domain.Identity{ID: 7, Role: domain.RoleRecruiter}}
	join(h, sender, "room-a")

	// Target 99 never joined; the message is lost per the best-effort contract.
	raw, _ := json.Marshal(Envelope{Type: KindICECandidate, RoomID: "room-a", TargetID: 99, TargetType: "student"})
	h.handleMessage(sender, raw)

	assert.Empty(t, sender.sent)
}

func TestHub_LeaveNotifiesRemaining(t *testing.T) {
	h := newTestHub()
	recruiter := &fakePeer{id: 1, identity: domain.Identity{ID: 7, Role: domain.RoleRecruiter}}
	student := &fakePeer{id: 2, identity: domain.Identity{ID: 10, Role: domain.RoleStudent}}
	join(h, recruiter, "room-a")
	join(h, student, "room-a")
	recruiter.sent = nil

	raw, _ := json.Marshal(Envelope{Type: KindLeaveRoom, RoomID: "room-a"})
	h.handleMessage(student, raw)

	out := recruiter.lastMessage(t)
	assert.Equal(t, KindUserLeft, out.Type)
	assert.Equal(t, uint(10), out.UserID)
	assert.False(t, h.reg.Contains("room-a", student.ConnID()))
}

func TestHub_DisconnectCleansEveryRoom(t *testing.T) {
	h := newTestHub()
	p := &fakePeer{id: 1, identity: domain.Identity{ID: 10, Role: domain.RoleStudent}}
	watcherA := &fakePeer{id: 2, identity: domain.Identity{ID: 7, Role: domain.RoleRecruiter}}
	watcherB := &fakePeer{id: 3, identity: domain.Identity{ID: 3, Role: domain.RoleCollege}}
	join(h, watcherA, "room-a")
	join(h, watcherB, "room-b")
	join(h, p, "room-a")
	join(h, p, "room-b")
	watcherA.sent, watcherB.sent = nil, nil

	h.handleDisconnect(p)

	assert.Equal(t, KindUserLeft, watcherA.lastMessage(t).Type)
	assert.Equal(t, KindUserLeft, watcherB.lastMessage(t).Type)
	assert.False(t, h.reg.Contains("room-a", p.ConnID()))
	assert.False(t, h.reg.Contains("room-b", p.ConnID()))
}

func TestHub_MalformedMessagesDropped(t *testing.T) {
	h := newTestHub()
	p := &fakePeer{id: 1, identity: domain.Identity{ID: 10, Role: domain.RoleStudent}}
	other := &fakePeer{id: 2, identity: domain.Identity{ID: 7, Role: domain.RoleRecruiter}}
	join(h, p, "room-a")
	join(h, other, "room-a")
	other.sent = nil

	cases := [][]byte{
		[]byte(`{not json`),
		[]byte(`{"type":"offer"}`),                                            // no room
		[]byte(`{"type":"offer","roomId":"room-a"}`),                          // no target
		[]byte(`{"type":"offer","roomId":"room-a","targetId":7,"targetType":"alien"}`), // bad role
		[]byte(`{"type":"teleport","roomId":"room-a"}`),                       // unknown kind
	}
	for i, raw := range cases {
		h.handleMessage(p, raw)
		assert.Empty(t, other.sent, fmt.Sprintf("case %d must be dropped silently", i))
	}

	// The connection is still functional afterwards.
	raw, _ := json.Marshal(Envelope{Type: KindOffer, RoomID: "room-a", TargetID: 7, TargetType: "recruiter"})
	h.handleMessage(p, raw)
	assert.Equal(t, KindOffer, other.lastMessage(t).Type)
}

func TestHub_SlowPeerDoesNotBlockOthers(t *testing.T) {
	h := newTestHub()
	slow := &fakePeer{id: 1, identity: domain.Identity{ID: 7, Role: domain.RoleRecruiter}, full: true}
	fast := &fakePeer{id: 2, identity: domain.Identity{ID: 3, Role: domain.RoleCollege}}
	join(h, slow, "room-a")
	join(h, fast, "room-a")

	joiner := &fakePeer{id: 3, identity: domain.Identity{ID: 10, Role: domain.RoleStudent}}
	join(h, joiner, "room-a")

	assert.Empty(t, slow.sent)
	assert.Equal(t, KindUserJoined, fast.lastMessage(t).Type)
}

func TestHub_QueueMessageBackpressure(t *testing.T) {
	h := NewHub(registry.New(), nil)
	p := &fakePeer{id: 1, identity: domain.Identity{ID: 10, Role: domain.RoleStudent}}

	// Nobody is draining the loop; the buffer absorbs until saturated, then
	// QueueMessage reports the drop instead of blocking.
	dropped := false
	for i := 0; i < cap(h.events)+10; i++ {
		if !h.QueueMessage(p, []byte(`{}`)) {
			dropped = true
			break
		}
	}
	assert.True(t, dropped)
}
