// Package registry holds the process-wide mapping from room identifiers to the
// signaling peers currently connected to them. It is purely in-memory: rooms
// appear on first join, disappear when their last member leaves, and are lost
// on restart (clients re-join).
package registry

import (
	"sync"

	"github.com/harshrajsoni/campusconnect/internal/domain"
	"github.com/harshrajsoni/campusconnect/internal/metrics"
)

// Peer is one signaling connection as the registry and relay see it. The
// websocket client implements it; tests use in-memory fakes.
type Peer interface {
	// ConnID is the unique handle of the underlying connection. A user who
	// reconnects gets a new ConnID.
	ConnID() uint64
	// Identity is the authenticated user behind the connection.
	Identity() domain.Identity
	// Send enqueues a message for delivery without blocking. It reports false
	// when the peer's buffer is full and the message was dropped.
	Send(msg []byte) bool
}

// Registry is safe for concurrent use. All membership mutation happens under
// one lock, so a join can never interleave with a leave on the same room.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[uint64]Peer
}

// New returns an empty registry. One instance is created at process start and
// injected wherever room membership is needed.
func New() *Registry {
	return &Registry{rooms: make(map[string]map[uint64]Peer)}
}

// Join adds the peer to the room, creating the room if absent, and returns the
// members that were already present. Joining a room twice on the same
// connection is a no-op that still returns the other members.
func (r *Registry) Join(room string, p Peer) []Peer {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		members = make(map[uint64]Peer)
		r.rooms[room] = members
		metrics.ActiveRooms.Inc()
	}

	others := make([]Peer, 0, len(members))
	for id, member := range members {
		if id != p.ConnID() {
			others = append(others, member)
		}
	}
	members[p.ConnID()] = p
	return others
}

// Leave removes the connection from the room and reports whether it was a
// member. An emptied room is deleted.
func (r *Registry) Leave(room string, connID uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeLocked(room, connID)
}

// DisconnectCleanup removes the connection from every room it is still in and
// returns the affected room identifiers, so the relay can notify the peers
// left behind. Used when a connection drops without an explicit leave.
func (r *Registry) DisconnectCleanup(connID uint64) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var affected []string
	for room, members := range r.rooms {
		if _, ok := members[connID]; ok {
			affected = append(affected, room)
			r.removeLocked(room, connID)
		}
	}
	return affected
}

// Members returns a snapshot of the room's peers excluding the given
// connection. A zero connID excludes nobody.
func (r *Registry) Members(room string, excludeConnID uint64) []Peer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.rooms[room]
	out := make([]Peer, 0, len(members))
	for id, p := range members {
		if id != excludeConnID {
			out = append(out, p)
		}
	}
	return out
}

// Find returns the room member with the given identity.
func (r *Registry) Find(room string, id domain.Identity) (Peer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.rooms[room] {
		if p.Identity() == id {
			return p, true
		}
	}
	return nil, false
}

// Contains reports whether the connection is currently a member of the room.
func (r *Registry) Contains(room string, connID uint64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rooms[room][connID]
	return ok
}

// RoomCount returns the number of live rooms.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// removeLocked deletes the connection from the room and drops the room when it
// empties. Caller holds the write lock.
func (r *Registry) removeLocked(room string, connID uint64) bool {
	members, ok := r.rooms[room]
	if !ok {
		return false
	}
	if _, ok := members[connID]; !ok {
		return false
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(r.rooms, room)
		metrics.ActiveRooms.Dec()
	}
	return true
}
