package registry_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshrajsoni/campusconnect/internal/domain"
	"github.com/harshrajsoni/campusconnect/internal/registry"
)

type fakePeer struct {
	id       uint64
	identity domain.Identity
}

func (p *fakePeer) ConnID() uint64            { return p.id }
func (p *fakePeer) Identity() domain.Identity { return p.identity }
func (p *fakePeer) Send([]byte) bool          { return true }

func newFakePeer(id uint64, userID uint, role domain.Role) *fakePeer {
	return &fakePeer{id: id, identity: domain.Identity{ID: userID, Role: role}}
}

func TestRegistry_JoinReturnsExistingMembers(t *testing.T) {
	reg := registry.New()
	p1 := newFakePeer(1, 10, domain.RoleStudent)
	p2 := newFakePeer(2, 7, domain.RoleRecruiter)

	others := reg.Join("room-a", p1)
	assert.Empty(t, others, "first joiner sees an empty room")

	others = reg.Join("room-a", p2)
	require.Len(t, others, 1)
	assert.Equal(t, p1.Identity(), others[0].Identity())
}

func TestRegistry_JoinTwiceIsNoop(t *testing.T) {
	reg := registry.New()
	p1 := newFakePeer(1, 10, domain.RoleStudent)
	p2 := newFakePeer(2, 7, domain.RoleRecruiter)

	reg.Join("room-a", p1)
	reg.Join("room-a", p2)
	others := reg.Join("room-a", p1)

	require.Len(t, others, 1, "re-join still reports only the other member")
	assert.Len(t, reg.Members("room-a", 0), 2)
}

func TestRegistry_LastLeaveDeletesRoom(t *testing.T) {
	reg := registry.New()
	p1 := newFakePeer(1, 10, domain.RoleStudent)
	p2 := newFakePeer(2, 7, domain.RoleRecruiter)

	reg.Join("room-a", p1)
	reg.Join("room-a", p2)
	require.Equal(t, 1, reg.RoomCount())

	assert.True(t, reg.Leave("room-a", p1.ConnID()))
	assert.Equal(t, 1, reg.RoomCount(), "room survives while a member remains")

	assert.True(t, reg.Leave("room-a", p2.ConnID()))
	assert.Equal(t, 0, reg.RoomCount(), "emptied room is deleted")

	// Leaving a gone room is harmless.
	assert.False(t, reg.Leave("room-a", p2.ConnID()))
}

func TestRegistry_DisconnectCleanup(t *testing.T) {
	reg := registry.New()
	p := newFakePeer(1, 10, domain.RoleStudent)
	other := newFakePeer(2, 7, domain.RoleRecruiter)

	reg.Join("room-a", p)
	reg.Join("room-b", p)
	reg.Join("room-b", other)

	affected := reg.DisconnectCleanup(p.ConnID())

	assert.ElementsMatch(t, []string{"room-a", "room-b"}, affected)
	assert.Equal(t, 1, reg.RoomCount(), "room-a is gone, room-b survives with the other peer")
	assert.False(t, reg.Contains("room-b", p.ConnID()))
	assert.True(t, reg.Contains("room-b", other.ConnID()))
}

func TestRegistry_Find(t *testing.T) {
	reg := registry.New()
	p := newFakePeer(1, 10, domain.RoleStudent)
	reg.Join("room-a", p)

	found, ok := reg.Find("room-a", domain.Identity{ID: 10, Role: domain.RoleStudent})
	require.True(t, ok)
	assert.Equal(t, p.ConnID(), found.ConnID())

	// Same id under another role is a different identity.
	_, ok = reg.Find("room-a", domain.Identity{ID: 10, Role: domain.RoleRecruiter})
	assert.False(t, ok)

	_, ok = reg.Find("no-such-room", domain.Identity{ID: 10, Role: domain.RoleStudent})
	assert.False(t, ok)
}

func TestRegistry_ConcurrentJoinLeave(t *testing.T) {
	reg := registry.New()
	const peers = 50

	var wg sync.WaitGroup
	for i := 0; i < peers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := newFakePeer(uint64(i+1), uint(i+1), domain.RoleStudent)
			room := fmt.Sprintf("room-%d", i%5)
			reg.Join(room, p)
			reg.Leave(room, p.ConnID())
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, reg.RoomCount(), "every room must be empty and deleted after all peers left")
}
