package hub

import (
	"regexp"
	"testing"
	"time"

	"duetsync/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoomIDShape(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-z0-9]{8}$`)
	seen := map[string]bool{}
	for range 50 {
		id := string(newRoomID())
		assert.Regexp(t, pattern, id)
		seen[id] = true
	}
	assert.Greater(t, len(seen), 1, "ids should not collide trivially")
}

func TestRoomTableCreateAndDelete(t *testing.T) {
	table := newRoomTable()
	room := table.create(testSong())
	require.NotNil(t, room)
	assert.True(t, room.grace, "rooms start in creation grace")

	got, ok := table.get(room.ID)
	require.True(t, ok)
	assert.Same(t, room, got)

	table.delete(room.ID)
	_, ok = table.get(room.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, table.count())
}

func TestSweepDeletesOnlyOldEmptyRooms(t *testing.T) {
	table := newRoomTable()

	old := table.create(testSong())
	old.CreatedAt = time.Now().Add(-2 * time.Hour)

	occupied := table.create(testSong())
	occupied.CreatedAt = time.Now().Add(-2 * time.Hour)
	occupied.addMember(domain.NewMember(queueUser("conn-a")))

	fresh := table.create(testSong())

	deleted := table.sweep(time.Hour)
	assert.Equal(t, 1, deleted)

	_, ok := table.get(old.ID)
	assert.False(t, ok, "old empty room is swept")
	_, ok = table.get(occupied.ID)
	assert.True(t, ok, "rooms with members are never swept")
	_, ok = table.get(fresh.ID)
	assert.True(t, ok, "young rooms are kept")
}
