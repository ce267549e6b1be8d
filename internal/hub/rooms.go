package hub

import (
	"math/rand/v2"
	"time"

	"duetsync/backend/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	roomIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	roomIDLen      = 8
)

// roomTable owns the live rooms, keyed by their short code. Not safe on its
// own; callers hold the hub lock.
type roomTable struct {
	rooms map[domain.RoomID]*Room
}

func newRoomTable() *roomTable {
	return &roomTable{rooms: make(map[domain.RoomID]*Room)}
}

// create registers a new room under a fresh code, re-rolling on the unlikely
// collision.
func (t *roomTable) create(song *domain.Song) *Room {
	var id domain.RoomID
	for {
		id = newRoomID()
		if _, exists := t.rooms[id]; !exists {
			break
		}
	}
	room := newRoom(id, song)
	t.rooms[id] = room
	return room
}

func (t *roomTable) get(id domain.RoomID) (*Room, bool) {
	room, ok := t.rooms[id]
	return room, ok
}

func (t *roomTable) delete(id domain.RoomID) {
	if room, ok := t.rooms[id]; ok {
		room.stopTimers()
		delete(t.rooms, id)
	}
}

func (t *roomTable) count() int { return len(t.rooms) }

// sweep deletes rooms that have sat empty past maxAge, independent of the
// short per-room grace timers.
func (t *roomTable) sweep(maxAge time.Duration) int {
	now := time.Now()
	deleted := 0
	for id, room := range t.rooms {
		if room.memberCount() == 0 && now.Sub(room.CreatedAt) > maxAge {
			t.delete(id)
			deleted++
			log.Info().Str("module", "hub.rooms").Str("room", string(id)).Msg("idle sweep deleted room")
		}
	}
	return deleted
}

func newRoomID() domain.RoomID {
	buf := make([]byte, roomIDLen)
	for i := range buf {
		buf[i] = roomIDAlphabet[rand.IntN(len(roomIDAlphabet))]
	}
	return domain.RoomID(buf)
}
