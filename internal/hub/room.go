package hub

import (
	"time"

	"duetsync/backend/internal/domain"
)

// Room is one paired session: up to two member slots, the chat log, and the
// broadcast group of subscribed transports. Mutated only under the hub lock.
type Room struct {
	ID        domain.RoomID
	Song      *domain.Song
	CreatedAt time.Time

	// grace suppresses teardown and leave notifications right after
	// creation, absorbing the reload that follows partner-found routing.
	grace bool

	members     []*domain.Member
	chat        []domain.ChatMessage
	subscribers map[domain.ConnID]Conn

	graceTimer  *time.Timer
	deleteTimer *time.Timer
}

func newRoom(id domain.RoomID, song *domain.Song) *Room {
	return &Room{
		ID:          id,
		Song:        song,
		CreatedAt:   time.Now(),
		grace:       true,
		subscribers: make(map[domain.ConnID]Conn),
	}
}

func (r *Room) memberByConn(id domain.ConnID) *domain.Member {
	for _, m := range r.members {
		if m.Conn == id {
			return m
		}
	}
	return nil
}

// partnerOf returns the first member not backed by the given connection.
func (r *Room) partnerOf(id domain.ConnID) *domain.Member {
	for _, m := range r.members {
		if m.Conn != id {
			return m
		}
	}
	return nil
}

// staleMember returns the first member whose connection is no longer live,
// in slot order. When both slots are stale, racing joins claim them one at a
// time in that order.
func (r *Room) staleMember(reg *registry) *domain.Member {
	for _, m := range r.members {
		if !reg.live(m.Conn) {
			return m
		}
	}
	return nil
}

func (r *Room) addMember(m *domain.Member) {
	r.members = append(r.members, m)
}

func (r *Room) removeMember(id domain.ConnID) bool {
	for i, m := range r.members {
		if m.Conn == id {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Room) memberCount() int { return len(r.members) }

// allMembersLive reports whether both slots exist and are backed by open
// transports; this is when the creation grace can clear early.
func (r *Room) allMembersLive(reg *registry) bool {
	if len(r.members) < 2 {
		return false
	}
	for _, m := range r.members {
		if !reg.live(m.Conn) {
			return false
		}
	}
	return true
}

func (r *Room) appendChat(msg domain.ChatMessage) {
	r.chat = append(r.chat, msg)
}

// chatSnapshot copies the log so callers can release the hub lock before
// marshaling.
func (r *Room) chatSnapshot() []domain.ChatMessage {
	out := make([]domain.ChatMessage, len(r.chat))
	copy(out, r.chat)
	return out
}

func (r *Room) subscribe(id domain.ConnID, conn Conn) {
	r.subscribers[id] = conn
}

func (r *Room) unsubscribe(id domain.ConnID) {
	delete(r.subscribers, id)
}

func (r *Room) subscriberCount() int { return len(r.subscribers) }

func (r *Room) stopTimers() {
	if r.graceTimer != nil {
		r.graceTimer.Stop()
	}
	if r.deleteTimer != nil {
		r.deleteTimer.Stop()
	}
}
