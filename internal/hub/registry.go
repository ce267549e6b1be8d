package hub

import (
	"duetsync/backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// Conn is the transport endpoint stored per session. Implementations must
// make TrySend non-blocking (enqueue into a buffered channel and report
// backpressure instead of waiting) since the hub calls it under its lock.
// Owned by the adapter; the adapter must Close() it.
type Conn interface {
	TrySend(data []byte) error
	Close()
}

type sessionEntry struct {
	User *domain.User
	Conn Conn
	Room domain.RoomID
}

// registry maps live connection ids to their session state. Not safe on its
// own; callers hold the hub lock.
type registry struct {
	sessions map[domain.ConnID]*sessionEntry
}

func newRegistry() *registry {
	return &registry{sessions: make(map[domain.ConnID]*sessionEntry)}
}

func (r *registry) bind(user *domain.User, conn Conn) {
	r.sessions[user.ID] = &sessionEntry{User: user, Conn: conn}
	log.Info().Str("module", "hub.registry").Str("conn", string(user.ID)).Str("handle", user.Handle).Msg("bound session")
}

func (r *registry) get(id domain.ConnID) (*sessionEntry, bool) {
	e, ok := r.sessions[id]
	return e, ok
}

// live reports whether a connection id still maps to an open transport.
// This is what makes a member slot "stale" for the reconnection resolver.
func (r *registry) live(id domain.ConnID) bool {
	_, ok := r.sessions[id]
	return ok
}

func (r *registry) unbind(id domain.ConnID) {
	delete(r.sessions, id)
	log.Info().Str("module", "hub.registry").Str("conn", string(id)).Msg("unbound session")
}

func (r *registry) clearRoom(id domain.ConnID) {
	if e, ok := r.sessions[id]; ok {
		e.Room = ""
	}
}

func (r *registry) count() int { return len(r.sessions) }
