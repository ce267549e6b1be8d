// Package hub owns the server's shared realtime state: the match queue, the
// room table, and the connection registry. Every operation runs to completion
// under one mutex, so handlers never interleave mid-execution; the only work
// done under the lock is state mutation and non-blocking sends.
package hub

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"duetsync/backend/internal/domain"
	"github.com/rs/zerolog/log"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrUnknownConn  = errors.New("unknown connection")
)

// SongPicker supplies the content assigned to new rooms.
type SongPicker interface {
	Random() *domain.Song
}

// Options carry the room lifecycle timers. Zero values fall back to the
// reference durations.
type Options struct {
	CreationGrace     time.Duration
	EmptyRoomGrace    time.Duration
	IdleSweepInterval time.Duration
	IdleRoomMaxAge    time.Duration
}

func DefaultOptions() Options {
	return Options{
		CreationGrace:     30 * time.Second,
		EmptyRoomGrace:    10 * time.Second,
		IdleSweepInterval: 5 * time.Minute,
		IdleRoomMaxAge:    time.Hour,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.CreationGrace == 0 {
		o.CreationGrace = def.CreationGrace
	}
	if o.EmptyRoomGrace == 0 {
		o.EmptyRoomGrace = def.EmptyRoomGrace
	}
	if o.IdleSweepInterval == 0 {
		o.IdleSweepInterval = def.IdleSweepInterval
	}
	if o.IdleRoomMaxAge == 0 {
		o.IdleRoomMaxAge = def.IdleRoomMaxAge
	}
	return o
}

type Hub struct {
	mu       sync.Mutex
	songs    SongPicker
	opts     Options
	queue    *matchQueue
	rooms    *roomTable
	registry *registry
}

func New(songs SongPicker, opts Options) *Hub {
	return &Hub{
		songs:    songs,
		opts:     opts.withDefaults(),
		queue:    &matchQueue{},
		rooms:    newRoomTable(),
		registry: newRegistry(),
	}
}

// Run drives the idle sweep until ctx is canceled.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.opts.IdleSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.mu.Lock()
			h.rooms.sweep(h.opts.IdleRoomMaxAge)
			h.mu.Unlock()
		}
	}
}

// Connect registers a fresh transport session and returns its user record
// with a generated display handle.
func (h *Hub) Connect(id domain.ConnID, conn Conn) *domain.User {
	user, _ := domain.NewUser(id, "")
	h.mu.Lock()
	h.registry.bind(user, conn)
	h.mu.Unlock()
	return user
}

// Disconnect handles a transport close: drop any queue entry, unbind the
// session, and leave the room unless it is still in its creation grace —
// during that window the drop is treated as a transient reload and the member
// slot is kept for the reconnection resolver.
func (h *Hub) Disconnect(id domain.ConnID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.queue.cancel(id) {
		h.notifySearchingLocked()
	}

	e, ok := h.registry.get(id)
	if !ok {
		return
	}
	roomID := e.Room
	h.registry.unbind(id)
	if roomID == "" {
		return
	}
	room, ok := h.rooms.get(roomID)
	if !ok {
		return
	}
	room.unsubscribe(id)
	if room.grace {
		log.Info().Str("module", "hub").Str("conn", string(id)).Str("room", string(roomID)).
			Msg("disconnect during creation grace, keeping membership")
		return
	}
	h.leaveLocked(id, roomID)
}

// FindPartner enqueues the caller and pairs off the two oldest entries while
// the queue holds at least two. Everyone still queued afterwards gets the new
// queue length.
func (h *Hub) FindPartner(id domain.ConnID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	e, ok := h.registry.get(id)
	if !ok {
		return
	}
	if h.queue.enqueue(e.User) {
		log.Info().Str("module", "hub").Str("conn", string(id)).Int("queue", h.queue.len()).Msg("joined matching queue")
	}
	for {
		a, b, ok := h.queue.popPair()
		if !ok {
			break
		}
		h.createRoomLocked(a.User, b.User)
	}
	h.notifySearchingLocked()
}

// CancelSearch removes the caller from the queue; calling it while not
// queued has no observable effect.
func (h *Hub) CancelSearch(id domain.ConnID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.queue.cancel(id) {
		log.Info().Str("module", "hub").Str("conn", string(id)).Int("queue", h.queue.len()).Msg("left matching queue")
		h.notifySearchingLocked()
	}
}

func (h *Hub) createRoomLocked(u1, u2 *domain.User) {
	room := h.rooms.create(h.songs.Random())
	room.addMember(domain.NewMember(u1))
	room.addMember(domain.NewMember(u2))

	for _, u := range []*domain.User{u1, u2} {
		if e, ok := h.registry.get(u.ID); ok {
			e.Room = room.ID
			room.subscribe(u.ID, e.Conn)
		}
	}
	h.scheduleGraceLocked(room)

	if e, ok := h.registry.get(u1.ID); ok {
		h.send(e.Conn, NewPartnerFoundEvent(room.ID, room.Song, u2.Handle))
	}
	if e, ok := h.registry.get(u2.ID); ok {
		h.send(e.Conn, NewPartnerFoundEvent(room.ID, room.Song, u1.Handle))
	}
	log.Info().Str("module", "hub").Str("room", string(room.ID)).Str("song", room.Song.ID).
		Str("a", u1.Handle).Str("b", u2.Handle).Msg("room created")
}

func (h *Hub) scheduleGraceLocked(room *Room) {
	roomID := room.ID
	room.graceTimer = time.AfterFunc(h.opts.CreationGrace, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if r, ok := h.rooms.get(roomID); ok && r.grace {
			r.grace = false
			log.Debug().Str("module", "hub").Str("room", string(roomID)).Msg("creation grace cleared by timer")
		}
	})
}

// JoinResolution tags the four-way membership decision in Join.
type JoinResolution int

const (
	// JoinRejoin: a member slot already references this exact connection.
	JoinRejoin JoinResolution = iota
	// JoinReconnect: a stale slot was rebound to this connection.
	JoinReconnect
	// JoinNewMember: a free slot was filled (second pairing notification
	// racing the first join).
	JoinNewMember
	// JoinOverflow: room full and unmatched; accepted for relay purposes
	// only, no slot created.
	JoinOverflow
)

func (r JoinResolution) String() string {
	switch r {
	case JoinRejoin:
		return "rejoin"
	case JoinReconnect:
		return "reconnect"
	case JoinNewMember:
		return "new-member"
	case JoinOverflow:
		return "overflow"
	}
	return "unknown"
}

type JoinResult struct {
	Song       *domain.Song
	Partner    string // empty when the other slot is vacant
	Messages   []domain.ChatMessage
	Resolution JoinResolution
}

// Join resolves room membership for a connection and subscribes its transport
// to the room's broadcast group. A live partner is notified of the join, and
// the creation grace clears early once both slots are backed by open
// transports.
func (h *Hub) Join(id domain.ConnID, roomID domain.RoomID, handle string) (*JoinResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	e, ok := h.registry.get(id)
	if !ok {
		return nil, ErrUnknownConn
	}
	room, ok := h.rooms.get(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}

	res := JoinResult{Song: room.Song}
	var member *domain.Member
	switch {
	case room.memberByConn(id) != nil:
		member = room.memberByConn(id)
		res.Resolution = JoinRejoin
	case room.staleMember(h.registry) != nil:
		member = room.staleMember(h.registry)
		old := member.Conn
		member.Conn = id
		res.Resolution = JoinReconnect
		log.Info().Str("module", "hub").Str("room", string(roomID)).Str("handle", member.Handle).
			Str("old_conn", string(old)).Str("new_conn", string(id)).Msg("rebound stale member")
	case room.memberCount() < 2:
		member = domain.NewMember(e.User)
		room.addMember(member)
		res.Resolution = JoinNewMember
	default:
		res.Resolution = JoinOverflow
		log.Warn().Str("module", "hub").Str("room", string(roomID)).Str("conn", string(id)).
			Msg("room full and unmatched, accepting without a member slot")
	}

	if member != nil {
		if handle != "" {
			member.Handle = handle
		}
		_ = e.User.SetHandle(member.Handle)
	}

	room.subscribe(id, e.Conn)
	e.Room = roomID

	partner := room.partnerOf(id)
	if partner != nil {
		res.Partner = partner.Handle
	}
	res.Messages = room.chatSnapshot()

	if partner != nil {
		if res.Resolution == JoinReconnect || res.Resolution == JoinNewMember {
			room.appendChat(domain.NewSystemMessage(member.Handle + " joined the room"))
		}
		if pe, ok := h.registry.get(partner.Conn); ok {
			joined := handle
			if joined == "" && member != nil {
				joined = member.Handle
			}
			if joined == "" {
				joined = e.User.Handle
			}
			h.send(pe.Conn, NewPartnerJoinedEvent(joined))
		}
	}

	if room.grace && room.allMembersLive(h.registry) {
		room.grace = false
		if room.graceTimer != nil {
			room.graceTimer.Stop()
		}
		log.Info().Str("module", "hub").Str("room", string(roomID)).Msg("both members connected, creation grace cleared")
	}

	log.Info().Str("module", "hub").Str("room", string(roomID)).Str("conn", string(id)).
		Stringer("resolution", res.Resolution).Msg("joined room")
	return &res, nil
}

// Leave is the explicit departure path; unknown rooms and non-members are
// no-ops.
func (h *Hub) Leave(id domain.ConnID, roomID domain.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(id, roomID)
}

func (h *Hub) leaveLocked(id domain.ConnID, roomID domain.RoomID) {
	room, ok := h.rooms.get(roomID)
	if !ok {
		return
	}
	member := room.memberByConn(id)
	if member == nil {
		return
	}
	room.removeMember(id)
	room.unsubscribe(id)
	h.registry.clearRoom(id)

	if room.memberCount() > 0 {
		room.appendChat(domain.NewSystemMessage(member.Handle + " left the room"))
		for _, m := range room.members {
			if pe, ok := h.registry.get(m.Conn); ok {
				h.send(pe.Conn, NewPartnerLeftEvent())
			}
		}
	} else {
		h.scheduleDeleteLocked(room)
	}
	log.Info().Str("module", "hub").Str("conn", string(id)).Str("room", string(roomID)).Msg("left room")
}

// scheduleDeleteLocked arms the empty-room timer. The callback re-validates:
// a member who reconnected, or a live transport still subscribed to the
// broadcast group, keeps the room alive.
func (h *Hub) scheduleDeleteLocked(room *Room) {
	roomID := room.ID
	room.deleteTimer = time.AfterFunc(h.opts.EmptyRoomGrace, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		r, ok := h.rooms.get(roomID)
		if !ok {
			return
		}
		if r.memberCount() == 0 && r.subscriberCount() == 0 {
			h.rooms.delete(roomID)
			log.Info().Str("module", "hub").Str("room", string(roomID)).Msg("room deleted, empty after grace period")
		} else {
			log.Info().Str("module", "hub").Str("room", string(roomID)).
				Int("subscribers", r.subscriberCount()).Msg("room kept alive")
		}
	})
}

// RelayControl fans a playback control event out to every other subscribed
// transport; the sender is never echoed.
func (h *Hub) RelayControl(id domain.ConnID, roomID domain.RoomID, action string, offset *float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms.get(roomID)
	if !ok {
		return ErrRoomNotFound
	}
	h.broadcastLocked(room, id, NewSyncPlayerEvent(action, offset))
	log.Debug().Str("module", "hub").Str("room", string(roomID)).Str("action", action).Msg("player sync relayed")
	return nil
}

// RelayChat appends the message to the room log and delivers it to every
// subscribed transport, sender included, so both clients render through the
// same path.
func (h *Hub) RelayChat(id domain.ConnID, roomID domain.RoomID, handle, text string, ts int64) (domain.ChatMessage, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms.get(roomID)
	if !ok {
		return domain.ChatMessage{}, ErrRoomNotFound
	}
	if handle == "" {
		if e, ok := h.registry.get(id); ok {
			handle = e.User.Handle
		}
	}
	msg := domain.NewChatMessage(handle, text, ts)
	room.appendChat(msg)
	h.broadcastLocked(room, "", NewChatMessageEvent(msg))
	return msg, nil
}

type Stats struct {
	ActiveRooms    int `json:"activeRooms"`
	UsersInQueue   int `json:"usersInQueue"`
	ConnectedUsers int `json:"connectedUsers"`
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{
		ActiveRooms:    h.rooms.count(),
		UsersInQueue:   h.queue.len(),
		ConnectedUsers: h.registry.count(),
	}
}

func (h *Hub) notifySearchingLocked() {
	n := h.queue.len()
	for _, u := range h.queue.users() {
		if e, ok := h.registry.get(u.ID); ok {
			h.send(e.Conn, NewSearchingEvent(n))
		}
	}
}

// broadcastLocked marshals once and fans out. An empty except delivers to
// everyone, including the sender.
func (h *Hub) broadcastLocked(room *Room, except domain.ConnID, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "hub").Msg("broadcast marshal")
		return
	}
	for cid, conn := range room.subscribers {
		if except != "" && cid == except {
			continue
		}
		_ = conn.TrySend(data)
	}
}

func (h *Hub) send(conn Conn, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "hub").Msg("send marshal")
		return
	}
	_ = conn.TrySend(data)
}
