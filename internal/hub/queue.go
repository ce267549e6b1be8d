package hub

import (
	"time"

	"duetsync/backend/internal/domain"
)

type queueEntry struct {
	User       *domain.User
	EnqueuedAt time.Time
}

// matchQueue is the strict-FIFO waiting list of connections seeking a
// partner. A connection appears at most once. Not safe on its own; callers
// hold the hub lock.
type matchQueue struct {
	entries []queueEntry
}

// enqueue appends to the tail. Returns false if the connection is already
// queued.
func (q *matchQueue) enqueue(user *domain.User) bool {
	for _, e := range q.entries {
		if e.User.ID == user.ID {
			return false
		}
	}
	q.entries = append(q.entries, queueEntry{User: user, EnqueuedAt: time.Now()})
	return true
}

// cancel removes a matching entry if present. Returns false when the
// connection was not queued, which is a valid no-op.
func (q *matchQueue) cancel(id domain.ConnID) bool {
	for i, e := range q.entries {
		if e.User.ID == id {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}

// popPair removes the two oldest entries as a single atomic step.
func (q *matchQueue) popPair() (a, b queueEntry, ok bool) {
	if len(q.entries) < 2 {
		return queueEntry{}, queueEntry{}, false
	}
	a, b = q.entries[0], q.entries[1]
	q.entries = q.entries[2:]
	return a, b, true
}

func (q *matchQueue) len() int { return len(q.entries) }

// users snapshots the queued users, oldest first.
func (q *matchQueue) users() []*domain.User {
	out := make([]*domain.User, 0, len(q.entries))
	for _, e := range q.entries {
		out = append(out, e.User)
	}
	return out
}
