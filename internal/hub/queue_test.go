package hub

import (
	"testing"

	"duetsync/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queueUser(id string) *domain.User {
	u, _ := domain.NewUser(domain.ConnID(id), "")
	return u
}

func TestMatchQueueFIFO(t *testing.T) {
	q := &matchQueue{}
	assert.True(t, q.enqueue(queueUser("a")))
	assert.True(t, q.enqueue(queueUser("b")))
	assert.True(t, q.enqueue(queueUser("c")))

	a, b, ok := q.popPair()
	require.True(t, ok)
	assert.Equal(t, domain.ConnID("a"), a.User.ID, "pairing favors the longest waiting")
	assert.Equal(t, domain.ConnID("b"), b.User.ID)
	assert.Equal(t, 1, q.len())

	_, _, ok = q.popPair()
	assert.False(t, ok, "a single entry must not pair with itself")
}

func TestMatchQueueRejectsDuplicates(t *testing.T) {
	q := &matchQueue{}
	u := queueUser("a")
	assert.True(t, q.enqueue(u))
	assert.False(t, q.enqueue(u))
	assert.Equal(t, 1, q.len())
}

func TestMatchQueueCancel(t *testing.T) {
	q := &matchQueue{}
	q.enqueue(queueUser("a"))
	q.enqueue(queueUser("b"))
	q.enqueue(queueUser("c"))

	assert.True(t, q.cancel("b"))
	assert.Equal(t, 2, q.len())

	// Idempotent: cancelling an absent entry is a no-op.
	assert.False(t, q.cancel("b"))
	assert.False(t, q.cancel("nope"))
	assert.Equal(t, 2, q.len())

	a, b, ok := q.popPair()
	require.True(t, ok)
	assert.Equal(t, domain.ConnID("a"), a.User.ID)
	assert.Equal(t, domain.ConnID("c"), b.User.ID)
}
