package domain

// Member is a room's record of a participant, independent of which live
// connection currently backs it. Conn may go stale between a transport drop
// and the rebind that follows a reconnect.
type Member struct {
	Handle string
	Conn   ConnID
}

// NewMember avoids raw literals in adapters and keeps construction obvious.
func NewMember(user *User) *Member {
	return &Member{Handle: user.Handle, Conn: user.ID}
}
