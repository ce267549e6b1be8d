// Package domain contains entities without logic, just meta-data.
package domain

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

const MaxHandleLen = 36

var (
	ErrHandleTooLong = errors.New("handle too long")
	ErrHandleEmpty   = errors.New("handle empty")
)

// ConnID identifies one live transport session. A client that drops and
// reconnects gets a fresh ConnID; room membership survives via rebinding.
type ConnID string

type User struct {
	ID          ConnID    `json:"id"`
	Handle      string    `json:"handle"`
	ConnectedAt time.Time `json:"-"`
}

// NewUser is a tiny helper to avoid ad-hoc struct literals in adapters.
// An empty handle gets a generated one.
func NewUser(id ConnID, handle string) (*User, error) {
	if handle == "" {
		handle = RandomHandle()
	}
	if len(handle) > MaxHandleLen {
		return nil, ErrHandleTooLong
	}
	return &User{ID: id, Handle: handle, ConnectedAt: time.Now()}, nil
}

func (u *User) SetHandle(handle string) error {
	if len(handle) == 0 {
		return ErrHandleEmpty
	}
	if len(handle) > MaxHandleLen {
		return ErrHandleTooLong
	}
	u.Handle = handle
	return nil
}

// RandomHandle generates an anonymous display handle.
func RandomHandle() string {
	return fmt.Sprintf("Singer%d", rand.IntN(1000))
}
