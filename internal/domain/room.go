package domain

import "time"

type RoomID string

type Room struct {
	ID        RoomID
	Song      *Song
	CreatedAt time.Time
}
