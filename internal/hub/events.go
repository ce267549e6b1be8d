package hub

import "duetsync/backend/internal/domain"

// Outbound event envelopes. Every frame on the wire is a JSON object with a
// "type" field; these are the server→client shapes.

type SearchingEvent struct {
	Type        string `json:"type"`
	QueueLength int    `json:"queueLength"`
}

func NewSearchingEvent(queueLength int) SearchingEvent {
	return SearchingEvent{Type: "searching", QueueLength: queueLength}
}

type PartnerFoundEvent struct {
	Type    string        `json:"type"`
	RoomID  domain.RoomID `json:"roomId"`
	Song    *domain.Song  `json:"song"`
	Partner string        `json:"partner"`
}

func NewPartnerFoundEvent(roomID domain.RoomID, song *domain.Song, partner string) PartnerFoundEvent {
	return PartnerFoundEvent{Type: "partner-found", RoomID: roomID, Song: song, Partner: partner}
}

// RoomDataEvent is the snapshot returned to a joining connection.
// Partner is null when the other slot is empty.
type RoomDataEvent struct {
	Type     string               `json:"type"`
	Song     *domain.Song         `json:"song"`
	Partner  *string              `json:"partner"`
	Messages []domain.ChatMessage `json:"messages"`
}

func NewRoomDataEvent(song *domain.Song, partner string, messages []domain.ChatMessage) RoomDataEvent {
	ev := RoomDataEvent{Type: "room-data", Song: song, Messages: messages}
	if partner != "" {
		ev.Partner = &partner
	}
	return ev
}

type PartnerJoinedEvent struct {
	Type    string `json:"type"`
	Partner string `json:"partner"`
}

func NewPartnerJoinedEvent(partner string) PartnerJoinedEvent {
	return PartnerJoinedEvent{Type: "partner-joined", Partner: partner}
}

type PartnerLeftEvent struct {
	Type string `json:"type"`
}

func NewPartnerLeftEvent() PartnerLeftEvent {
	return PartnerLeftEvent{Type: "partner-left"}
}

// SyncPlayerEvent relays a playback control action. Time is a playback offset
// in seconds; omitted for pause.
type SyncPlayerEvent struct {
	Type   string   `json:"type"`
	Action string   `json:"action"`
	Time   *float64 `json:"time,omitempty"`
}

func NewSyncPlayerEvent(action string, time *float64) SyncPlayerEvent {
	return SyncPlayerEvent{Type: "sync-player", Action: action, Time: time}
}

type ChatMessageEvent struct {
	Type string `json:"type"`
	domain.ChatMessage
}

func NewChatMessageEvent(msg domain.ChatMessage) ChatMessageEvent {
	return ChatMessageEvent{Type: "chat-message", ChatMessage: msg}
}

type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewErrorEvent(message string) ErrorEvent {
	return ErrorEvent{Type: "error", Message: message}
}
