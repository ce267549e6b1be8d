package domain

import "time"

// MaxChatLen bounds a single chat message, in runes.
const MaxChatLen = 500

// ChatMessage is immutable once appended to a room's log.
// The system variant has no sender handle; clients render it distinctly.
type ChatMessage struct {
	Handle    string `json:"username,omitempty"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
	System    bool   `json:"system,omitempty"`
}

// NewChatMessage builds a user message. A zero timestamp is replaced with the
// server clock; oversized text is truncated rather than rejected.
func NewChatMessage(handle, text string, ts int64) ChatMessage {
	if ts == 0 {
		ts = time.Now().UnixMilli()
	}
	if r := []rune(text); len(r) > MaxChatLen {
		text = string(r[:MaxChatLen])
	}
	return ChatMessage{Handle: handle, Text: text, Timestamp: ts}
}

// NewSystemMessage builds a join/leave notice.
func NewSystemMessage(text string) ChatMessage {
	return ChatMessage{Text: text, Timestamp: time.Now().UnixMilli(), System: true}
}
