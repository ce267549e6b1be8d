package signal

import (
	"encoding/json"
	"errors"

	"duetsync/backend/internal/domain"
	"duetsync/backend/internal/hub"
	"github.com/rs/zerolog/log"
)

func (ctl *Controller) handleSyncPlayer(sid domain.ConnID, conn *wsConn, data []byte) {
	type syncPayload struct {
		Type   string   `json:"type"`
		RoomID string   `json:"roomId"`
		Action string   `json:"action"`
		Time   *float64 `json:"time,omitempty"`
	}
	var p syncPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad sync payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	switch p.Action {
	case "play", "pause":
	case "seek":
		if p.Time == nil {
			ctl.sendError(conn, "time required for seek")
			return
		}
	default:
		ctl.sendError(conn, "unknown action")
		return
	}
	if p.Action == "pause" {
		p.Time = nil
	}

	if err := ctl.Hub.RelayControl(sid, domain.RoomID(p.RoomID), p.Action, p.Time); err != nil {
		if errors.Is(err, hub.ErrRoomNotFound) {
			ctl.sendError(conn, "Room not found")
		}
		return
	}
}

func (ctl *Controller) handleChatMessage(sid domain.ConnID, conn *wsConn, data []byte) {
	type chatPayload struct {
		Type      string `json:"type"`
		RoomID    string `json:"roomId"`
		Username  string `json:"username,omitempty"`
		Text      string `json:"text"`
		Timestamp int64  `json:"timestamp,omitempty"`
	}
	var p chatPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad chat payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if p.Text == "" {
		ctl.sendError(conn, "text required")
		return
	}

	if _, err := ctl.Hub.RelayChat(sid, domain.RoomID(p.RoomID), p.Username, p.Text, p.Timestamp); err != nil {
		if errors.Is(err, hub.ErrRoomNotFound) {
			ctl.sendError(conn, "Room not found")
		}
		return
	}
}
