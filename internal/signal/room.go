package signal

import (
	"encoding/json"
	"errors"

	"duetsync/backend/internal/domain"
	"duetsync/backend/internal/hub"
	"github.com/rs/zerolog/log"
)

func (ctl *Controller) handleJoinRoom(sid domain.ConnID, conn *wsConn, data []byte) {
	type joinPayload struct {
		Type     string `json:"type"`
		RoomID   string `json:"roomId"`
		Username string `json:"username,omitempty"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if p.RoomID == "" {
		ctl.sendError(conn, "roomId required")
		return
	}
	handle := p.Username
	if len(handle) > domain.MaxHandleLen {
		handle = handle[:domain.MaxHandleLen]
	}

	res, err := ctl.Hub.Join(sid, domain.RoomID(p.RoomID), handle)
	if err != nil {
		if errors.Is(err, hub.ErrRoomNotFound) {
			log.Warn().Str("module", "signal").Str("room", p.RoomID).Msg("join against unknown room")
			ctl.sendError(conn, "Room not found")
			return
		}
		ctl.sendError(conn, "join failed")
		return
	}

	ctl.sendJSON(conn, hub.NewRoomDataEvent(res.Song, res.Partner, res.Messages))
}

func (ctl *Controller) handleLeaveRoom(sid domain.ConnID, conn *wsConn, data []byte) {
	type leavePayload struct {
		Type   string `json:"type"`
		RoomID string `json:"roomId"`
	}
	var p leavePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad leave payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(sid)).Str("room", p.RoomID).Msg("leave-room")
	ctl.Hub.Leave(sid, domain.RoomID(p.RoomID))
}
