package signal

import (
	"duetsync/backend/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *Controller) handleFindPartner(sid domain.ConnID) {
	log.Info().Str("module", "signal").Str("conn", string(sid)).Msg("find-partner")
	ctl.Hub.FindPartner(sid)
}

func (ctl *Controller) handleCancelSearch(sid domain.ConnID) {
	log.Info().Str("module", "signal").Str("conn", string(sid)).Msg("cancel-search")
	ctl.Hub.CancelSearch(sid)
}
