package signal

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/partyline/partyline/internal/app"
	"github.com/partyline/partyline/internal/domain"
)

// handleJoinRoom runs the join on its own goroutine: the gate may hold
// the intent for the full auth delay, and the read loop must stay free
// so a disconnect during pending-auth is still observed.
func (ctl *SignalWSController) handleJoinRoom(
	ctx context.Context,
	sess *app.Session,
	conn *wsConn,
	data []byte,
) {
	type joinPayload struct {
		Type       string         `json:"type"`
		Room       string         `json:"room"`
		User       domain.Profile `json:"user"`
		CreatorKey string         `json:"creator_key"`
		Password   string         `json:"password"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(conn, "bad payload")
		return
	}
	if p.Room == "" || p.User.Name == "" {
		ctl.sendError(conn, "room and user name are required")
		return
	}

	go func() {
		if err := sess.JoinRoom(ctx, p.Room, p.User, p.CreatorKey, p.Password); err != nil {
			log.Info().Err(err).Str("module", "signal").Str("room", p.Room).Msg("join rejected")
		}
	}()
}

func (ctl *SignalWSController) handleSettingChange(
	sess *app.Session,
	conn *wsConn,
	data []byte,
) {
	type settingPayload struct {
		Type string         `json:"type"`
		User domain.Profile `json:"user"`
	}
	var p settingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad setting payload")
		ctl.sendError(conn, "bad payload")
		return
	}
	if p.User.Name == "" {
		ctl.sendError(conn, "user name is required")
		return
	}
	_ = sess.ChangeSetting(p.User)
}
