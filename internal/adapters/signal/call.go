package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/partyline/partyline/internal/app"
	"github.com/partyline/partyline/internal/domain"
)

func (ctl *SignalWSController) handleJoinVideo(
	sess *app.Session,
	conn *wsConn,
	data []byte,
) {
	type videoPayload struct {
		Type       string `json:"type"`
		ChannelKey string `json:"channel_key"`
	}
	var p videoPayload
	if err := json.Unmarshal(data, &p); err != nil || p.ChannelKey == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad join-video payload")
		ctl.sendError(conn, "bad payload")
		return
	}
	sess.JoinVideo(p.ChannelKey)
}

func (ctl *SignalWSController) handleCallUser(
	sess *app.Session,
	conn *wsConn,
	data []byte,
) {
	type callPayload struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
		To      string          `json:"to"`
	}
	var p callPayload
	if err := json.Unmarshal(data, &p); err != nil || p.To == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad call payload")
		ctl.sendError(conn, "bad payload")
		return
	}
	sess.CallUser(p.Payload, domain.ConnectionID(p.To))
}

func (ctl *SignalWSController) handleAnswerCall(
	sess *app.Session,
	conn *wsConn,
	data []byte,
) {
	type answerPayload struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
		To      string          `json:"to"`
	}
	var p answerPayload
	if err := json.Unmarshal(data, &p); err != nil || p.To == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad answer payload")
		ctl.sendError(conn, "bad payload")
		return
	}
	sess.AnswerCall(p.Payload, domain.ConnectionID(p.To))
}

func (ctl *SignalWSController) handleSendMessage(
	sess *app.Session,
	conn *wsConn,
	data []byte,
) {
	type messagePayload struct {
		Type       string         `json:"type"`
		Message    string         `json:"message"`
		User       domain.Profile `json:"user"`
		ChannelKey string         `json:"channel_key"`
	}
	var p messagePayload
	if err := json.Unmarshal(data, &p); err != nil || p.ChannelKey == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad message payload")
		ctl.sendError(conn, "bad payload")
		return
	}
	sess.SendMessage(p.Message, p.User, p.ChannelKey)
}
