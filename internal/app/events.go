package app

import (
	"encoding/json"

	"github.com/partyline/partyline/internal/domain"
)

// The event catalogue is a closed set of tagged variants. Every wire
// event the relay can emit has a fixed shape here; nothing else goes out.

type SecretKeyEvent struct {
	Type       string `json:"type"`
	ChannelKey string `json:"channel_key"`
}

type UserJoinedEvent struct {
	Type string         `json:"type"`
	User domain.Profile `json:"user"`
}

type UserDisconnectedEvent struct {
	Type   string              `json:"type"`
	User   domain.Profile      `json:"user"`
	ConnID domain.ConnectionID `json:"conn_id"`
}

type UserSettingChangedEvent struct {
	Type     string         `json:"type"`
	Previous domain.Profile `json:"previous"`
	Current  domain.Profile `json:"current"`
}

type UserVideoJoinedEvent struct {
	Type   string              `json:"type"`
	ConnID domain.ConnectionID `json:"conn_id"`
}

type CallReceivedEvent struct {
	Type    string              `json:"type"`
	Payload json.RawMessage     `json:"payload"`
	From    domain.ConnectionID `json:"from"`
}

type AnsweredCallEvent struct {
	Type    string              `json:"type"`
	Payload json.RawMessage     `json:"payload"`
	From    domain.ConnectionID `json:"from"`
}

type MessageEvent struct {
	Type    string         `json:"type"`
	Message string         `json:"message"`
	User    domain.Profile `json:"user"`
}

type ServerErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type PasswordRequiredEvent struct {
	Type string `json:"type"`
}

type WrongPasswordEvent struct {
	Type string `json:"type"`
}

func secretKey(channelKey string) SecretKeyEvent {
	return SecretKeyEvent{Type: "secret-key", ChannelKey: channelKey}
}

func userJoined(p domain.Profile) UserJoinedEvent {
	return UserJoinedEvent{Type: "user-joined", User: p}
}

func userDisconnected(p domain.Profile, id domain.ConnectionID) UserDisconnectedEvent {
	return UserDisconnectedEvent{Type: "user-disconnected", User: p, ConnID: id}
}

func userSettingChanged(prev, cur domain.Profile) UserSettingChangedEvent {
	return UserSettingChangedEvent{Type: "user-setting-changed", Previous: prev, Current: cur}
}

func userVideoJoined(id domain.ConnectionID) UserVideoJoinedEvent {
	return UserVideoJoinedEvent{Type: "user-video-joined", ConnID: id}
}

func callReceived(payload json.RawMessage, from domain.ConnectionID) CallReceivedEvent {
	return CallReceivedEvent{Type: "call-received", Payload: payload, From: from}
}

func answeredCall(payload json.RawMessage, from domain.ConnectionID) AnsweredCallEvent {
	return AnsweredCallEvent{Type: "answered-call", Payload: payload, From: from}
}

func chatMessage(body string, sender domain.Profile) MessageEvent {
	return MessageEvent{Type: "message", Message: body, User: sender}
}

func serverError(msg string) ServerErrorEvent {
	return ServerErrorEvent{Type: "server-error", Message: msg}
}

func passwordRequired() PasswordRequiredEvent {
	return PasswordRequiredEvent{Type: "password-required"}
}

func wrongPassword() WrongPasswordEvent {
	return WrongPasswordEvent{Type: "wrong-password"}
}
