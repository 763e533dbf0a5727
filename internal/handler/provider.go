// Package handler provides the HTTP request handlers.
// This file defines the handler aggregate and its constructor; handlers
// receive their services through constructor injection.
package handler

import (
	"lingua_tutor_server/internal/service"
	"lingua_tutor_server/internal/service/realtime"
)

// Handlers aggregates all handler instances for the router layer.
type Handlers struct {
	User    *UserHandler
	Auth    *AuthHandler
	Session *SessionHandler
	Voice   *VoiceHandler
	Avatar  *AvatarHandler
	Stream  *StreamHandler
	Ws      *WsHandler
}

// NewHandlers creates all handlers from the service aggregate. rt carries
// the realtime server for the WebSocket gateway and may be nil in tests.
func NewHandlers(svc *service.Services, rt *realtime.Server) *Handlers {
	return &Handlers{
		User:    NewUserHandler(svc.User),
		Auth:    NewAuthHandler(svc.User),
		Session: NewSessionHandler(svc.Session),
		Voice:   NewVoiceHandler(svc.Voice),
		Avatar:  NewAvatarHandler(svc.Tutor, svc.User),
		Stream:  NewStreamHandler(svc.Stream, svc.Session),
		Ws:      NewWsHandler(svc.Session, svc.Voice, svc.Tutor, rt),
	}
}
