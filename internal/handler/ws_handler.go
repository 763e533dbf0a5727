// Package handler provides the HTTP request handlers.
// This file handles the WebSocket entry point.
package handler

import (
	"context"

	"lingua_tutor_server/internal/dto/request"
	"lingua_tutor_server/internal/provider"
	"lingua_tutor_server/internal/service"
	"lingua_tutor_server/internal/service/realtime"
	"lingua_tutor_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// WsHandler upgrades clients into session event rooms.
type WsHandler struct {
	sessionSvc service.SessionService
	rt         *realtime.Server
	inbound    realtime.InboundHandler
}

// NewWsHandler creates the WebSocket handler.
func NewWsHandler(sessionSvc service.SessionService, voiceSvc service.VoiceService, tutorSvc service.TutorService, rt *realtime.Server) *WsHandler {
	return &WsHandler{
		sessionSvc: sessionSvc,
		rt:         rt,
		inbound: &wsInbound{
			sessionSvc: sessionSvc,
			voiceSvc:   voiceSvc,
			tutorSvc:   tutorSvc,
			rt:         rt,
		},
	}
}

// JoinSession attaches the caller to a session's event room.
// GET /ws?session_uuid=T...
func (h *WsHandler) JoinSession(c *gin.Context) {
	sessionUuid := c.Query("session_uuid")
	if sessionUuid == "" {
		HandleError(c, errorx.New(errorx.CodeInvalidParam, "session_uuid is required"))
		return
	}
	userID := c.GetString("user_id")
	if _, err := h.sessionSvc.GetSession(userID, sessionUuid); err != nil {
		HandleError(c, err)
		return
	}
	realtime.JoinSession(c, h.rt.Broker(), h.inbound, sessionUuid, userID)
}

// wsInbound routes client-originated frames into the business services.
type wsInbound struct {
	sessionSvc service.SessionService
	voiceSvc   service.VoiceService
	tutorSvc   service.TutorService
	rt         *realtime.Server
}

// HandleText runs one conversation turn. PostMessage publishes the
// new-message event to the room, so nothing more to fan out here.
func (a *wsInbound) HandleText(ctx context.Context, sessionUuid, userUuid, content string) error {
	_, err := a.sessionSvc.PostMessage(ctx, userUuid, request.PostMessageRequest{
		SessionUuid: sessionUuid,
		Content:     content,
	})
	return err
}

// HandleVoice transcribes a finished recording.
func (a *wsInbound) HandleVoice(ctx context.Context, sessionUuid, userUuid string, audio []byte, language string) (string, error) {
	return a.voiceSvc.SpeechToText(ctx, audio, language)
}

// HandleAvatarRequest renders a clip and announces it to the session room.
// The cascade never errors, degraded results carry the demo clip.
func (a *wsInbound) HandleAvatarRequest(ctx context.Context, sessionUuid, userUuid, text, tutorName string) {
	result := a.tutorSvc.GenerateAvatarVideo(ctx, text, tutorName, provider.VoiceOptions{})
	a.rt.PublishSessionEvent(sessionUuid, map[string]any{
		"type":             "video-ready",
		"video_url":        result.VideoURL,
		"audio_url":        result.AudioURL,
		"duration_seconds": result.DurationSeconds,
		"provider":         result.Provider,
		"degraded":         result.Degraded,
	})
}
