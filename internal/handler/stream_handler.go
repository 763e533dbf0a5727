// Package handler provides the HTTP request handlers.
// This file handles live avatar stream endpoints.
package handler

import (
	"lingua_tutor_server/internal/dto/request"
	"lingua_tutor_server/internal/dto/respond"
	"lingua_tutor_server/internal/service"

	"github.com/gin-gonic/gin"
)

// StreamHandler handles live avatar streams.
type StreamHandler struct {
	streamSvc  service.StreamService
	sessionSvc service.SessionService
}

// NewStreamHandler creates the stream handler.
func NewStreamHandler(streamSvc service.StreamService, sessionSvc service.SessionService) *StreamHandler {
	return &StreamHandler{streamSvc: streamSvc, sessionSvc: sessionSvc}
}

// ownsSession rejects callers streaming against someone else's session.
func (h *StreamHandler) ownsSession(c *gin.Context, sessionUuid string) bool {
	userID := c.GetString("user_id")
	if _, err := h.sessionSvc.GetSession(userID, sessionUuid); err != nil {
		HandleError(c, err)
		return false
	}
	return true
}

// StartStream opens a live avatar stream and returns the WebRTC offer.
// POST /api/video/start-stream
func (h *StreamHandler) StartStream(c *gin.Context) {
	var req request.StartStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if !h.ownsSession(c, req.SessionUuid) {
		return
	}
	data, err := h.streamSvc.StartStream(c.Request.Context(), req.SessionUuid, req.InitialMessage)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// SubmitAnswer relays the browser's SDP answer.
// POST /api/video/submit-answer
func (h *StreamHandler) SubmitAnswer(c *gin.Context) {
	var req request.StreamAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if !h.ownsSession(c, req.SessionUuid) {
		return
	}
	if err := h.streamSvc.SubmitAnswer(c.Request.Context(), req.SessionUuid, req.SDPAnswer); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// SendText has the live avatar speak the given text.
// POST /api/video/stream-task
func (h *StreamHandler) SendText(c *gin.Context) {
	var req request.StreamTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if !h.ownsSession(c, req.SessionUuid) {
		return
	}
	if err := h.streamSvc.SendText(c.Request.Context(), req.SessionUuid, req.Text); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// CloseStream tears the stream down.
// POST /api/video/close-stream
func (h *StreamHandler) CloseStream(c *gin.Context) {
	var req request.CloseStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if !h.ownsSession(c, req.SessionUuid) {
		return
	}
	if err := h.streamSvc.StopStream(c.Request.Context(), req.SessionUuid); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// StreamingToken mints a short-lived browser-side token.
// POST /api/heygen/streaming-token
func (h *StreamHandler) StreamingToken(c *gin.Context) {
	token, err := h.streamSvc.StreamingToken(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.StreamingTokenRespond{Token: token})
}
