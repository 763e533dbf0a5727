// Package handler provides the HTTP request handlers.
// This file handles the tutoring session lifecycle endpoints.
package handler

import (
	"lingua_tutor_server/internal/dto/request"
	"lingua_tutor_server/internal/service"
	"lingua_tutor_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// SessionHandler handles session endpoints.
type SessionHandler struct {
	sessionSvc service.SessionService
}

// NewSessionHandler creates the session handler.
func NewSessionHandler(sessionSvc service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// StartSession opens a new tutoring session.
// POST /api/session/start
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req request.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userID := c.GetString("user_id")
	data, err := h.sessionSvc.StartSession(c.Request.Context(), userID, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// PostMessage appends one learner turn and returns the tutor's reply.
// POST /api/session/message
func (h *SessionHandler) PostMessage(c *gin.Context) {
	var req request.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userID := c.GetString("user_id")
	data, err := h.sessionSvc.PostMessage(c.Request.Context(), userID, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// EndSession closes a session.
// PUT /api/session/end
func (h *SessionHandler) EndSession(c *gin.Context) {
	var req request.EndSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userID := c.GetString("user_id")
	data, err := h.sessionSvc.EndSession(userID, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetSessionHistory pages through the caller's sessions.
// GET /api/session/history?page=1&page_size=10
func (h *SessionHandler) GetSessionHistory(c *gin.Context) {
	var req request.SessionHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userID := c.GetString("user_id")
	data, err := h.sessionSvc.GetSessionHistory(userID, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetSessionMessages returns a session's transcript.
// GET /api/session/messages?session_uuid=T...
func (h *SessionHandler) GetSessionMessages(c *gin.Context) {
	sessionUuid := c.Query("session_uuid")
	if sessionUuid == "" {
		HandleError(c, errorx.New(errorx.CodeInvalidParam, "session_uuid is required"))
		return
	}
	userID := c.GetString("user_id")
	data, err := h.sessionSvc.GetSessionMessages(userID, sessionUuid)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
