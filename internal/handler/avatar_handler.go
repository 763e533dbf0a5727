// Package handler provides the HTTP request handlers.
// This file handles talking-avatar video generation.
package handler

import (
	"lingua_tutor_server/internal/dto/request"
	"lingua_tutor_server/internal/dto/respond"
	"lingua_tutor_server/internal/provider"
	"lingua_tutor_server/internal/service"

	"github.com/gin-gonic/gin"
)

// AvatarHandler handles avatar video endpoints.
type AvatarHandler struct {
	tutorSvc service.TutorService
	userSvc  service.UserService
}

// NewAvatarHandler creates the avatar handler.
func NewAvatarHandler(tutorSvc service.TutorService, userSvc service.UserService) *AvatarHandler {
	return &AvatarHandler{tutorSvc: tutorSvc, userSvc: userSvc}
}

// Generate renders a talking-avatar clip for the given text. The cascade
// never fails; when no rendering provider is configured the bundled demo
// clip for the caller's tutor comes back with degraded set.
// POST /api/avatar/generate
func (h *AvatarHandler) Generate(c *gin.Context) {
	var req request.AvatarGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	tutorName := req.TutorName
	if tutorName == "" {
		userID := c.GetString("user_id")
		profile, err := h.userSvc.GetProfile(userID)
		if err != nil {
			HandleError(c, err)
			return
		}
		tutorName = profile.TutorName
	}

	result := h.tutorSvc.GenerateAvatarVideo(c.Request.Context(), req.Text, tutorName, provider.VoiceOptions{
		VoiceID: req.Voice,
		Speed:   req.Speed,
		Pitch:   req.Pitch,
	})
	HandleSuccess(c, respond.AvatarRespond{
		VideoURL:        result.VideoURL,
		AudioURL:        result.AudioURL,
		DurationSeconds: result.DurationSeconds,
		IsLive:          result.IsLive,
		Provider:        result.Provider,
		Degraded:        result.Degraded,
	})
}
