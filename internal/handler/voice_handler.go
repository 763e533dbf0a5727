// Package handler provides the HTTP request handlers.
// This file handles speech recognition and synthesis endpoints.
package handler

import (
	"io"

	"lingua_tutor_server/internal/dto/request"
	"lingua_tutor_server/internal/dto/respond"
	"lingua_tutor_server/internal/service"
	"lingua_tutor_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// maxAudioUploadBytes caps speech uploads at 25MB, the transcription
// provider's own limit.
const maxAudioUploadBytes = 25 << 20

// VoiceHandler handles speech endpoints.
type VoiceHandler struct {
	voiceSvc service.VoiceService
}

// NewVoiceHandler creates the voice handler.
func NewVoiceHandler(voiceSvc service.VoiceService) *VoiceHandler {
	return &VoiceHandler{voiceSvc: voiceSvc}
}

// SpeechToText transcribes an uploaded recording.
// POST /api/voice/speech-to-text  (multipart: audio file + language field)
func (h *VoiceHandler) SpeechToText(c *gin.Context) {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		HandleError(c, errorx.New(errorx.CodeInvalidParam, "an audio file is required"))
		return
	}
	if fileHeader.Size > maxAudioUploadBytes {
		HandleError(c, errorx.New(errorx.CodeInvalidParam, "audio file too large"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		HandleError(c, err)
		return
	}
	defer file.Close()
	audio, err := io.ReadAll(file)
	if err != nil {
		HandleError(c, err)
		return
	}

	language := c.PostForm("language")
	text, err := h.voiceSvc.SpeechToText(c.Request.Context(), audio, language)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.SpeechToTextRespond{Text: text})
}

// TextToSpeech synthesizes spoken audio and returns the raw mp3 bytes.
// POST /api/voice/text-to-speech
func (h *VoiceHandler) TextToSpeech(c *gin.Context) {
	var req request.TextToSpeechRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	audio, err := h.voiceSvc.TextToSpeech(c.Request.Context(), req.Text, req.VoiceID)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Data(200, "audio/mpeg", audio)
}
