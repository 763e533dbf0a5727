package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterVoiceRoutes registers the speech routes.
func (rt *Router) RegisterVoiceRoutes(rg *gin.RouterGroup) {
	voiceGroup := rg.Group("/voice")
	{
		voiceGroup.POST("/speech-to-text", rt.handlers.Voice.SpeechToText) // multipart audio upload
		voiceGroup.POST("/text-to-speech", rt.handlers.Voice.TextToSpeech) // returns raw mp3 bytes
	}
}
