package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterStreamRoutes registers the live avatar stream routes.
func (rt *Router) RegisterStreamRoutes(rg *gin.RouterGroup) {
	videoGroup := rg.Group("/video")
	{
		videoGroup.POST("/start-stream", rt.handlers.Stream.StartStream)   // open stream, get WebRTC offer
		videoGroup.POST("/submit-answer", rt.handlers.Stream.SubmitAnswer) // relay browser SDP answer
		videoGroup.POST("/stream-task", rt.handlers.Stream.SendText)       // speak text on the live avatar
		videoGroup.POST("/close-stream", rt.handlers.Stream.CloseStream)
	}

	// short-lived token for the browser-side streaming SDK
	rg.POST("/heygen/streaming-token", rt.handlers.Stream.StreamingToken)
}
