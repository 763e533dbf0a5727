package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterSessionRoutes registers the tutoring session routes.
func (rt *Router) RegisterSessionRoutes(rg *gin.RouterGroup) {
	sessionGroup := rg.Group("/session")
	{
		sessionGroup.POST("/start", rt.handlers.Session.StartSession)       // open a session
		sessionGroup.POST("/message", rt.handlers.Session.PostMessage)      // one conversation turn
		sessionGroup.PUT("/end", rt.handlers.Session.EndSession)            // close a session
		sessionGroup.GET("/history", rt.handlers.Session.GetSessionHistory) // paged past sessions
		sessionGroup.GET("/messages", rt.handlers.Session.GetSessionMessages)
	}
}
