package router

import (
	"github.com/gin-gonic/gin"

	"lingua_tutor_server/internal/infrastructure/middleware"
)

// RegisterWebSocketRoutes registers the WebSocket entry point.
// Clients join a session room to receive new-message and session-ended
// events: ws://host:port/ws?session_uuid=T...
func (rt *Router) RegisterWebSocketRoutes(r *gin.Engine) {
	r.GET("/ws", middleware.JWTAuth(), rt.handlers.Ws.JoinSession)
}
