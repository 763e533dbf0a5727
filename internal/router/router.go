// Package router registers the HTTP routes.
// This file is the entry point, aggregating the per-module route files.
package router

import (
	"github.com/gin-gonic/gin"

	"lingua_tutor_server/internal/handler"
	"lingua_tutor_server/internal/infrastructure/middleware"
)

// Router holds the handler aggregate and registers routes against it.
type Router struct {
	handlers *handler.Handlers
}

// NewRouter creates the router.
func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes registers every route on the engine. Register/login/refresh
// are public; everything else sits behind JWT auth.
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	rt.RegisterAuthRoutes(api)

	authed := api.Group("")
	authed.Use(middleware.JWTAuth())
	{
		rt.RegisterUserRoutes(authed)
		rt.RegisterSessionRoutes(authed)
		rt.RegisterVoiceRoutes(authed)
		rt.RegisterAvatarRoutes(authed)
		rt.RegisterStreamRoutes(authed)
	}

	rt.RegisterWebSocketRoutes(r)
}
