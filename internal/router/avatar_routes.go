package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAvatarRoutes registers the avatar video routes.
func (rt *Router) RegisterAvatarRoutes(rg *gin.RouterGroup) {
	rg.POST("/avatar/generate", rt.handlers.Avatar.Generate)
}
