package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers the profile routes.
func (rt *Router) RegisterUserRoutes(rg *gin.RouterGroup) {
	userGroup := rg.Group("/user")
	{
		userGroup.GET("/profile", rt.handlers.User.GetProfile)
		userGroup.PUT("/profile", rt.handlers.User.UpdateProfile)
	}
}
