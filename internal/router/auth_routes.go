package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the public authentication routes.
func (rt *Router) RegisterAuthRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", rt.handlers.User.Register) // create account
		authGroup.POST("/login", rt.handlers.User.Login)       // password login
		authGroup.POST("/refresh", rt.handlers.Auth.RefreshToken)
	}
}
