// Package handler provides the HTTP request handlers.
// This file handles token refresh.
package handler

import (
	"lingua_tutor_server/internal/dto/request"
	"lingua_tutor_server/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles token endpoints.
type AuthHandler struct {
	userSvc service.UserService
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(userSvc service.UserService) *AuthHandler {
	return &AuthHandler{userSvc: userSvc}
}

// RefreshToken rotates a refresh token into a new pair.
// POST /api/auth/refresh
//
// The stored token id in redis must match the one in the presented token;
// a newer login on another device overwrites it, so superseded refresh
// tokens are rejected.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req request.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.RefreshToken(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
