// Package handler provides the HTTP request handlers.
// This file handles account and profile endpoints.
package handler

import (
	"lingua_tutor_server/internal/dto/request"
	"lingua_tutor_server/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles account endpoints.
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler creates the user handler.
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// Register creates an account.
// POST /api/auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.Register(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Login signs a user in.
// POST /api/auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.Login(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetProfile returns the caller's account.
// GET /api/user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := c.GetString("user_id")
	data, err := h.userSvc.GetProfile(userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// UpdateProfile applies partial profile edits.
// PUT /api/user/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req request.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userID := c.GetString("user_id")
	data, err := h.userSvc.UpdateProfile(userID, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
