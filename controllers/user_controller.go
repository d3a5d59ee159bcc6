package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lugamandu/backend/middleware"
	"github.com/lugamandu/backend/repository"
)

type UserController struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewUserController(users repository.UserRepository, logger *zap.Logger) *UserController {
	return &UserController{users: users, logger: logger}
}

// Me handles GET /users/me.
func (uc *UserController) Me(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	user, err := uc.users.Get(c.Request.Context(), userID)
	if err == repository.ErrUserNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		uc.logger.Error("Failed to fetch user", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type updateProfileRequest struct {
	Contact string `json:"contact" binding:"required"`
}

// UpdateProfile handles PATCH /users/me. Only the contact field is mutable.
func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payload"})
		return
	}
	if err := uc.users.UpdateProfile(c.Request.Context(), userID, req.Contact); err != nil {
		uc.logger.Error("Failed to update profile", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile updated"})
}
