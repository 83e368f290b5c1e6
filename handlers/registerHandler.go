package handlers

import (
	"net/http"
	"time"

	"spyserver/middlewares"
	"spyserver/models"
	"spyserver/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type registerRequest struct {
	Username string `json:"username" binding:"required"`
}

// RegisterHandler creates a user identity and returns the JWT the
// client will present on every later request.
func RegisterHandler(c *gin.Context, users store.UserStore, logger *zap.Logger) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}

	user := &models.User{
		ID:        uuid.New().String(),
		Username:  req.Username,
		CreatedAt: time.Now(),
	}
	if err := users.Create(c.Request.Context(), user); err != nil {
		logger.Error("failed to create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	token, err := middlewares.GenerateToken(user.ID)
	if err != nil {
		logger.Error("failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
		"token":   token,
	})
}
