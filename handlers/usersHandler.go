package handlers

import (
	"net/http"

	"spyserver/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UsersHandler lists every registered user.
func UsersHandler(c *gin.Context, users store.UserStore, logger *zap.Logger) {
	list, err := users.List(c.Request.Context())
	if err != nil {
		logger.Error("failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": list})
}
