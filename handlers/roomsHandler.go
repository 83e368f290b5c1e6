package handlers

import (
	"context"
	"errors"
	"net/http"

	"spyserver/game"
	"spyserver/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoomDirectory is the read side of the room catalogue the REST API
// exposes. The game engine satisfies it.
type RoomDirectory interface {
	ListOpenRooms(ctx context.Context) ([]*models.RoomView, error)
	GetRoom(ctx context.Context, roomID string) (*models.RoomView, error)
}

// RoomsHandler lists rooms that are still open to observers, newest
// lobby activity included.
func RoomsHandler(c *gin.Context, directory RoomDirectory, logger *zap.Logger) {
	rooms, err := directory.ListOpenRooms(c.Request.Context())
	if err != nil {
		logger.Error("failed to list rooms", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list rooms"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// RoomHandler returns one room snapshot by id.
func RoomHandler(c *gin.Context, directory RoomDirectory, logger *zap.Logger) {
	room, err := directory.GetRoom(c.Request.Context(), c.Param("roomID"))
	if errors.Is(err, game.ErrRoomNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	if err != nil {
		logger.Error("failed to fetch room", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch room"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": room})
}
