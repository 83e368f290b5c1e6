package session

import (
	"context"
	"encoding/json"
	"time"

	"spyserver/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// sessionTTL bounds how long a disconnected client can resume its identity.
const sessionTTL = 24 * time.Hour

// Info is what a session id resolves to: the user behind a connection.
type Info struct {
	UserID string `json:"userID"`
}

// Generate issues a fresh session id for the client, stores the mapping in
// Redis and sends the id back over the connection so the client can resume
// after a reconnect.
func Generate(ctx context.Context, client *models.Client, rdb *redis.Client, logger *zap.Logger) (string, error) {
	sessionID := uuid.New().String()

	info, err := json.Marshal(Info{UserID: client.UserID})
	if err != nil {
		return "", err
	}
	if err := rdb.Set(ctx, "session:"+sessionID, info, sessionTTL).Err(); err != nil {
		logger.Error("failed to store session", zap.Error(err))
		return "", err
	}

	err = client.Send(map[string]interface{}{
		"event": "session",
		"data":  map[string]string{"sessionID": sessionID, "userID": client.UserID},
	})
	if err != nil {
		logger.Error("failed to send session id", zap.Error(err))
		return "", err
	}
	return sessionID, nil
}

// Resolve maps a presented session id back to a user id. Returns "" when
// the session is unknown or expired.
func Resolve(ctx context.Context, rdb *redis.Client, sessionID string, logger *zap.Logger) string {
	if sessionID == "" {
		return ""
	}
	raw, err := rdb.Get(ctx, "session:"+sessionID).Result()
	if err == redis.Nil {
		return ""
	}
	if err != nil {
		logger.Error("failed to read session", zap.Error(err))
		return ""
	}
	var info Info
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		logger.Error("failed to decode session", zap.Error(err))
		return ""
	}
	return info.UserID
}

// Drop removes a session id, releasing the connection-derived identity.
func Drop(ctx context.Context, rdb *redis.Client, sessionID string) {
	if sessionID != "" {
		rdb.Del(ctx, "session:"+sessionID)
	}
}
