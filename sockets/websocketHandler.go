package sockets

import (
	"context"
	"net/http"

	"spyserver/auth"
	"spyserver/game"
	"spyserver/models"
	"spyserver/sockets/actions"
	"spyserver/sockets/broadcast"
	"spyserver/sockets/connection"
	"spyserver/sockets/session"
	"spyserver/store"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// HandleConnections authenticates the request, upgrades it to a
// WebSocket and starts the read and keepalive goroutines. Identity
// comes from a resumable session id when the client presents one, or
// from the JWT bearer token otherwise.
func HandleConnections(ctx context.Context, w http.ResponseWriter, r *http.Request, rdb *redis.Client, logger *zap.Logger, engine *game.Engine, users store.UserStore, hub *broadcast.Hub, upgrader websocket.Upgrader) {
	sessionID := r.Header.Get("SessionID")
	userID := session.Resolve(ctx, rdb, sessionID, logger)
	if userID == "" {
		claims, err := auth.ParseToken(r.Header.Get("Authorization"))
		if err != nil {
			logger.Info("websocket auth failed", zap.Error(err))
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		userID = claims.UserID
	}

	user, err := users.Get(ctx, userID)
	if err != nil {
		logger.Error("failed to look up user", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "Unknown user", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("failed to upgrade websocket", zap.Error(err))
		return
	}

	client := &models.Client{Conn: conn, UserID: userID}
	hub.Register(client)
	logger.Info("client connected", zap.String("userID", userID))

	// A presented session id is single use: drop it and issue a new one.
	session.Drop(ctx, rdb, sessionID)
	if _, err := session.Generate(ctx, client, rdb, logger); err != nil {
		logger.Error("failed to issue session id", zap.Error(err))
	}

	// Deadline and pong handler must be in place before the read loop
	// takes over the connection's read side.
	connection.Configure(client)

	go connection.PingPong(client, hub, logger)
	go actions.HandleClient(client, engine, hub, logger)
}
