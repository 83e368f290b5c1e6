package connection

import (
	"time"

	"spyserver/models"
	"spyserver/sockets/broadcast"

	"go.uber.org/zap"
)

const (
	pingPeriod   = 10 * time.Second
	readDeadline = 60 * time.Second
)

// Configure installs the read deadline and pong handler on a freshly
// upgraded connection. Gorilla allows only one goroutine on the read
// side, and SetPongHandler/SetReadDeadline belong to it, so this must
// run before the read loop starts, not concurrently with it.
func Configure(client *models.Client) {
	client.Conn.SetReadDeadline(time.Now().Add(readDeadline))
	client.Conn.SetPongHandler(func(string) error {
		return client.Conn.SetReadDeadline(time.Now().Add(readDeadline))
	})
}

// PingPong keeps the connection alive: a ping every pingPeriod, answered
// by pongs that extend the read deadline Configure installed. When the
// peer stops answering, the deadline fires, the read loop errors out and
// this goroutine closes the connection.
func PingPong(client *models.Client, hub *broadcast.Hub, logger *zap.Logger) {
	defer func() {
		client.Conn.Close()
		hub.Unregister(client)
		logger.Info("client disconnected", zap.String("userID", client.UserID))
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		if err := client.Ping(); err != nil {
			logger.Info("ping failed, dropping client",
				zap.String("userID", client.UserID),
				zap.Error(err),
			)
			return
		}
	}
}
