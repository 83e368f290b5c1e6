package actions

import (
	"context"

	"spyserver/game"
	"spyserver/models"
	"spyserver/sockets/broadcast"

	"go.uber.org/zap"
)

func handleCreateRoom(ctx context.Context, client *models.Client, engine *game.Engine, hub *broadcast.Hub, logger *zap.Logger) {
	room, err := engine.CreateRoom(ctx, client.UserID)
	if err != nil {
		reportError(client, err, logger)
		return
	}
	unlock := hub.SequenceRoom(room.ID)
	defer unlock()
	hub.JoinRoom(client, room.ID)
	broadcast.ToClient(client, broadcast.EventRoomCreated, map[string]interface{}{
		"roomId": room.ID,
		"room":   room,
	}, logger)
	broadcastRoomsUpdate(ctx, engine, hub, logger)
}

func handleJoinRoom(ctx context.Context, client *models.Client, cmd Command, engine *game.Engine, hub *broadcast.Hub, logger *zap.Logger) {
	room, err := engine.JoinRoom(ctx, cmd.RoomID, client.UserID)
	if err != nil {
		reportError(client, err, logger)
		return
	}
	hub.JoinRoom(client, room.ID)
	broadcast.ToClient(client, broadcast.EventRoomJoined, map[string]interface{}{
		"room": room,
	}, logger)
	broadcast.ToRoom(hub, room.ID, broadcast.EventPlayerJoined, map[string]interface{}{
		"room":     room,
		"playerId": client.UserID,
	}, logger)
	broadcastRoomsUpdate(ctx, engine, hub, logger)
}

func handleLeaveRoom(ctx context.Context, client *models.Client, cmd Command, engine *game.Engine, hub *broadcast.Hub, logger *zap.Logger) {
	room, err := engine.LeaveRoom(ctx, cmd.RoomID, client.UserID)
	if err != nil {
		reportError(client, err, logger)
		return
	}
	hub.LeaveRoom(client)
	broadcast.ToRoom(hub, room.ID, broadcast.EventPlayerLeft, map[string]interface{}{
		"room":     room,
		"playerId": client.UserID,
	}, logger)
	broadcastRoomsUpdate(ctx, engine, hub, logger)
}

// handleRemovePlayer is the host kicking someone. The kicked player's
// clients are still on the room channel at broadcast time, so they see
// the player_left event for themselves before being unsubscribed.
func handleRemovePlayer(ctx context.Context, client *models.Client, cmd Command, engine *game.Engine, hub *broadcast.Hub, logger *zap.Logger) {
	room, err := engine.RemovePlayer(ctx, cmd.RoomID, client.UserID, cmd.TargetID)
	if err != nil {
		reportError(client, err, logger)
		return
	}
	broadcast.ToRoom(hub, room.ID, broadcast.EventPlayerLeft, map[string]interface{}{
		"room":     room,
		"playerId": cmd.TargetID,
	}, logger)
	for _, kicked := range hub.RoomClients(room.ID) {
		if kicked.UserID == cmd.TargetID {
			hub.LeaveRoom(kicked)
		}
	}
	broadcastRoomsUpdate(ctx, engine, hub, logger)
}

func handleDeleteRoom(ctx context.Context, client *models.Client, cmd Command, engine *game.Engine, hub *broadcast.Hub, logger *zap.Logger) {
	members := hub.RoomClients(cmd.RoomID)
	if err := engine.DeleteRoom(ctx, cmd.RoomID, client.UserID); err != nil {
		reportError(client, err, logger)
		return
	}
	for _, member := range members {
		broadcast.ToClient(member, broadcast.EventRoomDeleted, map[string]interface{}{
			"roomId": cmd.RoomID,
		}, logger)
		hub.LeaveRoom(member)
	}
	hub.ForgetRoom(cmd.RoomID)
	broadcastRoomsUpdate(ctx, engine, hub, logger)
}

func handleUpdateConfig(ctx context.Context, client *models.Client, cmd Command, engine *game.Engine, hub *broadcast.Hub, logger *zap.Logger) {
	if cmd.Config == nil {
		broadcast.Error(client, "missing config", logger)
		return
	}
	room, err := engine.UpdateConfig(ctx, cmd.RoomID, client.UserID, *cmd.Config)
	if err != nil {
		reportError(client, err, logger)
		return
	}
	broadcast.ToRoom(hub, room.ID, broadcast.EventGameUpdated, map[string]interface{}{
		"room": room,
	}, logger)
}
