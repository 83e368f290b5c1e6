package actions

import (
	"context"

	"spyserver/game"
	"spyserver/models"
	"spyserver/sockets/broadcast"

	"go.uber.org/zap"
)

func handleAssignRoles(ctx context.Context, client *models.Client, cmd Command, engine *game.Engine, hub *broadcast.Hub, logger *zap.Logger) {
	room, err := engine.AssignRoles(ctx, cmd.RoomID, client.UserID, cmd.Assignments)
	if err != nil {
		reportError(client, err, logger)
		return
	}
	broadcast.ToRoom(hub, room.ID, broadcast.EventGameUpdated, map[string]interface{}{
		"room": room,
	}, logger)
}

func handleStartGame(ctx context.Context, client *models.Client, cmd Command, engine *game.Engine, hub *broadcast.Hub, logger *zap.Logger) {
	room, err := engine.StartGame(ctx, cmd.RoomID, client.UserID)
	if err != nil {
		reportError(client, err, logger)
		return
	}
	broadcast.ToRoom(hub, room.ID, broadcast.EventGameStarted, map[string]interface{}{
		"room": room,
	}, logger)
	broadcastRoomsUpdate(ctx, engine, hub, logger)
}

func handleStartVote(ctx context.Context, client *models.Client, cmd Command, engine *game.Engine, hub *broadcast.Hub, logger *zap.Logger) {
	room, err := engine.StartVote(ctx, cmd.RoomID, client.UserID)
	if err != nil {
		reportError(client, err, logger)
		return
	}
	broadcast.ToRoom(hub, room.ID, broadcast.EventVoteStarted, map[string]interface{}{
		"room": room,
	}, logger)
}

func handleVote(ctx context.Context, client *models.Client, cmd Command, engine *game.Engine, hub *broadcast.Hub, logger *zap.Logger) {
	room, votes, err := engine.Vote(ctx, cmd.RoomID, client.UserID, cmd.TargetID)
	if err != nil {
		reportError(client, err, logger)
		return
	}
	broadcast.ToRoom(hub, room.ID, broadcast.EventVoteUpdated, map[string]interface{}{
		"room":  room,
		"votes": votes,
	}, logger)
}

func handleEndVote(ctx context.Context, client *models.Client, cmd Command, engine *game.Engine, hub *broadcast.Hub, logger *zap.Logger) {
	result, err := engine.EndVote(ctx, cmd.RoomID, client.UserID)
	if err != nil {
		reportError(client, err, logger)
		return
	}
	data := map[string]interface{}{"room": result.Room}
	if result.Eliminated != "" {
		data["eliminated"] = result.Eliminated
	}
	broadcast.ToRoom(hub, result.Room.ID, broadcast.EventVoteEnded, data, logger)
	if result.GameOver {
		broadcast.ToRoom(hub, result.Room.ID, broadcast.EventGameEnded, map[string]interface{}{
			"room":    result.Room,
			"winners": result.Winners,
		}, logger)
		broadcastRoomsUpdate(ctx, engine, hub, logger)
	}
}

func handleGuessWord(ctx context.Context, client *models.Client, cmd Command, engine *game.Engine, hub *broadcast.Hub, logger *zap.Logger) {
	result, err := engine.GuessWord(ctx, cmd.RoomID, client.UserID, cmd.Word)
	if err != nil {
		reportError(client, err, logger)
		return
	}
	broadcast.ToRoom(hub, result.Room.ID, broadcast.EventGameUpdated, map[string]interface{}{
		"room":    result.Room,
		"guesser": client.UserID,
		"correct": result.Correct,
	}, logger)
	if result.GameOver {
		broadcast.ToRoom(hub, result.Room.ID, broadcast.EventGameEnded, map[string]interface{}{
			"room":    result.Room,
			"winners": result.Winners,
		}, logger)
		broadcastRoomsUpdate(ctx, engine, hub, logger)
	}
}
