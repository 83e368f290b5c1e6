package actions

import (
	"context"
	"encoding/json"

	"spyserver/game"
	"spyserver/models"
	"spyserver/sockets/broadcast"

	"go.uber.org/zap"
)

// Command is one inbound client action. RoomID scopes everything except
// create_room; the acting user comes from the authenticated connection,
// never from the payload.
type Command struct {
	Action      string                 `json:"action"`
	RoomID      string                 `json:"roomId"`
	TargetID    string                 `json:"targetId,omitempty"`
	Word        string                 `json:"word,omitempty"`
	Config      *models.ConfigPatch    `json:"config,omitempty"`
	Assignments map[string]models.Role `json:"assignments,omitempty"`
}

// HandleClient is the per-connection read loop: decode a command, run it
// against the engine, broadcast the outcome. It returns when the
// connection dies; a command already in flight still completes.
func HandleClient(client *models.Client, engine *game.Engine, hub *broadcast.Hub, logger *zap.Logger) {
	defer func() {
		hub.Unregister(client)
		client.Conn.Close()
	}()

	for {
		_, raw, err := client.Conn.ReadMessage()
		if err != nil {
			logger.Info("client read loop closed",
				zap.String("userID", client.UserID),
				zap.Error(err),
			)
			return
		}

		var cmd Command
		if err := json.Unmarshal(raw, &cmd); err != nil {
			broadcast.Error(client, "malformed command", logger)
			continue
		}
		dispatch(context.Background(), client, cmd, engine, hub, logger)
	}
}

func dispatch(ctx context.Context, client *models.Client, cmd Command, engine *game.Engine, hub *broadcast.Hub, logger *zap.Logger) {
	// Room-scoped commands hold the room's broadcast sequence across the
	// whole commit-plus-emit, so a slower goroutine cannot fan out a stale
	// snapshot after a newer one already went to the room. create_room
	// learns its id only after the fact and sequences inside its handler.
	if cmd.RoomID != "" {
		unlock := hub.SequenceRoom(cmd.RoomID)
		defer unlock()
	}

	switch cmd.Action {
	case "create_room":
		handleCreateRoom(ctx, client, engine, hub, logger)
	case "join_room":
		handleJoinRoom(ctx, client, cmd, engine, hub, logger)
	case "leave_room":
		handleLeaveRoom(ctx, client, cmd, engine, hub, logger)
	case "remove_player":
		handleRemovePlayer(ctx, client, cmd, engine, hub, logger)
	case "update_room_config":
		handleUpdateConfig(ctx, client, cmd, engine, hub, logger)
	case "assign_roles":
		handleAssignRoles(ctx, client, cmd, engine, hub, logger)
	case "start_game":
		handleStartGame(ctx, client, cmd, engine, hub, logger)
	case "start_vote":
		handleStartVote(ctx, client, cmd, engine, hub, logger)
	case "vote":
		handleVote(ctx, client, cmd, engine, hub, logger)
	case "end_vote":
		handleEndVote(ctx, client, cmd, engine, hub, logger)
	case "guess_word":
		handleGuessWord(ctx, client, cmd, engine, hub, logger)
	case "delete_room":
		handleDeleteRoom(ctx, client, cmd, engine, hub, logger)
	default:
		broadcast.Error(client, "unknown action", logger)
	}
}

// reportError sends domain failures verbatim to the acting client and
// masks everything else as a generic internal error.
func reportError(client *models.Client, err error, logger *zap.Logger) {
	if game.IsDomainError(err) {
		broadcast.Error(client, err.Error(), logger)
		return
	}
	logger.Error("command failed",
		zap.String("userID", client.UserID),
		zap.Error(err),
	)
	broadcast.Error(client, "internal error", logger)
}

// broadcastRoomsUpdate refreshes the room directory for every connected
// client after a directory-changing transition.
func broadcastRoomsUpdate(ctx context.Context, engine *game.Engine, hub *broadcast.Hub, logger *zap.Logger) {
	rooms, err := engine.ListOpenRooms(ctx)
	if err != nil {
		logger.Error("failed to list open rooms", zap.Error(err))
		return
	}
	broadcast.RoomsUpdate(hub, rooms, logger)
}
