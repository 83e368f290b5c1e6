package broadcast

import (
	"spyserver/models"

	"go.uber.org/zap"
)

// Outbound event names. Every event carries the room snapshot that resulted
// from the committed transition, so observers never see state older than
// what they already hold.
const (
	EventRoomCreated  = "room_created"
	EventRoomJoined   = "room_joined"
	EventRoomDeleted  = "room_deleted"
	EventRoomsUpdate  = "rooms_update"
	EventPlayerJoined = "player_joined"
	EventPlayerLeft   = "player_left"
	EventGameStarted  = "game_started"
	EventGameUpdated  = "game_updated"
	EventGameEnded    = "game_ended"
	EventVoteStarted  = "vote_started"
	EventVoteUpdated  = "vote_updated"
	EventVoteEnded    = "vote_ended"
	EventError        = "error"
)

// Envelope is the wire shape of every outbound event.
type Envelope struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

// ToClient delivers one event to a single connection.
func ToClient(client *models.Client, event string, data map[string]interface{}, logger *zap.Logger) {
	if err := client.Send(Envelope{Event: event, Data: data}); err != nil {
		logger.Error("failed to send event",
			zap.String("event", event),
			zap.String("userID", client.UserID),
			zap.Error(err),
		)
	}
}

// ToRoom delivers one event to every client subscribed to the room channel.
func ToRoom(hub *Hub, roomID, event string, data map[string]interface{}, logger *zap.Logger) {
	for _, client := range hub.RoomClients(roomID) {
		ToClient(client, event, data, logger)
	}
}

// RoomsUpdate tells every connected client that the open-room directory
// changed.
func RoomsUpdate(hub *Hub, rooms []*models.RoomView, logger *zap.Logger) {
	data := map[string]interface{}{"rooms": rooms}
	for _, client := range hub.All() {
		ToClient(client, EventRoomsUpdate, data, logger)
	}
}

// Error reports a failed command back to the acting client only.
func Error(client *models.Client, message string, logger *zap.Logger) {
	ToClient(client, EventError, map[string]interface{}{"message": message}, logger)
}
