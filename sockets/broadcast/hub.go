package broadcast

import (
	"sync"

	"spyserver/models"
)

// Hub tracks every connected client and which room channel each one is
// subscribed to. A client belongs to at most one room channel at a time.
type Hub struct {
	mu      sync.RWMutex
	clients map[*models.Client]bool

	roomSeq sync.Map // room id -> *sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*models.Client]bool)}
}

func (h *Hub) Register(client *models.Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = true
}

func (h *Hub) Unregister(client *models.Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

// JoinRoom subscribes the client to a room channel, replacing any previous
// subscription.
func (h *Hub) JoinRoom(client *models.Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	client.RoomID = roomID
}

// LeaveRoom drops the client's room subscription.
func (h *Hub) LeaveRoom(client *models.Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	client.RoomID = ""
}

// SequenceRoom acquires the room's broadcast sequence; the returned func
// releases it. Holding it across a state transition and the events that
// announce it guarantees clients receive room snapshots in commit order.
func (h *Hub) SequenceRoom(roomID string) func() {
	v, _ := h.roomSeq.LoadOrStore(roomID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// ForgetRoom drops the broadcast sequence of a deleted room.
func (h *Hub) ForgetRoom(roomID string) {
	h.roomSeq.Delete(roomID)
}

// RoomClients snapshots the clients subscribed to a room.
func (h *Hub) RoomClients(roomID string) []*models.Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var clients []*models.Client
	for client := range h.clients {
		if client.RoomID == roomID {
			clients = append(clients, client)
		}
	}
	return clients
}

// All snapshots every connected client.
func (h *Hub) All() []*models.Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	clients := make([]*models.Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	return clients
}
