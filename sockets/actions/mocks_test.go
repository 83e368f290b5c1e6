package actions

import (
	"context"
	"fmt"
	"sync"

	"spyserver/models"
	"spyserver/store"
)

// In-memory stand-ins for the GORM stores, mirroring their contracts:
// (nil, nil) for absent records, views assembled in join order.

type memState struct {
	mu    sync.Mutex
	users map[string]*models.User
	rooms map[string]*memRoom
}

type memRoom struct {
	rec     models.Room
	players []*models.Player
	votes   []models.Vote
}

func newMemState() *memState {
	return &memState{
		users: make(map[string]*models.User),
		rooms: make(map[string]*memRoom),
	}
}

func (st *memState) addUser(id, username string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.users[id] = &models.User{ID: id, Username: username}
}

type memUsers struct{ st *memState }

func (m *memUsers) Create(ctx context.Context, user *models.User) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	m.st.users[user.ID] = user
	return nil
}

func (m *memUsers) Get(ctx context.Context, id string) (*models.User, error) {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	user, ok := m.st.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (m *memUsers) List(ctx context.Context) ([]models.User, error) {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	users := make([]models.User, 0, len(m.st.users))
	for _, u := range m.st.users {
		users = append(users, *u)
	}
	return users, nil
}

type memRooms struct{ st *memState }

func (m *memRooms) Create(ctx context.Context, roomID, hostID string) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if _, exists := m.st.rooms[roomID]; exists {
		return fmt.Errorf("duplicate room id %s", roomID)
	}
	m.st.rooms[roomID] = &memRoom{
		rec: models.Room{ID: roomID, HostID: hostID, Status: string(models.StatusWaiting)},
		players: []*models.Player{
			{RoomID: roomID, UserID: hostID, IsAlive: true},
		},
	}
	return nil
}

func (m *memRooms) Get(ctx context.Context, roomID string) (*models.RoomView, error) {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	return m.assemble(roomID)
}

func (m *memRooms) assemble(roomID string) (*models.RoomView, error) {
	room, ok := m.st.rooms[roomID]
	if !ok {
		return nil, nil
	}

	view := &models.RoomView{
		ID:      room.rec.ID,
		HostID:  room.rec.HostID,
		Status:  models.RoomStatus(room.rec.Status),
		Players: make(map[string]*models.PlayerView, len(room.players)),
		Order:   make([]string, 0, len(room.players)),
		Winners: models.SplitWinners(room.rec.Winners),
	}
	for _, p := range room.players {
		username := p.UserID
		if user, ok := m.st.users[p.UserID]; ok {
			username = user.Username
		}
		view.Players[p.UserID] = &models.PlayerView{
			UserID:   p.UserID,
			Username: username,
			Role:     models.Role(p.Role),
			IsHost:   p.UserID == room.rec.HostID,
			IsAlive:  p.IsAlive,
			VotedBy:  []string{},
		}
		view.Order = append(view.Order, p.UserID)
	}
	for _, vote := range room.votes {
		voter := view.Players[vote.VoterID]
		target := view.Players[vote.TargetID]
		if voter != nil && target != nil {
			voter.VotedFor = vote.TargetID
			target.VotedBy = append(target.VotedBy, vote.VoterID)
		}
	}

	rec := room.rec
	if rec.GoodWord != nil || rec.BadWord != nil || rec.GoodCount != nil ||
		rec.BadCount != nil || rec.BlankCount != nil || rec.MaxPlayers != nil {
		config := &models.RoomConfig{MaxPlayers: models.DefaultMaxPlayers}
		if rec.GoodWord != nil {
			config.GoodWord = *rec.GoodWord
		}
		if rec.BadWord != nil {
			config.BadWord = *rec.BadWord
		}
		if rec.GoodCount != nil {
			config.GoodCount = *rec.GoodCount
		}
		if rec.BadCount != nil {
			config.BadCount = *rec.BadCount
		}
		if rec.BlankCount != nil {
			config.BlankCount = *rec.BlankCount
		}
		if rec.MaxPlayers != nil {
			config.MaxPlayers = *rec.MaxPlayers
		}
		view.Config = config
	}
	return view, nil
}

func (m *memRooms) ListOpen(ctx context.Context) ([]*models.RoomView, error) {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	var views []*models.RoomView
	for id, room := range m.st.rooms {
		if room.rec.Status == string(models.StatusEnded) {
			continue
		}
		view, err := m.assemble(id)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (m *memRooms) AddPlayer(ctx context.Context, roomID, userID string) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	room := m.st.rooms[roomID]
	room.players = append(room.players, &models.Player{RoomID: roomID, UserID: userID, IsAlive: true})
	return nil
}

func (m *memRooms) RemovePlayer(ctx context.Context, roomID, userID string) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	room := m.st.rooms[roomID]
	players := room.players[:0]
	for _, p := range room.players {
		if p.UserID != userID {
			players = append(players, p)
		}
	}
	room.players = players
	return nil
}

func (m *memRooms) UpdateConfig(ctx context.Context, roomID string, patch models.ConfigPatch) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	rec := &m.st.rooms[roomID].rec
	if patch.GoodWord != nil {
		rec.GoodWord = patch.GoodWord
	}
	if patch.BadWord != nil {
		rec.BadWord = patch.BadWord
	}
	if patch.GoodCount != nil {
		rec.GoodCount = patch.GoodCount
	}
	if patch.BadCount != nil {
		rec.BadCount = patch.BadCount
	}
	if patch.BlankCount != nil {
		rec.BlankCount = patch.BlankCount
	}
	if patch.MaxPlayers != nil {
		rec.MaxPlayers = patch.MaxPlayers
	}
	return nil
}

func (m *memRooms) SetRoles(ctx context.Context, roomID string, roles map[string]models.Role) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	for _, p := range m.st.rooms[roomID].players {
		if role, ok := roles[p.UserID]; ok {
			p.Role = string(role)
		}
	}
	return nil
}

func (m *memRooms) SetStatus(ctx context.Context, roomID string, status models.RoomStatus) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	m.st.rooms[roomID].rec.Status = string(status)
	return nil
}

func (m *memRooms) SetWinners(ctx context.Context, roomID string, winners []models.Role) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	m.st.rooms[roomID].rec.Winners = models.JoinWinners(winners)
	return nil
}

func (m *memRooms) SetAlive(ctx context.Context, roomID, userID string, alive bool) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	for _, p := range m.st.rooms[roomID].players {
		if p.UserID == userID {
			p.IsAlive = alive
		}
	}
	return nil
}

func (m *memRooms) UpsertVote(ctx context.Context, roomID, voterID, targetID string) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	room := m.st.rooms[roomID]
	for i := range room.votes {
		if room.votes[i].VoterID == voterID {
			room.votes[i].TargetID = targetID
			return nil
		}
	}
	room.votes = append(room.votes, models.Vote{RoomID: roomID, VoterID: voterID, TargetID: targetID})
	return nil
}

func (m *memRooms) ClearVotes(ctx context.Context, roomID string) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	m.st.rooms[roomID].votes = nil
	return nil
}

func (m *memRooms) Delete(ctx context.Context, roomID string) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	delete(m.st.rooms, roomID)
	return nil
}

func (m *memRooms) Clear(ctx context.Context) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	m.st.rooms = make(map[string]*memRoom)
	return nil
}

func (m *memRooms) Transaction(ctx context.Context, fn func(store.RoomStore) error) error {
	return fn(m)
}
