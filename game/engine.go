package game

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"spyserver/models"
	"spyserver/store"

	"go.uber.org/zap"
)

// maxIDAttempts bounds the retry loop when a fresh room id collides with an
// open room.
const maxIDAttempts = 32

// Engine owns every room state transition. Operations against one room are
// serialized by a per-room mutex; within a transition the durable store is
// the only source of truth, so each operation re-reads the room before
// validating. Operations on different rooms run in parallel.
type Engine struct {
	rooms  store.RoomStore
	users  store.UserStore
	logger *zap.Logger

	locks sync.Map // room id -> *sync.Mutex

	randMu sync.Mutex
	rand   *rand.Rand
}

func NewEngine(rooms store.RoomStore, users store.UserStore, logger *zap.Logger) *Engine {
	source := rand.NewSource(time.Now().UnixNano())
	return &Engine{
		rooms:  rooms,
		users:  users,
		logger: logger,
		rand:   rand.New(source),
	}
}

// lockRoom serializes transitions for one room id. The returned func
// releases the lock.
func (e *Engine) lockRoom(roomID string) func() {
	v, _ := e.locks.LoadOrStore(roomID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// loadRoom fetches the authoritative view, translating an absent room into
// the domain error.
func (e *Engine) loadRoom(ctx context.Context, roomID string) (*models.RoomView, error) {
	room, err := e.rooms.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	return room, nil
}

// requireHost guards host-only operations.
func requireHost(room *models.RoomView, actorID string) error {
	if room.HostID != actorID {
		return fmt.Errorf("%w: %s", ErrNotHost, actorID)
	}
	return nil
}

// requireStatus rejects transitions attempted outside their legal phase.
// An ended room reports the terminal error rather than a plain phase error.
func requireStatus(room *models.RoomView, want models.RoomStatus) error {
	if room.Status == want {
		return nil
	}
	if room.Status == models.StatusEnded {
		return fmt.Errorf("%w: %s", ErrRoomEnded, room.ID)
	}
	return fmt.Errorf("%w: room %s is %s", ErrInvalidPhase, room.ID, room.Status)
}

// newRoomID draws 6-digit numeric ids until one is free among open rooms.
func (e *Engine) newRoomID(ctx context.Context) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		e.randMu.Lock()
		id := strconv.Itoa(100000 + e.rand.Intn(900000))
		e.randMu.Unlock()

		existing, err := e.rooms.Get(ctx, id)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not allocate a room id after %d attempts", maxIDAttempts)
}

// CreateRoom opens a new waiting room with the given user as host and sole
// player. The host referees but never receives a meaningful role.
func (e *Engine) CreateRoom(ctx context.Context, hostID string) (*models.RoomView, error) {
	host, err := e.users.Get(ctx, hostID)
	if err != nil {
		return nil, err
	}
	if host == nil {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, hostID)
	}

	roomID, err := e.newRoomID(ctx)
	if err != nil {
		return nil, err
	}
	if err := e.rooms.Create(ctx, roomID, hostID); err != nil {
		return nil, err
	}

	e.logger.Info("room created",
		zap.String("roomID", roomID),
		zap.String("hostID", hostID),
	)
	return e.loadRoom(ctx, roomID)
}

// JoinRoom adds a user to a waiting room. Re-joining an existing member is
// a no-op, not an error. The host does not count against the player cap.
func (e *Engine) JoinRoom(ctx context.Context, roomID, userID string) (*models.RoomView, error) {
	unlock := e.lockRoom(roomID)
	defer unlock()

	room, err := e.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := requireStatus(room, models.StatusWaiting); err != nil {
		return nil, err
	}

	if room.Player(userID) != nil {
		return room, nil
	}

	user, err := e.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}

	if room.Config != nil && room.Config.MaxPlayers > 0 &&
		len(room.Players)-1 >= room.Config.MaxPlayers {
		return nil, fmt.Errorf("%w: room %s", ErrRoomFull, roomID)
	}

	if err := e.rooms.AddPlayer(ctx, roomID, userID); err != nil {
		return nil, err
	}
	return e.loadRoom(ctx, roomID)
}

// LeaveRoom removes a player from the room. The host cannot leave a room
// they are hosting; they delete it instead.
func (e *Engine) LeaveRoom(ctx context.Context, roomID, userID string) (*models.RoomView, error) {
	unlock := e.lockRoom(roomID)
	defer unlock()

	room, err := e.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.Player(userID) == nil {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, userID)
	}
	if userID == room.HostID {
		return nil, fmt.Errorf("%w: host must delete the room instead of leaving", ErrNotHost)
	}

	if err := e.rooms.RemovePlayer(ctx, roomID, userID); err != nil {
		return nil, err
	}
	return e.loadRoom(ctx, roomID)
}

// RemovePlayer is the host kicking a player out of the room.
func (e *Engine) RemovePlayer(ctx context.Context, roomID, actorID, targetID string) (*models.RoomView, error) {
	unlock := e.lockRoom(roomID)
	defer unlock()

	room, err := e.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := requireHost(room, actorID); err != nil {
		return nil, err
	}
	if room.Player(targetID) == nil {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, targetID)
	}
	if targetID == room.HostID {
		return nil, fmt.Errorf("%w: cannot remove the host", ErrNotHost)
	}

	if err := e.rooms.RemovePlayer(ctx, roomID, targetID); err != nil {
		return nil, err
	}
	return e.loadRoom(ctx, roomID)
}

// UpdateConfig merges the provided fields over the stored config while the
// room is still waiting. Unspecified fields are retained.
func (e *Engine) UpdateConfig(ctx context.Context, roomID, actorID string, patch models.ConfigPatch) (*models.RoomView, error) {
	unlock := e.lockRoom(roomID)
	defer unlock()

	room, err := e.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := requireHost(room, actorID); err != nil {
		return nil, err
	}
	if err := requireStatus(room, models.StatusWaiting); err != nil {
		return nil, err
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	if err := e.rooms.UpdateConfig(ctx, roomID, patch); err != nil {
		return nil, err
	}
	return e.loadRoom(ctx, roomID)
}

func validatePatch(patch models.ConfigPatch) error {
	counts := []*int{patch.GoodCount, patch.BadCount, patch.BlankCount, patch.MaxPlayers}
	for _, count := range counts {
		if count != nil && *count < 0 {
			return fmt.Errorf("%w: negative count", ErrInvalidConfig)
		}
	}
	return nil
}

// StartGame moves a fully prepared room into play. Config must exist and
// every non-host player must already hold a role; the role-count/headcount
// match itself is checked at assignment time, not here.
func (e *Engine) StartGame(ctx context.Context, roomID, actorID string) (*models.RoomView, error) {
	unlock := e.lockRoom(roomID)
	defer unlock()

	room, err := e.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := requireHost(room, actorID); err != nil {
		return nil, err
	}
	if err := requireStatus(room, models.StatusWaiting); err != nil {
		return nil, err
	}
	if room.Config == nil {
		return nil, fmt.Errorf("%w: room %s", ErrConfigMissing, roomID)
	}
	for _, player := range room.NonHostPlayers() {
		if player.Role == "" {
			return nil, fmt.Errorf("%w: %s", ErrRolesUnassigned, player.UserID)
		}
	}

	if err := e.rooms.SetStatus(ctx, roomID, models.StatusPlaying); err != nil {
		return nil, err
	}
	e.logger.Info("game started", zap.String("roomID", roomID))
	return e.loadRoom(ctx, roomID)
}

// StartVote opens a voting round. Any stale vote edges are dropped so every
// round starts from a clean slate.
func (e *Engine) StartVote(ctx context.Context, roomID, actorID string) (*models.RoomView, error) {
	unlock := e.lockRoom(roomID)
	defer unlock()

	room, err := e.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := requireHost(room, actorID); err != nil {
		return nil, err
	}
	if err := requireStatus(room, models.StatusPlaying); err != nil {
		return nil, err
	}

	err = e.rooms.Transaction(ctx, func(tx store.RoomStore) error {
		if err := tx.ClearVotes(ctx, roomID); err != nil {
			return err
		}
		return tx.SetStatus(ctx, roomID, models.StatusVoting)
	})
	if err != nil {
		return nil, err
	}
	return e.loadRoom(ctx, roomID)
}

// GetRoom returns the current snapshot of a room.
func (e *Engine) GetRoom(ctx context.Context, roomID string) (*models.RoomView, error) {
	room, err := e.rooms.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	return room, nil
}

// ListOpenRooms enumerates every room whose status is not ended.
func (e *Engine) ListOpenRooms(ctx context.Context) ([]*models.RoomView, error) {
	return e.rooms.ListOpen(ctx)
}

// DeleteRoom removes a room and all of its players and votes.
func (e *Engine) DeleteRoom(ctx context.Context, roomID, actorID string) error {
	unlock := e.lockRoom(roomID)
	defer unlock()

	room, err := e.loadRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if err := requireHost(room, actorID); err != nil {
		return err
	}

	if err := e.rooms.Delete(ctx, roomID); err != nil {
		return err
	}
	// Drop the lock entry so ids do not accumulate mutexes forever. A
	// straggler on the id allocates a fresh mutex and then fails its room
	// lookup.
	e.locks.Delete(roomID)
	e.logger.Info("room deleted", zap.String("roomID", roomID))
	return nil
}

// ClearRooms wipes every room. Idempotent; intended for operational
// cleanup, not for players.
func (e *Engine) ClearRooms(ctx context.Context) error {
	if err := e.rooms.Clear(ctx); err != nil {
		return err
	}
	e.locks.Range(func(key, _ interface{}) bool {
		e.locks.Delete(key)
		return true
	})
	return nil
}
