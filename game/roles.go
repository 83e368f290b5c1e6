package game

import (
	"context"
	"fmt"

	"spyserver/models"
)

// AssignRoles deals roles to the non-host players of a waiting room.
//
// With no explicit assignments the role multiset is built from the config
// counts, which must sum to the non-host headcount, then shuffled with
// Fisher-Yates and dealt in join order. Explicit assignments are applied
// verbatim: the host is trusted to override the counts.
func (e *Engine) AssignRoles(ctx context.Context, roomID, actorID string, assignments map[string]models.Role) (*models.RoomView, error) {
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

	if assignments == nil {
		assignments, err = e.dealRoles(room)
		if err != nil {
			return nil, err
		}
	}

	if err := e.rooms.SetRoles(ctx, roomID, assignments); err != nil {
		return nil, err
	}
	return e.loadRoom(ctx, roomID)
}

// dealRoles builds and shuffles the role multiset for a random deal.
func (e *Engine) dealRoles(room *models.RoomView) (map[string]models.Role, error) {
	config := room.Config
	players := room.NonHostPlayers()

	total := config.GoodCount + config.BadCount + config.BlankCount
	if total != len(players) {
		return nil, fmt.Errorf("%w: %d roles for %d players", ErrInvalidConfig, total, len(players))
	}

	roles := make([]models.Role, 0, total)
	for i := 0; i < config.GoodCount; i++ {
		roles = append(roles, models.RoleGood)
	}
	for i := 0; i < config.BadCount; i++ {
		roles = append(roles, models.RoleBad)
	}
	for i := 0; i < config.BlankCount; i++ {
		roles = append(roles, models.RoleBlank)
	}

	e.shuffleRoles(roles)

	assignments := make(map[string]models.Role, len(players))
	for i, player := range players {
		assignments[player.UserID] = roles[i]
	}
	return assignments, nil
}

// shuffleRoles applies a uniformly random Fisher-Yates permutation.
func (e *Engine) shuffleRoles(roles []models.Role) {
	e.randMu.Lock()
	defer e.randMu.Unlock()
	for i := len(roles) - 1; i > 0; i-- {
		j := e.rand.Intn(i + 1)
		roles[i], roles[j] = roles[j], roles[i]
	}
}
