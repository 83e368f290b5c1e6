package game

import (
	"spyserver/models"

	"github.com/thoas/go-funk"
)

// EvaluateWinners decides the game from the current alive, non-host player
// set alone. It holds no history and is order-independent:
//
//   - no bad and no blank players alive -> good wins
//   - alive good <= alive bad          -> bad wins
//   - otherwise the game continues.
func EvaluateWinners(room *models.RoomView) (bool, []models.Role) {
	alive := room.AliveNonHostPlayers()

	countRole := func(role models.Role) int {
		return len(funk.Filter(alive, func(p *models.PlayerView) bool {
			return p.Role == role
		}).([]*models.PlayerView))
	}

	aliveGood := countRole(models.RoleGood)
	aliveBad := countRole(models.RoleBad)
	aliveBlank := countRole(models.RoleBlank)

	if aliveBad == 0 && aliveBlank == 0 {
		return true, []models.Role{models.RoleGood}
	}
	if aliveGood <= aliveBad {
		return true, []models.Role{models.RoleBad}
	}
	return false, nil
}
