package game

import (
	"context"
	"fmt"

	"spyserver/models"
	"spyserver/store"

	"go.uber.org/zap"
)

// GuessResult reports how a word guess resolved.
type GuessResult struct {
	Room     *models.RoomView
	Correct  bool
	GameOver bool
	Winners  []models.Role
}

// GuessWord resolves a player's attempt to name the good word while the
// game is in play. Comparison is an exact, case-sensitive string match.
//
// Only bad and blank players can be correct; a good player's guess is wrong
// by definition. A wrong guess (or any good-player guess) eliminates the
// guesser and then runs the normal win evaluator. A correct guess keeps the
// guesser alive and ends the game immediately with the guesser's faction as
// sole winner, bypassing the evaluator.
func (e *Engine) GuessWord(ctx context.Context, roomID, playerID, word string) (*GuessResult, error) {
	unlock := e.lockRoom(roomID)
	defer unlock()

	room, err := e.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := requireStatus(room, models.StatusPlaying); err != nil {
		return nil, err
	}
	if room.Config == nil {
		return nil, fmt.Errorf("%w: room %s", ErrConfigMissing, roomID)
	}

	player := room.Player(playerID)
	if player == nil || !player.IsAlive {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}

	correct := false
	switch player.Role {
	case models.RoleBad, models.RoleBlank:
		correct = word == room.Config.GoodWord
	case models.RoleGood:
		correct = false
	}

	eliminate := player.Role == models.RoleGood || !correct

	var gameOver bool
	var winners []models.Role
	if correct {
		gameOver = true
		winners = []models.Role{player.Role}
	} else {
		if eliminate {
			room.Players[playerID].IsAlive = false
		}
		gameOver, winners = EvaluateWinners(room)
	}

	err = e.rooms.Transaction(ctx, func(tx store.RoomStore) error {
		if eliminate {
			if err := tx.SetAlive(ctx, roomID, playerID, false); err != nil {
				return err
			}
		}
		if gameOver {
			if err := tx.SetWinners(ctx, roomID, winners); err != nil {
				return err
			}
			return tx.SetStatus(ctx, roomID, models.StatusEnded)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("word guessed",
		zap.String("roomID", roomID),
		zap.String("playerID", playerID),
		zap.Bool("correct", correct),
		zap.Bool("gameOver", gameOver),
	)

	room, err = e.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return &GuessResult{
		Room:     room,
		Correct:  correct,
		GameOver: gameOver,
		Winners:  winners,
	}, nil
}
