package game

import (
	"context"
	"fmt"
	"math"

	"spyserver/models"
	"spyserver/store"

	"go.uber.org/zap"
)

// VoteResult is what EndVote hands back for fan-out: the post-round room,
// who was eliminated (empty when nobody), and whether the game ended.
type VoteResult struct {
	Room       *models.RoomView
	Eliminated string
	GameOver   bool
	Winners    []models.Role
}

// Vote upserts the voter's single outgoing edge for the round. Voter and
// target must both be present and alive. Returns the refreshed room plus
// the full voter->target map for the vote_updated event.
func (e *Engine) Vote(ctx context.Context, roomID, voterID, targetID string) (*models.RoomView, map[string]string, error) {
	unlock := e.lockRoom(roomID)
	defer unlock()

	room, err := e.loadRoom(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}
	if err := requireStatus(room, models.StatusVoting); err != nil {
		return nil, nil, err
	}

	voter := room.Player(voterID)
	if voter == nil || !voter.IsAlive {
		return nil, nil, fmt.Errorf("%w: voter %s", ErrPlayerNotFound, voterID)
	}
	target := room.Player(targetID)
	if target == nil || !target.IsAlive {
		return nil, nil, fmt.Errorf("%w: target %s", ErrPlayerNotFound, targetID)
	}

	if err := e.rooms.UpsertVote(ctx, roomID, voterID, targetID); err != nil {
		return nil, nil, err
	}

	room, err = e.loadRoom(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}
	return room, room.VoteEdges(), nil
}

// EndVote closes the round: tallies votes over the alive non-host players,
// eliminates the single leader if one exists and carries quorum, clears all
// vote edges, then either ends the game or returns the room to playing.
//
// Two distinct rules decide elimination and both are load-bearing:
// accumulation keeps a candidate only while it leads strictly, so any tie
// at the maximum drops the candidate entirely; and an untied leader still
// needs at least ceil(alive/2) votes.
func (e *Engine) EndVote(ctx context.Context, roomID, actorID string) (*VoteResult, error) {
	unlock := e.lockRoom(roomID)
	defer unlock()

	room, err := e.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := requireHost(room, actorID); err != nil {
		return nil, err
	}
	if err := requireStatus(room, models.StatusVoting); err != nil {
		return nil, err
	}

	alive := room.AliveNonHostPlayers()

	eliminated := ""
	maxVotes := 0
	for _, player := range alive {
		votes := len(player.VotedBy)
		if votes == 0 {
			continue
		}
		if votes > maxVotes {
			maxVotes = votes
			eliminated = player.UserID
		} else if votes == maxVotes && maxVotes > 0 {
			eliminated = ""
		}
	}

	quorum := int(math.Ceil(float64(len(alive)) / 2))
	if maxVotes < quorum {
		eliminated = ""
	}

	// Evaluate the win condition against the post-elimination state before
	// writing anything, so the status change lands in the same transaction.
	if eliminated != "" {
		room.Players[eliminated].IsAlive = false
	}
	gameOver, winners := EvaluateWinners(room)

	err = e.rooms.Transaction(ctx, func(tx store.RoomStore) error {
		if eliminated != "" {
			if err := tx.SetAlive(ctx, roomID, eliminated, false); err != nil {
				return err
			}
		}
		if err := tx.ClearVotes(ctx, roomID); err != nil {
			return err
		}
		if gameOver {
			if err := tx.SetWinners(ctx, roomID, winners); err != nil {
				return err
			}
			return tx.SetStatus(ctx, roomID, models.StatusEnded)
		}
		return tx.SetStatus(ctx, roomID, models.StatusPlaying)
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("vote round ended",
		zap.String("roomID", roomID),
		zap.String("eliminated", eliminated),
		zap.Bool("gameOver", gameOver),
	)

	room, err = e.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return &VoteResult{
		Room:       room,
		Eliminated: eliminated,
		GameOver:   gameOver,
		Winners:    winners,
	}, nil
}
