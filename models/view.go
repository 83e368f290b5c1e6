package models

import "strings"

// Role is a player's faction. The empty string means not yet assigned.
type Role string

const (
	RoleGood  Role = "good"
	RoleBad   Role = "bad"
	RoleBlank Role = "blank"
)

// RoomStatus is the room lifecycle state machine:
// waiting -> playing -> voting -> playing (loop) -> ended.
type RoomStatus string

const (
	StatusWaiting RoomStatus = "waiting"
	StatusPlaying RoomStatus = "playing"
	StatusVoting  RoomStatus = "voting"
	StatusEnded   RoomStatus = "ended"
)

// DefaultMaxPlayers applies when a config was saved without a player cap.
const DefaultMaxPlayers = 10

// RoomConfig is the host-provided game setup. GoodCount+BadCount+BlankCount
// must equal the number of non-host players by the time roles are dealt.
type RoomConfig struct {
	GoodWord   string `json:"goodWord"`
	BadWord    string `json:"badWord"`
	GoodCount  int    `json:"goodCount"`
	BadCount   int    `json:"badCount"`
	BlankCount int    `json:"blankCount"`
	MaxPlayers int    `json:"maxPlayers"`
}

// ConfigPatch is a partial config update. Nil fields keep their stored
// value, last writer wins per field.
type ConfigPatch struct {
	GoodWord   *string `json:"goodWord,omitempty"`
	BadWord    *string `json:"badWord,omitempty"`
	GoodCount  *int    `json:"goodCount,omitempty"`
	BadCount   *int    `json:"badCount,omitempty"`
	BlankCount *int    `json:"blankCount,omitempty"`
	MaxPlayers *int    `json:"maxPlayers,omitempty"`
}

// PlayerView is one player's slice of a room snapshot.
type PlayerView struct {
	UserID   string   `json:"id"`
	Username string   `json:"username"`
	Role     Role     `json:"role,omitempty"`
	IsHost   bool     `json:"isHost"`
	IsAlive  bool     `json:"isAlive"`
	VotedFor string   `json:"voted,omitempty"`
	VotedBy  []string `json:"votedBy"`
}

// RoomView is the assembled, authoritative snapshot of a room: the room row
// joined with its players (usernames resolved) and the current round's
// votes. Order lists player ids in join order, which map iteration cannot
// provide.
type RoomView struct {
	ID      string                 `json:"id"`
	HostID  string                 `json:"hostId"`
	Status  RoomStatus             `json:"status"`
	Config  *RoomConfig            `json:"config,omitempty"`
	Players map[string]*PlayerView `json:"players"`
	Order   []string               `json:"playerOrder"`
	Winners []Role                 `json:"winners,omitempty"`
}

// Player returns the player with the given user id, or nil.
func (r *RoomView) Player(userID string) *PlayerView {
	return r.Players[userID]
}

// NonHostPlayers returns the participating players in join order.
func (r *RoomView) NonHostPlayers() []*PlayerView {
	players := make([]*PlayerView, 0, len(r.Order))
	for _, id := range r.Order {
		if p := r.Players[id]; p != nil && !p.IsHost {
			players = append(players, p)
		}
	}
	return players
}

// AliveNonHostPlayers returns the still-living participants in join order.
func (r *RoomView) AliveNonHostPlayers() []*PlayerView {
	players := make([]*PlayerView, 0, len(r.Order))
	for _, p := range r.NonHostPlayers() {
		if p.IsAlive {
			players = append(players, p)
		}
	}
	return players
}

// VoteEdges returns the current round's votes as voter id -> target id.
func (r *RoomView) VoteEdges() map[string]string {
	votes := make(map[string]string)
	for _, id := range r.Order {
		if p := r.Players[id]; p != nil && p.VotedFor != "" {
			votes[p.UserID] = p.VotedFor
		}
	}
	return votes
}

// JoinWinners serializes a winner list for the room row.
func JoinWinners(winners []Role) string {
	parts := make([]string, len(winners))
	for i, w := range winners {
		parts[i] = string(w)
	}
	return strings.Join(parts, ",")
}

// SplitWinners parses a serialized winner list. Empty input means no
// winners recorded.
func SplitWinners(s string) []Role {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	winners := make([]Role, len(parts))
	for i, p := range parts {
		winners[i] = Role(p)
	}
	return winners
}
