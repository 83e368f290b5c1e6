package models

import "time"

// Room is the durable room record. Config columns are nullable: a room has
// no config until the host sets at least one field.
type Room struct {
	ID         string `gorm:"primaryKey;size:6"`
	HostID     string `gorm:"not null;index"`
	Status     string `gorm:"not null"`
	GoodWord   *string
	BadWord    *string
	GoodCount  *int
	BadCount   *int
	BlankCount *int
	MaxPlayers *int
	Winners    string // comma-joined roles, set when the room ends
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Player is the per-room membership record. The autoincrement ID doubles as
// the join order, which role assignment depends on.
type Player struct {
	ID      uint   `gorm:"primaryKey"`
	RoomID  string `gorm:"not null;uniqueIndex:idx_players_room_user"`
	UserID  string `gorm:"not null;uniqueIndex:idx_players_room_user"`
	Role    string
	IsAlive bool `gorm:"not null;default:true"`
}

// Vote is one outgoing edge per voter per round, scoped to a room and
// cleared when the round ends.
type Vote struct {
	ID       uint   `gorm:"primaryKey"`
	RoomID   string `gorm:"not null;uniqueIndex:idx_votes_room_voter"`
	VoterID  string `gorm:"not null;uniqueIndex:idx_votes_room_voter"`
	TargetID string `gorm:"not null"`
}
