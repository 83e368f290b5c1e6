package store

import (
	"context"

	"spyserver/models"
)

// RoomStore is the durable source of truth for rooms. The engine re-reads
// a room through Get before validating every transition; it never trusts a
// snapshot across operations. Get and ListOpen return assembled views
// (players in join order, usernames resolved, current votes attached).
//
// Absent records are reported as (nil, nil), not as an error: the engine
// owns the domain error taxonomy.
type RoomStore interface {
	Create(ctx context.Context, roomID, hostID string) error
	Get(ctx context.Context, roomID string) (*models.RoomView, error)
	ListOpen(ctx context.Context) ([]*models.RoomView, error)

	AddPlayer(ctx context.Context, roomID, userID string) error
	RemovePlayer(ctx context.Context, roomID, userID string) error

	UpdateConfig(ctx context.Context, roomID string, patch models.ConfigPatch) error
	SetRoles(ctx context.Context, roomID string, roles map[string]models.Role) error
	SetStatus(ctx context.Context, roomID string, status models.RoomStatus) error
	SetWinners(ctx context.Context, roomID string, winners []models.Role) error
	SetAlive(ctx context.Context, roomID, userID string, alive bool) error

	UpsertVote(ctx context.Context, roomID, voterID, targetID string) error
	ClearVotes(ctx context.Context, roomID string) error

	Delete(ctx context.Context, roomID string) error
	Clear(ctx context.Context) error

	// Transaction runs fn against a store bound to a single database
	// transaction, so multi-write transitions (elimination, round reset,
	// status change) commit or roll back as one unit.
	Transaction(ctx context.Context, fn func(RoomStore) error) error
}

// UserStore is the identity store: opaque user id to display name.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}
