package game

import "errors"

// Domain errors surfaced to the acting client. Anything not wrapped in one
// of these is an infrastructure failure: it gets logged and reported as a
// generic internal error, never verbatim.
var (
	ErrRoomNotFound    = errors.New("game: room not found")
	ErrUserNotFound    = errors.New("game: user not found")
	ErrPlayerNotFound  = errors.New("game: player not in room")
	ErrInvalidPhase    = errors.New("game: action not allowed in current phase")
	ErrRoomEnded       = errors.New("game: room already ended")
	ErrRoomFull        = errors.New("game: room is full")
	ErrConfigMissing   = errors.New("game: room config not set")
	ErrInvalidConfig   = errors.New("game: invalid role configuration")
	ErrRolesUnassigned = errors.New("game: players without assigned roles")
	ErrNotHost         = errors.New("game: host-only action")
)

var domainErrors = []error{
	ErrRoomNotFound,
	ErrUserNotFound,
	ErrPlayerNotFound,
	ErrInvalidPhase,
	ErrRoomEnded,
	ErrRoomFull,
	ErrConfigMissing,
	ErrInvalidConfig,
	ErrRolesUnassigned,
	ErrNotHost,
}

// IsDomainError reports whether err belongs to the taxonomy above and is
// therefore safe to show to the originating client.
func IsDomainError(err error) bool {
	for _, domain := range domainErrors {
		if errors.Is(err, domain) {
			return true
		}
	}
	return false
}
