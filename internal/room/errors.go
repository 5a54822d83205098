package room

import "errors"

// Rule violations. The gateway drops these without telling the client.
var (
	ErrGameNotInProgress = errors.New("game_not_in_progress")
	ErrNotYourTurn       = errors.New("not_your_turn")
)

// Session errors are reported back to the requesting connection.
var (
	ErrRoomNotFound    = errors.New("room_not_found")
	ErrRoomFull        = errors.New("room_full")
	ErrDuplicateUser   = errors.New("duplicate_user")
	ErrGameFinished    = errors.New("game_finished")
	ErrUnknownUser     = errors.New("unknown_user")
	ErrInvalidToken    = errors.New("invalid_token")
	ErrNoActiveSession = errors.New("no_active_session")
	ErrNotPlayer       = errors.New("not_player")
	ErrNotSpectator    = errors.New("not_spectator")
)
