package gateway

import (
	"errors"

	"gomoku-arena/internal/game"
	"gomoku-arena/internal/room"
)

// MapSessionError turns a session error into the text sent to the client.
func MapSessionError(err error) string {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		return "Room not found."
	case errors.Is(err, room.ErrRoomFull):
		return "This room is full."
	case errors.Is(err, room.ErrDuplicateUser):
		return "This user ID is already seated in the room."
	case errors.Is(err, room.ErrGameFinished):
		return "This game has already finished."
	case errors.Is(err, room.ErrUnknownUser):
		return "Invalid user ID for this room."
	case errors.Is(err, room.ErrInvalidToken):
		return "Invalid reconnection token."
	case errors.Is(err, room.ErrNoActiveSession):
		return "No active reconnection session found. Please provide token."
	case errors.Is(err, room.ErrNotPlayer):
		return "Only players can use room chat."
	case errors.Is(err, room.ErrNotSpectator):
		return "Only spectators can use spectator chat."
	default:
		return "Internal server error."
	}
}

// IsRuleViolation reports errors that are dropped without a reply.
func IsRuleViolation(err error) bool {
	return errors.Is(err, room.ErrNotYourTurn) ||
		errors.Is(err, room.ErrGameNotInProgress) ||
		errors.Is(err, game.ErrOutOfBounds) ||
		errors.Is(err, game.ErrCellOccupied)
}
