package protocol

import (
	"encoding/json"

	"gomoku-arena/internal/game"
)

// Server to client message types.
const (
	TypeRoomList          = "room_list"
	TypeRoomUpdate        = "room_update"
	TypeRoomRemoved       = "room_removed"
	TypeJoinSuccess       = "join_success"
	TypeSpectateSuccess   = "spectate_success"
	TypeReconnectSuccess  = "reconnect_success"
	TypeGameState         = "game_state"
	TypeTurnChange        = "turn_change"
	TypeTimerNotification = "timer_notification"
	TypeGameOver          = "game_over"
	TypeError             = "error"
)

// SystemSender is the chat sender used for server notices.
const SystemSender = "System"

type RoomInfo struct {
	RoomID         string   `json:"room_id"`
	Name           string   `json:"name"`
	PlayerCount    int      `json:"player_count"`
	SpectatorCount int      `json:"spectator_count"`
	PlayerNames    []string `json:"player_names"`
	GameState      string   `json:"game_state"`
}

type RoomList struct {
	Type  string     `json:"type"`
	Rooms []RoomInfo `json:"rooms"`
}

type RoomUpdate struct {
	Type string   `json:"type"`
	Room RoomInfo `json:"room"`
}

type RoomRemoved struct {
	Type   string `json:"type"`
	RoomID string `json:"room_id"`
}

type JoinSuccess struct {
	Type      string     `json:"type"`
	RoomID    string     `json:"room_id"`
	Token     string     `json:"token"`
	YourStone game.Stone `json:"your_stone"`
}

type SpectateSuccess struct {
	Type   string `json:"type"`
	RoomID string `json:"room_id"`
}

type ReconnectSuccess struct {
	Type      string     `json:"type"`
	RoomID    string     `json:"room_id"`
	YourStone game.Stone `json:"your_stone"`
}

type GameState struct {
	Type        string            `json:"type"`
	Board       [][]int           `json:"board"`
	CurrentTurn string            `json:"current_turn"`
	GameState   string            `json:"game_state"`
	Players     map[string]string `json:"players"`
	WinLine     []game.Coord      `json:"win_line"`
}

type MoveEvent struct {
	Type     string     `json:"type"`
	PlayerID string     `json:"player_id"`
	R        int        `json:"r"`
	C        int        `json:"c"`
	Stone    game.Stone `json:"stone"`
}

type TurnChange struct {
	Type        string `json:"type"`
	CurrentTurn string `json:"current_turn"`
}

type TimerNotification struct {
	Type       string `json:"type"`
	Player     string `json:"player"`
	TimeLeft   int    `json:"time_left"`
	PlayerName string `json:"player_name"`
}

type GameOver struct {
	Type       string       `json:"type"`
	WinnerName string       `json:"winner_name"`
	WinnerID   string       `json:"winner_id"`
	Line       []game.Coord `json:"line"`
}

type ChatMessage struct {
	Type    string `json:"type"`
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewError(message string) ErrorMessage {
	return ErrorMessage{Type: TypeError, Message: message}
}

func SystemChat(message string) ChatMessage {
	return ChatMessage{Type: TypeChat, Sender: SystemSender, Message: message}
}

// Encode renders an outbound message as a text frame.
func Encode(msg any) ([]byte, error) {
	return json.Marshal(msg)
}
