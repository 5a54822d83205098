package protocol

import (
	"encoding/json"
	"strings"
)

// Client to server message types.
const (
	TypeListRooms     = "list_rooms"
	TypeCreateRoom    = "create_room"
	TypeJoinRoom      = "join_room"
	TypeSpectateRoom  = "spectate_room"
	TypeMove          = "move"
	TypeChat          = "chat"
	TypeSpectatorChat = "spectator_chat"
	TypeLeaveRoom     = "leave_room"
	TypeReconnect     = "reconnect"
)

// Inbound is a decoded client message. The concrete types below are the
// only implementations.
type Inbound interface {
	MessageType() string
}

type ListRooms struct{}

type CreateRoom struct {
	Name     string `json:"name"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}

type JoinRoom struct {
	RoomID   string `json:"room_id"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}

type SpectateRoom struct {
	RoomID   string `json:"room_id"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}

type Position struct {
	R *int `json:"r"`
	C *int `json:"c"`
}

type Move struct {
	Move *Position `json:"move"`
}

// Coords returns the validated target cell.
func (m *Move) Coords() (int, int) {
	return *m.Move.R, *m.Move.C
}

type Chat struct {
	Message string `json:"message"`
}

type SpectatorChat struct {
	Message string `json:"message"`
}

type LeaveRoom struct{}

type Reconnect struct {
	UserID string `json:"user_id"`
	Token  string `json:"token,omitempty"`
	RoomID string `json:"room_id,omitempty"`
}

func (*ListRooms) MessageType() string     { return TypeListRooms }
func (*CreateRoom) MessageType() string    { return TypeCreateRoom }
func (*JoinRoom) MessageType() string      { return TypeJoinRoom }
func (*SpectateRoom) MessageType() string  { return TypeSpectateRoom }
func (*Move) MessageType() string          { return TypeMove }
func (*Chat) MessageType() string          { return TypeChat }
func (*SpectatorChat) MessageType() string { return TypeSpectatorChat }
func (*LeaveRoom) MessageType() string     { return TypeLeaveRoom }
func (*Reconnect) MessageType() string     { return TypeReconnect }

type validator interface {
	validate() error
}

func (m *JoinRoom) validate() error {
	if strings.TrimSpace(m.RoomID) == "" {
		return errMissingField("room_id")
	}
	return nil
}

func (m *SpectateRoom) validate() error {
	if strings.TrimSpace(m.RoomID) == "" {
		return errMissingField("room_id")
	}
	return nil
}

func (m *Move) validate() error {
	if m.Move == nil || m.Move.R == nil || m.Move.C == nil {
		return errMissingField("move")
	}
	return nil
}

func (m *Chat) validate() error {
	if strings.TrimSpace(m.Message) == "" {
		return errMissingField("message")
	}
	return nil
}

func (m *SpectatorChat) validate() error {
	if strings.TrimSpace(m.Message) == "" {
		return errMissingField("message")
	}
	return nil
}

// Decode parses one client frame into its typed message. Every failure is
// a *ProtocolError.
func Decode(raw []byte) (Inbound, error) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &ProtocolError{Reason: ReasonInvalidJSON, Err: err}
	}

	var msg Inbound
	switch env.Type {
	case TypeListRooms:
		msg = &ListRooms{}
	case TypeCreateRoom:
		msg = &CreateRoom{}
	case TypeJoinRoom:
		msg = &JoinRoom{}
	case TypeSpectateRoom:
		msg = &SpectateRoom{}
	case TypeMove:
		msg = &Move{}
	case TypeChat:
		msg = &Chat{}
	case TypeSpectatorChat:
		msg = &SpectatorChat{}
	case TypeLeaveRoom:
		msg = &LeaveRoom{}
	case TypeReconnect:
		msg = &Reconnect{}
	case "":
		return nil, &ProtocolError{Reason: ReasonMissingType}
	default:
		return nil, &ProtocolError{Reason: ReasonUnknownType, Type: env.Type}
	}

	if err := json.Unmarshal(raw, msg); err != nil {
		return nil, &ProtocolError{Reason: ReasonInvalidPayload, Type: env.Type, Err: err}
	}
	if v, ok := msg.(validator); ok {
		if err := v.validate(); err != nil {
			return nil, &ProtocolError{Reason: ReasonInvalidPayload, Type: env.Type, Err: err}
		}
	}
	return msg, nil
}
