package gateway

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"gomoku-arena/internal/hub"
	"gomoku-arena/internal/protocol"
	"gomoku-arena/internal/room"
)

const defaultPlayer = "Player"

// Gateway routes decoded client messages to rooms. A connection bound to a
// live room may only play, chat or leave; a lobby connection may only list,
// create, join, spectate or reconnect.
type Gateway struct {
	dir      *room.Directory
	registry *hub.Registry
	fanout   *hub.Fanout
}

func New(dir *room.Directory, registry *hub.Registry, fanout *hub.Fanout) *Gateway {
	return &Gateway{dir: dir, registry: registry, fanout: fanout}
}

// Connect puts a new connection in the lobby.
func (g *Gateway) Connect(c hub.Conn) {
	g.registry.Register(c)
	log.Debug().Str("conn_id", c.ID()).Msg("conn_registered")
}

// Disconnect forgets the connection and hands the loss to its room.
func (g *Gateway) Disconnect(connID string) {
	defer g.recover(connID, "disconnect")

	binding, ok := g.registry.Unregister(connID)
	if !ok || !binding.InRoom() {
		return
	}
	if r, found := g.dir.Find(binding.RoomID); found {
		r.HandleDisconnect(connID)
	}
}

// Handle processes one message from c. A panic is logged and the
// connection stays open.
func (g *Gateway) Handle(c hub.Conn, msg protocol.Inbound) {
	defer g.recover(c.ID(), msg.MessageType())
	metricMessagesHandled.Add(1)

	_, binding, ok := g.registry.Lookup(c.ID())
	if !ok {
		log.Warn().Str("conn_id", c.ID()).Str("type", msg.MessageType()).Msg("message_from_unregistered_conn")
		return
	}
	if binding.InRoom() {
		if r, found := g.dir.Find(binding.RoomID); found {
			g.handleInRoom(c, r, binding, msg)
			return
		}
		g.registry.Unbind(c.ID())
	}
	g.handleLobby(c, msg)
}

func (g *Gateway) handleInRoom(c hub.Conn, r *room.Room, b hub.Binding, msg protocol.Inbound) {
	switch m := msg.(type) {
	case *protocol.Move:
		if b.Role != hub.RolePlayer {
			g.drop(c, b, msg)
			return
		}
		row, col := m.Coords()
		if err := r.MoveFromConn(c.ID(), row, col); err != nil {
			log.Debug().Err(err).Str("room_id", r.ID()).Str("user_id", b.UserID).Int("r", row).Int("c", col).Msg("move_rejected")
		}
	case *protocol.Chat:
		if b.Role != hub.RolePlayer {
			g.reply(c, room.ErrNotPlayer)
			return
		}
		g.reply(c, r.ChatFromConn(c.ID(), m.Message))
	case *protocol.SpectatorChat:
		g.reply(c, r.SpectatorChat(c.ID(), m.Message))
	case *protocol.LeaveRoom:
		r.Leave(c.ID())
		g.registry.Unbind(c.ID())
		g.sendRoomList(c)
	default:
		g.drop(c, b, msg)
	}
}

func (g *Gateway) handleLobby(c hub.Conn, msg protocol.Inbound) {
	switch m := msg.(type) {
	case *protocol.ListRooms:
		g.sendRoomList(c)
	case *protocol.CreateRoom:
		r := g.dir.Create(m.Name)
		g.seat(c, r, orDefault(m.UserID, defaultPlayer), orDefault(m.UserName, defaultPlayer))
	case *protocol.JoinRoom:
		r, ok := g.dir.Find(m.RoomID)
		if !ok {
			g.reply(c, room.ErrRoomNotFound)
			return
		}
		g.seat(c, r, orDefault(m.UserID, defaultPlayer), orDefault(m.UserName, defaultPlayer))
	case *protocol.SpectateRoom:
		r, ok := g.dir.Find(m.RoomID)
		if !ok {
			g.reply(c, room.ErrRoomNotFound)
			return
		}
		g.registry.Bind(c.ID(), hub.Binding{RoomID: r.ID(), UserID: m.UserID, Role: hub.RoleSpectator})
		if err := r.AddSpectator(c, m.UserID, m.UserName); err != nil {
			g.registry.Unbind(c.ID())
			g.reply(c, err)
		}
	case *protocol.Reconnect:
		g.reconnect(c, m)
	default:
		g.drop(c, hub.Binding{}, msg)
	}
}

func (g *Gateway) seat(c hub.Conn, r *room.Room, userID, name string) {
	g.registry.Bind(c.ID(), hub.Binding{RoomID: r.ID(), UserID: userID, Role: hub.RolePlayer})
	if err := r.SeatPlayer(c, userID, name); err != nil {
		g.registry.Unbind(c.ID())
		g.reply(c, err)
	}
}

func (g *Gateway) reconnect(c hub.Conn, m *protocol.Reconnect) {
	userID := strings.TrimSpace(m.UserID)
	if userID == "" {
		g.sendError(c, "User ID is required for reconnection.")
		return
	}

	var (
		r  *room.Room
		ok bool
	)
	if m.RoomID != "" {
		r, ok = g.dir.Find(m.RoomID)
	}
	if !ok {
		r, ok = g.dir.FindByUser(userID)
	}
	if !ok {
		g.sendError(c, fmt.Sprintf("No active game session found for user ID: %s", userID))
		return
	}

	g.registry.Bind(c.ID(), hub.Binding{RoomID: r.ID(), UserID: userID, Role: hub.RolePlayer})
	replaced, err := r.Reconnect(c, userID, m.Token)
	if err != nil {
		g.registry.Unbind(c.ID())
		g.reply(c, err)
		return
	}
	if replaced != nil {
		g.registry.Unbind(replaced.ID())
		g.sendError(replaced, "Your seat was taken over by another connection.")
		g.sendRoomList(replaced)
	}
}

// reply sends err to c unless it is nil or a silent rule violation.
func (g *Gateway) reply(c hub.Conn, err error) {
	if err == nil {
		return
	}
	if IsRuleViolation(err) {
		log.Debug().Err(err).Str("conn_id", c.ID()).Msg("rule_violation_dropped")
		return
	}
	metricSessionErrors.Add(1)
	log.Debug().Err(err).Str("conn_id", c.ID()).Msg("session_error")
	g.sendError(c, MapSessionError(err))
}

func (g *Gateway) sendError(c hub.Conn, text string) {
	g.fanout.DeliverOne(c, protocol.NewError(text))
}

func (g *Gateway) sendRoomList(c hub.Conn) {
	g.fanout.DeliverOne(c, protocol.RoomList{Type: protocol.TypeRoomList, Rooms: g.dir.List()})
}

func (g *Gateway) drop(c hub.Conn, b hub.Binding, msg protocol.Inbound) {
	metricMessagesDropped.Add(1)
	log.Debug().Str("conn_id", c.ID()).Str("room_id", b.RoomID).Str("type", msg.MessageType()).Msg("message_dropped")
}

func (g *Gateway) recover(connID, op string) {
	if rec := recover(); rec != nil {
		metricHandlerPanics.Add(1)
		log.Error().Str("conn_id", connID).Str("op", op).Interface("panic", rec).Msg("gateway_handler_panic")
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
