package ws

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"gomoku-arena/internal/hub"
	"gomoku-arena/internal/protocol"
	"gomoku-arena/internal/store"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Handler receives the lifecycle and messages of every connection.
type Handler interface {
	Connect(c hub.Conn)
	Handle(c hub.Conn, msg protocol.Inbound)
	Disconnect(connID string)
}

type Config struct {
	SendBuffer     int
	ReadLimit      int64
	AllowedOrigins []string
}

type Server struct {
	handler  Handler
	cfg      Config
	upgrader websocket.Upgrader
}

func NewServer(handler Handler, cfg Config) *Server {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 64
	}
	if cfg.ReadLimit <= 0 {
		cfg.ReadLimit = 4096
	}
	s := &Server{handler: handler, cfg: cfg}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}
	return s
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(strings.TrimSpace(allowed), origin) {
			return true
		}
	}
	return false
}

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Str("remote_addr", r.RemoteAddr).Msg("ws_upgrade_failed")
		return
	}
	client := newClient(store.NewID(), conn, s.cfg.SendBuffer)
	metricConnectionsTotal.Add(1)
	metricConnectionsActive.Add(1)
	log.Info().Str("conn_id", client.id).Str("remote_addr", r.RemoteAddr).Msg("ws_connected")

	s.handler.Connect(client)
	go s.writeLoop(client)
	s.readLoop(client)
}

func (s *Server) readLoop(c *Client) {
	defer func() {
		s.handler.Disconnect(c.id)
		c.close()
		_ = c.conn.Close()
		metricConnectionsActive.Add(-1)
		log.Info().Str("conn_id", c.id).Msg("ws_disconnected")
	}()

	c.conn.SetReadLimit(s.cfg.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("conn_id", c.id).Msg("ws_read_failed")
			}
			return
		}
		msg, err := protocol.Decode(raw)
		if err != nil {
			metricProtocolErrors.Add(1)
			var perr *protocol.ProtocolError
			reason := ""
			if errors.As(err, &perr) {
				reason = perr.Reason
			}
			log.Warn().Err(err).Str("conn_id", c.id).Str("reason", reason).Msg("ws_protocol_error")
			continue
		}
		s.handler.Handle(c, msg)
	}
}

func (s *Server) writeLoop(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.Debug().Err(err).Str("conn_id", c.id).Msg("ws_write_failed")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
