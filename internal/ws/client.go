package ws

import (
	"sync"

	"github.com/gorilla/websocket"

	"gomoku-arena/internal/hub"
)

// Client is one websocket connection. Send only queues; the write loop
// owns the socket.
type Client struct {
	id   string
	conn *websocket.Conn

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func newClient(id string, conn *websocket.Conn, buffer int) *Client {
	return &Client{id: id, conn: conn, send: make(chan []byte, buffer)}
}

func (c *Client) ID() string { return c.id }

func (c *Client) Send(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return hub.ErrConnClosed
	}
	select {
	case c.send <- frame:
		return nil
	default:
		metricSendBufferFull.Add(1)
		return hub.ErrSendBufferFull
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}
