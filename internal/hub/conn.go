package hub

import "errors"

var (
	ErrConnClosed     = errors.New("conn_closed")
	ErrSendBufferFull = errors.New("send_buffer_full")
)

// Conn is one client connection as seen by the session layer. Send must
// not block: it queues the frame for the connection's writer or fails.
type Conn interface {
	ID() string
	Send(frame []byte) error
}
