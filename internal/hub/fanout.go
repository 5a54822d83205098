package hub

import (
	"github.com/rs/zerolog/log"

	"gomoku-arena/internal/protocol"
)

// Fanout delivers one message to many connections. Delivery is best
// effort: a failed connection is skipped, not retried.
type Fanout struct{}

func NewFanout() *Fanout {
	return &Fanout{}
}

// Deliver encodes msg once and queues it on every connection. It returns
// the number of connections that accepted the frame.
func (f *Fanout) Deliver(conns []Conn, msg any) int {
	if len(conns) == 0 {
		return 0
	}
	frame, err := protocol.Encode(msg)
	if err != nil {
		log.Error().Err(err).Msg("fanout_encode_failed")
		return 0
	}
	delivered := 0
	for _, c := range conns {
		if c == nil {
			continue
		}
		if err := c.Send(frame); err != nil {
			metricFanoutFailures.Add(1)
			log.Debug().Err(err).Str("conn_id", c.ID()).Msg("fanout_delivery_failed")
			continue
		}
		delivered++
	}
	metricFanoutFrames.Add(int64(delivered))
	return delivered
}

// DeliverOne is Deliver for a single recipient.
func (f *Fanout) DeliverOne(c Conn, msg any) bool {
	return f.Deliver([]Conn{c}, msg) == 1
}
