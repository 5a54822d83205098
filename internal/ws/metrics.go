package ws

import "expvar"

var (
	metricConnectionsTotal  = expvar.NewInt("ws_connections_total")
	metricConnectionsActive = expvar.NewInt("ws_connections_active")
	metricProtocolErrors    = expvar.NewInt("ws_protocol_errors_total")
	metricSendBufferFull    = expvar.NewInt("ws_send_buffer_full_total")
)
