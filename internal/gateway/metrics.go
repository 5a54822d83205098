package gateway

import "expvar"

var (
	metricMessagesHandled = expvar.NewInt("gateway_messages_total")
	metricMessagesDropped = expvar.NewInt("gateway_messages_dropped_total")
	metricSessionErrors   = expvar.NewInt("gateway_session_errors_total")
	metricHandlerPanics   = expvar.NewInt("gateway_handler_panics_total")
)
