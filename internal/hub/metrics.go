package hub

import "expvar"

var (
	metricFanoutFrames   = expvar.NewInt("fanout_frames_total")
	metricFanoutFailures = expvar.NewInt("fanout_delivery_failures_total")
	metricConnsActive    = expvar.NewInt("session_connections_active")
)
