package httptransport

import "expvar"

var (
	metricRoomsListTotal     = expvar.NewInt("http_rooms_list_total")
	metricRoomStateTotal     = expvar.NewInt("http_room_state_total")
	metricResultsQueryTotal  = expvar.NewInt("http_results_query_total")
	metricResultsQueryErrors = expvar.NewInt("http_results_query_errors_total")
	metricResultGetTotal     = expvar.NewInt("http_result_get_total")
)
