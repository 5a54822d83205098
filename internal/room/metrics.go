package room

import "expvar"

var (
	metricGamesStarted  = expvar.NewInt("games_started_total")
	metricGamesFinished = expvar.NewInt("games_finished_total")
	metricMoves         = expvar.NewInt("moves_total")
	metricTurnTimeouts  = expvar.NewInt("turn_timeouts_total")
	metricForfeits      = expvar.NewInt("forfeits_total")
	metricRoomsActive   = expvar.NewInt("rooms_active")

	metricResultsArchived     = expvar.NewInt("results_archived_total")
	metricResultsArchiveError = expvar.NewInt("results_archive_errors_total")
)
