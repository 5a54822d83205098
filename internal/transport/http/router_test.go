package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomoku-arena/internal/config"
	"gomoku-arena/internal/hub"
	"gomoku-arena/internal/hub/hubtest"
	"gomoku-arena/internal/protocol"
	"gomoku-arena/internal/room"
	"gomoku-arena/internal/store"
	"gomoku-arena/internal/testutil"
)

func newTestRouter(t *testing.T, st *store.Store) (http.Handler, *room.Directory) {
	t.Helper()
	reg := hub.NewRegistry()
	dir := room.NewDirectory(room.DefaultConfig(), reg, hub.NewFanout())
	ws := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) }
	return NewRouter(st, config.LogConfig{}, dir, ws), dir
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthWithoutArchive(t *testing.T) {
	h, _ := newTestRouter(t, nil)
	rec := get(t, h, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"db":"disabled"}`, rec.Body.String())
}

func TestRoomsAndState(t *testing.T) {
	h, dir := newTestRouter(t, nil)
	r := dir.Create("Lounge")
	require.NoError(t, r.SeatPlayer(hubtest.NewRecorder("a"), "alice", "Alice"))

	rec := get(t, h, "/api/rooms")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Rooms []protocol.RoomInfo `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Rooms, 1)
	assert.Equal(t, "Lounge", list.Rooms[0].Name)
	assert.Equal(t, 1, list.Rooms[0].PlayerCount)

	rec = get(t, h, "/api/rooms/"+r.ID()+"/state")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Room      protocol.RoomInfo  `json:"room"`
		GameState protocol.GameState `json:"game_state"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, r.ID(), body.Room.RoomID)
	assert.Equal(t, "WAITING", body.GameState.GameState)
	assert.Equal(t, map[string]string{"alice": "Alice"}, body.GameState.Players)

	rec = get(t, h, "/api/rooms/nope/state")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"room_not_found"}`, rec.Body.String())
}

func TestResultsDisabledWithoutArchive(t *testing.T) {
	h, _ := newTestRouter(t, nil)
	for _, path := range []string{"/api/results", "/api/results/01J0000000000000000000000"} {
		rec := get(t, h, path)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		assert.JSONEq(t, `{"error":"archive_disabled"}`, rec.Body.String(), path)
	}
}

func TestDebugVarsAndWSRoute(t *testing.T) {
	h, _ := newTestRouter(t, nil)
	rec := get(t, h, "/debug/vars")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rooms_active")

	rec = get(t, h, "/ws")
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestParseLimit(t *testing.T) {
	cases := map[string]int{"": 50, "?limit=10": 10, "?limit=0": 1, "?limit=9999": 500, "?limit=abc": 50}
	for q, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/results"+q, nil)
		if got := ParseLimit(req, 50); got != want {
			t.Fatalf("limit for %q = %d, want %d", q, got, want)
		}
	}
}

func TestResultsFromArchive(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, st.RecordResult(ctx, store.GameResult{
		RoomID: "abc123", RoomName: "Lounge", BlackID: "alice", WhiteID: "bob",
		WinnerID: "alice", WinnerName: "Alice", Reason: store.ReasonFiveInARow,
		MoveCount: 9, WinLine: [][2]int{{2, 4}, {2, 3}, {2, 2}, {2, 1}, {2, 0}},
		StartedAt: now.Add(-time.Minute), FinishedAt: now,
	}))

	h, _ := newTestRouter(t, st)
	rec := get(t, h, "/api/results?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Items []store.GameResult `json:"items"`
		Limit int                `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, 5, body.Limit)
	assert.Equal(t, "alice", body.Items[0].WinnerID)

	rec = get(t, h, "/api/results/"+body.Items[0].ID)
	require.Equal(t, http.StatusOK, rec.Code)
	var one store.GameResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &one))
	assert.Equal(t, body.Items[0].ID, one.ID)
	assert.Equal(t, store.ReasonFiveInARow, one.Reason)
	assert.Len(t, one.WinLine, 5)

	rec = get(t, h, "/api/results/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"result_not_found"}`, rec.Body.String())

	rec = get(t, h, "/healthz")
	assert.JSONEq(t, `{"ok":true,"db":"up"}`, rec.Body.String())
}
