package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gomoku-arena/internal/store"
	"gomoku-arena/internal/testutil"
)

func TestRecordAndListResults(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := st.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	started := time.Now().Add(-time.Minute).UTC().Truncate(time.Millisecond)
	first := store.GameResult{
		RoomID: "abc123", RoomName: "den", BlackID: "u1", WhiteID: "u2",
		WinnerID: "u1", WinnerName: "Ann", Reason: store.ReasonFiveInARow, MoveCount: 9,
		WinLine:   [][2]int{{7, 11}, {7, 10}, {7, 9}, {7, 8}, {7, 7}},
		StartedAt: started, FinishedAt: started.Add(30 * time.Second),
	}
	second := store.GameResult{
		ID: store.NewID(), RoomID: "def456", RoomName: "loft", BlackID: "u3", WhiteID: "u4",
		WinnerID: "u4", WinnerName: "Dee", Reason: store.ReasonReconnectTimeout, MoveCount: 2,
		StartedAt: started, FinishedAt: started.Add(45 * time.Second),
	}
	if err := st.RecordResult(ctx, first); err != nil {
		t.Fatalf("record first: %v", err)
	}
	if err := st.RecordResult(ctx, second); err != nil {
		t.Fatalf("record second: %v", err)
	}

	items, err := st.ListRecentResults(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 results, got %d", len(items))
	}
	if items[0].RoomID != "def456" {
		t.Fatalf("expected newest first, got %s", items[0].RoomID)
	}
	if len(items[0].WinLine) != 0 {
		t.Fatalf("forfeit should have empty line, got %v", items[0].WinLine)
	}
	if len(items[1].WinLine) != 5 || items[1].WinLine[0] != [2]int{7, 11} {
		t.Fatalf("unexpected win line %v", items[1].WinLine)
	}

	got, err := st.GetResult(ctx, second.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.WinnerName != "Dee" {
		t.Fatalf("winner = %q", got.WinnerName)
	}
	if _, err := st.GetResult(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
