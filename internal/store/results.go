package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

const (
	ReasonFiveInARow       = "five_in_a_row"
	ReasonReconnectTimeout = "reconnect_timeout"
	ReasonLeft             = "left"
)

// GameResult is one finished game. WinLine is empty for forfeits.
type GameResult struct {
	ID         string    `json:"id"`
	RoomID     string    `json:"room_id"`
	RoomName   string    `json:"room_name"`
	BlackID    string    `json:"black_id"`
	WhiteID    string    `json:"white_id"`
	WinnerID   string    `json:"winner_id"`
	WinnerName string    `json:"winner_name"`
	Reason     string    `json:"reason"`
	MoveCount  int       `json:"move_count"`
	WinLine    [][2]int  `json:"win_line"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

func (s *Store) RecordResult(ctx context.Context, res GameResult) error {
	if res.ID == "" {
		res.ID = NewID()
	}
	if res.WinLine == nil {
		res.WinLine = [][2]int{}
	}
	line, err := json.Marshal(res.WinLine)
	if err != nil {
		return err
	}
	_, err = s.Pool.Exec(ctx, `
		INSERT INTO game_results
			(id, room_id, room_name, black_id, white_id, winner_id, winner_name, reason, move_count, win_line, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		res.ID, res.RoomID, res.RoomName, res.BlackID, res.WhiteID, res.WinnerID, res.WinnerName,
		res.Reason, res.MoveCount, line, res.StartedAt, res.FinishedAt,
	)
	return err
}

const resultColumns = `id, room_id, room_name, black_id, white_id, winner_id, winner_name, reason, move_count, win_line, started_at, finished_at`

func (s *Store) ListRecentResults(ctx context.Context, limit int) ([]GameResult, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > 500 {
		limit = 500
	}
	rows, err := s.Pool.Query(ctx, `SELECT `+resultColumns+`
		FROM game_results
		ORDER BY finished_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GameResult{}
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (s *Store) GetResult(ctx context.Context, id string) (*GameResult, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+resultColumns+` FROM game_results WHERE id = $1`, id)
	res, err := scanResult(row)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &res, nil
}

func scanResult(row pgx.Row) (GameResult, error) {
	var (
		res  GameResult
		line []byte
	)
	if err := row.Scan(&res.ID, &res.RoomID, &res.RoomName, &res.BlackID, &res.WhiteID, &res.WinnerID,
		&res.WinnerName, &res.Reason, &res.MoveCount, &line, &res.StartedAt, &res.FinishedAt); err != nil {
		return GameResult{}, err
	}
	if err := json.Unmarshal(line, &res.WinLine); err != nil {
		return GameResult{}, err
	}
	return res, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
