package main

import (
	"encoding/json"
	"math/rand"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"gomoku-arena/internal/config"
	"gomoku-arena/internal/game"
	"gomoku-arena/internal/logging"
	"gomoku-arena/internal/protocol"
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	if err := logging.Init(logCfg); err != nil {
		panic(err)
	}
	cfg, err := config.LoadBot()
	if err != nil {
		log.Fatal().Err(err).Msg("load bot config failed")
	}

	conn, _, err := websocket.DefaultDialer.Dial(cfg.WSURL, nil)
	if err != nil {
		log.Fatal().Err(err).Str("url", cfg.WSURL).Msg("dial failed")
	}
	defer conn.Close()

	if err := conn.WriteJSON(entryMessage(cfg)); err != nil {
		log.Fatal().Err(err).Msg("send entry message failed")
	}

	b := newBot(cfg.UserID, rand.New(rand.NewSource(time.Now().UnixNano())))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Info().Err(err).Msg("connection closed")
			return
		}
		reply, done := b.handle(data)
		if reply != nil {
			if err := conn.WriteJSON(reply); err != nil {
				log.Error().Err(err).Msg("send move failed")
				return
			}
		}
		if done {
			return
		}
	}
}

func entryMessage(cfg config.BotConfig) any {
	if cfg.RoomID != "" {
		return map[string]string{
			"type":      protocol.TypeJoinRoom,
			"room_id":   cfg.RoomID,
			"user_id":   cfg.UserID,
			"user_name": cfg.UserName,
		}
	}
	return map[string]string{
		"type":      protocol.TypeCreateRoom,
		"name":      cfg.RoomName,
		"user_id":   cfg.UserID,
		"user_name": cfg.UserName,
	}
}

// bot mirrors the board from server frames and plays a random empty cell,
// preferring cells next to existing stones.
type bot struct {
	userID string
	rnd    *rand.Rand
	board  game.Board
}

func newBot(userID string, rnd *rand.Rand) *bot {
	return &bot{userID: userID, rnd: rnd}
}

func (b *bot) handle(data []byte) (any, bool) {
	var base struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &base); err != nil {
		return nil, false
	}
	switch base.Type {
	case protocol.TypeJoinSuccess:
		var js protocol.JoinSuccess
		_ = json.Unmarshal(data, &js)
		log.Info().Str("room_id", js.RoomID).Str("stone", js.YourStone.String()).Msg("seated")
	case protocol.TypeGameState:
		var gs protocol.GameState
		if err := json.Unmarshal(data, &gs); err != nil {
			return nil, false
		}
		b.load(gs.Board)
		if gs.GameState == "IN_PROGRESS" && gs.CurrentTurn == b.userID {
			return b.move(), false
		}
	case protocol.TypeMove:
		var mv protocol.MoveEvent
		if err := json.Unmarshal(data, &mv); err == nil {
			_ = b.board.Place(mv.R, mv.C, mv.Stone)
		}
	case protocol.TypeTurnChange:
		var tc protocol.TurnChange
		if err := json.Unmarshal(data, &tc); err == nil && tc.CurrentTurn == b.userID {
			return b.move(), false
		}
	case protocol.TypeGameOver:
		var over protocol.GameOver
		_ = json.Unmarshal(data, &over)
		log.Info().Str("winner_id", over.WinnerID).Msg("game over")
		return nil, true
	case protocol.TypeError:
		var e protocol.ErrorMessage
		_ = json.Unmarshal(data, &e)
		log.Warn().Str("message", e.Message).Msg("server error")
	}
	return nil, false
}

func (b *bot) load(cells [][]int) {
	b.board = game.Board{}
	for r := range cells {
		for c := range cells[r] {
			if game.InBounds(r, c) {
				b.board[r][c] = game.Stone(cells[r][c])
			}
		}
	}
}

func (b *bot) move() any {
	var near, free []game.Coord
	for r := 0; r < game.BoardSize; r++ {
		for c := 0; c < game.BoardSize; c++ {
			if b.board.At(r, c) != game.Empty {
				continue
			}
			free = append(free, game.Coord{R: r, C: c})
			if b.hasNeighbour(r, c) {
				near = append(near, game.Coord{R: r, C: c})
			}
		}
	}
	pool := near
	if len(pool) == 0 {
		pool = free
	}
	if len(pool) == 0 {
		return nil
	}
	pick := pool[b.rnd.Intn(len(pool))]
	return map[string]any{
		"type": protocol.TypeMove,
		"move": map[string]int{"r": pick.R, "c": pick.C},
	}
}

func (b *bot) hasNeighbour(r, c int) bool {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if (dr != 0 || dc != 0) && game.InBounds(r+dr, c+dc) && b.board.At(r+dr, c+dc) != game.Empty {
				return true
			}
		}
	}
	return false
}
