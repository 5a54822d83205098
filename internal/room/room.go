package room

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"gomoku-arena/internal/game"
	"gomoku-arena/internal/hub"
	"gomoku-arena/internal/protocol"
	"gomoku-arena/internal/store"
)

type State string

const (
	StateWaiting    State = "WAITING"
	StateInProgress State = "IN_PROGRESS"
	StateFinished   State = "FINISHED"
)

const archiveTimeout = 5 * time.Second

// Config holds the timer windows shared by every room.
type Config struct {
	MoveTimeout    time.Duration
	MoveWarning    time.Duration
	ReconnectGrace time.Duration
}

func DefaultConfig() Config {
	return Config{
		MoveTimeout:    30 * time.Second,
		MoveWarning:    10 * time.Second,
		ReconnectGrace: 30 * time.Second,
	}
}

// Lobby lists the connections that are not inside any room.
type Lobby interface {
	LobbyConns() []hub.Conn
}

// ResultRecorder archives finished games.
type ResultRecorder interface {
	RecordResult(ctx context.Context, res store.GameResult) error
}

type player struct {
	userID string
	name   string
	stone  game.Stone
	conn   hub.Conn
	token  string
}

type spectator struct {
	conn   hub.Conn
	userID string
	name   string
	seq    uint64
}

// Room is one game table. Every exported method holds mu for its full
// duration, and timer callbacks re-enter through the same mutex.
type Room struct {
	id       string
	name     string
	cfg      Config
	fanout   *hub.Fanout
	lobby    Lobby
	recorder ResultRecorder
	onEmpty  func(roomID string)

	mu          sync.Mutex
	removed     bool
	board       game.Board
	state       State
	players     []*player
	spectators  map[string]*spectator
	specSeq     uint64
	currentTurn string
	winLine     []game.Coord

	moveTimer   Timer
	warnTimer   Timer
	graceTimers map[string]*Timer

	seatIDs   [2]string
	startedAt time.Time
}

func newRoom(id, name string, cfg Config, fanout *hub.Fanout, lobby Lobby) *Room {
	return &Room{
		id:          id,
		name:        name,
		cfg:         cfg,
		fanout:      fanout,
		lobby:       lobby,
		state:       StateWaiting,
		spectators:  map[string]*spectator{},
		graceTimers: map[string]*Timer{},
	}
}

func (r *Room) ID() string   { return r.id }
func (r *Room) Name() string { return r.name }

// unlock releases mu and, if the room was left without occupants, reports
// it to the directory.
func (r *Room) unlock() {
	empty := !r.removed && r.emptyLocked()
	r.mu.Unlock()
	if empty && r.onEmpty != nil {
		r.onEmpty(r.id)
	}
}

// SeatPlayer gives conn the next free seat. The first seat plays BLACK;
// filling the second one starts the game.
func (r *Room) SeatPlayer(conn hub.Conn, userID, name string) error {
	r.mu.Lock()
	defer r.unlock()

	switch {
	case r.removed:
		return ErrRoomNotFound
	case r.state == StateFinished:
		return ErrGameFinished
	case len(r.players) >= 2:
		return ErrRoomFull
	case r.playerLocked(userID) != nil:
		return ErrDuplicateUser
	}

	stone := game.Black
	if len(r.players) == 1 && r.players[0].stone == game.Black {
		stone = game.White
	}
	p := &player{userID: userID, name: name, stone: stone, conn: conn, token: uuid.NewString()}
	r.players = append(r.players, p)
	log.Info().Str("room_id", r.id).Str("user_id", userID).Str("stone", stone.String()).Msg("player_seated")

	r.fanout.DeliverOne(conn, protocol.JoinSuccess{
		Type:      protocol.TypeJoinSuccess,
		RoomID:    r.id,
		Token:     p.token,
		YourStone: stone,
	})
	if len(r.players) == 2 {
		r.startLocked()
	}
	r.lobbyUpdateLocked()
	return nil
}

func (r *Room) startLocked() {
	r.state = StateInProgress
	if r.players[1].stone == game.Black {
		r.players[0], r.players[1] = r.players[1], r.players[0]
	}
	r.currentTurn = r.players[0].userID
	r.seatIDs = [2]string{r.players[0].userID, r.players[1].userID}
	r.startedAt = time.Now().UTC()
	metricGamesStarted.Add(1)
	log.Info().Str("room_id", r.id).Str("black", r.seatIDs[0]).Str("white", r.seatIDs[1]).Msg("game_started")

	r.broadcastLocked(r.gameStateLocked(), "")
	r.armMoveTimerLocked()
}

// AddSpectator attaches a watcher. Missing identities get generated
// defaults.
func (r *Room) AddSpectator(conn hub.Conn, userID, name string) error {
	r.mu.Lock()
	defer r.unlock()

	if r.removed {
		return ErrRoomNotFound
	}
	r.specSeq++
	if userID == "" {
		userID = fmt.Sprintf("spec_%d", r.specSeq)
	}
	if name == "" {
		name = fmt.Sprintf("Spectator-%d", r.specSeq)
	}
	r.spectators[conn.ID()] = &spectator{conn: conn, userID: userID, name: name, seq: r.specSeq}
	log.Info().Str("room_id", r.id).Str("user_id", userID).Str("conn_id", conn.ID()).Msg("spectator_joined")

	r.fanout.DeliverOne(conn, protocol.SpectateSuccess{Type: protocol.TypeSpectateSuccess, RoomID: r.id})
	r.fanout.DeliverOne(conn, r.gameStateLocked())
	r.lobbyUpdateLocked()
	return nil
}

// SubmitMove applies a move for userID. Rule violations leave the room
// untouched and send nothing.
func (r *Room) SubmitMove(userID string, row, col int) error {
	r.mu.Lock()
	defer r.unlock()
	return r.moveLocked(userID, row, col)
}

// MoveFromConn applies a move for the player seated on connID. A connection
// that holds no seat gets ErrNotYourTurn.
func (r *Room) MoveFromConn(connID string, row, col int) error {
	r.mu.Lock()
	defer r.unlock()

	p := r.playerByConnLocked(connID)
	if p == nil {
		return ErrNotYourTurn
	}
	return r.moveLocked(p.userID, row, col)
}

func (r *Room) moveLocked(userID string, row, col int) error {
	if r.state != StateInProgress {
		return ErrGameNotInProgress
	}
	if userID != r.currentTurn {
		return ErrNotYourTurn
	}
	if !game.InBounds(row, col) {
		return game.ErrOutOfBounds
	}
	if r.board.At(row, col) != game.Empty {
		return game.ErrCellOccupied
	}
	p := r.playerLocked(userID)
	if p == nil {
		return ErrNotYourTurn
	}

	r.cancelMoveTimerLocked()
	if err := r.board.Place(row, col, p.stone); err != nil {
		return err
	}
	metricMoves.Add(1)

	if line := r.board.DetectWin(row, col, p.stone); line != nil {
		log.Info().Str("room_id", r.id).Str("winner_id", userID).Int("moves", r.board.Count()).Msg("game_won")
		r.finishLocked(p, line, store.ReasonFiveInARow)
		return nil
	}

	r.broadcastLocked(protocol.MoveEvent{
		Type:     protocol.TypeMove,
		PlayerID: userID,
		R:        row,
		C:        col,
		Stone:    p.stone,
	}, "")
	r.advanceTurnLocked()
	return nil
}

func (r *Room) advanceTurnLocked() {
	if len(r.players) != 2 {
		return
	}
	if r.currentTurn == r.players[0].userID {
		r.currentTurn = r.players[1].userID
	} else {
		r.currentTurn = r.players[0].userID
	}
	r.broadcastLocked(protocol.TurnChange{Type: protocol.TypeTurnChange, CurrentTurn: r.currentTurn}, "")
	r.armMoveTimerLocked()
}

// HandleDisconnect reacts to a dropped connection. A seated player in a
// running game keeps the seat for the grace window; anyone else is removed.
func (r *Room) HandleDisconnect(connID string) {
	r.mu.Lock()
	defer r.unlock()

	if p := r.playerByConnLocked(connID); p != nil {
		if r.state != StateInProgress {
			r.removePlayerLocked(p)
			log.Info().Str("room_id", r.id).Str("user_id", p.userID).Msg("player_released")
			r.lobbyUpdateLocked()
			return
		}
		p.conn = nil
		log.Info().Str("room_id", r.id).Str("user_id", p.userID).Msg("player_disconnected")
		r.broadcastLocked(protocol.SystemChat(fmt.Sprintf(
			"Player %s has disconnected. They have %d seconds to reconnect.",
			p.name, int(r.cfg.ReconnectGrace.Round(time.Second)/time.Second))), "")
		r.armGraceLocked(p.userID)
		return
	}
	if _, ok := r.spectators[connID]; ok {
		delete(r.spectators, connID)
		r.lobbyUpdateLocked()
	}
}

// Reconnect rebinds a seated player to conn. With a token the token must
// match; without one a grace window must be pending. It returns the
// connection that previously held the seat, if a different one did.
func (r *Room) Reconnect(conn hub.Conn, userID, token string) (hub.Conn, error) {
	r.mu.Lock()
	defer r.unlock()

	if r.removed {
		return nil, ErrRoomNotFound
	}
	p := r.playerLocked(userID)
	if p == nil {
		return nil, ErrUnknownUser
	}
	grace := r.graceTimers[userID]
	if token != "" {
		if token != p.token {
			return nil, ErrInvalidToken
		}
	} else if grace == nil || !grace.Armed() {
		return nil, ErrNoActiveSession
	}

	if grace != nil {
		grace.Cancel()
		delete(r.graceTimers, userID)
	}
	var replaced hub.Conn
	if p.conn != nil && p.conn.ID() != conn.ID() {
		replaced = p.conn
	}
	p.conn = conn
	log.Info().Str("room_id", r.id).Str("user_id", userID).Str("conn_id", conn.ID()).Msg("player_reconnected")

	r.fanout.DeliverOne(conn, protocol.ReconnectSuccess{
		Type:      protocol.TypeReconnectSuccess,
		RoomID:    r.id,
		YourStone: p.stone,
	})
	r.fanout.DeliverOne(conn, r.gameStateLocked())
	r.broadcastLocked(protocol.SystemChat(fmt.Sprintf("Player %s has reconnected.", p.name)), conn.ID())
	return replaced, nil
}

// Leave is a voluntary departure. The seat is released at once; leaving a
// running game forfeits it.
func (r *Room) Leave(connID string) {
	r.mu.Lock()
	defer r.unlock()

	if p := r.playerByConnLocked(connID); p != nil {
		running := r.state == StateInProgress
		r.removePlayerLocked(p)
		log.Info().Str("room_id", r.id).Str("user_id", p.userID).Bool("forfeit", running).Msg("player_left")
		if running {
			r.broadcastLocked(protocol.SystemChat(fmt.Sprintf("Player %s left the game.", p.name)), "")
			r.forfeitLocked(p, store.ReasonLeft)
			return
		}
		r.lobbyUpdateLocked()
		return
	}
	if _, ok := r.spectators[connID]; ok {
		delete(r.spectators, connID)
		r.lobbyUpdateLocked()
	}
}

// Chat relays a player's message to the whole room.
func (r *Room) Chat(userID, text string) error {
	r.mu.Lock()
	defer r.unlock()

	return r.chatLocked(r.playerLocked(userID), text)
}

// ChatFromConn relays a message from the player seated on connID.
func (r *Room) ChatFromConn(connID, text string) error {
	r.mu.Lock()
	defer r.unlock()
	return r.chatLocked(r.playerByConnLocked(connID), text)
}

func (r *Room) chatLocked(p *player, text string) error {
	if p == nil {
		return ErrNotPlayer
	}
	r.broadcastLocked(protocol.ChatMessage{Type: protocol.TypeChat, Sender: p.name, Message: text}, "")
	return nil
}

// SpectatorChat relays a spectator's message to spectators only.
func (r *Room) SpectatorChat(connID, text string) error {
	r.mu.Lock()
	defer r.unlock()

	s, ok := r.spectators[connID]
	if !ok {
		return ErrNotSpectator
	}
	r.fanout.Deliver(r.spectatorConnsLocked(), protocol.ChatMessage{
		Type:    protocol.TypeSpectatorChat,
		Sender:  s.name,
		Message: text,
	})
	return nil
}

func (r *Room) GameState() protocol.GameState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gameStateLocked()
}

func (r *Room) Info() protocol.RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.infoLocked()
}

func (r *Room) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Room) IsEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.emptyLocked()
}

func (r *Room) HasPlayer(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playerLocked(userID) != nil
}

// HasPendingGrace reports whether userID is disconnected with a live
// reconnection window.
func (r *Room) HasPendingGrace(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.graceTimers[userID]
	return ok && t.Armed()
}

// retireIfEmpty marks an empty room as removed so late joins fail.
func (r *Room) retireIfEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.removed || !r.emptyLocked() {
		return false
	}
	r.removed = true
	return true
}

func (r *Room) finishLocked(winner *player, line []game.Coord, reason string) {
	r.cancelMoveTimerLocked()
	r.state = StateFinished
	if line == nil {
		line = []game.Coord{}
	}
	r.winLine = line
	metricGamesFinished.Add(1)

	r.broadcastLocked(r.gameStateLocked(), "")
	over := protocol.GameOver{Type: protocol.TypeGameOver, Line: line}
	if winner != nil {
		over.WinnerName = winner.name
		over.WinnerID = winner.userID
	}
	r.broadcastLocked(over, "")

	// A decided game has nothing to reconnect into.
	for _, p := range append([]*player(nil), r.players...) {
		if p.conn == nil {
			r.removePlayerLocked(p)
		}
	}
	for uid, t := range r.graceTimers {
		t.Cancel()
		delete(r.graceTimers, uid)
	}
	r.lobbyUpdateLocked()
	r.archiveLocked(over, reason)
}

// forfeitLocked ends a running game against loser.
func (r *Room) forfeitLocked(loser *player, reason string) {
	var winner *player
	for _, p := range r.players {
		if p.userID != loser.userID {
			winner = p
			break
		}
	}
	metricForfeits.Add(1)
	log.Info().Str("room_id", r.id).Str("loser_id", loser.userID).Str("reason", reason).Msg("game_forfeited")
	r.finishLocked(winner, nil, reason)
}

func (r *Room) archiveLocked(over protocol.GameOver, reason string) {
	if r.recorder == nil {
		return
	}
	res := store.GameResult{
		RoomID:     r.id,
		RoomName:   r.name,
		BlackID:    r.seatIDs[0],
		WhiteID:    r.seatIDs[1],
		WinnerID:   over.WinnerID,
		WinnerName: over.WinnerName,
		Reason:     reason,
		MoveCount:  r.board.Count(),
		StartedAt:  r.startedAt,
		FinishedAt: time.Now().UTC(),
	}
	for _, c := range over.Line {
		res.WinLine = append(res.WinLine, [2]int{c.R, c.C})
	}
	rec := r.recorder
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		if err := rec.RecordResult(ctx, res); err != nil {
			metricResultsArchiveError.Add(1)
			log.Error().Err(err).Str("room_id", res.RoomID).Msg("result_archive_failed")
			return
		}
		metricResultsArchived.Add(1)
	}()
}

func (r *Room) armMoveTimerLocked() {
	r.moveTimer.Arm(r.cfg.MoveTimeout, r.onMoveTimeout)
	if r.cfg.MoveWarning > 0 && r.cfg.MoveWarning < r.cfg.MoveTimeout {
		r.warnTimer.Arm(r.cfg.MoveTimeout-r.cfg.MoveWarning, r.onMoveWarning)
	}
}

func (r *Room) cancelMoveTimerLocked() {
	r.moveTimer.Cancel()
	r.warnTimer.Cancel()
}

func (r *Room) armGraceLocked(userID string) {
	t, ok := r.graceTimers[userID]
	if ok && t.Armed() {
		return
	}
	if !ok {
		t = &Timer{}
		r.graceTimers[userID] = t
	}
	t.Arm(r.cfg.ReconnectGrace, func(gen uint64) { r.onGraceExpired(userID, gen) })
}

func (r *Room) onMoveWarning(gen uint64) {
	r.mu.Lock()
	defer r.unlock()
	defer recoverTimer(r.id, "move_warning")

	if !r.warnTimer.Claim(gen) || r.state != StateInProgress {
		return
	}
	note := protocol.TimerNotification{
		Type:     protocol.TypeTimerNotification,
		Player:   r.currentTurn,
		TimeLeft: int(r.cfg.MoveWarning.Round(time.Second) / time.Second),
	}
	if p := r.playerLocked(r.currentTurn); p != nil {
		note.PlayerName = p.name
	}
	r.broadcastLocked(note, "")
}

func (r *Room) onMoveTimeout(gen uint64) {
	r.mu.Lock()
	defer r.unlock()
	defer recoverTimer(r.id, "move_timeout")

	if !r.moveTimer.Claim(gen) || r.state != StateInProgress {
		return
	}
	p := r.playerLocked(r.currentTurn)
	if p == nil {
		return
	}
	metricTurnTimeouts.Add(1)
	log.Info().Str("room_id", r.id).Str("user_id", p.userID).Msg("turn_timed_out")
	r.broadcastLocked(protocol.SystemChat(fmt.Sprintf("Player %s ran out of time. Turn skipped.", p.name)), "")
	r.advanceTurnLocked()
}

func (r *Room) onGraceExpired(userID string, gen uint64) {
	r.mu.Lock()
	defer r.unlock()
	defer recoverTimer(r.id, "reconnect_grace")

	t, ok := r.graceTimers[userID]
	if !ok || !t.Claim(gen) {
		return
	}
	delete(r.graceTimers, userID)
	p := r.playerLocked(userID)
	if p == nil || p.conn != nil {
		return
	}
	if r.state != StateInProgress {
		r.removePlayerLocked(p)
		r.lobbyUpdateLocked()
		return
	}
	log.Info().Str("room_id", r.id).Str("user_id", userID).Msg("reconnect_grace_expired")
	r.broadcastLocked(protocol.SystemChat(fmt.Sprintf("Player %s failed to reconnect. Game over.", p.name)), "")
	r.forfeitLocked(p, store.ReasonReconnectTimeout)
}

func recoverTimer(roomID, op string) {
	if rec := recover(); rec != nil {
		log.Error().Str("room_id", roomID).Str("op", op).Interface("panic", rec).Msg("room_timer_panic")
	}
}

func (r *Room) removePlayerLocked(p *player) {
	for i, q := range r.players {
		if q == p {
			r.players = append(r.players[:i], r.players[i+1:]...)
			break
		}
	}
	if t, ok := r.graceTimers[p.userID]; ok {
		t.Cancel()
		delete(r.graceTimers, p.userID)
	}
}

func (r *Room) playerLocked(userID string) *player {
	for _, p := range r.players {
		if p.userID == userID {
			return p
		}
	}
	return nil
}

func (r *Room) playerByConnLocked(connID string) *player {
	for _, p := range r.players {
		if p.conn != nil && p.conn.ID() == connID {
			return p
		}
	}
	return nil
}

func (r *Room) emptyLocked() bool {
	return len(r.players) == 0 && len(r.spectators) == 0
}

// broadcastLocked sends msg to connected players then spectators, skipping
// the connection named by exclude.
func (r *Room) broadcastLocked(msg any, exclude string) {
	conns := make([]hub.Conn, 0, len(r.players)+len(r.spectators))
	for _, p := range r.players {
		if p.conn != nil && p.conn.ID() != exclude {
			conns = append(conns, p.conn)
		}
	}
	for _, c := range r.spectatorConnsLocked() {
		if c.ID() != exclude {
			conns = append(conns, c)
		}
	}
	r.fanout.Deliver(conns, msg)
}

func (r *Room) spectatorConnsLocked() []hub.Conn {
	specs := make([]*spectator, 0, len(r.spectators))
	for _, s := range r.spectators {
		specs = append(specs, s)
	}
	sortSpectators(specs)
	out := make([]hub.Conn, 0, len(specs))
	for _, s := range specs {
		out = append(out, s.conn)
	}
	return out
}

func sortSpectators(specs []*spectator) {
	sort.Slice(specs, func(i, j int) bool { return specs[i].seq < specs[j].seq })
}

func (r *Room) lobbyUpdateLocked() {
	if r.lobby == nil {
		return
	}
	r.fanout.Deliver(r.lobby.LobbyConns(), protocol.RoomUpdate{Type: protocol.TypeRoomUpdate, Room: r.infoLocked()})
}

func (r *Room) gameStateLocked() protocol.GameState {
	players := make(map[string]string, len(r.players))
	for _, p := range r.players {
		players[p.userID] = p.name
	}
	line := make([]game.Coord, len(r.winLine))
	copy(line, r.winLine)
	return protocol.GameState{
		Type:        protocol.TypeGameState,
		Board:       r.board.Cells(),
		CurrentTurn: r.currentTurn,
		GameState:   string(r.state),
		Players:     players,
		WinLine:     line,
	}
}

func (r *Room) infoLocked() protocol.RoomInfo {
	names := make([]string, 0, len(r.players))
	for _, p := range r.players {
		names = append(names, p.name)
	}
	return protocol.RoomInfo{
		RoomID:         r.id,
		Name:           r.name,
		PlayerCount:    len(r.players),
		SpectatorCount: len(r.spectators),
		PlayerNames:    names,
		GameState:      string(r.state),
	}
}
