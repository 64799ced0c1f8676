package service

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/storage"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

var (
	ErrGameFull  = errors.New("game is full")
	ErrNotPlayer = errors.New("player not in game")
)

// Conn is the part of a websocket connection a session writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// MoveRecorder receives finished games and moves. Writes may be dropped.
type MoveRecorder interface {
	RecordGame(record storage.GameRecord)
	RecordMove(record storage.MoveRecord)
	IsHealthy() bool
}

type SnapshotStore interface {
	Save(snap storage.GameSnapshot) error
	Load(gameID string) (storage.GameSnapshot, error)
	Delete(gameID string) error
}

// The connections for a specific game
type SessionConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.Mutex
}

func NewSessionConnections() *SessionConnections {
	return &SessionConnections{
		connections: make(map[string]Conn),
	}
}

// Session is one live game: the rules engine, the two seats, their clocks
// and everyone watching over a websocket.
type Session struct {
	ID          string
	mu          sync.Mutex
	state       *model.GameState
	initialFEN  string
	white       Player
	black       Player
	whiteClock  *Clock
	blackClock  *Clock
	connections *SessionConnections
	recorder    MoveRecorder
	snapshots   SnapshotStore
}

// StateView is the state sent to clients after every change.
type StateView struct {
	GameID string      `json:"gameId"`
	Board  model.Board `json:"board"`
	model.Report
	History      []model.Ply        `json:"moveHistory"`
	CastleRights model.CastleRights `json:"castleRights"`
	Players      struct {
		White ClientPlayer `json:"white"`
		Black ClientPlayer `json:"black"`
	} `json:"players"`
}

func newSession(id, fen string, state *model.GameState, initialTime time.Duration, recorder MoveRecorder, snapshots SnapshotStore) *Session {
	return &Session{
		ID:          id,
		state:       state,
		initialFEN:  fen,
		white:       Player{Color: model.White},
		black:       Player{Color: model.Black},
		whiteClock:  NewClock(initialTime),
		blackClock:  NewClock(initialTime),
		connections: NewSessionConnections(),
		recorder:    recorder,
		snapshots:   snapshots,
	}
}

// NewSession starts a game from fen; an empty fen is the standard start.
func NewSession(id, fen string, initialTime time.Duration, recorder MoveRecorder, snapshots SnapshotStore) (*Session, error) {
	if fen == "" {
		fen = model.StartingFEN
	}
	state, err := model.NewGameStateFromFEN(fen)
	if err != nil {
		return nil, err
	}
	s := newSession(id, fen, state, initialTime, recorder, snapshots)
	if recorder != nil {
		recorder.RecordGame(storage.GameRecord{GameID: id, InitialFEN: fen, CreatedAtUTC: time.Now().UTC()})
	}
	s.saveSnapshot()
	return s, nil
}

// RestoreSession rebuilds a session from a stored snapshot. Clocks restart
// with initialTime.
func RestoreSession(snap storage.GameSnapshot, initialTime time.Duration, recorder MoveRecorder, snapshots SnapshotStore) (*Session, error) {
	state, err := model.RestoreGameState(snap.Record)
	if err != nil {
		return nil, fmt.Errorf("restore session %s: %w", snap.GameID, err)
	}
	s := newSession(snap.GameID, snap.InitialFEN, state, initialTime, recorder, snapshots)
	s.white.ID = snap.White
	s.black.ID = snap.Black
	if recorder != nil {
		// the move log may be newer than the snapshot; moves need their game row
		recorder.RecordGame(storage.GameRecord{GameID: snap.GameID, InitialFEN: snap.InitialFEN, CreatedAtUTC: time.Now().UTC()})
	}
	if s.white.ID != "" && s.black.ID != "" && !state.Over() {
		s.clockFor(state.Turn()).Start()
	}
	return s, nil
}

func (s *Session) AddPlayer(playerID string) (model.Color, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.seatOf(playerID); ok {
		return c, nil
	}
	var color model.Color
	switch {
	case s.white.ID == "":
		s.white.ID = playerID
		color = model.White
	case s.black.ID == "":
		s.black.ID = playerID
		color = model.Black
	default:
		return "", ErrGameFull
	}
	log.Printf("player %s joined game %s as %s", playerID, s.ID, color)

	if s.white.ID != "" && s.black.ID != "" && !s.state.Over() {
		s.clockFor(s.state.Turn()).Start()
	}
	s.saveSnapshot()
	s.broadcastLocked()
	return color, nil
}

func (s *Session) seatOf(playerID string) (model.Color, bool) {
	switch {
	case playerID == "":
		return "", false
	case s.white.ID == playerID:
		return model.White, true
	case s.black.ID == playerID:
		return model.Black, true
	}
	return "", false
}

func (s *Session) IsPlayerInGame(playerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seatOf(playerID)
	return ok
}

// CanSpectate reports whether the game still has an open seat.
func (s *Session) CanSpectate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canSpectate()
}

func (s *Session) canSpectate() bool {
	return s.white.ID == "" || s.black.ID == ""
}

func (s *Session) clockFor(c model.Color) *Clock {
	if c == model.White {
		return s.whiteClock
	}
	return s.blackClock
}

func (s *Session) View() StateView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *Session) view() StateView {
	v := StateView{
		GameID:       s.ID,
		Board:        s.state.Board(),
		Report:       s.state.Report(),
		History:      s.state.History(),
		CastleRights: s.state.CastleRights(),
	}
	v.Players.White = newClientPlayer(s.white, s.whiteClock)
	v.Players.Black = newClientPlayer(s.black, s.blackClock)
	return v
}

func (s *Session) LegalMovesFrom(from model.Position) []model.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.LegalMovesFrom(from)
}

func (s *Session) CastleRights() model.CastleRights {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CastleRights()
}

// authorize checks that playerID holds the seat of the side to move.
func (s *Session) authorize(playerID string) error {
	color, ok := s.seatOf(playerID)
	if !ok {
		return ErrNotPlayer
	}
	if color != s.state.Turn() {
		return model.ErrNotYourTurn
	}
	return nil
}

// Move plays a move for playerID. A pawn reaching the last rank leaves the
// game waiting for Promote or CancelPromotion from the same player.
func (s *Session) Move(playerID string, from, to model.Position, p model.Piece) (model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(playerID); err != nil {
		return s.state.Report(), err
	}

	report, err := s.state.Move(from, to, p)
	if err != nil {
		if report.CheckedKing != nil {
			s.Send(playerID, ws.MessageTypeCheck, ws.CheckPayload{King: *report.CheckedKing, Color: report.Turn})
		}
		return report, err
	}

	if report.Pending != nil {
		s.Send(playerID, ws.MessageTypePromotionRequired, report.Pending)
		s.broadcastLocked()
		return report, nil
	}
	s.afterMove(report)
	return report, nil
}

func (s *Session) Promote(playerID string, t model.PieceType) (model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(playerID); err != nil {
		return s.state.Report(), err
	}
	report, err := s.state.Promote(t)
	if err != nil {
		return report, err
	}
	s.afterMove(report)
	return report, nil
}

func (s *Session) CancelPromotion(playerID string) (model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(playerID); err != nil {
		return s.state.Report(), err
	}
	report, err := s.state.CancelPromotion()
	if err != nil {
		return report, err
	}
	s.broadcastLocked()
	return report, nil
}

// afterMove runs once per completed move: clocks, move log, snapshot and
// broadcast.
func (s *Session) afterMove(report model.Report) {
	ply := report.LastMove
	mover := ply.Piece.Color
	think := s.clockFor(mover).Stop()
	if !s.state.Over() {
		s.clockFor(report.Turn).Start()
	}

	if s.recorder != nil {
		rec := storage.MoveRecord{
			GameID:      s.ID,
			MoveNumber:  report.MoveCount,
			FromX:       ply.From.X,
			FromY:       ply.From.Y,
			ToX:         ply.To.X,
			ToY:         ply.To.Y,
			Piece:       ply.Piece.Tag(),
			Captured:    ply.CapturedPiece.Tag(),
			Promotion:   string(ply.Promotion),
			Castle:      ply.CastleRookMove != nil,
			InCheck:     report.InCheck,
			Checkmate:   report.Checkmate,
			PlayerColor: string(mover),
			ThinkMillis: think.Milliseconds(),
			MoveTimeUTC: time.Now().UTC(),
		}
		s.recorder.RecordMove(rec)
	}
	s.saveSnapshot()

	s.broadcastLocked()
	if report.InCheck {
		board := s.state.Board()
		if king, ok := model.KingPosition(&board, report.Turn); ok {
			s.broadcastMessageLocked(ws.MessageTypeCheck, ws.CheckPayload{King: king, Color: report.Turn})
		}
	}
	if report.Outcome != model.OutcomeNone {
		log.Printf("game %s over: %s after %d moves", s.ID, report.Outcome, report.MoveCount)
	}
}

func (s *Session) snapshot() storage.GameSnapshot {
	return storage.GameSnapshot{
		GameID:     s.ID,
		InitialFEN: s.initialFEN,
		White:      s.white.ID,
		Black:      s.black.ID,
		Record:     s.state.Record(),
	}
}

func (s *Session) saveSnapshot() {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Save(s.snapshot()); err != nil {
		log.Printf("failed to save snapshot for game %s: %v", s.ID, err)
	}
}

func (s *Session) RegisterConnection(playerID string, conn Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, inGame := s.seatOf(playerID)
	if !inGame && !s.canSpectate() {
		return errors.New("not authorized to join this game")
	}

	s.connections.mu.Lock()
	if _, exists := s.connections.connections[playerID]; exists {
		// keep the healthy connection, turn the new one away
		s.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
		)
		conn.Close()
		return nil
	}
	s.connections.connections[playerID] = conn
	s.connections.mu.Unlock()
	log.Printf("registered connection for player %s in game %s", playerID, s.ID)

	s.broadcastLocked()
	return nil
}

// UnregisterConnection drops playerID's connection if it is still conn.
func (s *Session) UnregisterConnection(playerID string, conn Conn) {
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()

	if current, exists := s.connections.connections[playerID]; exists && current == conn {
		delete(s.connections.connections, playerID)
	}
}

func (s *Session) ConnectionCount() int {
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()
	return len(s.connections.connections)
}

// broadcastLocked sends the current view to every connection. s.mu must be
// held.
func (s *Session) broadcastLocked() {
	s.broadcastMessageLocked(ws.MessageTypeGameState, s.view())
}

func (s *Session) broadcastMessageLocked(t ws.MessageType, payload interface{}) {
	msg, err := ws.NewMessage(t, payload)
	if err != nil {
		log.Printf("failed to marshal %s message: %v", t, err)
		return
	}

	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()
	for playerID, conn := range s.connections.connections {
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("failed to send %s to player %s: %v", t, playerID, err)
			delete(s.connections.connections, playerID)
		}
	}
}

// Send writes one message to playerID's connection, if it has one. Writes to a
// connection are serialised with broadcasts.
func (s *Session) Send(playerID string, t ws.MessageType, payload interface{}) {
	msg, err := ws.NewMessage(t, payload)
	if err != nil {
		log.Printf("failed to marshal %s message: %v", t, err)
		return
	}

	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()
	conn, ok := s.connections.connections[playerID]
	if !ok {
		return
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("failed to send %s to player %s: %v", t, playerID, err)
		delete(s.connections.connections, playerID)
	}
}
