package model

import (
	"errors"
	"fmt"
)

// Rejections. The game state is unchanged whenever one of these is returned.
var (
	ErrSameSquare         = errors.New("invalid move, same square")
	ErrOutOfBounds        = errors.New("invalid move, out of bounds")
	ErrNoPiece            = errors.New("no piece at from square")
	ErrPieceMismatch      = errors.New("piece does not match from square")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrIllegalMove        = errors.New("invalid move, not legal")
	ErrPromotionPending   = errors.New("promotion choice pending")
	ErrNoPendingPromotion = errors.New("no promotion pending")
	ErrInvalidPromotion   = errors.New("invalid promotion piece")
	ErrGameOver           = errors.New("game is over")
)

type Outcome string

const (
	OutcomeNone      Outcome = ""
	OutcomeCheckmate Outcome = "checkmate"
	OutcomeStalemate Outcome = "stalemate"
)

// Report is the externally visible state after a move attempt.
type Report struct {
	Turn        Color             `json:"turn"`
	MoveCount   int               `json:"moveCount"`
	InCheck     bool              `json:"inCheck"`
	Checkmate   bool              `json:"checkmate"`
	Stalemate   bool              `json:"stalemate"`
	Outcome     Outcome           `json:"outcome"`
	CheckedKing *Position         `json:"checkedKing,omitempty"`
	Pending     *PendingPromotion `json:"pendingPromotion,omitempty"`
	LastMove    *Ply              `json:"lastMove,omitempty"`
}

type pendingMove struct {
	PendingPromotion
	pawn      Piece
	captured  Piece
	prevMoved MovedFlags
	ply       Ply
}

// GameState owns the live board, the turn and the move counter. Rule queries
// run on copies; only Move, Promote and CancelPromotion write the board.
// A GameState is not safe for concurrent use.
type GameState struct {
	board     Board
	turn      Color
	moveCount int
	moved     MovedFlags
	inCheck   bool
	checkmate bool
	stalemate bool
	pending   *pendingMove
	history   []Ply
}

func NewGameState() *GameState {
	g := &GameState{}
	g.Load(NewBoard())
	return g
}

// Load replaces the board wholesale with white to move and no piece marked
// as moved.
func (g *GameState) Load(b Board) {
	g.LoadPosition(b, White, MovedFlags{})
}

// LoadPosition replaces the board, side to move and moved flags, then
// recomputes check, mate and stalemate for the side to move. The board is
// not validated.
func (g *GameState) LoadPosition(b Board, turn Color, moved MovedFlags) {
	g.board = b
	g.turn = turn
	g.moved = moved
	g.moveCount = 0
	g.pending = nil
	g.history = []Ply{}
	g.evaluate()
}

func (g *GameState) Snapshot() Snapshot {
	return Snapshot{Board: g.board, Turn: g.turn, Moved: g.moved}
}

func (g *GameState) Board() Board {
	return g.board
}

func (g *GameState) Turn() Color {
	return g.turn
}

func (g *GameState) MoveCount() int {
	return g.moveCount
}

func (g *GameState) Outcome() Outcome {
	switch {
	case g.checkmate:
		return OutcomeCheckmate
	case g.stalemate:
		return OutcomeStalemate
	}
	return OutcomeNone
}

func (g *GameState) Over() bool {
	return g.Outcome() != OutcomeNone
}

func (g *GameState) History() []Ply {
	return append([]Ply{}, g.history...)
}

func (g *GameState) CastleRights() CastleRights {
	s := g.Snapshot()
	return CastleRights{
		White: ComputeCastleRights(s, White),
		Black: ComputeCastleRights(s, Black),
	}
}

// LegalMovesFrom lists the legal destinations of the piece on from. It is
// empty when that piece does not belong to the side to move.
func (g *GameState) LegalMovesFrom(from Position) []Position {
	if !from.InBounds() || g.pending != nil {
		return []Position{}
	}
	piece := g.board.At(from)
	if piece.IsEmpty() {
		return []Position{}
	}
	return GenerateMoves(g.Snapshot(), from, piece)
}

func (g *GameState) LegalMoves() []SimpleMove {
	if g.pending != nil {
		return []SimpleMove{}
	}
	return LegalMoves(g.Snapshot())
}

func (g *GameState) Report() Report {
	r := Report{
		Turn:      g.turn,
		MoveCount: g.moveCount,
		InCheck:   g.inCheck,
		Checkmate: g.checkmate,
		Stalemate: g.stalemate,
		Outcome:   g.Outcome(),
	}
	if g.pending != nil {
		pending := g.pending.PendingPromotion
		r.Pending = &pending
	}
	if n := len(g.history); n > 0 {
		last := g.history[n-1]
		r.LastMove = &last
	}
	return r
}

// Move attempts from -> to with p, which must be the piece on from. On a
// pawn reaching the last rank the move is played but held in a pending state
// until Promote or CancelPromotion; the turn does not flip until then.
func (g *GameState) Move(from, to Position, p Piece) (Report, error) {
	if g.pending != nil {
		return g.Report(), ErrPromotionPending
	}
	if g.Over() {
		return g.Report(), ErrGameOver
	}
	if from == to {
		return g.Report(), ErrSameSquare
	}
	if !from.InBounds() || !to.InBounds() {
		return g.Report(), ErrOutOfBounds
	}
	onBoard := g.board.At(from)
	if onBoard.IsEmpty() {
		return g.Report(), ErrNoPiece
	}
	if onBoard != p {
		return g.Report(), fmt.Errorf("%w: %s holds %s, not %s", ErrPieceMismatch, from, onBoard, p)
	}
	if p.Color != g.turn {
		return g.Report(), ErrNotYourTurn
	}
	if !IsLegalMove(g.Snapshot(), from, to, p) {
		report := g.Report()
		if g.inCheck {
			if king, ok := KingPosition(&g.board, g.turn); ok {
				report.CheckedKing = &king
			}
		}
		return report, ErrIllegalMove
	}

	prevMoved := g.moved
	ply := Ply{Piece: p, From: from, To: to}
	captured, rook := applyMove(&g.board, from, to, p)
	ply.CapturedPiece = captured
	ply.CastleRookMove = rook
	g.moved.Mark(from)
	g.moved.Mark(to)
	if rook != nil {
		g.moved.Mark(rook.From)
		g.moved.Mark(rook.To)
	}

	if CanPromote(from, to, p) {
		g.pending = &pendingMove{
			PendingPromotion: PendingPromotion{From: from, To: to, Color: p.Color},
			pawn:             p,
			captured:         captured,
			prevMoved:        prevMoved,
			ply:              ply,
		}
		return g.Report(), nil
	}

	g.finish(ply)
	return g.Report(), nil
}

// Promote resolves a pending promotion with t and completes the move.
func (g *GameState) Promote(t PieceType) (Report, error) {
	if g.pending == nil {
		return g.Report(), ErrNoPendingPromotion
	}
	if !IsPromotionType(t) {
		return g.Report(), fmt.Errorf("%w: %q", ErrInvalidPromotion, t)
	}
	pending := g.pending
	g.pending = nil
	g.board.set(pending.To, NewPiece(pending.Color, t))
	ply := pending.ply
	ply.Promotion = t
	g.finish(ply)
	return g.Report(), nil
}

// CancelPromotion abandons a pending promotion and restores the position
// from before the pawn moved. Turn and move count were never changed.
func (g *GameState) CancelPromotion() (Report, error) {
	if g.pending == nil {
		return g.Report(), ErrNoPendingPromotion
	}
	pending := g.pending
	g.pending = nil
	g.board.set(pending.From, pending.pawn)
	g.board.set(pending.To, pending.captured)
	g.moved = pending.prevMoved
	return g.Report(), nil
}

func (g *GameState) finish(ply Ply) {
	g.turn = g.turn.Opposite()
	g.moveCount++
	g.evaluate()
	ply.GaveCheck = g.inCheck
	g.history = append(g.history, ply)
}

// evaluate recomputes the derived flags for the side to move.
func (g *GameState) evaluate() {
	g.inCheck = InCheck(&g.board, g.turn)
	g.checkmate = false
	g.stalemate = false
	hasMove := HasLegalMove(g.Snapshot())
	if g.inCheck {
		g.checkmate = !hasMove
	} else {
		g.stalemate = !hasMove
	}
}
