package model

import (
	"errors"
	"fmt"

	"github.com/notnil/chess"
)

const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var ErrInvalidFEN = errors.New("invalid fen")

// DecodeFEN turns a FEN string into a board, the side to move and moved
// flags. A castling right missing from the FEN marks that rook's home square
// as moved. The en-passant and clock fields are accepted and ignored.
func DecodeFEN(fen string) (Board, Color, MovedFlags, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return Board{}, "", MovedFlags{}, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	pos := chess.NewGame(opt).Position()

	var b Board
	for sq, pc := range pos.Board().SquareMap() {
		piece, ok := fromChessPiece(pc)
		if !ok {
			continue
		}
		b.set(Position{X: int(sq.File()), Y: 7 - int(sq.Rank())}, piece)
	}

	turn := White
	if pos.Turn() == chess.Black {
		turn = Black
	}

	var moved MovedFlags
	rights := pos.CastleRights()
	for _, c := range []chess.Color{chess.White, chess.Black} {
		color := White
		if c == chess.Black {
			color = Black
		}
		if !rights.CanCastle(c, chess.KingSide) {
			moved.Mark(castleLayout(color, KingSide).rookFrom)
		}
		if !rights.CanCastle(c, chess.QueenSide) {
			moved.Mark(castleLayout(color, QueenSide).rookFrom)
		}
	}
	return b, turn, moved, nil
}

func fromChessPiece(pc chess.Piece) (Piece, bool) {
	var c Color
	switch pc.Color() {
	case chess.White:
		c = White
	case chess.Black:
		c = Black
	default:
		return NoPiece, false
	}
	var t PieceType
	switch pc.Type() {
	case chess.King:
		t = King
	case chess.Queen:
		t = Queen
	case chess.Rook:
		t = Rook
	case chess.Bishop:
		t = Bishop
	case chess.Knight:
		t = Knight
	case chess.Pawn:
		t = Pawn
	default:
		return NoPiece, false
	}
	return NewPiece(c, t), true
}

// NewGameStateFromFEN decodes fen and loads it into a fresh GameState.
func NewGameStateFromFEN(fen string) (*GameState, error) {
	b, turn, moved, err := DecodeFEN(fen)
	if err != nil {
		return nil, err
	}
	g := &GameState{}
	g.LoadPosition(b, turn, moved)
	return g, nil
}
