package model

// Snapshot is the explicit input to every rule query: a board, whose turn it
// is, and the moved flags used for castling. It is passed by value so a probe
// never touches the caller's board.
type Snapshot struct {
	Board Board
	Turn  Color
	Moved MovedFlags
}

// IsLegalMove reports whether p may move from -> to for the side to move:
// the move must be valid and must not leave the mover's king attacked in the
// resulting position.
func IsLegalMove(s Snapshot, from, to Position, p Piece) bool {
	if from == to || p.Color != s.Turn {
		return false
	}
	if !IsValidMove(s, from, to, p) {
		return false
	}
	next := s.Board
	applyMove(&next, from, to, p)
	return !InCheck(&next, p.Color)
}

// applyMove plays from -> to on b without any checks. A castling king move
// also relocates the rook.
func applyMove(b *Board, from, to Position, p Piece) (captured Piece, rook *CastleRookMove) {
	if p.Type == King {
		if side, ok := castleSide(from, to, p.Color); ok {
			r := ExecuteCastle(b, p.Color, side)
			return NoPiece, &r
		}
	}
	captured = b.At(to)
	b.set(from, NoPiece)
	b.set(to, p)
	return captured, nil
}

// CanPromote reports whether p moving to to is a pawn reaching the last rank.
func CanPromote(from, to Position, p Piece) bool {
	if p.Type != Pawn {
		return false
	}
	if p.Color == White {
		return from.Y == 1 && to.Y == 0
	}
	return from.Y == 6 && to.Y == 7
}
