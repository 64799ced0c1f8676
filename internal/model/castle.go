package model

type CastleSide string

const (
	KingSide  CastleSide = "kingside"
	QueenSide CastleSide = "queenside"
)

type SideRights struct {
	KingSide  bool `json:"kingSide"`
	QueenSide bool `json:"queenSide"`
}

func (r SideRights) Allows(side CastleSide) bool {
	if side == KingSide {
		return r.KingSide
	}
	return r.QueenSide
}

func (r *SideRights) clear(side CastleSide) {
	if side == KingSide {
		r.KingSide = false
	} else {
		r.QueenSide = false
	}
}

type CastleRights struct {
	White SideRights `json:"white"`
	Black SideRights `json:"black"`
}

type CastleRookMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// MovedFlags marks squares a piece has moved from or to. Once set a flag is
// never cleared, so a king or rook that left its home square (or a rook
// captured on it) keeps its castling right revoked.
type MovedFlags [8][8]bool

func (m *MovedFlags) Mark(p Position) {
	m[p.Y][p.X] = true
}

func (m *MovedFlags) HasMoved(p Position) bool {
	return m[p.Y][p.X]
}

type castleGeometry struct {
	kingFrom, kingTo Position
	rookFrom, rookTo Position
	// between must be empty; transit must not be attacked
	between []Position
	transit []Position
}

func castleLayout(c Color, side CastleSide) castleGeometry {
	row := homeRow(c)
	at := func(x int) Position { return Position{X: x, Y: row} }
	if side == KingSide {
		return castleGeometry{
			kingFrom: at(4), kingTo: at(6),
			rookFrom: at(7), rookTo: at(5),
			between: []Position{at(5), at(6)},
			transit: []Position{at(5), at(6)},
		}
	}
	return castleGeometry{
		kingFrom: at(4), kingTo: at(2),
		rookFrom: at(0), rookTo: at(3),
		between: []Position{at(1), at(2), at(3)},
		transit: []Position{at(2), at(3)},
	}
}

// castleSide reports which side a king move from -> to castles on, if any.
func castleSide(from, to Position, c Color) (CastleSide, bool) {
	row := homeRow(c)
	if from.X != 4 || from.Y != row || to.Y != row {
		return "", false
	}
	switch to.X {
	case 6:
		return KingSide, true
	case 2:
		return QueenSide, true
	}
	return "", false
}

// IsCastleMove reports whether p going from -> to is a castling move.
func IsCastleMove(from, to Position, p Piece) bool {
	if p.Type != King {
		return false
	}
	_, ok := castleSide(from, to, p.Color)
	return ok
}

// ComputeCastleRights derives c's castling rights from the moved flags and the
// current board. Nothing is cached; every call rescans.
func ComputeCastleRights(s Snapshot, c Color) SideRights {
	rights := SideRights{KingSide: true, QueenSide: true}
	sides := []CastleSide{KingSide, QueenSide}

	kingHome := castleLayout(c, KingSide).kingFrom
	if s.Moved.HasMoved(kingHome) || s.Board.At(kingHome) != NewPiece(c, King) {
		return SideRights{}
	}
	for _, side := range sides {
		layout := castleLayout(c, side)
		if s.Moved.HasMoved(layout.rookFrom) || s.Board.At(layout.rookFrom) != NewPiece(c, Rook) {
			rights.clear(side)
			continue
		}
		for _, sq := range layout.between {
			if !s.Board.empty(sq) {
				rights.clear(side)
				break
			}
		}
	}

	attackers, _, _ := GetAttackers(&s.Board, c)
	for _, side := range sides {
		if !rights.Allows(side) {
			continue
		}
		for _, sq := range castleLayout(c, side).transit {
			if squareAttacked(&s.Board, attackers, sq) {
				rights.clear(side)
				break
			}
		}
	}
	return rights
}

func CanCastle(s Snapshot, c Color, side CastleSide) bool {
	return ComputeCastleRights(s, c).Allows(side)
}

// ExecuteCastle relocates c's king and rook for the given side. Callers must
// have confirmed the castle is legal.
func ExecuteCastle(b *Board, c Color, side CastleSide) CastleRookMove {
	layout := castleLayout(c, side)
	king := b.At(layout.kingFrom)
	rook := b.At(layout.rookFrom)
	b.set(layout.kingFrom, NoPiece)
	b.set(layout.rookFrom, NoPiece)
	b.set(layout.kingTo, king)
	b.set(layout.rookTo, rook)
	return CastleRookMove{From: layout.rookFrom, To: layout.rookTo}
}
