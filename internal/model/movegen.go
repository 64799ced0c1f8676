package model

var (
	rookDirs   = []Position{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}}
	bishopDirs = []Position{{X: 1, Y: 1}, {X: -1, Y: 1}, {X: -1, Y: -1}, {X: 1, Y: -1}}
	queenDirs  = append(append([]Position{}, rookDirs...), bishopDirs...)
	knightDirs = []Position{{X: -1, Y: 2}, {X: 1, Y: 2}, {X: -1, Y: -2}, {X: 1, Y: -2}, {X: 2, Y: 1}, {X: -2, Y: 1}, {X: 2, Y: -1}, {X: -2, Y: -1}}
)

type SimpleMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// rayMoves walks each direction up to maxDist squares and keeps the legal
// destinations. A ray stops after the first occupied square since nothing
// beyond it is reachable.
func rayMoves(s Snapshot, from Position, p Piece, dirs []Position, maxDist int) []Position {
	moves := []Position{}
	for _, dir := range dirs {
		to := from
		for i := 1; i <= maxDist; i++ {
			to = to.add(dir)
			if !to.InBounds() {
				break
			}
			if IsLegalMove(s, from, to, p) {
				moves = append(moves, to)
			}
			if !s.Board.empty(to) {
				break
			}
		}
	}
	return moves
}

func GenerateBishopMoves(s Snapshot, from Position, p Piece) []Position {
	return rayMoves(s, from, p, bishopDirs, 7)
}

func GenerateRookMoves(s Snapshot, from Position, p Piece) []Position {
	return rayMoves(s, from, p, rookDirs, 7)
}

func GenerateQueenMoves(s Snapshot, from Position, p Piece) []Position {
	return rayMoves(s, from, p, queenDirs, 7)
}

func GenerateKnightMoves(s Snapshot, from Position, p Piece) []Position {
	return rayMoves(s, from, p, knightDirs, 1)
}

// GenerateKingMoves probes two squares in every direction so castling
// destinations are included.
func GenerateKingMoves(s Snapshot, from Position, p Piece) []Position {
	return rayMoves(s, from, p, queenDirs, 2)
}

func GeneratePawnMoves(s Snapshot, from Position, p Piece) []Position {
	dir := forward(p.Color)
	candidates := []Position{
		{X: from.X, Y: from.Y + dir},
		{X: from.X, Y: from.Y + 2*dir},
		{X: from.X - 1, Y: from.Y + dir},
		{X: from.X + 1, Y: from.Y + dir},
	}
	moves := []Position{}
	for _, to := range candidates {
		if to.InBounds() && IsLegalMove(s, from, to, p) {
			moves = append(moves, to)
		}
	}
	return moves
}

// GenerateMoves returns every legal destination for p standing on from.
func GenerateMoves(s Snapshot, from Position, p Piece) []Position {
	switch p.Type {
	case Pawn:
		return GeneratePawnMoves(s, from, p)
	case Knight:
		return GenerateKnightMoves(s, from, p)
	case Bishop:
		return GenerateBishopMoves(s, from, p)
	case Rook:
		return GenerateRookMoves(s, from, p)
	case Queen:
		return GenerateQueenMoves(s, from, p)
	case King:
		return GenerateKingMoves(s, from, p)
	default:
		return []Position{}
	}
}

// LegalMoves enumerates every legal move for the side to move.
func LegalMoves(s Snapshot) []SimpleMove {
	legalMoves := []SimpleMove{}
	for _, ally := range GetAllies(&s.Board, s.Turn) {
		for _, to := range GenerateMoves(s, ally.Position, ally.Piece) {
			legalMoves = append(legalMoves, SimpleMove{From: ally.Position, To: to})
		}
	}
	return legalMoves
}

// HasLegalMove stops at the first legal move found.
func HasLegalMove(s Snapshot) bool {
	for _, ally := range GetAllies(&s.Board, s.Turn) {
		if len(GenerateMoves(s, ally.Position, ally.Piece)) > 0 {
			return true
		}
	}
	return false
}
