package model

// IsValidMove reports whether p may go from -> to under its movement rules,
// ignoring whether the move exposes its own king. A king stepping two files
// from its home square is valid when castling rights for that side allow it.
// The castle itself is not played here; see ExecuteCastle.
func IsValidMove(s Snapshot, from, to Position, p Piece) bool {
	if !from.InBounds() || !to.InBounds() || from == to || p.IsEmpty() {
		return false
	}
	if p.Type == King {
		if side, ok := castleSide(from, to, p.Color); ok {
			return !InCheck(&s.Board, p.Color) && CanCastle(s, p.Color, side)
		}
	}
	return isPseudoLegal(&s.Board, from, to, p)
}

// isPseudoLegal is the geometric rule for every piece without castling. It
// only reads b.
func isPseudoLegal(b *Board, from, to Position, p Piece) bool {
	if from == to {
		return false
	}
	dest := b.At(to)
	if !dest.IsEmpty() && dest.Color == p.Color {
		return false
	}
	dx, dy := to.X-from.X, to.Y-from.Y
	switch p.Type {
	case Bishop, Rook, Queen:
		return slides(p.Type, dx, dy) && clearPath(b, from, to)
	case Knight:
		return knightJump(dx, dy)
	case Pawn:
		return validPawnMove(b, from, to, p.Color)
	case King:
		return max(abs(dx), abs(dy)) == 1
	}
	return false
}

// slides reports whether the offset (dx, dy) lies on one of t's rays.
func slides(t PieceType, dx, dy int) bool {
	diagonal := abs(dx) == abs(dy)
	straight := dx == 0 || dy == 0
	switch t {
	case Bishop:
		return diagonal
	case Rook:
		return straight
	case Queen:
		return diagonal || straight
	}
	return false
}

func knightJump(dx, dy int) bool {
	return (abs(dx) == 1 && abs(dy) == 2) || (abs(dx) == 2 && abs(dy) == 1)
}

// clearPath reports whether every square strictly between from and to is
// empty. from and to must share a row, column or diagonal.
func clearPath(b *Board, from, to Position) bool {
	step := Position{X: sign(to.X - from.X), Y: sign(to.Y - from.Y)}
	for cur := from.add(step); cur != to; cur = cur.add(step) {
		if !b.empty(cur) {
			return false
		}
	}
	return true
}

func validPawnMove(b *Board, from, to Position, c Color) bool {
	dir := forward(c)
	dx, dy := to.X-from.X, to.Y-from.Y
	if sign(dy) != dir {
		return false
	}
	dest := b.At(to)
	switch {
	case dx == 0 && dy == dir:
		return dest.IsEmpty()
	case dx == 0 && dy == 2*dir:
		middle := Position{X: from.X, Y: from.Y + dir}
		return from.Y == pawnStartRow(c) && b.empty(middle) && dest.IsEmpty()
	case abs(dx) == 1 && dy == dir:
		return !dest.IsEmpty() && dest.Color != c
	}
	return false
}
