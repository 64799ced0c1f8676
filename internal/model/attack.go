package model

// GetAttackers scans the board once, collecting every piece not of colour c
// and the square of c's king. found is false when c has no king on the board.
func GetAttackers(b *Board, c Color) (attackers []Square, king Position, found bool) {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			piece := b[y][x]
			if piece.IsEmpty() {
				continue
			}
			pos := Position{X: x, Y: y}
			if piece.Color != c {
				attackers = append(attackers, Square{Position: pos, Piece: piece})
				continue
			}
			if piece.Type == King {
				king = pos
				found = true
			}
		}
	}
	return attackers, king, found
}

// GetAllies returns every piece of colour c.
func GetAllies(b *Board, c Color) []Square {
	allies := []Square{}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if piece := b[y][x]; !piece.IsEmpty() && piece.Color == c {
				allies = append(allies, Square{Position: Position{X: x, Y: y}, Piece: piece})
			}
		}
	}
	return allies
}

func KingPosition(b *Board, c Color) (Position, bool) {
	king := NewPiece(c, King)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if b[y][x] == king {
				return Position{X: x, Y: y}, true
			}
		}
	}
	return Position{}, false
}

// InCheck reports whether any opposing piece has a pseudo-legal move onto
// c's king. A board without a king of colour c is never in check.
func InCheck(b *Board, c Color) bool {
	attackers, king, found := GetAttackers(b, c)
	if !found {
		return false
	}
	for _, a := range attackers {
		if isPseudoLegal(b, a.Position, king, a.Piece) {
			return true
		}
	}
	return false
}

// attacks reports whether p standing on from could capture on to, whether or
// not anything stands on to. Pawns attack diagonally only.
func attacks(b *Board, from, to Position, p Piece) bool {
	if from == to {
		return false
	}
	dx, dy := to.X-from.X, to.Y-from.Y
	switch p.Type {
	case Pawn:
		return dy == forward(p.Color) && abs(dx) == 1
	case Knight:
		return knightJump(dx, dy)
	case King:
		return max(abs(dx), abs(dy)) == 1
	default:
		return slides(p.Type, dx, dy) && clearPath(b, from, to)
	}
}

// squareAttacked reports whether any piece in attackers attacks target.
func squareAttacked(b *Board, attackers []Square, target Position) bool {
	for _, a := range attackers {
		if attacks(b, a.Position, target, a.Piece) {
			return true
		}
	}
	return false
}
