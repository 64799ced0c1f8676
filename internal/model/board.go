package model

import "fmt"

// Position is a board coordinate. X is the column (0 = file a), Y is the
// row (0 = rank 8).
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) InBounds() bool {
	return p.X >= 0 && p.X < 8 && p.Y >= 0 && p.Y < 8
}

func (p Position) add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// SquareName returns the coordinate in file/rank form, e.g. "e4".
func (p Position) SquareName() string {
	return fmt.Sprintf("%c%d", p.X+97, 8-p.Y)
}

func (p Position) String() string {
	if !p.InBounds() {
		return fmt.Sprintf("(%d,%d)", p.X, p.Y)
	}
	return p.SquareName()
}

// ParseSquare reads a square name like "e4".
func ParseSquare(s string) (Position, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Position{}, fmt.Errorf("invalid square %q", s)
	}
	return Position{X: int(s[0] - 'a'), Y: int('8' - s[1])}, nil
}

// Square pairs a position with the piece standing on it.
type Square struct {
	Position Position `json:"position"`
	Piece    Piece    `json:"piece"`
}

// Board is the 8x8 grid indexed [Y][X]. It is a value type: assigning it
// copies every square, which is how rule probes get an isolated board.
type Board [8][8]Piece

func (b *Board) At(p Position) Piece {
	return b[p.Y][p.X]
}

func (b *Board) set(p Position, piece Piece) {
	b[p.Y][p.X] = piece
}

func (b *Board) empty(p Position) bool {
	return b[p.Y][p.X].IsEmpty()
}

// Tags returns the board in two-character tag form, row 0 first.
func (b *Board) Tags() [8][8]string {
	var out [8][8]string
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			out[y][x] = b[y][x].Tag()
		}
	}
	return out
}

// BoardFromTags is the inverse of Tags.
func BoardFromTags(tags [8][8]string) (Board, error) {
	var b Board
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			p, err := ParsePiece(tags[y][x])
			if err != nil {
				return Board{}, fmt.Errorf("square %s: %w", Position{X: x, Y: y}, err)
			}
			b[y][x] = p
		}
	}
	return b, nil
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns the standard starting arrangement.
func NewBoard() Board {
	var b Board
	for x := 0; x < 8; x++ {
		b[0][x] = NewPiece(Black, backRank[x])
		b[1][x] = NewPiece(Black, Pawn)
		b[6][x] = NewPiece(White, Pawn)
		b[7][x] = NewPiece(White, backRank[x])
	}
	return b
}

// homeRow is the row a colour's king and rooks start on.
func homeRow(c Color) int {
	if c == White {
		return 7
	}
	return 0
}

func pawnStartRow(c Color) int {
	if c == White {
		return 6
	}
	return 1
}

// forward is the row step a pawn of colour c advances by.
func forward(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
