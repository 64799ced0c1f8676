package model

import (
	"encoding/json"
	"fmt"
)

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

// tag is the single-letter colour prefix used in two-character piece tags
func (c Color) tag() byte {
	if c == White {
		return 'w'
	}
	return 'b'
}

func (c Color) Valid() bool {
	return c == White || c == Black
}

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

func (p PieceType) symbol() byte {
	switch p {
	case King:
		return 'k'
	case Queen:
		return 'q'
	case Rook:
		return 'r'
	case Bishop:
		return 'b'
	case Knight:
		return 'n'
	case Pawn:
		return 'p'
	}
	return 0
}

func pieceTypeFromSymbol(s byte) (PieceType, bool) {
	switch s {
	case 'k':
		return King, true
	case 'q':
		return Queen, true
	case 'r':
		return Rook, true
	case 'b':
		return Bishop, true
	case 'n':
		return Knight, true
	case 'p':
		return Pawn, true
	}
	return "", false
}

// PromotionTypes are the piece types a pawn may become on the last rank.
var PromotionTypes = []PieceType{Queen, Rook, Bishop, Knight}

func IsPromotionType(p PieceType) bool {
	for _, t := range PromotionTypes {
		if t == p {
			return true
		}
	}
	return false
}

// Piece is the value of one square. The zero value is an empty square.
type Piece struct {
	Color Color     `json:"color"`
	Type  PieceType `json:"type"`
}

var NoPiece = Piece{}

func NewPiece(c Color, t PieceType) Piece {
	return Piece{Color: c, Type: t}
}

func (p Piece) IsEmpty() bool {
	return p.Type == ""
}

// Tag returns the two-character form, e.g. "wp" or "bk", and "" for an empty square.
func (p Piece) Tag() string {
	if p.IsEmpty() {
		return ""
	}
	return string([]byte{p.Color.tag(), p.Type.symbol()})
}

func (p Piece) String() string {
	if p.IsEmpty() {
		return "--"
	}
	return p.Tag()
}

// ParsePiece decodes a two-character tag. The empty string decodes to NoPiece.
func ParsePiece(tag string) (Piece, error) {
	if tag == "" {
		return NoPiece, nil
	}
	if len(tag) != 2 {
		return NoPiece, fmt.Errorf("invalid piece tag %q", tag)
	}
	var c Color
	switch tag[0] {
	case 'w':
		c = White
	case 'b':
		c = Black
	default:
		return NoPiece, fmt.Errorf("invalid piece colour in %q", tag)
	}
	t, ok := pieceTypeFromSymbol(tag[1])
	if !ok {
		return NoPiece, fmt.Errorf("invalid piece type in %q", tag)
	}
	return Piece{Color: c, Type: t}, nil
}

// MarshalJSON writes an empty square as null so boards read like the client expects.
func (p Piece) MarshalJSON() ([]byte, error) {
	if p.IsEmpty() {
		return []byte("null"), nil
	}
	type plain Piece
	return json.Marshal(plain(p))
}

func (p *Piece) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = NoPiece
		return nil
	}
	type plain Piece
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Piece(v)
	return nil
}
