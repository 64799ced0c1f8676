package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecodeStartingFEN(t *testing.T) {
	b, turn, moved, err := DecodeFEN(StartingFEN)
	if err != nil {
		t.Fatal(err)
	}
	if b != NewBoard() {
		t.Fatal("starting FEN should decode to the standard board")
	}
	if turn != White {
		t.Fatalf("got turn %s", turn)
	}
	if moved != (MovedFlags{}) {
		t.Fatal("full castling rights should leave every flag clear")
	}
}

func TestDecodeFENPlacement(t *testing.T) {
	b, turn, _, err := DecodeFEN("4k3/8/8/8/8/8/3P4/r3K3 b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if turn != Black {
		t.Fatalf("got turn %s", turn)
	}
	tests := []struct {
		square string
		want   Piece
	}{
		{square: "e8", want: NewPiece(Black, King)},
		{square: "e1", want: NewPiece(White, King)},
		{square: "a1", want: NewPiece(Black, Rook)},
		{square: "d2", want: NewPiece(White, Pawn)},
		{square: "d4", want: NoPiece},
	}
	for _, tt := range tests {
		if got := b.At(sq(t, tt.square)); got != tt.want {
			t.Fatalf("%s: got %s want %s", tt.square, got, tt.want)
		}
	}
}

func TestDecodeFENCastlingRights(t *testing.T) {
	_, _, moved, err := DecodeFEN("r3k2r/8/8/8/8/8/8/R3K2R w Kq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		square string
		want   bool
	}{
		{square: "h1", want: false},
		{square: "a1", want: true},
		{square: "h8", want: true},
		{square: "a8", want: false},
		{square: "e1", want: false},
		{square: "e8", want: false},
	}
	for _, tt := range tests {
		if got := moved.HasMoved(sq(t, tt.square)); got != tt.want {
			t.Fatalf("%s moved: got %v want %v", tt.square, got, tt.want)
		}
	}
}

func TestDecodeFENRejectsGarbage(t *testing.T) {
	for _, fen := range []string{"", "not a fen", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1"} {
		if _, _, _, err := DecodeFEN(fen); !errors.Is(err, ErrInvalidFEN) {
			t.Fatalf("DecodeFEN(%q): got %v want ErrInvalidFEN", fen, err)
		}
	}
}

func TestSquareNames(t *testing.T) {
	tests := []struct {
		name string
		pos  Position
	}{
		{name: "a8", pos: Position{X: 0, Y: 0}},
		{name: "h1", pos: Position{X: 7, Y: 7}},
		{name: "e4", pos: Position{X: 4, Y: 4}},
	}
	for _, tt := range tests {
		got, err := ParseSquare(tt.name)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.pos {
			t.Fatalf("ParseSquare(%q) = %+v want %+v", tt.name, got, tt.pos)
		}
		if tt.pos.SquareName() != tt.name {
			t.Fatalf("SquareName() = %q want %q", tt.pos.SquareName(), tt.name)
		}
	}
	for _, bad := range []string{"", "i1", "a9", "e44"} {
		if _, err := ParseSquare(bad); err == nil {
			t.Fatalf("ParseSquare(%q) should fail", bad)
		}
	}
}

func TestPieceJSON(t *testing.T) {
	row := [3]Piece{NewPiece(White, Queen), NoPiece, NewPiece(Black, Pawn)}
	data, err := json.Marshal(row)
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"color":"white","type":"queen"},null,{"color":"black","type":"pawn"}]`
	if string(data) != want {
		t.Fatalf("got %s want %s", data, want)
	}
	var back [3]Piece
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back != row {
		t.Fatalf("got %v want %v", back, row)
	}
}
