package model

import "testing"

func mustGame(t *testing.T, fen string) *GameState {
	t.Helper()
	g, err := NewGameStateFromFEN(fen)
	if err != nil {
		t.Fatalf("NewGameStateFromFEN(%q): %v", fen, err)
	}
	return g
}

func sq(t *testing.T, name string) Position {
	t.Helper()
	p, err := ParseSquare(name)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// play makes a move by square names using whatever piece stands on from.
func play(t *testing.T, g *GameState, from, to string) (Report, error) {
	t.Helper()
	f := sq(t, from)
	b := g.Board()
	return g.Move(f, sq(t, to), b.At(f))
}

func mustPlay(t *testing.T, g *GameState, from, to string) Report {
	t.Helper()
	r, err := play(t, g, from, to)
	if err != nil {
		t.Fatalf("move %s%s: %v", from, to, err)
	}
	return r
}
