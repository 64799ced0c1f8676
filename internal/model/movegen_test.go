package model

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

// oracleMoves lists the distinct from/to pairs dragontoothmg considers legal.
// Promotions to different pieces collapse into one pair.
func oracleMoves(fen string) map[SimpleMove]bool {
	b := dragontoothmg.ParseFen(fen)
	out := map[SimpleMove]bool{}
	for _, m := range b.GenerateLegalMoves() {
		out[SimpleMove{From: fromOracleSquare(m.From()), To: fromOracleSquare(m.To())}] = true
	}
	return out
}

func fromOracleSquare(s uint8) Position {
	return Position{X: int(s % 8), Y: 7 - int(s/8)}
}

func TestLegalMovesMatchOracle(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{name: "start", fen: StartingFEN},
		{name: "kiwipete", fen: "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"},
		{name: "castling both sides", fen: "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1"},
		{name: "rook endgame", fen: "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"},
		{name: "promotions and pins", fen: "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1"},
		{name: "black to move", fen: "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGame(t, tt.fen)
			got := map[SimpleMove]bool{}
			for _, m := range g.LegalMoves() {
				if got[m] {
					t.Fatalf("duplicate move %s%s", m.From, m.To)
				}
				got[m] = true
			}
			want := oracleMoves(tt.fen)
			for m := range want {
				if !got[m] {
					t.Errorf("missing %s%s", m.From, m.To)
				}
			}
			for m := range got {
				if !want[m] {
					t.Errorf("extra %s%s", m.From, m.To)
				}
			}
		})
	}
}

func TestStartingMoveCount(t *testing.T) {
	g := NewGameState()
	if n := len(g.LegalMoves()); n != 20 {
		t.Fatalf("got %d want 20", n)
	}
	if n := len(oracleMoves(StartingFEN)); n != 20 {
		t.Fatalf("oracle disagrees: %d", n)
	}
}

// Every pair the generator offers is legal, every legal pair is valid, and
// no legal pair is missed by the generator.
func TestGeneratorAgreesWithPredicates(t *testing.T) {
	fens := []string{
		StartingFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1",
		"k3r3/8/8/8/8/8/4B3/4K3 w - - 0 1",
	}
	for _, fen := range fens {
		g := mustGame(t, fen)
		s := g.Snapshot()
		for _, ally := range GetAllies(&s.Board, s.Turn) {
			generated := map[Position]bool{}
			for _, to := range GenerateMoves(s, ally.Position, ally.Piece) {
				generated[to] = true
			}
			for y := 0; y < 8; y++ {
				for x := 0; x < 8; x++ {
					to := Position{X: x, Y: y}
					legal := IsLegalMove(s, ally.Position, to, ally.Piece)
					if legal && !IsValidMove(s, ally.Position, to, ally.Piece) {
						t.Fatalf("%s: %s%s legal but not valid", fen, ally.Position, to)
					}
					if legal != generated[to] {
						t.Fatalf("%s: %s%s legal=%v generated=%v", fen, ally.Position, to, legal, generated[to])
					}
				}
			}
		}
	}
}

func TestHasLegalMove(t *testing.T) {
	if !HasLegalMove(NewGameState().Snapshot()) {
		t.Fatal("start position has moves")
	}
	g := mustGame(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if HasLegalMove(g.Snapshot()) {
		t.Fatal("stalemated king has no moves")
	}
	if g.Outcome() != OutcomeStalemate {
		t.Fatalf("got outcome %q", g.Outcome())
	}
}
