package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/model"
)

func openMoveLog(t *testing.T, path string) *MoveLog {
	t.Helper()
	m, err := NewMoveLog(path, false)
	if err != nil {
		t.Fatalf("NewMoveLog: %v", err)
	}
	return m
}

func TestMoveLogRecordsMoves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moves.db")
	m := openMoveLog(t, path)

	now := time.Now().UTC()
	m.RecordGame(GameRecord{GameID: "g1", InitialFEN: model.StartingFEN, CreatedAtUTC: now})
	m.RecordMove(MoveRecord{
		GameID: "g1", MoveNumber: 1, FromX: 4, FromY: 6, ToX: 4, ToY: 4,
		Piece: "wp", PlayerColor: "white", ThinkMillis: 1200, MoveTimeUTC: now,
	})
	m.RecordMove(MoveRecord{
		GameID: "g1", MoveNumber: 2, FromX: 4, FromY: 1, ToX: 4, ToY: 3,
		Piece: "bp", PlayerColor: "black", InCheck: true, MoveTimeUTC: now,
	})
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if !m.IsHealthy() {
		t.Fatal("writes should have succeeded")
	}

	m = openMoveLog(t, path)
	defer m.Close()

	moves, err := m.QueryMoves("g1")
	if err != nil {
		t.Fatal(err)
	}
	if len(moves) != 2 {
		t.Fatalf("got %d moves want 2", len(moves))
	}
	if moves[0].Piece != "wp" || moves[0].ToY != 4 || moves[0].ThinkMillis != 1200 {
		t.Fatalf("unexpected first move: %+v", moves[0])
	}
	if moves[1].PlayerColor != "black" || !moves[1].InCheck || moves[1].Checkmate {
		t.Fatalf("unexpected second move: %+v", moves[1])
	}

	game, err := m.QueryGame("g1")
	if err != nil {
		t.Fatal(err)
	}
	if game.InitialFEN != model.StartingFEN {
		t.Fatalf("got fen %q", game.InitialFEN)
	}
}

func TestMoveLogCloseDrainsQueue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moves.db")
	m := openMoveLog(t, path)

	const n = 100
	now := time.Now().UTC()
	m.RecordGame(GameRecord{GameID: "g1", InitialFEN: model.StartingFEN, CreatedAtUTC: now})
	for i := 1; i <= n; i++ {
		color := "white"
		if i%2 == 0 {
			color = "black"
		}
		m.RecordMove(MoveRecord{GameID: "g1", MoveNumber: i, Piece: "wn", PlayerColor: color, MoveTimeUTC: now})
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}

	m = openMoveLog(t, path)
	defer m.Close()
	moves, err := m.QueryMoves("g1")
	if err != nil {
		t.Fatal(err)
	}
	if len(moves) != n {
		t.Fatalf("got %d moves want %d", len(moves), n)
	}
}

func TestMoveLogDegradesOnFailedWrite(t *testing.T) {
	m := openMoveLog(t, filepath.Join(t.TempDir(), "moves.db"))
	// no games row, so the foreign key rejects the insert
	m.RecordMove(MoveRecord{GameID: "missing", MoveNumber: 1, Piece: "wp", PlayerColor: "white", MoveTimeUTC: time.Now()})
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if m.IsHealthy() {
		t.Fatal("move log should be degraded after a failed write")
	}
}

func TestMoveLogUnknownGame(t *testing.T) {
	m := openMoveLog(t, filepath.Join(t.TempDir(), "moves.db"))
	defer m.Close()

	moves, err := m.QueryMoves("nope")
	if err != nil {
		t.Fatal(err)
	}
	if len(moves) != 0 {
		t.Fatalf("got %d moves want 0", len(moves))
	}
	if _, err := m.QueryGame("nope"); err == nil {
		t.Fatal("expected an error for an unknown game")
	}
}

func TestSnapshotStore(t *testing.T) {
	s, err := OpenSnapshotStore("")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	g := model.NewGameState()
	e2, _ := model.ParseSquare("e2")
	e4, _ := model.ParseSquare("e4")
	b := g.Board()
	if _, err := g.Move(e2, e4, b.At(e2)); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Load("g1"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("got %v want ErrSnapshotNotFound", err)
	}

	snap := GameSnapshot{GameID: "g1", InitialFEN: model.StartingFEN, White: "alice", Black: "bob", Record: g.Record()}
	if err := s.Save(snap); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(GameSnapshot{GameID: "g2", Record: model.NewGameState().Record()}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load("g1")
	if err != nil {
		t.Fatal(err)
	}
	if got.White != "alice" || got.Black != "bob" || got.SavedAt.IsZero() {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
	restored, err := model.RestoreGameState(got.Record)
	if err != nil {
		t.Fatal(err)
	}
	if restored.Board() != g.Board() || restored.Turn() != model.Black || restored.MoveCount() != 1 {
		t.Fatal("restored game does not match the saved one")
	}

	ids, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "g1" || ids[1] != "g2" {
		t.Fatalf("got ids %v", ids)
	}

	if err := s.Delete("g1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load("g1"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("got %v after delete", err)
	}
}

func TestSnapshotStoreOnDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenSnapshotStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(GameSnapshot{GameID: "persisted", Record: model.NewGameState().Record()}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = OpenSnapshotStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, err := s.Load("persisted"); err != nil {
		t.Fatalf("snapshot did not survive reopen: %v", err)
	}
}
