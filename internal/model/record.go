package model

import "fmt"

// Record is the persisted form of a GameState. A pending promotion is not
// recorded; the record holds the position from before that pawn moved.
type Record struct {
	Board     [8][8]string `json:"board"`
	Turn      Color        `json:"turn"`
	MoveCount int          `json:"moveCount"`
	Moved     MovedFlags   `json:"moved"`
	History   []Ply        `json:"history"`
}

func (g *GameState) Record() Record {
	board := g.board
	moved := g.moved
	if g.pending != nil {
		board.set(g.pending.From, g.pending.pawn)
		board.set(g.pending.To, g.pending.captured)
		moved = g.pending.prevMoved
	}
	return Record{
		Board:     board.Tags(),
		Turn:      g.turn,
		MoveCount: g.moveCount,
		Moved:     moved,
		History:   g.History(),
	}
}

// RestoreGameState rebuilds a GameState from a Record and recomputes its
// derived flags.
func RestoreGameState(r Record) (*GameState, error) {
	board, err := BoardFromTags(r.Board)
	if err != nil {
		return nil, fmt.Errorf("restore board: %w", err)
	}
	if !r.Turn.Valid() {
		return nil, fmt.Errorf("restore: invalid turn %q", r.Turn)
	}
	g := &GameState{}
	g.LoadPosition(board, r.Turn, r.Moved)
	g.moveCount = r.MoveCount
	if r.History != nil {
		g.history = append([]Ply{}, r.History...)
	}
	return g, nil
}
