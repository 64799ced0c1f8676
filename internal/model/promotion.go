package model

import (
	"context"
	"fmt"
)

// Chooser supplies the promotion piece for a pawn of colour c. It may block
// until a player answers or ctx is done.
type Chooser interface {
	ChoosePromotion(ctx context.Context, c Color) (PieceType, error)
}

// ChooserFunc adapts a plain function to Chooser.
type ChooserFunc func(ctx context.Context, c Color) (PieceType, error)

func (f ChooserFunc) ChoosePromotion(ctx context.Context, c Color) (PieceType, error) {
	return f(ctx, c)
}

// MoveWithChooser plays a move and, when it promotes, blocks on chooser for
// the piece type. If the chooser fails or returns something that cannot be
// promoted to, the pending move is cancelled and the position is left as it
// was before the call.
func (g *GameState) MoveWithChooser(ctx context.Context, from, to Position, p Piece, chooser Chooser) (Report, error) {
	report, err := g.Move(from, to, p)
	if err != nil || report.Pending == nil {
		return report, err
	}

	choice, err := chooser.ChoosePromotion(ctx, report.Pending.Color)
	if err != nil {
		report, _ = g.CancelPromotion()
		return report, fmt.Errorf("promotion abandoned: %w", err)
	}
	report, err = g.Promote(choice)
	if err != nil {
		report, _ = g.CancelPromotion()
		return report, err
	}
	return report, nil
}
