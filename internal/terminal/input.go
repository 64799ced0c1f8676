package terminal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/benbeisheim/chessrules-backend/internal/model"
)

var ErrBadInput = errors.New("bad move input")

// MoveInput is a move typed in coordinate form, e.g. "e2e4" or "e7e8q".
type MoveInput struct {
	From      model.Position
	To        model.Position
	Promotion model.PieceType // empty when no suffix was given
}

var promotionSuffix = map[byte]model.PieceType{
	'q': model.Queen,
	'r': model.Rook,
	'b': model.Bishop,
	'n': model.Knight,
}

func ParseMove(s string) (MoveInput, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 4 && len(s) != 5 {
		return MoveInput{}, fmt.Errorf("%w: %q", ErrBadInput, s)
	}
	from, err := model.ParseSquare(s[0:2])
	if err != nil {
		return MoveInput{}, fmt.Errorf("%w: %v", ErrBadInput, err)
	}
	to, err := model.ParseSquare(s[2:4])
	if err != nil {
		return MoveInput{}, fmt.Errorf("%w: %v", ErrBadInput, err)
	}
	in := MoveInput{From: from, To: to}
	if len(s) == 5 {
		t, ok := promotionSuffix[s[4]]
		if !ok {
			return MoveInput{}, fmt.Errorf("%w: unknown promotion piece %q", ErrBadInput, s[4:])
		}
		in.Promotion = t
	}
	return in, nil
}

// ParsePromotion accepts a promotion piece by letter or by name.
func ParsePromotion(s string) (model.PieceType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 1 {
		t, ok := promotionSuffix[s[0]]
		return t, ok
	}
	t := model.PieceType(s)
	return t, model.IsPromotionType(t)
}
