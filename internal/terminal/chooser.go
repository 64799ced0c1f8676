package terminal

import (
	"context"
	"fmt"
	"io"

	"github.com/benbeisheim/chessrules-backend/internal/model"
)

// LineReader is the part of a readline instance the chooser needs.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// PromptChooser asks on the terminal which piece a pawn becomes. It keeps
// asking until it gets a valid answer, the input ends or ctx is done.
type PromptChooser struct {
	rl     LineReader
	out    io.Writer
	prompt string
}

func NewPromptChooser(rl LineReader, out io.Writer, prompt string) *PromptChooser {
	return &PromptChooser{rl: rl, out: out, prompt: prompt}
}

func (pc *PromptChooser) ChoosePromotion(ctx context.Context, c model.Color) (model.PieceType, error) {
	pc.rl.SetPrompt(fmt.Sprintf("%s promotes to [q/r/b/n] > ", c))
	defer pc.rl.SetPrompt(pc.prompt)

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		line, err := pc.rl.Readline()
		if err != nil {
			// interrupt or end of input abandons the promotion
			return "", context.Canceled
		}
		if t, ok := ParsePromotion(line); ok {
			return t, nil
		}
		fmt.Fprintf(pc.out, "cannot promote to %q\n", line)
	}
}
