package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Renderer draws boards as text. White pieces are upper case, black lower
// case and empty squares '.'.
type Renderer struct {
	out   io.Writer
	white *color.Color
	black *color.Color
	label *color.Color
	check *color.Color
}

func NewRenderer(out io.Writer, colorize bool) *Renderer {
	r := &Renderer{
		out:   out,
		white: color.New(color.FgHiBlue, color.Bold),
		black: color.New(color.FgRed, color.Bold),
		label: color.New(color.FgCyan),
		check: color.New(color.BgYellow, color.FgBlack),
	}
	for _, c := range []*color.Color{r.white, r.black, r.label, r.check} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

func glyph(p model.Piece) string {
	if p.IsEmpty() {
		return "."
	}
	tag := p.Tag()
	if p.Color == model.White {
		return strings.ToUpper(tag[1:])
	}
	return tag[1:]
}

// RenderBoard writes the board with rank 8 at the top. highlight, if not
// nil, marks a square (the king in check).
func (r *Renderer) RenderBoard(b model.Board, highlight *model.Position) {
	files := r.label.Sprint("  a b c d e f g h")
	fmt.Fprintln(r.out, files)
	for y := 0; y < 8; y++ {
		rank := r.label.Sprint(8 - y)
		fmt.Fprint(r.out, rank)
		for x := 0; x < 8; x++ {
			p := b[y][x]
			s := glyph(p)
			switch {
			case highlight != nil && highlight.X == x && highlight.Y == y:
				s = r.check.Sprint(s)
			case p.Color == model.White:
				s = r.white.Sprint(s)
			case p.Color == model.Black:
				s = r.black.Sprint(s)
			}
			fmt.Fprint(r.out, " "+s)
		}
		fmt.Fprintln(r.out, " "+rank)
	}
	fmt.Fprintln(r.out, files)
}

// RenderStatus writes a one-line summary of a report.
func (r *Renderer) RenderStatus(rep model.Report) {
	side := r.white.Sprint("White")
	if rep.Turn == model.Black {
		side = r.black.Sprint("Black")
	}
	switch rep.Outcome {
	case model.OutcomeCheckmate:
		fmt.Fprintf(r.out, "Checkmate. %s is mated after %d moves.\n", side, rep.MoveCount)
	case model.OutcomeStalemate:
		fmt.Fprintf(r.out, "Stalemate after %d moves.\n", rep.MoveCount)
	default:
		status := ""
		if rep.InCheck {
			status = " (check)"
		}
		fmt.Fprintf(r.out, "Move %d, %s to move%s\n", rep.MoveCount+1, side, status)
	}
}
