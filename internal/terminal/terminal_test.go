package terminal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/benbeisheim/chessrules-backend/internal/model"
)

func TestParseMove(t *testing.T) {
	tests := []struct {
		in        string
		from, to  string
		promotion model.PieceType
		wantErr   bool
	}{
		{in: "e2e4", from: "e2", to: "e4"},
		{in: " G1F3 ", from: "g1", to: "f3"},
		{in: "e7e8q", from: "e7", to: "e8", promotion: model.Queen},
		{in: "a2a1n", from: "a2", to: "a1", promotion: model.Knight},
		{in: "e7e8k", wantErr: true},
		{in: "e2", wantErr: true},
		{in: "i2i4", wantErr: true},
		{in: "e9e4", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMove(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrBadInput) {
					t.Fatalf("ParseMove(%q) err = %v, want ErrBadInput", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMove(%q): %v", tt.in, err)
			}
			if got.From.SquareName() != tt.from || got.To.SquareName() != tt.to || got.Promotion != tt.promotion {
				t.Errorf("ParseMove(%q) = %s%s %q", tt.in, got.From, got.To, got.Promotion)
			}
		})
	}
}

func TestParsePromotion(t *testing.T) {
	tests := []struct {
		in   string
		want model.PieceType
		ok   bool
	}{
		{"q", model.Queen, true},
		{"Knight", model.Knight, true},
		{" r ", model.Rook, true},
		{"king", "", false},
		{"p", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParsePromotion(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParsePromotion(%q) = %q, %v", tt.in, got, ok)
		}
	}
}

func TestRenderBoardPlain(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf, false).RenderBoard(model.NewGameState().Board(), nil)

	want := strings.Join([]string{
		"  a b c d e f g h",
		"8 r n b q k b n r 8",
		"7 p p p p p p p p 7",
		"6 . . . . . . . . 6",
		"5 . . . . . . . . 5",
		"4 . . . . . . . . 4",
		"3 . . . . . . . . 3",
		"2 P P P P P P P P 2",
		"1 R N B Q K B N R 1",
		"  a b c d e f g h",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("board:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderBoardColored(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf, true).RenderBoard(model.NewGameState().Board(), nil)
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected escape sequences in colored output")
	}
}

func TestRenderStatus(t *testing.T) {
	tests := []struct {
		name string
		rep  model.Report
		want string
	}{
		{"opening", model.Report{Turn: model.White}, "Move 1, White to move\n"},
		{"check", model.Report{Turn: model.Black, MoveCount: 3, InCheck: true}, "Move 4, Black to move (check)\n"},
		{"mate", model.Report{Turn: model.White, MoveCount: 4, Outcome: model.OutcomeCheckmate}, "Checkmate. White is mated after 4 moves.\n"},
		{"stalemate", model.Report{Turn: model.Black, MoveCount: 20, Outcome: model.OutcomeStalemate}, "Stalemate after 20 moves.\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewRenderer(&buf, false).RenderStatus(tt.rep)
			if buf.String() != tt.want {
				t.Errorf("got %q want %q", buf.String(), tt.want)
			}
		})
	}
}

type fakeReader struct {
	lines   []string
	prompts []string
}

func (f *fakeReader) Readline() (string, error) {
	if len(f.lines) == 0 {
		return "", io.EOF
	}
	line := f.lines[0]
	f.lines = f.lines[1:]
	return line, nil
}

func (f *fakeReader) SetPrompt(p string) {
	f.prompts = append(f.prompts, p)
}

func TestPromptChooser(t *testing.T) {
	rl := &fakeReader{lines: []string{"king", "x", "n"}}
	var out bytes.Buffer
	chooser := NewPromptChooser(rl, &out, "> ")

	got, err := chooser.ChoosePromotion(context.Background(), model.White)
	if err != nil || got != model.Knight {
		t.Fatalf("got %q, %v want knight", got, err)
	}
	if strings.Count(out.String(), "cannot promote") != 2 {
		t.Errorf("expected two rejections, output %q", out.String())
	}
	if last := rl.prompts[len(rl.prompts)-1]; last != "> " {
		t.Errorf("prompt not restored: %q", last)
	}
}

func TestPromptChooserAbandoned(t *testing.T) {
	chooser := NewPromptChooser(&fakeReader{}, io.Discard, "> ")
	if _, err := chooser.ChoosePromotion(context.Background(), model.Black); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	chooser = NewPromptChooser(&fakeReader{lines: []string{"q"}}, io.Discard, "> ")
	if _, err := chooser.ChoosePromotion(ctx, model.Black); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestChooserDrivesPromotion(t *testing.T) {
	g, err := model.NewGameStateFromFEN("7k/4P3/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	in, _ := ParseMove("e7e8")
	chooser := NewPromptChooser(&fakeReader{lines: []string{"rook"}}, io.Discard, "> ")

	board := g.Board()
	if _, err := g.MoveWithChooser(context.Background(), in.From, in.To, board.At(in.From), chooser); err != nil {
		t.Fatalf("MoveWithChooser: %v", err)
	}
	board = g.Board()
	if got := board.At(in.To); got != model.NewPiece(model.White, model.Rook) {
		t.Errorf("e8 = %v, want white rook", got)
	}
}
