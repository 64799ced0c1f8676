package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/terminal"
	"github.com/chzyer/readline"
)

const prompt = "chess > "

func main() {
	fen := flag.String("fen", "", "Starting position (standard start if empty)")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	flag.Parse()

	game := model.NewGameState()
	if *fen != "" {
		var err error
		if game, err = model.NewGameStateFromFEN(*fen); err != nil {
			log.Fatalf("Invalid position: %v", err)
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     ".chess_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Fatalf("Failed to start readline: %v", err)
	}
	defer rl.Close()

	out := rl.Stdout()
	r := terminal.NewRenderer(out, !*noColor && terminal.IsTerminal(os.Stdout))
	chooser := terminal.NewPromptChooser(rl, out, prompt)

	fmt.Fprintln(out, "Type a move like e2e4 or e7e8q, 'moves e2', 'history', or 'quit'.")
	show(r, game, game.Report())

	for {
		line, err := rl.Readline()
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return
		}
		if err != nil {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "quit", "exit", "x":
			return
		case "history":
			for i, ply := range game.History() {
				fmt.Fprintf(out, "%3d. %s %s-%s\n", i+1, ply.Piece, ply.From, ply.To)
			}
			continue
		case "moves":
			if len(fields) != 2 {
				fmt.Fprintln(out, "usage: moves <square>")
				continue
			}
			from, err := model.ParseSquare(fields[1])
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			fmt.Fprintln(out, game.LegalMovesFrom(from))
			continue
		}

		if game.Over() {
			fmt.Fprintln(out, "The game is over.")
			continue
		}
		in, err := terminal.ParseMove(fields[0])
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}

		var promote model.Chooser = chooser
		if in.Promotion != "" {
			chosen := in.Promotion
			promote = model.ChooserFunc(func(context.Context, model.Color) (model.PieceType, error) {
				return chosen, nil
			})
		}
		board := game.Board()
		report, err := game.MoveWithChooser(context.Background(), in.From, in.To, board.At(in.From), promote)
		if err != nil {
			fmt.Fprintf(out, "Rejected: %v\n", err)
			if report.CheckedKing != nil {
				fmt.Fprintf(out, "Your king on %s is in check.\n", report.CheckedKing)
			}
			continue
		}
		show(r, game, report)
	}
}

func show(r *terminal.Renderer, game *model.GameState, report model.Report) {
	board := game.Board()
	var king *model.Position
	if report.InCheck {
		if pos, ok := model.KingPosition(&board, report.Turn); ok {
			king = &pos
		}
	}
	r.RenderBoard(board, king)
	r.RenderStatus(report)
}
