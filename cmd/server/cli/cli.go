package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/storage"
	"github.com/benbeisheim/chessrules-backend/internal/terminal"
)

// Run is the entry point for the store inspection commands
func Run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: moves, snapshots, show")
	}

	switch args[0] {
	case "moves":
		return runMoves(args[1:])
	case "snapshots":
		return runSnapshots(args[1:])
	case "show":
		return runShow(args[1:])
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

func runMoves(args []string) error {
	fs := flag.NewFlagSet("moves", flag.ContinueOnError)
	path := fs.String("path", "", "Move log database path (required)")
	gameID := fs.String("gameId", "", "Game ID (required)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" || *gameID == "" {
		return fmt.Errorf("database path and game id required")
	}

	moveLog, err := storage.NewMoveLog(*path, false)
	if err != nil {
		return fmt.Errorf("failed to open move log: %w", err)
	}
	defer moveLog.Close()

	game, err := moveLog.QueryGame(*gameID)
	if err != nil {
		return err
	}
	moves, err := moveLog.QueryMoves(*gameID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	fmt.Printf("Game %s started %s\nFEN %s\n\n", game.GameID, game.CreatedAtUTC.Format("2006-01-02 15:04:05"), game.InitialFEN)
	if len(moves) == 0 {
		fmt.Println("No moves recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tColor\tPiece\tMove\tCaptured\tFlags\tThink")
	fmt.Fprintln(w, strings.Repeat("-", 64))
	for _, m := range moves {
		from := model.Position{X: m.FromX, Y: m.FromY}
		to := model.Position{X: m.ToX, Y: m.ToY}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s-%s\t%s\t%s\t%.1fs\n",
			m.MoveNumber,
			m.PlayerColor,
			m.Piece,
			from.SquareName(), to.SquareName(),
			m.Captured,
			moveFlags(m),
			float64(m.ThinkMillis)/1000,
		)
	}
	w.Flush()

	fmt.Printf("\n%d move(s)\n", len(moves))
	return nil
}

func moveFlags(m storage.MoveRecord) string {
	var flags []string
	if m.Castle {
		flags = append(flags, "castle")
	}
	if m.Promotion != "" {
		flags = append(flags, "="+m.Promotion)
	}
	if m.Checkmate {
		flags = append(flags, "mate")
	} else if m.InCheck {
		flags = append(flags, "check")
	}
	return strings.Join(flags, ",")
}

func runSnapshots(args []string) error {
	fs := flag.NewFlagSet("snapshots", flag.ContinueOnError)
	dir := fs.String("dir", "", "Snapshot directory (required)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" {
		return fmt.Errorf("snapshot directory required")
	}

	store, err := storage.OpenSnapshotStore(*dir)
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}
	defer store.Close()

	ids, err := store.List()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Println("No snapshots found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Game ID\tWhite\tBlack\tTurn\tMoves\tSaved")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, id := range ids {
		snap, err := store.Load(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			snap.GameID,
			orDash(snap.White),
			orDash(snap.Black),
			snap.Record.Turn,
			snap.Record.MoveCount,
			snap.SavedAt.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()

	fmt.Printf("\nFound %d snapshot(s)\n", len(ids))
	return nil
}

// runShow prints the board of one stored game
func runShow(args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	dir := fs.String("dir", "", "Snapshot directory (required)")
	gameID := fs.String("gameId", "", "Game ID (required)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" || *gameID == "" {
		return fmt.Errorf("snapshot directory and game id required")
	}

	store, err := storage.OpenSnapshotStore(*dir)
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}
	defer store.Close()

	snap, err := store.Load(*gameID)
	if err != nil {
		return err
	}
	state, err := model.RestoreGameState(snap.Record)
	if err != nil {
		return err
	}
	r := terminal.NewRenderer(os.Stdout, terminal.IsTerminal(os.Stdout))
	r.RenderBoard(state.Board(), nil)
	r.RenderStatus(state.Report())
	fmt.Printf("White %s, Black %s, saved %s\n", orDash(snap.White), orDash(snap.Black), snap.SavedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
