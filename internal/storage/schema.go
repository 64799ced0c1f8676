package storage

import "time"

// GameRecord represents a row in the games table
type GameRecord struct {
	GameID       string    `db:"game_id"`
	InitialFEN   string    `db:"initial_fen"`
	CreatedAtUTC time.Time `db:"created_at_utc"`
}

// MoveRecord represents a row in the moves table. Coordinates use the
// engine's layout: x is the column from file a, y the row from rank 8.
type MoveRecord struct {
	MoveID      int64     `db:"move_id"`
	GameID      string    `db:"game_id"`
	MoveNumber  int       `db:"move_number"`
	FromX       int       `db:"from_x"`
	FromY       int       `db:"from_y"`
	ToX         int       `db:"to_x"`
	ToY         int       `db:"to_y"`
	Piece       string    `db:"piece"`
	Captured    string    `db:"captured"`
	Promotion   string    `db:"promotion"`
	Castle      bool      `db:"castle"`
	InCheck     bool      `db:"in_check"`
	Checkmate   bool      `db:"checkmate"`
	PlayerColor string    `db:"player_color"`
	ThinkMillis int64     `db:"think_ms"`
	MoveTimeUTC time.Time `db:"move_time_utc"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	initial_fen TEXT NOT NULL,
	created_at_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	move_number INTEGER NOT NULL,
	from_x INTEGER NOT NULL CHECK(from_x BETWEEN 0 AND 7),
	from_y INTEGER NOT NULL CHECK(from_y BETWEEN 0 AND 7),
	to_x INTEGER NOT NULL CHECK(to_x BETWEEN 0 AND 7),
	to_y INTEGER NOT NULL CHECK(to_y BETWEEN 0 AND 7),
	piece TEXT NOT NULL,
	captured TEXT NOT NULL DEFAULT '',
	promotion TEXT NOT NULL DEFAULT '',
	castle INTEGER NOT NULL DEFAULT 0,
	in_check INTEGER NOT NULL DEFAULT 0,
	checkmate INTEGER NOT NULL DEFAULT 0,
	player_color TEXT NOT NULL CHECK(player_color IN ('white', 'black')),
	think_ms INTEGER NOT NULL DEFAULT 0,
	move_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, move_number)
);

CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
`
