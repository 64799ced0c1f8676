package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// MoveLog appends finished moves to SQLite. Writes are queued and applied by
// a single writer goroutine; reads go straight to the database.
type MoveLog struct {
	db           *sql.DB
	writeChan    chan func(*sql.Tx) error
	healthStatus atomic.Bool
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	closeOnce    sync.Once
}

func NewMoveLog(dataSourceName string, devMode bool) (*MoveLog, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// PRAGMAs are per connection, so keep exactly one
	db.SetMaxOpenConns(1)

	if devMode {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &MoveLog{
		db:        db,
		writeChan: make(chan func(*sql.Tx) error, 1000),
		ctx:       ctx,
		cancel:    cancel,
	}
	m.healthStatus.Store(true)

	if err := m.InitDB(); err != nil {
		cancel()
		db.Close()
		return nil, err
	}

	m.wg.Add(1)
	go m.writerLoop()
	return m, nil
}

// InitDB creates the schema if it does not exist yet
func (m *MoveLog) InitDB() error {
	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return tx.Commit()
}

// IsHealthy is false once any queued write has failed
func (m *MoveLog) IsHealthy() bool {
	return m.healthStatus.Load()
}

func (m *MoveLog) writerLoop() {
	defer m.wg.Done()

	for {
		select {
		case <-m.ctx.Done():
			// drain what is already queued; Close bounds how long it may take
			for {
				select {
				case fn := <-m.writeChan:
					if m.healthStatus.Load() {
						m.executeWrite(fn)
					}
				default:
					return
				}
			}

		case fn := <-m.writeChan:
			if !m.healthStatus.Load() {
				continue
			}
			m.executeWrite(fn)
		}
	}
}

func (m *MoveLog) executeWrite(fn func(*sql.Tx) error) {
	tx, err := m.db.Begin()
	if err != nil {
		log.Printf("move log degraded: failed to begin transaction: %v", err)
		m.healthStatus.Store(false)
		return
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		log.Printf("move log degraded: write failed: %v", err)
		m.healthStatus.Store(false)
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("move log degraded: failed to commit: %v", err)
		m.healthStatus.Store(false)
	}
}

func (m *MoveLog) enqueue(what string, fn func(*sql.Tx) error) {
	if !m.healthStatus.Load() {
		return
	}
	select {
	case m.writeChan <- fn:
	default:
		log.Printf("move log queue full, dropping %s", what)
	}
}

// RecordGame queues the games row for a new game
func (m *MoveLog) RecordGame(record GameRecord) {
	m.enqueue("game record", func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT OR IGNORE INTO games (game_id, initial_fen, created_at_utc) VALUES (?, ?, ?)`,
			record.GameID, record.InitialFEN, record.CreatedAtUTC,
		)
		return err
	})
}

// RecordMove queues one finished move
func (m *MoveLog) RecordMove(record MoveRecord) {
	m.enqueue("move record", func(tx *sql.Tx) error {
		query := `INSERT INTO moves (
			game_id, move_number, from_x, from_y, to_x, to_y,
			piece, captured, promotion, castle, in_check, checkmate,
			player_color, think_ms, move_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.GameID, record.MoveNumber, record.FromX, record.FromY, record.ToX, record.ToY,
			record.Piece, record.Captured, record.Promotion, record.Castle, record.InCheck, record.Checkmate,
			record.PlayerColor, record.ThinkMillis, record.MoveTimeUTC,
		)
		return err
	})
}

// QueryMoves returns the recorded moves of a game in move order
func (m *MoveLog) QueryMoves(gameID string) ([]MoveRecord, error) {
	rows, err := m.db.Query(`SELECT
		move_id, game_id, move_number, from_x, from_y, to_x, to_y,
		piece, captured, promotion, castle, in_check, checkmate,
		player_color, think_ms, move_time_utc
	FROM moves WHERE game_id = ? ORDER BY move_number`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	moves := []MoveRecord{}
	for rows.Next() {
		var r MoveRecord
		err := rows.Scan(
			&r.MoveID, &r.GameID, &r.MoveNumber, &r.FromX, &r.FromY, &r.ToX, &r.ToY,
			&r.Piece, &r.Captured, &r.Promotion, &r.Castle, &r.InCheck, &r.Checkmate,
			&r.PlayerColor, &r.ThinkMillis, &r.MoveTimeUTC,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		moves = append(moves, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return moves, nil
}

// QueryGame returns the games row for gameID, or sql.ErrNoRows
func (m *MoveLog) QueryGame(gameID string) (GameRecord, error) {
	var g GameRecord
	err := m.db.QueryRow(
		`SELECT game_id, initial_fen, created_at_utc FROM games WHERE game_id = ?`, gameID,
	).Scan(&g.GameID, &g.InitialFEN, &g.CreatedAtUTC)
	if err != nil {
		return GameRecord{}, fmt.Errorf("query game %s: %w", gameID, err)
	}
	return g, nil
}

// Close stops the writer after draining queued writes, then closes the
// database.
func (m *MoveLog) Close() error {
	var err error
	m.closeOnce.Do(func() {
		m.cancel()

		done := make(chan struct{})
		go func() {
			m.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			log.Printf("move log writer shutdown timeout, some writes may be lost")
		}
		err = m.db.Close()
	})
	return err
}
