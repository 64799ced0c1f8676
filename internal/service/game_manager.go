package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

const defaultInitialTime = 600 * time.Second

type Options struct {
	Recorder      MoveRecorder
	Snapshots     SnapshotStore
	MatchInterval time.Duration
	InitialTime   time.Duration
}

// GameManager owns every live session and the matchmaking queue.
type GameManager struct {
	games            map[string]*Session
	queue            *Queue
	matchingChannels map[string]chan string
	matches          map[string]MatchFoundEvent // undelivered matches, by player
	mu               sync.RWMutex
	opts             Options
	cancel           context.CancelFunc
	done             chan struct{}
}

func NewGameManager(opts Options) *GameManager {
	if opts.MatchInterval <= 0 {
		opts.MatchInterval = time.Second
	}
	if opts.InitialTime <= 0 {
		opts.InitialTime = defaultInitialTime
	}
	ctx, cancel := context.WithCancel(context.Background())
	gm := &GameManager{
		games:            make(map[string]*Session),
		queue:            NewQueue(),
		matchingChannels: make(map[string]chan string),
		matches:          make(map[string]MatchFoundEvent),
		opts:             opts,
		cancel:           cancel,
		done:             make(chan struct{}),
	}

	go gm.processMatchmaking(ctx)

	return gm
}

// Close stops the matchmaking loop.
func (gm *GameManager) Close() {
	gm.cancel()
	<-gm.done
}

func (gm *GameManager) processMatchmaking(ctx context.Context) {
	defer close(gm.done)
	ticker := time.NewTicker(gm.opts.MatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for gm.matchOnce() {
			}
		}
	}
}

// matchOnce pairs the two longest waiting players into a new game. It
// reports whether a pair was made.
func (gm *GameManager) matchOnce() bool {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	first, second, ok := gm.queue.GetNextPair()
	if !ok {
		return false
	}
	player1, player2 := first.Player, second.Player

	gameID := uuid.New().String()
	game, err := NewSession(gameID, "", gm.opts.InitialTime, gm.opts.Recorder, gm.opts.Snapshots)
	if err != nil {
		log.Printf("matchmaking: failed to create game: %v", err)
		gm.queue.Requeue(first, second)
		return false
	}
	p1Color, err := game.AddPlayer(player1.ID)
	if err != nil {
		log.Printf("matchmaking: failed to seat %s: %v", player1.ID, err)
		gm.queue.Requeue(first, second)
		return false
	}
	p2Color, err := game.AddPlayer(player2.ID)
	if err != nil {
		log.Printf("matchmaking: failed to seat %s: %v", player2.ID, err)
		gm.queue.Requeue(first, second)
		return false
	}
	gm.games[gameID] = game

	gm.notifyMatch(player1.ID, MatchFoundEvent{GameID: gameID, Color: p1Color})
	gm.notifyMatch(player2.ID, MatchFoundEvent{GameID: gameID, Color: p2Color})
	log.Printf("matchmaking: %s (white) vs %s (black) in game %s", player1.ID, player2.ID, gameID)
	return true
}

// notifyMatch hands the event to the player's waiting channel, or keeps it
// for MatchStatus when nobody is listening. gm.mu must be held.
func (gm *GameManager) notifyMatch(playerID string, event MatchFoundEvent) {
	if ch, ok := gm.matchingChannels[playerID]; ok {
		select {
		case ch <- mustJSON(event):
			delete(gm.matchingChannels, playerID)
			close(ch)
			return
		default:
			log.Printf("matchmaking: channel for player %s is full", playerID)
		}
	}
	gm.matches[playerID] = event
}

// RegisterMatchmakingChannel sets ch to receive playerID's match event. ch
// needs room for one message; it is closed after the event is sent.
func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if event, ok := gm.matches[playerID]; ok {
		// matched before the listener arrived
		select {
		case ch <- mustJSON(event):
			delete(gm.matches, playerID)
			close(ch)
			return nil
		default:
		}
	}

	if existingCh, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existingCh)
	}
	gm.matchingChannels[playerID] = ch
	return nil
}

// UnregisterMatchmakingChannel forgets playerID's channel without closing it;
// the registering side owns it.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	if current, ok := gm.matchingChannels[playerID]; ok && current == ch {
		delete(gm.matchingChannels, playerID)
	}
}

func mustJSON(v interface{}) string {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	delete(gm.matches, playerID)
	if err := gm.queue.AddPlayer(Player{ID: playerID}); err != nil {
		return err
	}
	return nil
}

func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.RemovePlayer(playerID)
}

// MatchStatus reports a match made while the player had no listener.
func (gm *GameManager) MatchStatus(playerID string) (MatchFoundEvent, bool) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	event, ok := gm.matches[playerID]
	return event, ok
}

// TakeMatch is MatchStatus for a listener that delivers the event: the
// stored match is removed so the player can queue again.
func (gm *GameManager) TakeMatch(playerID string) (MatchFoundEvent, bool) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	event, ok := gm.matches[playerID]
	if ok {
		delete(gm.matches, playerID)
	}
	return event, ok
}

func (gm *GameManager) QueueSize() int {
	return gm.queue.Size()
}

func (gm *GameManager) CreateGame(gameID, fen string) (*Session, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return nil, ErrGameExists
	}
	game, err := NewSession(gameID, fen, gm.opts.InitialTime, gm.opts.Recorder, gm.opts.Snapshots)
	if err != nil {
		return nil, err
	}
	gm.games[gameID] = game
	return game, nil
}

// GetGame returns a live session, bringing it back from the snapshot store
// when it is not in memory.
func (gm *GameManager) GetGame(gameID string) (*Session, error) {
	gm.mu.RLock()
	game, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if exists {
		return game, nil
	}
	if gm.opts.Snapshots == nil {
		return nil, ErrGameNotFound
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	if game, exists := gm.games[gameID]; exists {
		return game, nil
	}
	snap, err := gm.opts.Snapshots.Load(gameID)
	if errors.Is(err, storage.ErrSnapshotNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	game, err = RestoreSession(snap, gm.opts.InitialTime, gm.opts.Recorder, gm.opts.Snapshots)
	if err != nil {
		return nil, err
	}
	gm.games[gameID] = game
	log.Printf("restored game %s from snapshot", gameID)
	return game, nil
}

// RemoveGame drops a session from memory and from the snapshot store.
func (gm *GameManager) RemoveGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	delete(gm.games, gameID)
	if gm.opts.Snapshots != nil {
		if err := gm.opts.Snapshots.Delete(gameID); err != nil {
			return fmt.Errorf("delete snapshot: %w", err)
		}
	}
	return nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn Conn) {
	gm.mu.RLock()
	game, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if !exists {
		return
	}
	game.UnregisterConnection(playerID, conn)
}

// RecorderHealthy is false once the move log has dropped into degraded mode.
func (gm *GameManager) RecorderHealthy() bool {
	if gm.opts.Recorder == nil {
		return true
	}
	return gm.opts.Recorder.IsHealthy()
}
