package service

import (
	"errors"
	"sync"
	"time"
)

var ErrAlreadyQueued = errors.New("player already in queue")

type QueuedPlayer struct {
	Player   Player
	JoinedAt time.Time
}

// Queue holds players waiting for an opponent, oldest first.
type Queue struct {
	players []QueuedPlayer
	mu      sync.Mutex
}

func NewQueue() *Queue {
	return &Queue{
		players: []QueuedPlayer{},
	}
}

func (q *Queue) AddPlayer(player Player) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.contains(player.ID) {
		return ErrAlreadyQueued
	}

	q.players = append(q.players, QueuedPlayer{
		Player:   player,
		JoinedAt: time.Now(),
	})
	return nil
}

// RemovePlayer drops a waiting player and reports whether it was queued.
func (q *Queue) RemovePlayer(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, p := range q.players {
		if p.Player.ID == playerID {
			q.players = append(q.players[:i], q.players[i+1:]...)
			return true
		}
	}
	return false
}

// GetNextPair pops the two players who have waited longest. ok is false when
// fewer than two are queued.
func (q *Queue) GetNextPair() (QueuedPlayer, QueuedPlayer, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.players) < 2 {
		return QueuedPlayer{}, QueuedPlayer{}, false
	}
	player1 := q.players[0]
	player2 := q.players[1]
	q.players = q.players[2:]
	return player1, player2, true
}

// Requeue puts players back at the head of the queue in the given order,
// keeping their original join time. Players already queued are skipped.
func (q *Queue) Requeue(players ...QueuedPlayer) {
	q.mu.Lock()
	defer q.mu.Unlock()

	head := make([]QueuedPlayer, 0, len(players))
	for _, p := range players {
		if q.contains(p.Player.ID) {
			continue
		}
		head = append(head, p)
	}
	q.players = append(head, q.players...)
}

func (q *Queue) contains(playerID string) bool {
	for _, p := range q.players {
		if p.Player.ID == playerID {
			return true
		}
	}
	return false
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.players)
}
