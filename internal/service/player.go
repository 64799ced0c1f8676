package service

import (
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/model"
)

type Player struct {
	ID    string
	Color model.Color
}

// ClientPlayer is what the client sees of a seat. TimeLeft is in tenths of a
// second.
type ClientPlayer struct {
	ID       string      `json:"name"`
	Color    model.Color `json:"color"`
	TimeLeft int         `json:"timeLeft"`
}

func newClientPlayer(p Player, clock *Clock) ClientPlayer {
	return ClientPlayer{
		ID:       p.ID,
		Color:    p.Color,
		TimeLeft: int(clock.GetTimeLeft() / (100 * time.Millisecond)),
	}
}

// MatchFoundEvent is sent to each player the matchmaker pairs up.
type MatchFoundEvent struct {
	GameID string      `json:"gameId"`
	Color  model.Color `json:"color"`
}
