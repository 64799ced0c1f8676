package service

import (
	"fmt"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

// CreateGame starts a new game from fen, or the standard position when fen
// is empty, and returns its id.
func (gs *GameService) CreateGame(fen string) (string, error) {
	gameID := uuid.New().String()

	if _, err := gs.gameManager.CreateGame(gameID, fen); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) bool {
	return gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) MatchStatus(playerID string) (MatchFoundEvent, bool) {
	return gs.gameManager.MatchStatus(playerID)
}

func (gs *GameService) TakeMatch(playerID string) (MatchFoundEvent, bool) {
	return gs.gameManager.TakeMatch(playerID)
}

func (gs *GameService) GetGameState(gameID string) (StateView, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return StateView{}, err
	}
	return game.View(), nil
}

func (gs *GameService) LegalMoves(gameID string, from model.Position) ([]model.Position, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMovesFrom(from), nil
}

func (gs *GameService) CastleRights(gameID string) (model.CastleRights, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.CastleRights{}, err
	}
	return game.CastleRights(), nil
}

func (gs *GameService) HandleMove(gameID string, playerID string, from, to model.Position, p model.Piece) (model.Report, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.Report{}, err
	}
	return game.Move(playerID, from, to, p)
}

func (gs *GameService) Promote(gameID string, playerID string, t model.PieceType) (model.Report, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.Report{}, err
	}
	return game.Promote(playerID, t)
}

func (gs *GameService) CancelPromotion(gameID string, playerID string) (model.Report, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.Report{}, err
	}
	return game.CancelPromotion(playerID)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

// SendToPlayer delivers a message over the player's registered socket for
// the game.
func (gs *GameService) SendToPlayer(gameID, playerID string, t ws.MessageType, payload interface{}) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	game.Send(playerID, t, payload)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	return gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) StorageHealthy() bool {
	return gs.gameManager.RecorderHealthy()
}
