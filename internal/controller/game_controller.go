package controller

import (
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/fiber/v2"
)

type CreateGameRequest struct {
	FEN string `json:"fen" validate:"omitempty,max=100"`
}

type squareQuery struct {
	X int `validate:"min=0,max=7"`
	Y int `validate:"min=0,max=7"`
}

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

func playerID(c *fiber.Ctx) string {
	id, _ := c.Locals("playerID").(string)
	return id
}

func (gc *GameController) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Unix(),
		"storage": gc.gameService.StorageHealthy(),
	})
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req CreateGameRequest
	if len(c.Body()) > 0 {
		if ok, err := bindBody(c, &req); !ok {
			return err
		}
	}

	gameID, err := gc.gameService.CreateGame(req.FEN)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	color, err := gc.gameService.JoinGame(c.Params("gameId"), playerID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	view, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(view)
}

// GetLegalMoves lists where the piece on ?x=&y= may move.
func (gc *GameController) GetLegalMoves(c *fiber.Ctx) error {
	q := squareQuery{X: c.QueryInt("x", -1), Y: c.QueryInt("y", -1)}
	if err := validate.Struct(q); err != nil {
		return validationFailed(c, err)
	}
	from := model.Position{X: q.X, Y: q.Y}

	moves, err := gc.gameService.LegalMoves(c.Params("gameId"), from)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"from":  from,
		"moves": moves,
	})
}

func (gc *GameController) GetCastleRights(c *fiber.Ctx) error {
	rights, err := gc.gameService.CastleRights(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(rights)
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var req ws.MovePayload
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	gameID := c.Params("gameId")
	report, err := gc.gameService.HandleMove(gameID, playerID(c), req.From.Position(), req.To.Position(), req.Piece.Piece())
	if err != nil {
		return gc.moveFailed(c, err, report)
	}
	return gc.GetGameState(c)
}

func (gc *GameController) Promote(c *fiber.Ctx) error {
	var req ws.PromotePayload
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	report, err := gc.gameService.Promote(c.Params("gameId"), playerID(c), model.PieceType(req.Piece))
	if err != nil {
		return gc.moveFailed(c, err, report)
	}
	return gc.GetGameState(c)
}

func (gc *GameController) CancelPromotion(c *fiber.Ctx) error {
	report, err := gc.gameService.CancelPromotion(c.Params("gameId"), playerID(c))
	if err != nil {
		return gc.moveFailed(c, err, report)
	}
	return gc.GetGameState(c)
}

func (gc *GameController) moveFailed(c *fiber.Ctx, err error, report model.Report) error {
	if report.Turn == "" {
		// the game itself was not reachable
		return errorResponse(c, err)
	}
	return rejection(c, err, report)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	if err := gc.gameService.JoinMatchmaking(playerID(c)); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) LeaveMatchmaking(c *fiber.Ctx) error {
	if !gc.gameService.LeaveMatchmaking(playerID(c)) {
		return c.JSON(fiber.Map{"status": "idle"})
	}
	return c.JSON(fiber.Map{"status": "left"})
}

// MatchmakingStatus lets a client without a matchmaking socket poll for its
// match.
func (gc *GameController) MatchmakingStatus(c *fiber.Ctx) error {
	if event, ok := gc.gameService.MatchStatus(playerID(c)); ok {
		return c.JSON(fiber.Map{
			"status": "matched",
			"gameId": event.GameID,
			"color":  event.Color,
		})
	}
	return c.JSON(fiber.Map{"status": "waiting"})
}
