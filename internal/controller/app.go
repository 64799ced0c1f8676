package controller

import (
	"fmt"
	"strings"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/middleware"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

type AppConfig struct {
	Origins []string
	// RateLimit is requests per second per client on /api; 0 disables it
	RateLimit int
	// AccessLog enables the request logger
	AccessLog bool
}

// NewApp wires middleware, controllers and routes for the game server.
func NewApp(gameService *service.GameService, cfg AppConfig) *fiber.App {
	gameController := NewGameController(gameService)
	wsController := NewWebSocketController(gameService)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		// params and headers end up as map keys and seat owners
		Immutable:    true,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	app.Use(recover.New())
	if cfg.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${status} ${method} ${path} ${latency}\n",
		}))
	}
	allowCredentials := true
	for _, o := range cfg.Origins {
		if o == "*" {
			allowCredentials = false
		}
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.Origins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: allowCredentials,
	}))

	app.Get("/health", gameController.Health)

	wsConfig := websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         cfg.Origins,
	}
	app.Use("/ws/*", middleware.EnsurePlayerID(), middleware.WebSocketUpgrade())
	app.Get("/ws/game/:gameId", websocket.New(wsController.HandleConnection, wsConfig))
	app.Get("/ws/matchmaking", websocket.New(wsController.HandleMatchmaking, wsConfig))

	api := app.Group("/api")
	if cfg.RateLimit > 0 {
		api.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit,
			Expiration: 1 * time.Second,
			KeyGenerator: func(c *fiber.Ctx) string {
				if xff := c.Get("X-Forwarded-For"); xff != "" {
					if idx := strings.Index(xff, ","); idx != -1 {
						return strings.TrimSpace(xff[:idx])
					}
					return xff
				}
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{
					Error:   "rate limit exceeded",
					Code:    ErrCodeRateLimitExceeded,
					Details: fmt.Sprintf("%d requests per second allowed", cfg.RateLimit),
				})
			},
		}))
	}
	api.Use(middleware.EnsurePlayerID(), contentTypeValidator)

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/matchmaking/join", gameController.JoinMatchmaking)
	gameRoutes.Post("/matchmaking/leave", gameController.LeaveMatchmaking)
	gameRoutes.Get("/matchmaking/status", gameController.MatchmakingStatus)
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Post("/join/:gameId", gameController.JoinGame)
	gameRoutes.Get("/:gameId", gameController.GetGameState)
	gameRoutes.Get("/:gameId/moves", gameController.GetLegalMoves)
	gameRoutes.Get("/:gameId/castling", gameController.GetCastleRights)
	gameRoutes.Post("/:gameId/move", gameController.MakeMove)
	gameRoutes.Post("/:gameId/promote", gameController.Promote)
	gameRoutes.Post("/:gameId/promotion/cancel", gameController.CancelPromotion)

	return app
}
