package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection serves one player's or spectator's socket for a game.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals("playerID").(string)

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Printf("failed to register connection: %v", err)
		wsc.sendError(c, err)
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("read error: %v", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.reportError(gameID, playerID, fmt.Errorf("%w: %v", errBadMessage, err))
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			wsc.reportError(gameID, playerID, err)
		}
	}
}

var errBadMessage = errors.New("malformed message")

func decodePayload(raw json.RawMessage, dst interface{}) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", errBadMessage, err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %s", errBadMessage, validationDetails(err))
	}
	return nil
}

// handleMessage applies one client message. State changes reach every
// connection through the session's broadcast, so only errors come back here.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move ws.MovePayload
		if err := decodePayload(msg.Payload, &move); err != nil {
			return err
		}
		_, err := wsc.gameService.HandleMove(gameID, playerID, move.From.Position(), move.To.Position(), move.Piece.Piece())
		return err

	case ws.MessageTypePromote:
		var promote ws.PromotePayload
		if err := decodePayload(msg.Payload, &promote); err != nil {
			return err
		}
		_, err := wsc.gameService.Promote(gameID, playerID, model.PieceType(promote.Piece))
		return err

	case ws.MessageTypeCancelPromotion:
		_, err := wsc.gameService.CancelPromotion(gameID, playerID)
		return err

	default:
		return fmt.Errorf("%w: unknown message type %q", errBadMessage, msg.Type)
	}
}

func errorPayload(err error) ws.ErrorPayload {
	_, code := classify(err)
	if errors.Is(err, errBadMessage) {
		code = ErrCodeInvalidRequest
	}
	return ws.ErrorPayload{Error: err.Error(), Code: code}
}

// reportError goes through the session so it cannot interleave with a
// broadcast on the same socket.
func (wsc *WebSocketController) reportError(gameID, playerID string, err error) {
	wsc.gameService.SendToPlayer(gameID, playerID, ws.MessageTypeError, errorPayload(err))
}

// sendError writes straight to a socket the session does not own.
func (wsc *WebSocketController) sendError(c *websocket.Conn, err error) {
	msg, merr := ws.NewMessage(ws.MessageTypeError, errorPayload(err))
	if merr != nil {
		return
	}
	if werr := c.WriteJSON(msg); werr != nil {
		log.Printf("failed to send error: %v", werr)
	}
}

// HandleMatchmaking queues the player and holds the socket open until a
// match is found or the client goes away.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID, _ := c.Locals("playerID").(string)

	if event, ok := wsc.gameService.TakeMatch(playerID); ok {
		wsc.sendMatch(c, event)
		return
	}
	if err := wsc.gameService.JoinMatchmaking(playerID); err != nil && !errors.Is(err, service.ErrAlreadyQueued) {
		wsc.sendError(c, err)
		return
	}

	ch := make(chan string, 1)
	if err := wsc.gameService.RegisterMatchmakingChannel(playerID, ch); err != nil {
		wsc.sendError(c, err)
		return
	}
	defer wsc.gameService.UnregisterMatchmakingChannel(playerID, ch)

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event, ok := <-ch:
		if !ok {
			// replaced by a newer matchmaking socket
			return
		}
		if err := c.WriteJSON(ws.Message{Type: ws.MessageTypeMatchFound, Payload: json.RawMessage(event)}); err != nil {
			log.Printf("failed to send match to %s: %v", playerID, err)
		}
	case <-gone:
		wsc.gameService.LeaveMatchmaking(playerID)
	}
}

func (wsc *WebSocketController) sendMatch(c *websocket.Conn, event service.MatchFoundEvent) {
	msg, err := ws.NewMessage(ws.MessageTypeMatchFound, event)
	if err != nil {
		return
	}
	if err := c.WriteJSON(msg); err != nil {
		log.Printf("failed to send match: %v", err)
	}
}
