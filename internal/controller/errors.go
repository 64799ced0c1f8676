package controller

import (
	"errors"
	"log"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

// Error codes
const (
	ErrCodeGameNotFound       = "GAME_NOT_FOUND"
	ErrCodeGameExists         = "GAME_EXISTS"
	ErrCodeGameFull           = "GAME_FULL"
	ErrCodeGameOver           = "GAME_OVER"
	ErrCodeNotPlayer          = "NOT_PLAYER"
	ErrCodeNotYourTurn        = "NOT_YOUR_TURN"
	ErrCodeInvalidMove        = "INVALID_MOVE"
	ErrCodeIllegalMove        = "ILLEGAL_MOVE"
	ErrCodePieceMismatch      = "PIECE_MISMATCH"
	ErrCodePromotionPending   = "PROMOTION_PENDING"
	ErrCodeNoPendingPromotion = "NO_PENDING_PROMOTION"
	ErrCodeInvalidPromotion   = "INVALID_PROMOTION"
	ErrCodeInvalidFEN         = "INVALID_FEN"
	ErrCodeAlreadyQueued      = "ALREADY_QUEUED"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeInvalidContent     = "INVALID_CONTENT_TYPE"
	ErrCodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

type ErrorResponse struct {
	Error   string        `json:"error"`
	Code    string        `json:"code"`
	Details string        `json:"details,omitempty"`
	State   *model.Report `json:"state,omitempty"`
}

// classify maps a service or engine error to an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound, ErrCodeGameNotFound
	case errors.Is(err, service.ErrNotPlayer):
		return fiber.StatusForbidden, ErrCodeNotPlayer
	case errors.Is(err, service.ErrGameExists):
		return fiber.StatusConflict, ErrCodeGameExists
	case errors.Is(err, service.ErrGameFull):
		return fiber.StatusConflict, ErrCodeGameFull
	case errors.Is(err, service.ErrAlreadyQueued):
		return fiber.StatusConflict, ErrCodeAlreadyQueued
	case errors.Is(err, model.ErrGameOver):
		return fiber.StatusConflict, ErrCodeGameOver
	case errors.Is(err, model.ErrNotYourTurn):
		return fiber.StatusConflict, ErrCodeNotYourTurn
	case errors.Is(err, model.ErrPromotionPending):
		return fiber.StatusConflict, ErrCodePromotionPending
	case errors.Is(err, model.ErrNoPendingPromotion):
		return fiber.StatusConflict, ErrCodeNoPendingPromotion
	case errors.Is(err, model.ErrIllegalMove):
		return fiber.StatusBadRequest, ErrCodeIllegalMove
	case errors.Is(err, model.ErrPieceMismatch):
		return fiber.StatusBadRequest, ErrCodePieceMismatch
	case errors.Is(err, model.ErrSameSquare), errors.Is(err, model.ErrOutOfBounds), errors.Is(err, model.ErrNoPiece):
		return fiber.StatusBadRequest, ErrCodeInvalidMove
	case errors.Is(err, model.ErrInvalidPromotion):
		return fiber.StatusBadRequest, ErrCodeInvalidPromotion
	case errors.Is(err, model.ErrInvalidFEN):
		return fiber.StatusBadRequest, ErrCodeInvalidFEN
	}
	return fiber.StatusInternalServerError, ErrCodeInternalError
}

func errorResponse(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	response := ErrorResponse{Error: err.Error(), Code: code}
	if status == fiber.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", c.Method(), c.Path(), err)
		response.Error = "internal server error"
	}
	return c.Status(status).JSON(response)
}

// rejection reports a refused move together with the unchanged game state.
func rejection(c *fiber.Ctx, err error, report model.Report) error {
	status, code := classify(err)
	return c.Status(status).JSON(ErrorResponse{Error: err.Error(), Code: code, State: &report})
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := ErrorResponse{
		Error: "internal server error",
		Code:  ErrCodeInternalError,
	}

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		response.Error = e.Message

		switch code {
		case fiber.StatusNotFound:
			response.Code = ErrCodeGameNotFound
		case fiber.StatusBadRequest:
			response.Code = ErrCodeInvalidRequest
		case fiber.StatusUnauthorized:
			response.Code = ErrCodeUnauthorized
		case fiber.StatusTooManyRequests:
			response.Code = ErrCodeRateLimitExceeded
		case fiber.StatusUpgradeRequired:
			response.Code = ErrCodeInvalidRequest
		}
	} else {
		log.Printf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(response)
}
