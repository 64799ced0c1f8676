package ws

import (
	"encoding/json"

	"github.com/benbeisheim/chessrules-backend/internal/model"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	// client -> server
	MessageTypeMove            MessageType = "move"
	MessageTypePromote         MessageType = "promote"
	MessageTypeCancelPromotion MessageType = "cancelPromotion"

	// server -> client
	MessageTypeGameState         MessageType = "gameState"
	MessageTypePromotionRequired MessageType = "promotionRequired"
	MessageTypeCheck             MessageType = "check"
	MessageTypeMatchFound        MessageType = "matchFound"
	MessageTypeError             MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// MovePayload is the body of a move request, over the socket or REST.
type MovePayload struct {
	From  SquarePayload `json:"from"`
	To    SquarePayload `json:"to"`
	Piece PiecePayload  `json:"piece"`
}

type SquarePayload struct {
	X int `json:"x" validate:"min=0,max=7"`
	Y int `json:"y" validate:"min=0,max=7"`
}

type PiecePayload struct {
	Color string `json:"color" validate:"required,oneof=white black"`
	Type  string `json:"type" validate:"required,oneof=king queen rook bishop knight pawn"`
}

type PromotePayload struct {
	Piece string `json:"piece" validate:"required,oneof=queen rook bishop knight"`
}

type ErrorPayload struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// CheckPayload tells clients which king to flash.
type CheckPayload struct {
	King  model.Position `json:"king"`
	Color model.Color    `json:"color"`
}

func (p SquarePayload) Position() model.Position {
	return model.Position{X: p.X, Y: p.Y}
}

func (p PiecePayload) Piece() model.Piece {
	return model.NewPiece(model.Color(p.Color), model.PieceType(p.Type))
}

// NewMessage marshals payload into a typed message.
func NewMessage(t MessageType, payload interface{}) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: data}, nil
}
