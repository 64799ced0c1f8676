package model

// Ply is one accepted half-move as recorded in the game history.
type Ply struct {
	Piece          Piece           `json:"piece"`
	From           Position        `json:"from"`
	To             Position        `json:"to"`
	CapturedPiece  Piece           `json:"capturedPiece"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	Promotion      PieceType       `json:"promotion,omitempty"`
	GaveCheck      bool            `json:"gaveCheck"`
}

// PendingPromotion is a pawn move waiting for its promotion piece.
type PendingPromotion struct {
	From  Position `json:"from"`
	To    Position `json:"to"`
	Color Color    `json:"color"`
}
