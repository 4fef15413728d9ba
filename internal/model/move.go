package model

import "github.com/benbeisheim/chesscore/internal/chess"

// WSMove is a move request from a client. Promotion is only read when a pawn
// reaches its last rank; it defaults to a queen.
type WSMove struct {
	From      chess.Position   `json:"from"`
	To        chess.Position   `json:"to"`
	Promotion *chess.PieceType `json:"promotion,omitempty"`
}

type Ply struct {
	Diff          chess.Diff   `json:"diff"`
	Piece         chess.Piece  `json:"piece"`
	CapturedPiece *chess.Piece `json:"capturedPiece"`
	Notation      string       `json:"notation"`
}

type Move struct {
	WhitePly *Ply `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}

type SimpleMove struct {
	From chess.Position `json:"from"`
	To   chess.Position `json:"to"`
}
