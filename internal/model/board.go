package model

import (
	"fmt"

	"github.com/benbeisheim/chesscore/internal/chess"
)

// BoardState is the client view of a board. Board is indexed [y][x] with
// rank 0 (White's back rank) first.
type BoardState struct {
	Board             [chess.BoardSize][chess.BoardSize]*chess.Piece `json:"board"`
	WhiteKingPosition *chess.Position                                `json:"whiteKingPosition"`
	BlackKingPosition *chess.Position                                `json:"blackKingPosition"`
	Render            string                                         `json:"render"`
}

func newBoardState(b *chess.Board) BoardState {
	var state BoardState
	raw := b.Raw()
	for pos, p := range raw.All() {
		state.Board[pos.Y()][pos.X()] = &p
	}
	if k, ok := b.King(chess.White); ok {
		state.WhiteKingPosition = &k
	}
	if k, ok := b.King(chess.Black); ok {
		state.BlackKingPosition = &k
	}
	state.Render = b.Render()
	return state
}

func pieceNotation(p chess.PieceType) string {
	if p == chess.Pawn {
		return ""
	}
	return string(p.Letter())
}

// notation gives a short algebraic label for a diff played from the board
// before it is applied.
func notation(mover chess.Piece, d chess.Diff, after chess.GameCondition) string {
	prefix := pieceNotation(mover.Type)
	capture := ""
	if d.Kind == chess.DiffCapture || (d.Kind == chess.DiffPromote && d.From.X() != d.To.X()) {
		capture = "x"
		if mover.Type == chess.Pawn {
			prefix = d.From.String()[:1]
		}
	}
	suffix := ""
	if d.Kind == chess.DiffPromote {
		suffix = "=" + pieceNotation(d.Piece)
	}
	switch after {
	case chess.Check:
		suffix += "+"
	case chess.Mate:
		suffix += "#"
	}
	return fmt.Sprintf("%s%s%s%s", prefix, capture, d.To, suffix)
}
