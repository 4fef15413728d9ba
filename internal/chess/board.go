// Package chess holds the board representation, the legal move generator and
// the check, checkmate and stalemate classifier.
//
// Castling, en passant and draw rules other than stalemate are not part of
// the move set. Promotion is never generated; callers build a Promote diff
// themselves and submit it through Apply.
package chess

// Board is a position owned by a single holder. It is mutated in place by
// Apply. Copying a Board by value yields an independent position.
type Board struct {
	raw RawBoard
}

var backRank = [BoardSize]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns the standard initial position with White on ranks 0 and 1.
func NewBoard() *Board {
	var raw RawBoard
	for x, pt := range backRank {
		raw.Set(MustPosition(x, 0), pt, White)
		raw.Set(MustPosition(x, 1), Pawn, White)
		raw.Set(MustPosition(x, 6), Pawn, Black)
		raw.Set(MustPosition(x, 7), pt, Black)
	}
	return &Board{raw: raw}
}

// NewBoardWith seeds a board from an arbitrary grid.
func NewBoardWith(raw RawBoard) *Board {
	return &Board{raw: raw}
}

func (b *Board) Get(pos Position) (Piece, error) {
	return b.raw.Get(pos)
}

// Raw returns a copy of the underlying grid.
func (b *Board) Raw() RawBoard {
	return b.raw
}

// Clone returns a detached copy of the board.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// King returns the square of color's king. With several kings the first
// one found is returned.
func (b *Board) King(color Color) (Position, bool) {
	for pos, p := range b.raw.All() {
		if p.Type == King && p.Color == color {
			return pos, true
		}
	}
	return Position{}, false
}
