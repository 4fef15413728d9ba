package chess

import (
	"slices"
	"testing"
)

type placement struct {
	pos   Position
	piece Piece
}

func at(x, y int, pt PieceType, c Color) placement {
	return placement{pos: MustPosition(x, y), piece: Piece{Type: pt, Color: c}}
}

func boardOf(ps ...placement) *Board {
	var raw RawBoard
	for _, p := range ps {
		raw.Set(p.pos, p.piece.Type, p.piece.Color)
	}
	return NewBoardWith(raw)
}

func collect(t *testing.T, b *Board, pos Position, legal bool) []Diff {
	t.Helper()
	if legal {
		return slices.Collect(b.LegalMoves(pos))
	}
	return slices.Collect(b.PseudoLegalMoves(pos))
}

func targets(diffs []Diff) []Position {
	out := make([]Position, 0, len(diffs))
	for _, d := range diffs {
		out = append(out, d.To)
	}
	return out
}
