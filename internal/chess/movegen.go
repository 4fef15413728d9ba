package chess

import (
	"iter"
	"slices"
)

// PseudoLegalMoves yields every diff the piece at pos can make by geometry and
// occupancy alone, ignoring its own king's safety. An empty square yields
// nothing. The sequence is lazy and may be ranged over repeatedly; it reads
// the board at iteration time.
func (b *Board) PseudoLegalMoves(pos Position) iter.Seq[Diff] {
	return func(yield func(Diff) bool) {
		mover, ok := b.raw.occupant(pos)
		if !ok {
			return
		}
		origin := pos.Vector()
		dir := mover.Color.Dir()

		for _, t := range Templates(mover.Type) {
			delta := t.Delta.Mul(dir)
			for step := 1; step <= t.MaxDistance; step++ {
				target, err := PositionFromVector(origin.Add(delta.Mul(step)))
				if err != nil {
					break
				}
				victim, taken := b.raw.occupant(target)
				if taken {
					if victim.Color != mover.Color && t.Kind.canCapture() {
						if !yield(Capture(pos, target, target)) {
							return
						}
					}
					break
				}
				if t.Kind.canMove() {
					if !yield(Move(pos, target)) {
						return
					}
				}
			}
		}
	}
}

// LegalMoves yields the pseudo-legal diffs from pos that do not leave the
// mover's own king attacked.
func (b *Board) LegalMoves(pos Position) iter.Seq[Diff] {
	return func(yield func(Diff) bool) {
		mover, ok := b.raw.occupant(pos)
		if !ok {
			return
		}
		for d := range b.PseudoLegalMoves(pos) {
			if !b.IsLegal(d, mover.Color) {
				continue
			}
			if !yield(d) {
				return
			}
		}
	}
}

// IsLegal reports whether d applies cleanly and leaves color's king safe. The
// diff is tried on a private copy; b is never modified.
func (b *Board) IsLegal(d Diff, color Color) bool {
	sim := *b
	if err := sim.Apply(d); err != nil {
		return false
	}
	return !sim.IsKingInCheck(color)
}

// LegalMovesFor collects every legal diff of color's pieces.
func (b *Board) LegalMovesFor(color Color) []Diff {
	var out []Diff
	for pos, p := range b.raw.All() {
		if p.Color != color {
			continue
		}
		out = slices.AppendSeq(out, b.LegalMoves(pos))
	}
	return out
}

// FindLegal returns the legal diff moving from one square to another, if any.
func (b *Board) FindLegal(from, to Position) (Diff, bool) {
	for d := range b.LegalMoves(from) {
		if d.To == to {
			return d, true
		}
	}
	return Diff{}, false
}
