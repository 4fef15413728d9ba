package chess

import "fmt"

// GameCondition classifies a color's position. It is derived on demand and
// never stored on the board.
type GameCondition uint8

const (
	Safe GameCondition = iota
	Stale
	Check
	Mate
)

var conditionNames = [...]string{"safe", "stalemate", "check", "checkmate"}

func (g GameCondition) String() string {
	if int(g) >= len(conditionNames) {
		return fmt.Sprintf("GameCondition(%d)", uint8(g))
	}
	return conditionNames[g]
}

func (g GameCondition) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

func (g *GameCondition) UnmarshalText(text []byte) error {
	for i, name := range conditionNames {
		if string(text) == name {
			*g = GameCondition(i)
			return nil
		}
	}
	return fmt.Errorf("unknown game condition %q", text)
}

// Terminal reports whether the game is over for the classified color.
func (g GameCondition) Terminal() bool {
	return g == Stale || g == Mate
}

// IsKingInCheck reports whether any opposing piece has a pseudo-legal move
// landing on color's king. Opponent moves are not legality filtered, which
// keeps this independent of LegalMoves. A color without a king is never in
// check.
func (b *Board) IsKingInCheck(color Color) bool {
	king, ok := b.King(color)
	if !ok {
		return false
	}
	return b.IsAttacked(king, color.Opponent())
}

// IsAttacked reports whether a piece of by has a pseudo-legal move onto sq.
// Pawn diagonals only count when sq holds a piece of the other side.
func (b *Board) IsAttacked(sq Position, by Color) bool {
	for pos, p := range b.raw.All() {
		if p.Color != by {
			continue
		}
		for d := range b.PseudoLegalMoves(pos) {
			if d.To == sq {
				return true
			}
		}
	}
	return false
}

// HasLegalMoves reports whether color can make any legal move. It stops at
// the first one found.
func (b *Board) HasLegalMoves(color Color) bool {
	for pos, p := range b.raw.All() {
		if p.Color != color {
			continue
		}
		for range b.LegalMoves(pos) {
			return true
		}
	}
	return false
}

// Condition classifies color's position.
func (b *Board) Condition(color Color) GameCondition {
	check := b.IsKingInCheck(color)
	moves := b.HasLegalMoves(color)
	switch {
	case check && !moves:
		return Mate
	case check:
		return Check
	case !moves:
		return Stale
	}
	return Safe
}
