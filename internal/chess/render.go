package chess

import "strings"

// EmptyCell fills unoccupied squares in Render.
const EmptyCell = "--"

// Render dumps the board as eight lines, rank 8 first. Each cell is the piece
// letter followed by the color letter, e.g. "Kw" or "Nb", or EmptyCell. It is
// a diagnostic format only.
func (b *Board) Render() string {
	var sb strings.Builder
	for y := BoardSize - 1; y >= 0; y-- {
		for x := range BoardSize {
			if x > 0 {
				sb.WriteByte(' ')
			}
			p, ok := b.raw.occupant(Position{x: int8(x), y: int8(y)})
			if !ok {
				sb.WriteString(EmptyCell)
				continue
			}
			sb.WriteString(p.String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (b *Board) String() string {
	return b.Render()
}
