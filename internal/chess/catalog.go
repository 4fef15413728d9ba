package chess

// MoveKind restricts what a template step may do with its target square.
type MoveKind uint8

const (
	MoveOnly MoveKind = iota
	CaptureOnly
	MoveOrCapture
)

func (k MoveKind) canMove() bool    { return k != CaptureOnly }
func (k MoveKind) canCapture() bool { return k != MoveOnly }

// Slide is the max distance of a template that runs until blocked.
const Slide = BoardSize

// MoveTemplate is one direction a piece may travel, written from White's
// point of view. Deltas are mirrored by Color.Dir at generation time.
type MoveTemplate struct {
	Delta       Vector
	Kind        MoveKind
	MaxDistance int
}

var (
	diagonals = []Vector{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	straights = []Vector{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	jumps     = []Vector{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
)

func templates(dirs []Vector, kind MoveKind, dist int) []MoveTemplate {
	out := make([]MoveTemplate, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, MoveTemplate{Delta: d, Kind: kind, MaxDistance: dist})
	}
	return out
}

// The pawn push is a single two-step slide so the double step cannot jump a
// blocker. It has no starting-rank precondition: a pawn that already advanced
// may still push two squares.
var catalog = [...][]MoveTemplate{
	Pawn: {
		{Delta: Vector{0, 1}, Kind: MoveOnly, MaxDistance: 2},
		{Delta: Vector{-1, 1}, Kind: CaptureOnly, MaxDistance: 1},
		{Delta: Vector{1, 1}, Kind: CaptureOnly, MaxDistance: 1},
	},
	Knight: templates(jumps, MoveOrCapture, 1),
	Bishop: templates(diagonals, MoveOrCapture, Slide),
	Rook:   templates(straights, MoveOrCapture, Slide),
	Queen:  append(templates(diagonals, MoveOrCapture, Slide), templates(straights, MoveOrCapture, Slide)...),
	King:   append(templates(diagonals, MoveOrCapture, 1), templates(straights, MoveOrCapture, 1)...),
}

// Templates returns the move templates of a piece type. The slice is shared
// and must not be modified.
func Templates(p PieceType) []MoveTemplate {
	if !p.Valid() {
		return nil
	}
	return catalog[p]
}
