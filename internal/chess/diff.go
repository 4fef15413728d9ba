package chess

import "fmt"

type DiffKind uint8

const (
	DiffMove DiffKind = iota
	DiffCapture
	DiffPromote
)

var diffKindNames = [...]string{"move", "capture", "promote"}

func (k DiffKind) String() string {
	if int(k) >= len(diffKindNames) {
		return fmt.Sprintf("DiffKind(%d)", uint8(k))
	}
	return diffKindNames[k]
}

func (k DiffKind) MarshalText() ([]byte, error) {
	if int(k) >= len(diffKindNames) {
		return nil, fmt.Errorf("invalid diff kind %d", uint8(k))
	}
	return []byte(diffKindNames[k]), nil
}

func (k *DiffKind) UnmarshalText(text []byte) error {
	for i, name := range diffKindNames {
		if string(text) == name {
			*k = DiffKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown diff kind %q", text)
}

// Diff is a single proposed board transition.
//
//   - DiffMove relocates the piece at From to the empty square To.
//   - DiffCapture removes the piece at Cap and relocates From to To. Cap is
//     normally To; it is kept separate so a capture may take a piece off a
//     square other than the destination.
//   - DiffPromote advances the pawn at From onto its last rank at To, where
//     it becomes Piece. A diagonal To captures whatever stands there.
type Diff struct {
	Kind  DiffKind  `json:"kind"`
	From  Position  `json:"from"`
	To    Position  `json:"to"`
	Cap   Position  `json:"cap"`
	Piece PieceType `json:"piece,omitempty"`
}

func Move(from, to Position) Diff {
	return Diff{Kind: DiffMove, From: from, To: to}
}

func Capture(from, to, cap Position) Diff {
	return Diff{Kind: DiffCapture, From: from, To: to, Cap: cap}
}

func Promote(from, to Position, piece PieceType) Diff {
	return Diff{Kind: DiffPromote, From: from, To: to, Piece: piece}
}

func (d Diff) String() string {
	switch d.Kind {
	case DiffCapture:
		if d.Cap != d.To {
			return fmt.Sprintf("%sx%s(%s)", d.From, d.To, d.Cap)
		}
		return fmt.Sprintf("%sx%s", d.From, d.To)
	case DiffPromote:
		return fmt.Sprintf("%s-%s=%c", d.From, d.To, d.Piece.Letter())
	}
	return fmt.Sprintf("%s-%s", d.From, d.To)
}
