package chess

import (
	"fmt"
	"strings"
)

type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceNames = [...]string{"pawn", "knight", "bishop", "rook", "queen", "king"}
var pieceLetters = [...]byte{'P', 'N', 'B', 'R', 'Q', 'K'}

func (p PieceType) Valid() bool { return p <= King }

func (p PieceType) String() string {
	if !p.Valid() {
		return fmt.Sprintf("PieceType(%d)", uint8(p))
	}
	return pieceNames[p]
}

// Letter is the upper-case English piece letter.
func (p PieceType) Letter() byte {
	if !p.Valid() {
		return '?'
	}
	return pieceLetters[p]
}

func ParsePieceType(s string) (PieceType, error) {
	s = strings.ToLower(s)
	for i, name := range pieceNames {
		if s == name || (len(s) == 1 && s[0] == pieceLetters[i]+'a'-'A') {
			return PieceType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown piece type %q", s)
}

func (p PieceType) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid piece type %d", uint8(p))
	}
	return []byte(pieceNames[p]), nil
}

func (p *PieceType) UnmarshalText(text []byte) error {
	pt, err := ParsePieceType(string(text))
	if err != nil {
		return err
	}
	*p = pt
	return nil
}

type Color uint8

const (
	White Color = iota
	Black
)

// Dir is the forward direction along y: White moves up the board, Black down.
func (c Color) Dir() int {
	if c == White {
		return 1
	}
	return -1
}

func (c Color) Opponent() Color {
	return c ^ 1
}

// Letter is 'w' or 'b'.
func (c Color) Letter() byte {
	if c == White {
		return 'w'
	}
	return 'b'
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

func ParseColor(s string) (Color, error) {
	switch strings.ToLower(s) {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	color, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = color
	return nil
}

// Piece is an occupant of a square.
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

// String renders the piece as its letter followed by its color letter, e.g. "Nw".
func (p Piece) String() string {
	return string([]byte{p.Type.Letter(), p.Color.Letter()})
}
