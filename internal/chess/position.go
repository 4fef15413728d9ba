package chess

import (
	"encoding/json"
	"errors"
	"fmt"
)

// BoardSize is the number of files and ranks.
const BoardSize = 8

var ErrOutOfBounds = errors.New("position out of bounds")

// Position is a square on the board. The zero value is a1 (0, 0). A Position
// can only be built through NewPosition, PositionFromVector or MustPosition,
// so it is always on the board.
type Position struct {
	x, y int8
}

func inBounds(x, y int) bool {
	return x >= 0 && x < BoardSize && y >= 0 && y < BoardSize
}

// NewPosition returns the square at file x and rank y, both zero based.
func NewPosition(x, y int) (Position, error) {
	if !inBounds(x, y) {
		return Position{}, fmt.Errorf("(%d, %d): %w", x, y, ErrOutOfBounds)
	}
	return Position{x: int8(x), y: int8(y)}, nil
}

func PositionFromVector(v Vector) (Position, error) {
	return NewPosition(v.X, v.Y)
}

// MustPosition is for literals known to be on the board, such as the
// initial setup and test fixtures. It panics otherwise.
func MustPosition(x, y int) Position {
	p, err := NewPosition(x, y)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Position) X() int { return int(p.x) }
func (p Position) Y() int { return int(p.y) }

func (p Position) Vector() Vector {
	return Vector{X: int(p.x), Y: int(p.y)}
}

// String returns the square name, e.g. "e4".
func (p Position) String() string {
	return fmt.Sprintf("%c%d", 'a'+p.x, p.y+1)
}

func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Vector())
}

func (p *Position) UnmarshalJSON(data []byte) error {
	var v struct {
		X *int `json:"x"`
		Y *int `json:"y"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.X == nil || v.Y == nil {
		return errors.New("position requires x and y")
	}
	pos, err := NewPosition(*v.X, *v.Y)
	if err != nil {
		return err
	}
	*p = pos
	return nil
}
