package chess

import (
	"errors"
	"iter"
)

var ErrNoPiece = errors.New("no piece on square")

type cell struct {
	piece    Piece
	occupied bool
}

// RawBoard is the 8x8 occupancy grid. It is a plain value: assigning it copies
// every square, so a copy never aliases the original.
//
// RawBoard does not stop a piece from being placed twice; callers relocating
// a piece remove it before setting it again.
type RawBoard struct {
	cells [BoardSize][BoardSize]cell
}

// Get returns the occupant of pos, or ErrNoPiece.
func (r *RawBoard) Get(pos Position) (Piece, error) {
	c := r.cells[pos.x][pos.y]
	if !c.occupied {
		return Piece{}, ErrNoPiece
	}
	return c.piece, nil
}

func (r *RawBoard) occupant(pos Position) (Piece, bool) {
	c := r.cells[pos.x][pos.y]
	return c.piece, c.occupied
}

func (r *RawBoard) Set(pos Position, pt PieceType, color Color) {
	r.cells[pos.x][pos.y] = cell{piece: Piece{Type: pt, Color: color}, occupied: true}
}

// Replace swaps the occupant of pos with p (nil empties the square) and
// returns the previous occupant.
func (r *RawBoard) Replace(pos Position, p *Piece) *Piece {
	prev := r.Remove(pos)
	if p != nil {
		r.Set(pos, p.Type, p.Color)
	}
	return prev
}

// Remove empties pos and returns what was there.
func (r *RawBoard) Remove(pos Position) *Piece {
	c := r.cells[pos.x][pos.y]
	r.cells[pos.x][pos.y] = cell{}
	if !c.occupied {
		return nil
	}
	return &c.piece
}

// All yields every occupied square. Order is file by file, then rank.
func (r *RawBoard) All() iter.Seq2[Position, Piece] {
	return func(yield func(Position, Piece) bool) {
		for x := range BoardSize {
			for y := range BoardSize {
				c := r.cells[x][y]
				if !c.occupied {
					continue
				}
				if !yield(Position{x: int8(x), y: int8(y)}, c.piece) {
					return
				}
			}
		}
	}
}

// Count returns the number of occupied squares.
func (r *RawBoard) Count() int {
	n := 0
	for range r.All() {
		n++
	}
	return n
}
