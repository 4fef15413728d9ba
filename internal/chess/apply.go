package chess

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDiff is wrapped by every error for a well-formed diff that
	// contradicts the board.
	ErrInvalidDiff = errors.New("invalid diff")

	ErrCaptureOnMove         = fmt.Errorf("%w: target square occupied on a move", ErrInvalidDiff)
	ErrMoveOnCapture         = fmt.Errorf("%w: capture square is empty", ErrInvalidDiff)
	ErrFriendlyCapture       = fmt.Errorf("%w: capture square holds the mover's own piece", ErrInvalidDiff)
	ErrInvalidPromotionPiece = fmt.Errorf("%w: invalid promotion piece", ErrInvalidDiff)
	ErrInvalidPromotionRow   = fmt.Errorf("%w: promotion off the last rank", ErrInvalidDiff)
)

// PromotionRank is the rank a pawn of color promotes on: the opponent's back
// rank.
func PromotionRank(color Color) int {
	if color == White {
		return BoardSize - 1
	}
	return 0
}

// Apply validates d against the board and performs it. On error the board is
// left untouched.
func (b *Board) Apply(d Diff) error {
	if err := b.validate(d); err != nil {
		return err
	}
	r := &b.raw
	switch d.Kind {
	case DiffMove:
		p := r.Remove(d.From)
		r.Set(d.To, p.Type, p.Color)
	case DiffCapture:
		r.Remove(d.Cap)
		p := r.Remove(d.From)
		r.Set(d.To, p.Type, p.Color)
	case DiffPromote:
		p := r.Remove(d.From)
		r.Remove(d.To)
		r.Set(d.To, d.Piece, p.Color)
	}
	return nil
}

func (b *Board) validate(d Diff) error {
	mover, ok := b.raw.occupant(d.From)
	if !ok {
		return fmt.Errorf("%s: %w", d.From, ErrNoPiece)
	}
	switch d.Kind {
	case DiffMove:
		if _, taken := b.raw.occupant(d.To); taken {
			return ErrCaptureOnMove
		}
	case DiffCapture:
		victim, taken := b.raw.occupant(d.Cap)
		if !taken {
			return ErrMoveOnCapture
		}
		if victim.Color == mover.Color {
			return ErrFriendlyCapture
		}
		if d.To != d.Cap {
			if _, blocked := b.raw.occupant(d.To); blocked {
				return ErrCaptureOnMove
			}
		}
	case DiffPromote:
		return b.validatePromotion(d, mover)
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidDiff, d.Kind)
	}
	return nil
}

func (b *Board) validatePromotion(d Diff, mover Piece) error {
	if mover.Type != Pawn {
		return ErrInvalidPromotionPiece
	}
	switch d.Piece {
	case Knight, Bishop, Rook, Queen:
	default:
		return ErrInvalidPromotionPiece
	}

	last := PromotionRank(mover.Color)
	dx := d.To.X() - d.From.X()
	if d.To.Y() != last || d.From.Y() != last-mover.Color.Dir() || dx < -1 || dx > 1 {
		return ErrInvalidPromotionRow
	}

	victim, taken := b.raw.occupant(d.To)
	switch {
	case dx == 0 && taken:
		return ErrCaptureOnMove
	case dx != 0 && !taken:
		return ErrMoveOnCapture
	case dx != 0 && victim.Color == mover.Color:
		return ErrFriendlyCapture
	}
	return nil
}
