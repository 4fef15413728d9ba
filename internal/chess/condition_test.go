package chess

import "testing"

func TestKingCheckByRook(t *testing.T) {
	b := boardOf(at(0, 0, King, White), at(0, 2, Rook, Black))
	if !b.IsKingInCheck(White) {
		t.Error("white should be in check")
	}
	if b.IsKingInCheck(Black) {
		t.Error("black has no king and cannot be in check")
	}
}

func TestCheckBlockedByOwnPiece(t *testing.T) {
	b := boardOf(at(0, 0, King, White), at(0, 1, Knight, White), at(0, 5, Rook, Black))
	if b.IsKingInCheck(White) {
		t.Error("knight on a2 shields the king")
	}
}

func TestCheckByPawnAndKnight(t *testing.T) {
	b := boardOf(at(4, 3, King, White), at(5, 4, Pawn, Black))
	if !b.IsKingInCheck(White) {
		t.Error("black pawn on f5 attacks e4")
	}
	b = boardOf(at(4, 3, King, White), at(4, 4, Pawn, Black))
	if b.IsKingInCheck(White) {
		t.Error("a pawn does not attack straight ahead")
	}
	b = boardOf(at(4, 3, King, White), at(5, 5, Knight, Black))
	if !b.IsKingInCheck(White) {
		t.Error("knight on f6 attacks e4")
	}
}

func TestCondition(t *testing.T) {
	tests := []struct {
		name  string
		board *Board
		color Color
		want  GameCondition
	}{
		{
			name:  "initial position",
			board: NewBoard(),
			color: White,
			want:  Safe,
		},
		{
			name:  "corner mate by rook and queen",
			board: boardOf(at(0, 0, King, White), at(0, 7, Rook, Black), at(1, 7, Queen, Black)),
			color: White,
			want:  Mate,
		},
		{
			name:  "king escapes sideways",
			board: boardOf(at(1, 0, King, White), at(0, 7, Rook, Black), at(1, 7, Queen, Black)),
			color: White,
			want:  Check,
		},
		{
			name: "queen captures the checking rook",
			board: boardOf(
				at(0, 0, King, White), at(0, 7, Queen, White),
				at(0, 6, Rook, Black), at(1, 6, Rook, Black),
			),
			color: White,
			want:  Check,
		},
		{
			name:  "stalemate in the corner",
			board: boardOf(at(0, 0, King, White), at(1, 2, Queen, Black), at(7, 7, King, Black)),
			color: White,
			want:  Stale,
		},
		{
			name:  "bare king is safe",
			board: boardOf(at(4, 4, King, Black)),
			color: Black,
			want:  Safe,
		},
		{
			name:  "no pieces at all is stalemate",
			board: boardOf(),
			color: White,
			want:  Stale,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.board.Condition(tt.color); got != tt.want {
				t.Errorf("Condition(%s) = %s, want %s\n%s", tt.color, got, tt.want, tt.board)
			}
		})
	}
}

func TestQueenRescueIsOnlyLegalMove(t *testing.T) {
	b := boardOf(
		at(0, 0, King, White), at(0, 7, Queen, White),
		at(0, 6, Rook, Black), at(1, 6, Rook, Black),
	)
	moves := b.LegalMovesFor(White)
	if len(moves) != 1 {
		t.Fatalf("legal moves = %v, want only the queen capture", moves)
	}
	want := Capture(MustPosition(0, 7), MustPosition(0, 6), MustPosition(0, 6))
	if moves[0] != want {
		t.Errorf("got %v, want %v", moves[0], want)
	}
}

func TestConditionTerminal(t *testing.T) {
	for c, want := range map[GameCondition]bool{Safe: false, Check: false, Stale: true, Mate: true} {
		if c.Terminal() != want {
			t.Errorf("%s.Terminal() = %v", c, !want)
		}
	}
}
