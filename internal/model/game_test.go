package model

import (
	"errors"
	"testing"

	"github.com/benbeisheim/chesscore/internal/chess"
)

func pos(x, y int) chess.Position { return chess.MustPosition(x, y) }

func seatedGame(t *testing.T) *Game {
	t.Helper()
	g := NewGame("test")
	if c, err := g.AddPlayer("alice"); err != nil || c != chess.White {
		t.Fatalf("alice seated as %v, %v", c, err)
	}
	if c, err := g.AddPlayer("bob"); err != nil || c != chess.Black {
		t.Fatalf("bob seated as %v, %v", c, err)
	}
	return g
}

func play(t *testing.T, g *Game, player string, from, to chess.Position) GameState {
	t.Helper()
	state, err := g.MakeMove(player, WSMove{From: from, To: to})
	if err != nil {
		t.Fatalf("%s %s-%s: %v", player, from, to, err)
	}
	return state
}

func TestAddPlayer(t *testing.T) {
	g := seatedGame(t)
	if c, err := g.AddPlayer("alice"); err != nil || c != chess.White {
		t.Errorf("rejoin = %v, %v", c, err)
	}
	if _, err := g.AddPlayer("carol"); !errors.Is(err, ErrGameFull) {
		t.Errorf("third player err = %v", err)
	}
	if g.CanSpectate() {
		t.Error("full game open to spectators")
	}
	if !g.IsPlayerInGame("bob") || g.IsPlayerInGame("carol") {
		t.Error("IsPlayerInGame mismatch")
	}
}

func TestMakeMoveTurnOrder(t *testing.T) {
	g := seatedGame(t)
	if _, err := g.MakeMove("bob", WSMove{From: pos(4, 6), To: pos(4, 4)}); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("black first err = %v", err)
	}
	if _, err := g.MakeMove("alice", WSMove{From: pos(4, 6), To: pos(4, 4)}); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("white moving black piece err = %v", err)
	}
	if _, err := g.MakeMove("alice", WSMove{From: pos(4, 1), To: pos(4, 4)}); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("three-square push err = %v", err)
	}
	if _, err := g.MakeMove("alice", WSMove{From: pos(4, 3), To: pos(4, 4)}); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("empty origin err = %v", err)
	}

	state := play(t, g, "alice", pos(4, 1), pos(4, 3))
	if state.ToMove != chess.Black {
		t.Errorf("to move = %s", state.ToMove)
	}
	if len(state.MoveHistory) != 1 || state.MoveHistory[0].WhitePly.Notation != "e4" {
		t.Errorf("history = %+v", state.MoveHistory)
	}
	if state.LastMove == nil || state.LastMove.To != pos(4, 3) {
		t.Errorf("last move = %v", state.LastMove)
	}
	if state.Board.Board[3][4] == nil || state.Board.Board[3][4].Type != chess.Pawn {
		t.Error("board state missing e4 pawn")
	}
}

func TestPawnCaptureNotation(t *testing.T) {
	g := seatedGame(t)
	play(t, g, "alice", pos(4, 1), pos(4, 3))
	play(t, g, "bob", pos(3, 6), pos(3, 4))
	state := play(t, g, "alice", pos(4, 3), pos(3, 4))

	ply := state.MoveHistory[1].WhitePly
	if ply.Notation != "exd5" {
		t.Errorf("notation = %q", ply.Notation)
	}
	if ply.CapturedPiece == nil || *ply.CapturedPiece != (chess.Piece{Type: chess.Pawn, Color: chess.Black}) {
		t.Errorf("captured = %v", ply.CapturedPiece)
	}
	if len(state.CapturedPieces.White) != 1 || state.Sound != "capture" {
		t.Errorf("captured pieces = %v, sound = %q", state.CapturedPieces, state.Sound)
	}
}

func TestFoolsMate(t *testing.T) {
	g := seatedGame(t)
	play(t, g, "alice", pos(5, 1), pos(5, 2))
	play(t, g, "bob", pos(4, 6), pos(4, 4))
	play(t, g, "alice", pos(6, 1), pos(6, 3))
	state := play(t, g, "bob", pos(3, 7), pos(7, 3))

	if state.Condition != chess.Mate || !state.IsCheck {
		t.Errorf("condition = %s", state.Condition)
	}
	if state.Resolve == nil || *state.Resolve != "checkmate" {
		t.Errorf("resolve = %v", state.Resolve)
	}
	if n := state.MoveHistory[1].BlackPly.Notation; n != "Qh4#" {
		t.Errorf("notation = %q", n)
	}
	if _, err := g.MakeMove("alice", WSMove{From: pos(0, 1), To: pos(0, 2)}); !errors.Is(err, ErrGameOver) {
		t.Errorf("move after mate err = %v", err)
	}
}

func promotionGame(t *testing.T) *Game {
	t.Helper()
	g := seatedGame(t)
	var raw chess.RawBoard
	raw.Set(pos(4, 0), chess.King, chess.White)
	raw.Set(pos(0, 6), chess.Pawn, chess.White)
	raw.Set(pos(4, 7), chess.King, chess.Black)
	g.board = chess.NewBoardWith(raw)
	return g
}

func TestPromotion(t *testing.T) {
	g := promotionGame(t)
	state := play(t, g, "alice", pos(0, 6), pos(0, 7))
	if p := state.Board.Board[7][0]; p == nil || p.Type != chess.Queen {
		t.Fatalf("a8 = %v", p)
	}
	if state.Condition != chess.Check {
		t.Errorf("condition = %s", state.Condition)
	}
	if n := state.MoveHistory[0].WhitePly.Notation; n != "a8=Q+" {
		t.Errorf("notation = %q", n)
	}

	g = promotionGame(t)
	knight := chess.Knight
	state, err := g.MakeMove("alice", WSMove{From: pos(0, 6), To: pos(0, 7), Promotion: &knight})
	if err != nil {
		t.Fatal(err)
	}
	if p := state.Board.Board[7][0]; p == nil || p.Type != chess.Knight {
		t.Errorf("a8 = %v", p)
	}

	g = promotionGame(t)
	king := chess.King
	if _, err := g.MakeMove("alice", WSMove{From: pos(0, 6), To: pos(0, 7), Promotion: &king}); !errors.Is(err, chess.ErrInvalidPromotionPiece) {
		t.Errorf("king promotion err = %v", err)
	}
	if _, err := g.MakeMove("alice", WSMove{From: pos(4, 0), To: pos(4, 1), Promotion: &knight}); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("king move with promotion err = %v", err)
	}
}

func TestRestoreGame(t *testing.T) {
	g := seatedGame(t)
	play(t, g, "alice", pos(4, 1), pos(4, 3))
	play(t, g, "bob", pos(3, 6), pos(3, 4))
	play(t, g, "alice", pos(4, 3), pos(3, 4))

	white, black, diffs := g.History()
	if white != "alice" || black != "bob" || len(diffs) != 3 {
		t.Fatalf("history = %s, %s, %v", white, black, diffs)
	}
	restored, err := RestoreGame(g.ID, white, black, diffs)
	if err != nil {
		t.Fatal(err)
	}
	want, got := g.GetState(), restored.GetState()
	if got.Board.Render != want.Board.Render || got.ToMove != want.ToMove {
		t.Errorf("restored:\n%s\nwant:\n%s", got.Board.Render, want.Board.Render)
	}
	if len(got.MoveHistory) != 2 || got.MoveHistory[1].WhitePly.Notation != "exd5" {
		t.Errorf("history = %+v", got.MoveHistory)
	}

	bad := []chess.Diff{chess.Move(pos(4, 1), pos(4, 4))}
	if _, err := RestoreGame("bad", "alice", "bob", bad); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("illegal replay err = %v", err)
	}
	outOfTurn := []chess.Diff{chess.Move(pos(4, 6), pos(4, 4))}
	if _, err := RestoreGame("bad", "alice", "bob", outOfTurn); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("out of turn replay err = %v", err)
	}
}

func TestLegalMoves(t *testing.T) {
	g := NewGame("moves")
	if n := len(g.LegalMoves(pos(6, 0))); n != 2 {
		t.Errorf("knight g1 has %d moves", n)
	}
	if n := len(g.LegalMoves(pos(4, 4))); n != 0 {
		t.Errorf("empty square has %d moves", n)
	}
}

func TestBroadcastDropsStaleState(t *testing.T) {
	g := seatedGame(t)
	first := play(t, g, "alice", pos(4, 1), pos(4, 3))
	second := play(t, g, "bob", pos(4, 6), pos(4, 4))
	if first.Ply != 1 || second.Ply != 2 {
		t.Fatalf("plies = %d, %d", first.Ply, second.Ply)
	}

	if !g.broadcastState(second) {
		t.Error("newest state not sent")
	}
	if g.broadcastState(first) {
		t.Error("older state sent after a newer one")
	}
	if !g.broadcastState(g.GetState()) {
		t.Error("current state resend dropped")
	}

	g.connections.writeMu.Lock()
	sent := g.connections.sentPly
	g.connections.writeMu.Unlock()
	if sent != 2 {
		t.Errorf("last sent ply = %d, want 2", sent)
	}
}
