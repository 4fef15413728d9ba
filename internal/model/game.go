package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/benbeisheim/chesscore/internal/chess"
	"github.com/benbeisheim/chesscore/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

var (
	ErrGameFull    = errors.New("game is full")
	ErrGameOver    = errors.New("game is over")
	ErrNotYourTurn = errors.New("not your turn")
	ErrIllegalMove = errors.New("illegal move")
)

// The connections for a specific game
type GameConnections struct {
	connections map[string]*websocket.Conn // playerID -> connection
	mu          sync.RWMutex
	writeMu     sync.Mutex // a websocket.Conn allows one writer at a time
	sentPly     int        // ply of the newest state written; guarded by writeMu
}

// Game is one session around an exclusively owned board. Every access to the
// board goes through mu.
type Game struct {
	ID          string
	mu          sync.Mutex
	board       *chess.Board
	toMove      chess.Color
	players     [2]ClientPlayer
	moves       []Move
	diffs       []chess.Diff
	captured    CapturedPieces
	lastMove    *SimpleMove
	condition   chess.GameCondition
	resolve     *string
	sound       string
	connections *GameConnections
}

type GameState struct {
	Ply            int                 `json:"ply"`
	Sound          string              `json:"sound"`
	Board          BoardState          `json:"boardState"`
	ToMove         chess.Color         `json:"toMove"`
	MoveHistory    []Move              `json:"moveHistory"`
	CapturedPieces CapturedPieces      `json:"capturedPieces"`
	Condition      chess.GameCondition `json:"condition"`
	IsCheck        bool                `json:"isCheck"`
	Resolve        *string             `json:"resolve"`
	Players        struct {
		White ClientPlayer `json:"white"`
		Black ClientPlayer `json:"black"`
	} `json:"players"`
	LastMove *SimpleMove `json:"lastMove"`
}

// CapturedPieces lists the pieces each side has taken.
type CapturedPieces struct {
	White []chess.Piece `json:"white"`
	Black []chess.Piece `json:"black"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:          id,
		board:       chess.NewBoard(),
		toMove:      chess.White,
		moves:       make([]Move, 0),
		captured:    CapturedPieces{White: make([]chess.Piece, 0), Black: make([]chess.Piece, 0)},
		connections: NewGameConnections(),
	}
}

// RestoreGame rebuilds a game by replaying diffs from the initial position.
func RestoreGame(id, whiteID, blackID string, diffs []chess.Diff) (*Game, error) {
	g := NewGame(id)
	g.players[chess.White] = ClientPlayer{ID: whiteID, Color: chess.White}
	g.players[chess.Black] = ClientPlayer{ID: blackID, Color: chess.Black}
	for i, d := range diffs {
		if g.resolve != nil {
			return nil, fmt.Errorf("replay diff %d (%s): %w", i, d, ErrGameOver)
		}
		move := WSMove{From: d.From, To: d.To}
		if d.Kind == chess.DiffPromote {
			piece := d.Piece
			move.Promotion = &piece
		}
		diff, err := g.validateMove(move)
		if err != nil {
			return nil, fmt.Errorf("replay diff %d (%s): %w", i, d, err)
		}
		if diff != d {
			return nil, fmt.Errorf("replay diff %d (%s): %w", i, d, ErrIllegalMove)
		}
		if err := g.play(d); err != nil {
			return nil, fmt.Errorf("replay diff %d (%s): %w", i, d, err)
		}
	}
	g.sound = ""
	return g, nil
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

// AddPlayer seats a player as White, then Black. A player already seated gets
// their color back.
func (g *Game) AddPlayer(playerID string) (chess.Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.colorOf(playerID); ok {
		return c, nil
	}
	for _, c := range []chess.Color{chess.White, chess.Black} {
		if g.players[c].ID == "" {
			g.players[c] = ClientPlayer{ID: playerID, Color: c}
			log.Infof("game %s: player %s joined as %s", g.ID, playerID, c)
			return c, nil
		}
	}
	return 0, ErrGameFull
}

func (g *Game) colorOf(playerID string) (chess.Color, bool) {
	if playerID == "" {
		return 0, false
	}
	for _, c := range []chess.Color{chess.White, chess.Black} {
		if g.players[c].ID == playerID {
			return c, true
		}
	}
	return 0, false
}

// History returns the seated players and the diffs played, read under one
// lock so the three always describe the same moment.
func (g *Game) History() (white, black string, diffs []chess.Diff) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.players[chess.White].ID, g.players[chess.Black].ID, slices.Clone(g.diffs)
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshot()
}

func (g *Game) snapshot() GameState {
	state := GameState{
		Ply:         len(g.diffs),
		Sound:       g.sound,
		Board:       newBoardState(g.board),
		ToMove:      g.toMove,
		MoveHistory: make([]Move, len(g.moves)),
		CapturedPieces: CapturedPieces{
			White: slices.Clone(g.captured.White),
			Black: slices.Clone(g.captured.Black),
		},
		Condition: g.condition,
		IsCheck:   g.condition == chess.Check || g.condition == chess.Mate,
		Resolve:   g.resolve,
		LastMove:  g.lastMove,
	}
	copy(state.MoveHistory, g.moves)
	state.Players.White = g.players[chess.White]
	state.Players.Black = g.players[chess.Black]
	return state
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.colorOf(playerID)
	return ok
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return g.players[chess.White].ID == "" || g.players[chess.Black].ID == ""
}

// LegalMoves lists the legal diffs from pos; an empty square has none.
func (g *Game) LegalMoves(pos chess.Position) []chess.Diff {
	g.mu.Lock()
	defer g.mu.Unlock()

	return slices.Collect(g.board.LegalMoves(pos))
}

// MakeMove validates a player's move and plays it. Observers receive the new
// state asynchronously; a state older than one already sent is dropped.
func (g *Game) MakeMove(playerID string, move WSMove) (GameState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	log.Debugf("game %s: %s requests %s-%s", g.ID, playerID, move.From, move.To)

	if g.resolve != nil {
		return GameState{}, ErrGameOver
	}
	if color, ok := g.colorOf(playerID); !ok || color != g.toMove {
		return GameState{}, ErrNotYourTurn
	}

	diff, err := g.validateMove(move)
	if err != nil {
		return GameState{}, err
	}
	if err := g.play(diff); err != nil {
		return GameState{}, err
	}

	state := g.snapshot()
	go g.broadcastState(state)
	return state, nil
}

func (g *Game) validateMove(move WSMove) (chess.Diff, error) {
	mover, err := g.board.Get(move.From)
	if err != nil {
		return chess.Diff{}, fmt.Errorf("%w: %s: %w", ErrIllegalMove, move.From, err)
	}
	if mover.Color != g.toMove {
		return chess.Diff{}, ErrNotYourTurn
	}

	diff, ok := g.board.FindLegal(move.From, move.To)
	if !ok {
		return chess.Diff{}, fmt.Errorf("%w: %s-%s", ErrIllegalMove, move.From, move.To)
	}

	promoting := mover.Type == chess.Pawn && move.To.Y() == chess.PromotionRank(mover.Color)
	if !promoting {
		if move.Promotion != nil {
			return chess.Diff{}, fmt.Errorf("%w: promotion off the last rank", ErrIllegalMove)
		}
		return diff, nil
	}

	piece := chess.Queen
	if move.Promotion != nil {
		piece = *move.Promotion
	}
	diff = chess.Promote(move.From, move.To, piece)
	sim := g.board.Clone()
	if err := sim.Apply(diff); err != nil {
		return chess.Diff{}, fmt.Errorf("%w: %w", ErrIllegalMove, err)
	}
	if sim.IsKingInCheck(mover.Color) {
		return chess.Diff{}, fmt.Errorf("%w: king left in check", ErrIllegalMove)
	}
	return diff, nil
}

// play applies an already validated diff and advances the turn.
func (g *Game) play(diff chess.Diff) error {
	mover, err := g.board.Get(diff.From)
	if err != nil {
		return err
	}
	var captured *chess.Piece
	switch diff.Kind {
	case chess.DiffCapture:
		if p, err := g.board.Get(diff.Cap); err == nil {
			captured = &p
		}
	case chess.DiffPromote:
		if p, err := g.board.Get(diff.To); err == nil {
			captured = &p
		}
	}

	if err := g.board.Apply(diff); err != nil {
		return err
	}

	g.diffs = append(g.diffs, diff)
	g.sound = "move"
	if captured != nil {
		g.sound = "capture"
		if mover.Color == chess.White {
			g.captured.White = append(g.captured.White, *captured)
		} else {
			g.captured.Black = append(g.captured.Black, *captured)
		}
	}

	g.toMove = g.toMove.Opponent()
	g.condition = g.board.Condition(g.toMove)
	switch g.condition {
	case chess.Check:
		g.sound = "check"
	case chess.Mate, chess.Stale:
		result := g.condition.String()
		g.resolve = &result
	}

	ply := &Ply{
		Diff:          diff,
		Piece:         mover,
		CapturedPiece: captured,
		Notation:      notation(mover, diff, g.condition),
	}
	if mover.Color == chess.White || len(g.moves) == 0 {
		g.moves = append(g.moves, Move{WhitePly: ply})
	} else {
		g.moves[len(g.moves)-1].BlackPly = ply
	}
	g.lastMove = &SimpleMove{From: diff.From, To: diff.To}
	return nil
}

func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	g.mu.Lock()
	isAuthorized := g.isPlayerIn(playerID) || g.canSpectate()
	state := g.snapshot()
	g.mu.Unlock()

	if !isAuthorized {
		return errors.New("not authorized to join this game")
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// If we already have a healthy connection, keep it and reject the new one
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return nil // Not really an error, just rejecting duplicate connection
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Infof("game %s: registered connection for player %s", g.ID, playerID)

	go g.broadcastState(state)
	return nil
}

func (g *Game) isPlayerIn(playerID string) bool {
	_, ok := g.colorOf(playerID)
	return ok
}

// UnregisterConnection forgets conn if it is still the player's current one.
func (g *Game) UnregisterConnection(playerID string, conn *websocket.Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		log.Infof("game %s: unregistering connection for player %s", g.ID, playerID)
		delete(g.connections.connections, playerID)
	}
}

// Send writes one message to a player's connection.
func (g *Game) Send(playerID string, msg ws.Message) error {
	g.connections.mu.RLock()
	conn, ok := g.connections.connections[playerID]
	g.connections.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no connection for player %s", playerID)
	}

	g.connections.writeMu.Lock()
	defer g.connections.writeMu.Unlock()
	return conn.WriteJSON(msg)
}

// broadcastState writes state to every connection and reports whether it was
// sent. States reach writeMu in any order, so one behind the last sent ply is
// discarded.
func (g *Game) broadcastState(state GameState) bool {
	payload, err := json.Marshal(state)
	if err != nil {
		log.Errorf("game %s: failed to marshal state: %v", g.ID, err)
		return false
	}
	msg := ws.Message{Type: ws.MessageTypeGameState, Payload: payload}

	g.connections.mu.RLock()
	active := make(map[string]*websocket.Conn, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		active[playerID] = conn
	}
	g.connections.mu.RUnlock()

	var failed []string
	g.connections.writeMu.Lock()
	if state.Ply < g.connections.sentPly {
		g.connections.writeMu.Unlock()
		log.Debugf("game %s: dropping stale state at ply %d", g.ID, state.Ply)
		return false
	}
	g.connections.sentPly = state.Ply
	for playerID, conn := range active {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warnf("game %s: failed to send state to player %s: %v", g.ID, playerID, err)
			failed = append(failed, playerID)
		}
	}
	g.connections.writeMu.Unlock()

	if len(failed) == 0 {
		return true
	}
	g.connections.mu.Lock()
	for _, playerID := range failed {
		if g.connections.connections[playerID] == active[playerID] {
			delete(g.connections.connections, playerID)
		}
	}
	g.connections.mu.Unlock()
	return true
}
