package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chesscore/internal/chess"
	"github.com/benbeisheim/chesscore/internal/model"
	"github.com/benbeisheim/chesscore/internal/store"
	"github.com/benbeisheim/chesscore/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan string
	store            *store.Store
	mu               sync.RWMutex
	done             chan struct{}
	closeOnce        sync.Once
}

// NewGameManager starts the matchmaking loop. st may be nil, in which case
// games live only in memory.
func NewGameManager(st *store.Store, interval time.Duration) *GameManager {
	gm := &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		store:            st,
		done:             make(chan struct{}),
	}

	go gm.processMatchmaking(interval)

	return gm
}

// Close stops the matchmaking loop.
func (gm *GameManager) Close() {
	gm.closeOnce.Do(func() { close(gm.done) })
}

func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	log.Debugf("registering matchmaking channel for player %s", playerID)

	if existingCh, exists := gm.matchingChannels[playerID]; exists {
		// Remove from map first to prevent any new writes
		delete(gm.matchingChannels, playerID)
		close(existingCh)
	}

	gm.matchingChannels[playerID] = ch
	return nil
}

func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	// The channel is closed by whoever removes it from the map; a match may
	// already have done so.
	if current, ok := gm.matchingChannels[playerID]; ok && current == ch {
		delete(gm.matchingChannels, playerID)
		close(ch)
	}
}

func (gm *GameManager) processMatchmaking(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-gm.done:
			return
		case <-ticker.C:
			for gm.matchOnce() {
			}
		}
	}
}

// matchOnce pairs the two longest waiting players, if any, and reports
// whether a game was created.
func (gm *GameManager) matchOnce() bool {
	player1, player2, ok := gm.queue.GetNextPair()
	if !ok {
		return false
	}

	gameID := uuid.New().String()
	game := model.NewGame(gameID)
	p1Color, err := game.AddPlayer(player1.ID)
	if err != nil {
		log.Errorf("matchmaking: adding player %s: %v", player1.ID, err)
		return true
	}
	p2Color, err := game.AddPlayer(player2.ID)
	if err != nil {
		log.Errorf("matchmaking: adding player %s: %v", player2.ID, err)
		return true
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.games[gameID] = game
	if err := gm.persist(game); err != nil {
		log.Errorf("matchmaking: saving game %s: %v", gameID, err)
	}

	sendEventAndCleanup := func(playerID string, event model.MatchFoundEvent) bool {
		ch, ok := gm.matchingChannels[playerID]
		if !ok {
			return false
		}
		payload, err := json.Marshal(event)
		if err != nil {
			log.Errorf("matchmaking: marshal event: %v", err)
			return false
		}
		select {
		case ch <- string(payload):
			delete(gm.matchingChannels, playerID)
			close(ch)
			return true
		default:
			return false
		}
	}

	sent1 := sendEventAndCleanup(player1.ID, model.MatchFoundEvent{GameID: gameID, Color: p1Color})
	sent2 := sendEventAndCleanup(player2.ID, model.MatchFoundEvent{GameID: gameID, Color: p2Color})
	if !sent1 || !sent2 {
		// The game exists either way; a player without a channel can still
		// join it by id.
		log.Warnf("matchmaking: game %s created but not every player was notified", gameID)
	}
	log.Infof("matchmaking: paired %s and %s in game %s", player1.ID, player2.ID, gameID)
	return true
}

func (gm *GameManager) persist(game *model.Game) error {
	if gm.store == nil {
		return nil
	}
	white, black, diffs := game.History()
	err := gm.store.Save(store.Record{
		ID:    game.ID,
		White: white,
		Black: black,
		Diffs: diffs,
	})
	if errors.Is(err, store.ErrStale) {
		// A later move already saved a longer history.
		log.Debugf("game %s: skipped save: %v", game.ID, err)
		return nil
	}
	return err
}

// Restore loads every stored game into memory and reports how many it
// loaded. A record that no longer replays is deleted from the store.
func (gm *GameManager) Restore() (int, error) {
	if gm.store == nil {
		return 0, nil
	}
	recs, err := gm.store.List()
	if err != nil {
		return 0, fmt.Errorf("list games: %w", err)
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	restored := 0
	for _, rec := range recs {
		if _, exists := gm.games[rec.ID]; exists {
			continue
		}
		game, err := model.RestoreGame(rec.ID, rec.White, rec.Black, rec.Diffs)
		if err != nil {
			log.Warnf("dropping stored game %s: %v", rec.ID, err)
			if err := gm.store.Delete(rec.ID); err != nil {
				log.Errorf("deleting game %s: %v", rec.ID, err)
			}
			continue
		}
		gm.games[rec.ID] = game
		restored++
	}
	return restored, nil
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return ErrGameExists
	}

	game := model.NewGame(gameID)
	gm.games[gameID] = game
	return gm.persist(game)
}

// GetGame returns a live game, restoring it from the store when it is not
// in memory.
func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	game, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if exists {
		return game, nil
	}
	if gm.store == nil {
		return nil, ErrGameNotFound
	}

	rec, err := gm.store.Load(gameID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", gameID, err)
	}
	restored, err := model.RestoreGame(rec.ID, rec.White, rec.Black, rec.Diffs)
	if err != nil {
		return nil, fmt.Errorf("restore game %s: %w", gameID, err)
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	if game, exists := gm.games[gameID]; exists {
		return game, nil
	}
	gm.games[gameID] = restored
	log.Infof("restored game %s with %d diffs", gameID, len(rec.Diffs))
	return restored, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (chess.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return 0, err
	}
	color, err := game.AddPlayer(playerID)
	if err != nil {
		return 0, err
	}
	return color, gm.persist(game)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	return gm.queue.AddPlayer(model.Player{ID: playerID})
}

// LeaveMatchmaking drops a player from the queue.
func (gm *GameManager) LeaveMatchmaking(playerID string) {
	gm.queue.Remove(playerID)
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) LegalMoves(gameID string, pos chess.Position) ([]chess.Diff, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(pos), nil
}

func (gm *GameManager) MakeMove(gameID string, playerID string, move model.WSMove) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	state, err := game.MakeMove(playerID, move)
	if err != nil {
		return model.GameState{}, err
	}
	if err := gm.persist(game); err != nil {
		log.Errorf("game %s: saving after move: %v", gameID, err)
	}
	return state, nil
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn *websocket.Conn) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}

func (gm *GameManager) Send(gameID string, playerID string, msg ws.Message) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Send(playerID, msg)
}
