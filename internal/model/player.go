package model

import (
	"github.com/benbeisheim/chesscore/internal/chess"
)

// Player is a matchmaking entry; a color is assigned once a game pairs it.
type Player struct {
	ID string
}

type ClientPlayer struct {
	ID    string      `json:"name"`
	Color chess.Color `json:"color"`
}

// MatchFoundEvent is sent to both players once matchmaking pairs them.
type MatchFoundEvent struct {
	GameID string      `json:"gameId"`
	Color  chess.Color `json:"color"`
}
