// internal/game/types.go
//
// Core type definitions for the mine game session engine.
// Defines:
//   - Status: session lifecycle (waiting → setup → in_progress).
//   - Role: director (hides the pieces) vs explorer (probes them).
//   - Player, PlacedPiece, ShotRecord, Game.

package game

import (
	"time"

	"github.com/orapa-mine/go-server/internal/geometry"
	"github.com/orapa-mine/go-server/internal/tracer"
)

// Status is the coarse lifecycle state of a game session.
type Status string

const (
	StatusWaiting    Status = "waiting"     // players joining
	StatusSetup      Status = "setup"       // director placing pieces
	StatusInProgress Status = "in_progress" // explorers shooting waves
	StatusCompleted  Status = "completed"
)

// Role of a player within a session.
type Role string

const (
	RoleDirector Role = "director"
	RoleExplorer Role = "explorer"
)

// Player is one participant of a session.
type Player struct {
	Username  string `json:"username"`
	Role      Role   `json:"role"`
	Ready     bool   `json:"isReady"`
	TurnOrder int    `json:"turnOrder"`
}

// PlacedPiece is one piece on the hidden board, as placed by the
// director. OccupiedCells is precomputed at placement time and reused
// for overlap checks.
type PlacedPiece struct {
	Type          geometry.PieceType  `json:"pieceType"`
	Color         geometry.PieceColor `json:"pieceColor"`
	X             int                 `json:"positionX"`
	Y             int                 `json:"positionY"`
	Rotation      int                 `json:"rotation"`
	OccupiedCells []geometry.Cell     `json:"occupiedCells"`
}

// ShotRecord pairs a traced wave with the explorer who shot it.
type ShotRecord struct {
	Username string        `json:"username"`
	Result   tracer.Result `json:"result"`
}

// Game holds the state of a single session.
type Game struct {
	ID          string    `json:"sessionId"`
	Status      Status    `json:"status"`
	Director    string    `json:"directorUsername,omitempty"`
	CurrentTurn string    `json:"currentTurnPlayer,omitempty"`
	MaxPlayers  int       `json:"maxPlayers"`
	Difficulty  int       `json:"difficulty"` // pieces the director must place
	Players     []Player  `json:"players"`
	CreatedAt   time.Time `json:"createdAt"`
	StartedAt   time.Time `json:"startedAt,omitempty"`

	Pieces []PlacedPiece `json:"-"` // hidden board, director-only
	Shots  []ShotRecord  `json:"-"` // wave history, visible to all
}
