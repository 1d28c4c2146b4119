// internal/game/engine.go
//
// Session engine for a single mine game.
// Responsibilities:
//   - Create sessions with bounded player count and difficulty.
//   - Lifecycle transitions: Join (waiting), Start (→ setup),
//     Begin (→ in_progress once enough pieces are placed).
//   - Piece placement with rotation, grid-bounds and overlap checks.
//   - Shoot: rebuild the placed-piece geometry and run the ray tracer.
//
// All methods validate first and mutate only on success. The engine
// itself is not goroutine-safe; callers serialize access per session.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/orapa-mine/go-server/internal/color"
	"github.com/orapa-mine/go-server/internal/geometry"
	"github.com/orapa-mine/go-server/internal/tracer"
)

const (
	defaultMaxPlayers = 5
	defaultDifficulty = 5

	minPlayers    = 2
	maxPlayersCap = 5
	minDifficulty = 3
	maxDifficulty = 14
)

var (
	ErrAlreadyStarted = errors.New("game already started")
	ErrGameFull       = errors.New("game is full")
	ErrDirectorTaken  = errors.New("director role already taken")
	ErrNoDirector     = errors.New("no director assigned")
	ErrNotDirector    = errors.New("only the director can place pieces")
	ErrNotSetup       = errors.New("game is not in setup phase")
	ErrNotInProgress  = errors.New("game is not in progress")
	ErrNotYourTurn    = errors.New("not this player's turn")
	ErrBadRotation    = errors.New("rotation must be 0, 90, 180, or 270")
	ErrOutsideGrid    = errors.New("piece extends outside grid")
	ErrOverlap        = errors.New("piece overlaps with existing piece")
	ErrTooFewPieces   = errors.New("not enough pieces placed")
	ErrUnknownRole    = errors.New("role must be director or explorer")
)

// New constructs a waiting session. Zero maxPlayers/difficulty take the
// defaults; out-of-range values are rejected.
func New(maxPlayers, difficulty int) (*Game, error) {
	if maxPlayers == 0 {
		maxPlayers = defaultMaxPlayers
	}
	if difficulty == 0 {
		difficulty = defaultDifficulty
	}
	if maxPlayers < minPlayers || maxPlayers > maxPlayersCap {
		return nil, fmt.Errorf("max players must be %d-%d", minPlayers, maxPlayersCap)
	}
	if difficulty < minDifficulty || difficulty > maxDifficulty {
		return nil, fmt.Errorf("difficulty must be %d-%d", minDifficulty, maxDifficulty)
	}
	return &Game{
		ID:         randomID(),
		Status:     StatusWaiting,
		MaxPlayers: maxPlayers,
		Difficulty: difficulty,
		Players:    []Player{},
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Join adds a player while the session is still waiting. At most one
// director per session.
func (g *Game) Join(username string, role Role) error {
	if g.Status != StatusWaiting {
		return ErrAlreadyStarted
	}
	if role != RoleDirector && role != RoleExplorer {
		return ErrUnknownRole
	}
	if len(g.Players) >= g.MaxPlayers {
		return ErrGameFull
	}
	if role == RoleDirector {
		if g.Director != "" {
			return ErrDirectorTaken
		}
		g.Director = username
	}
	g.Players = append(g.Players, Player{Username: username, Role: role})
	return nil
}

// Start moves the session into the setup phase, where the director
// places pieces.
func (g *Game) Start() error {
	if g.Status != StatusWaiting {
		return ErrAlreadyStarted
	}
	if g.Director == "" {
		return ErrNoDirector
	}
	g.Status = StatusSetup
	g.StartedAt = time.Now().UTC()
	return nil
}

// PlacePiece validates and records one piece placement by username.
// The piece type must exist in the catalog, the rotation must be a
// quarter turn, and every occupied cell must be inside the 10x8 grid
// and free of other pieces.
func (g *Game) PlacePiece(username string, pieceType geometry.PieceType, x, y, rotation int) (PlacedPiece, error) {
	if username != g.Director {
		return PlacedPiece{}, ErrNotDirector
	}
	if g.Status != StatusSetup {
		return PlacedPiece{}, ErrNotSetup
	}

	geom, err := geometry.ByType(pieceType)
	if err != nil {
		return PlacedPiece{}, err
	}
	switch rotation {
	case 0, 90, 180, 270:
	default:
		return PlacedPiece{}, ErrBadRotation
	}
	if rotation > 0 {
		geom = geom.Rotate(rotation)
	}

	cells := geom.OccupiedCells(geometry.Cell{X: x, Y: y})
	for _, c := range cells {
		if c.X < 0 || c.X >= tracer.GridWidth || c.Y < 0 || c.Y >= tracer.GridHeight {
			return PlacedPiece{}, ErrOutsideGrid
		}
	}
	for _, existing := range g.Pieces {
		for _, ec := range existing.OccupiedCells {
			for _, c := range cells {
				if c == ec {
					return PlacedPiece{}, ErrOverlap
				}
			}
		}
	}

	placed := PlacedPiece{
		Type:          pieceType,
		Color:         geom.Color,
		X:             x,
		Y:             y,
		Rotation:      rotation,
		OccupiedCells: cells,
	}
	g.Pieces = append(g.Pieces, placed)
	return placed, nil
}

// Begin ends setup once the director has placed at least Difficulty
// pieces, and hands the first turn to an explorer.
func (g *Game) Begin() error {
	if g.Status != StatusSetup {
		return ErrNotSetup
	}
	if len(g.Pieces) < g.Difficulty {
		return fmt.Errorf("%w: need %d, have %d", ErrTooFewPieces, g.Difficulty, len(g.Pieces))
	}
	g.Status = StatusInProgress
	for _, p := range g.Players {
		if p.Role == RoleExplorer {
			g.CurrentTurn = p.Username
			break
		}
	}
	return nil
}

// Shoot traces one wave for username and records it in the shot
// history. Only the turn-holding explorer may shoot; the turn then
// passes to the next explorer in join order.
func (g *Game) Shoot(username, entry string, policy color.Policy) (tracer.Result, error) {
	if g.Status != StatusInProgress {
		return tracer.Result{}, ErrNotInProgress
	}
	if g.CurrentTurn != "" && username != g.CurrentTurn {
		return tracer.Result{}, ErrNotYourTurn
	}

	placed, err := g.boardPieces()
	if err != nil {
		return tracer.Result{}, err
	}
	result, err := tracer.New(placed, color.NewMixer(policy)).Shoot(entry)
	if err != nil {
		return tracer.Result{}, err
	}

	g.Shots = append(g.Shots, ShotRecord{Username: username, Result: result})
	g.advanceTurn()
	return result, nil
}

// boardPieces rebuilds the tracer's view of the board from the stored
// placements: catalog lookup plus rotation per piece.
func (g *Game) boardPieces() ([]tracer.PlacedPiece, error) {
	placed := make([]tracer.PlacedPiece, 0, len(g.Pieces))
	for _, p := range g.Pieces {
		geom, err := geometry.ByType(p.Type)
		if err != nil {
			return nil, err
		}
		if p.Rotation > 0 {
			geom = geom.Rotate(p.Rotation)
		}
		placed = append(placed, tracer.PlacedPiece{
			Geometry: geom,
			Position: geometry.Cell{X: p.X, Y: p.Y},
		})
	}
	return placed, nil
}

// advanceTurn passes the turn to the next explorer in join order.
func (g *Game) advanceTurn() {
	explorers := make([]string, 0, len(g.Players))
	for _, p := range g.Players {
		if p.Role == RoleExplorer {
			explorers = append(explorers, p.Username)
		}
	}
	if len(explorers) == 0 {
		return
	}
	for i, name := range explorers {
		if name == g.CurrentTurn {
			g.CurrentTurn = explorers[(i+1)%len(explorers)]
			return
		}
	}
	g.CurrentTurn = explorers[0]
}

// IsDirector reports whether username holds the director role.
func (g *Game) IsDirector(username string) bool {
	return g.Director != "" && g.Director == username
}

// randomID returns a compact 16-hex-char session identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
