// internal/httpserver/routes_game.go
//
// HTTP routes for the game session lifecycle.
// Exposes endpoints under /games:
//   - POST /games               → create a session
//   - GET  /games               → list sessions (lobby)
//   - GET  /games/{id}          → session info
//   - POST /games/{id}/join     → join as director or explorer
//   - POST /games/{id}/start    → move to setup (director places pieces)
//   - POST /games/{id}/pieces   → place a piece (director only)
//   - POST /games/{id}/begin    → begin gameplay (enough pieces placed)
//   - POST /games/{id}/shoot    → shoot an elastic wave (turn holder)
//   - GET  /games/{id}/state    → full state; pieces visible to director only
//
// Sessions are held in the memory store for active play; game rows and
// shot history are persisted to SQL best-effort (non-fatal on failure).

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/orapa-mine/go-server/internal/color"
	"github.com/orapa-mine/go-server/internal/game"
	"github.com/orapa-mine/go-server/internal/geometry"
	"github.com/orapa-mine/go-server/internal/store"
	"github.com/orapa-mine/go-server/internal/tracer"
)

// mountGames registers all /games routes.
func (s *Server) mountGames(r chi.Router) {
	r.Route("/games", func(r chi.Router) {
		r.Post("/", s.handleCreateGame)
		r.Get("/", s.handleListGames)
		r.Get("/{id}", s.handleGetGame)
		r.Post("/{id}/join", s.handleJoinGame)
		r.Post("/{id}/start", s.handleStartGame)
		r.Post("/{id}/pieces", s.handlePlacePiece)
		r.Post("/{id}/begin", s.handleBeginGame)
		r.Post("/{id}/shoot", s.handleShootWave)
		r.Get("/{id}/state", s.handleGameState)
	})
}

// loadGame fetches the session addressed by the URL, writing a 404 and
// returning nil if it does not exist.
func (s *Server) loadGame(w http.ResponseWriter, r *http.Request) *game.Game {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, `{"error":"game_not_found"}`, http.StatusNotFound)
		} else {
			http.Error(w, `{"error":"store_error"}`, http.StatusInternalServerError)
		}
		return nil
	}
	return g
}

// writeGameError maps engine errors onto HTTP status codes.
func writeGameError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, game.ErrNotDirector), errors.Is(err, game.ErrNotYourTurn):
		status = http.StatusForbidden
	case errors.Is(err, tracer.ErrInvalidEntry):
		status = http.StatusBadRequest
	}
	payload, _ := json.Marshal(map[string]string{"error": err.Error()})
	http.Error(w, string(payload), status)
}

// ----------------------------- create / list -------------------------------

type createGameReq struct {
	MaxPlayers int `json:"maxPlayers"`
	Difficulty int `json:"difficulty"`
}

// handleCreateGame creates a new waiting session and persists its row.
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	s.gamesMu.Lock()
	defer s.gamesMu.Unlock()

	var req createGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	g, err := game.New(req.MaxPlayers, req.Difficulty)
	if err != nil {
		writeGameError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	if _, err := s.db.Exec(`INSERT INTO games (id, status, max_players, difficulty, created_at)
	                        VALUES (?,?,?,?,?)`,
		g.ID, string(g.Status), g.MaxPlayers, g.Difficulty, g.CreatedAt.Format(time.RFC3339)); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(g)
}

// handleListGames returns all sessions, newest first.
func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	s.gamesMu.RLock()
	defer s.gamesMu.RUnlock()

	games, err := s.store.List(r.Context())
	if err != nil {
		http.Error(w, `{"error":"store_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(games)
}

// handleGetGame returns one session's public info.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	s.gamesMu.RLock()
	defer s.gamesMu.RUnlock()

	if g := s.loadGame(w, r); g != nil {
		_ = json.NewEncoder(w).Encode(g)
	}
}

// ------------------------------- lifecycle ---------------------------------

type joinGameReq struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// handleJoinGame adds a player to a waiting session.
func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	s.gamesMu.Lock()
	defer s.gamesMu.Unlock()

	g := s.loadGame(w, r)
	if g == nil {
		return
	}
	var req joinGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if req.Role == "" {
		req.Role = string(game.RoleExplorer)
	}
	if err := g.Join(req.Username, game.Role(req.Role)); err != nil {
		writeGameError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{
		"message":   "joined game as " + req.Role,
		"sessionId": g.ID,
	})
}

// handleStartGame moves a session into the setup phase.
func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	s.gamesMu.Lock()
	defer s.gamesMu.Unlock()

	g := s.loadGame(w, r)
	if g == nil {
		return
	}
	if err := g.Start(); err != nil {
		writeGameError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	if _, err := s.db.Exec(`UPDATE games SET status=?, director=?, started_at=? WHERE id=?`,
		string(g.Status), g.Director, g.StartedAt.Format(time.RFC3339), g.ID); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("update game row")
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "game started - director can now place pieces"})
}

type placePieceReq struct {
	Username  string `json:"username"`
	PieceType string `json:"pieceType"`
	PositionX int    `json:"positionX"`
	PositionY int    `json:"positionY"`
	Rotation  int    `json:"rotation"`
}

// handlePlacePiece places one piece on the hidden board (director only).
func (s *Server) handlePlacePiece(w http.ResponseWriter, r *http.Request) {
	s.gamesMu.Lock()
	defer s.gamesMu.Unlock()

	g := s.loadGame(w, r)
	if g == nil {
		return
	}
	var req placePieceReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	placed, err := g.PlacePiece(req.Username, geometry.PieceType(req.PieceType), req.PositionX, req.PositionY, req.Rotation)
	if err != nil {
		writeGameError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"message":       "piece placed successfully",
		"occupiedCells": placed.OccupiedCells,
	})
}

// handleBeginGame ends setup and opens the board to explorer shots.
// Registered players get their games_played counter bumped best-effort.
func (s *Server) handleBeginGame(w http.ResponseWriter, r *http.Request) {
	s.gamesMu.Lock()
	defer s.gamesMu.Unlock()

	g := s.loadGame(w, r)
	if g == nil {
		return
	}
	if err := g.Begin(); err != nil {
		writeGameError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	if _, err := s.db.Exec(`UPDATE games SET status=? WHERE id=?`, string(g.Status), g.ID); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("update game row")
	}
	for _, p := range g.Players {
		if _, err := s.db.Exec(`UPDATE users SET games_played = games_played + 1 WHERE lower(username)=lower(?)`, p.Username); err != nil {
			log.Warn().Err(err).Str("username", p.Username).Msg("bump games played")
		}
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "gameplay started - explorers can now shoot waves"})
}

// ------------------------------- shooting ----------------------------------

type shootWaveReq struct {
	Username      string `json:"username"`
	EntryPosition string `json:"entryPosition"`
}

// pathSegmentRes is one leg of the traced wave, with the display hex
// code resolved for the client.
type pathSegmentRes struct {
	StartX float64 `json:"startX"`
	StartY float64 `json:"startY"`
	EndX   float64 `json:"endX"`
	EndY   float64 `json:"endY"`
	Color  string  `json:"color"`
	Hex    string  `json:"hex"`
}

// shootWaveRes mirrors the tracer result; exit fields are null when the
// wave was absorbed.
type shootWaveRes struct {
	EntryPosition string           `json:"entryPosition"`
	ExitPosition  *string          `json:"exitPosition"`
	ExitColor     *string          `json:"exitColor"`
	Path          []pathSegmentRes `json:"path"`
	Reflections   int              `json:"reflections"`
}

// waveResponse converts a tracer result into the wire shape.
func waveResponse(res tracer.Result) shootWaveRes {
	out := shootWaveRes{
		EntryPosition: res.Entry,
		Path:          make([]pathSegmentRes, 0, len(res.Path)),
		Reflections:   res.Reflections,
	}
	if !res.Absorbed {
		exit, exitColor := res.Exit, string(res.ExitColor)
		out.ExitPosition = &exit
		out.ExitColor = &exitColor
	}
	for _, seg := range res.Path {
		out.Path = append(out.Path, pathSegmentRes{
			StartX: seg.Start.X,
			StartY: seg.Start.Y,
			EndX:   seg.End.X,
			EndY:   seg.End.Y,
			Color:  string(seg.Color),
			Hex:    color.Hex(seg.Color),
		})
	}
	return out
}

// handleShootWave traces one wave for the turn-holding explorer and
// persists the shot row.
func (s *Server) handleShootWave(w http.ResponseWriter, r *http.Request) {
	s.gamesMu.Lock()
	defer s.gamesMu.Unlock()

	g := s.loadGame(w, r)
	if g == nil {
		return
	}
	var req shootWaveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	result, err := g.Shoot(req.Username, req.EntryPosition, s.policy)
	if err != nil {
		writeGameError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	var exit, exitColor any
	if !result.Absorbed {
		exit, exitColor = result.Exit, string(result.ExitColor)
	}
	if _, err := s.db.Exec(`INSERT INTO shots (game_id, username, entry, exit, exit_color, reflections, absorbed)
	                        VALUES (?,?,?,?,?,?,?)`,
		g.ID, req.Username, result.Entry, exit, exitColor, result.Reflections, result.Absorbed); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert shot row")
	}

	_ = json.NewEncoder(w).Encode(waveResponse(result))
}

// ------------------------------- state view --------------------------------

// gameStateRes is the complete state view. PlacedPieces is populated
// only for the director; everyone sees the shot history.
type gameStateRes struct {
	GameInfo     *game.Game         `json:"gameInfo"`
	PlacedPieces []game.PlacedPiece `json:"placedPieces"`
	WaveShots    []waveShotRes      `json:"waveShots"`
	IsDirector   bool               `json:"isDirector"`
}

type waveShotRes struct {
	Username string       `json:"username"`
	Shot     shootWaveRes `json:"shot"`
}

// handleGameState returns the session, the visible board, and the shot
// history. The requesting username comes from the query string.
func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	s.gamesMu.RLock()
	defer s.gamesMu.RUnlock()

	g := s.loadGame(w, r)
	if g == nil {
		return
	}
	username := r.URL.Query().Get("username")

	res := gameStateRes{
		GameInfo:     g,
		PlacedPieces: []game.PlacedPiece{},
		WaveShots:    make([]waveShotRes, 0, len(g.Shots)),
		IsDirector:   g.IsDirector(username),
	}
	if res.IsDirector {
		res.PlacedPieces = g.Pieces
	}
	for _, shot := range g.Shots {
		res.WaveShots = append(res.WaveShots, waveShotRes{
			Username: shot.Username,
			Shot:     waveResponse(shot.Result),
		})
	}
	_ = json.NewEncoder(w).Encode(res)
}
