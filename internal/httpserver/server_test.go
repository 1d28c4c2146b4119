package httpserver

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/orapa-mine/go-server/internal/game"
	"github.com/orapa-mine/go-server/internal/geometry"
	"github.com/orapa-mine/go-server/internal/store"
)

// newTestServer wires a Server to an in-memory sqlite handle. History
// inserts fail without the schema and are logged best-effort, which is
// fine for handler tests.
func newTestServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	st := store.NewMemoryStore()
	return New(st, db), st
}

// inProgressGame builds a session that is ready for explorer shots:
// director dana, explorers eli and finn, three pieces placed.
func inProgressGame(t *testing.T) *game.Game {
	t.Helper()
	g, err := game.New(0, 3)
	if err != nil {
		t.Fatalf("game.New: %v", err)
	}
	joins := []struct {
		name string
		role game.Role
	}{
		{"dana", game.RoleDirector},
		{"eli", game.RoleExplorer},
		{"finn", game.RoleExplorer},
	}
	for _, j := range joins {
		if err := g.Join(j.name, j.role); err != nil {
			t.Fatalf("join %s: %v", j.name, err)
		}
	}
	if err := g.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	pieces := []struct {
		typ  geometry.PieceType
		x, y int
	}{
		{geometry.Petroleum, 4, 0},
		{geometry.Square, 0, 5},
		{geometry.Parallelogram, 7, 6},
	}
	for _, p := range pieces {
		if _, err := g.PlacePiece("dana", p.typ, p.x, p.y, 0); err != nil {
			t.Fatalf("place %s: %v", p.typ, err)
		}
	}
	if err := g.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	return g
}

// TestStatePollingWhileShooting hammers /state from one goroutine while
// the turn-holding explorers shoot waves from another. The state encode
// reads the same session the shots mutate; run with -race.
func TestStatePollingWhileShooting(t *testing.T) {
	s, st := newTestServer(t)
	g := inProgressGame(t)
	if err := st.Save(context.Background(), g); err != nil {
		t.Fatalf("Save: %v", err)
	}

	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			resp, err := http.Get(srv.URL + "/games/" + g.ID + "/state?username=dana")
			if err != nil {
				t.Errorf("poll state: %v", err)
				return
			}
			_ = resp.Body.Close()
		}
	}()

	shooters := []string{"eli", "finn"}
	for i := 0; i < 20; i++ {
		body := strings.NewReader(`{"username":"` + shooters[i%2] + `","entryPosition":"1"}`)
		resp, err := http.Post(srv.URL+"/games/"+g.ID+"/shoot", "application/json", body)
		if err != nil {
			t.Fatalf("shoot %d: %v", i, err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("shoot %d: status %d", i, resp.StatusCode)
		}
	}
	close(done)
	wg.Wait()

	final, err := st.Get(context.Background(), g.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(final.Shots) != 20 {
		t.Errorf("recorded %d shots, want 20", len(final.Shots))
	}
}
