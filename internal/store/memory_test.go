package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/orapa-mine/go-server/internal/game"
)

func TestSaveAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	g, err := game.New(0, 0)
	if err != nil {
		t.Fatalf("game.New: %v", err)
	}
	if err := s.Save(ctx, g); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Get(ctx, g.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != g {
		t.Error("Get returned a different session pointer")
	}
}

func TestGetMissingReturnsErrNotFound(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var ids []string
	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		g, err := game.New(0, 0)
		if err != nil {
			t.Fatalf("game.New: %v", err)
		}
		// Spread creation times so the order is deterministic.
		g.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if err := s.Save(ctx, g); err != nil {
			t.Fatalf("Save: %v", err)
		}
		ids = append(ids, g.ID)
	}

	out, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("List returned %d sessions, want 3", len(out))
	}
	for i, g := range out {
		if want := ids[len(ids)-1-i]; g.ID != want {
			t.Errorf("position %d: got %s, want %s", i, g.ID, want)
		}
	}
}
