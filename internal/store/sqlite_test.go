package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dimaboro-code/onAI/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	ctx := context.Background()
	s, err := NewSQLiteStore(ctx, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Close)
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestAppendAssignsOrderedIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first, err := s.Append(ctx, "Hi", models.RoleUser)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Append(ctx, "Hello!", models.RoleAssistant)
	if err != nil {
		t.Fatal(err)
	}

	if first.ID >= second.ID {
		t.Fatalf("ids must follow insertion order: %d then %d", first.ID, second.ID)
	}
	if second.CreatedAt.Before(first.CreatedAt) {
		t.Fatal("created_at must be non-decreasing in insertion order")
	}
}

func TestReadAllReturnsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	const n = 10
	for i := 0; i < n; i++ {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		if _, err := s.Append(ctx, fmt.Sprintf("turn %d", i), role); err != nil {
			t.Fatal(err)
		}
	}

	turns, err := s.ReadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != n {
		t.Fatalf("expected %d turns, got %d", n, len(turns))
	}
	for i, turn := range turns {
		if want := fmt.Sprintf("turn %d", i); turn.Content != want {
			t.Fatalf("position %d: expected %q, got %q", i, want, turn.Content)
		}
	}
}

func TestReadAllOrdersByIDNotTimestamp(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// Simulate two appends committing in the opposite order of their
	// timestamps: the later insert carries the earlier created_at.
	later := time.Now().UTC()
	earlier := later.Add(-time.Minute)
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (created_at, content, role) VALUES (?, ?, ?)
	`, later, "first", "user"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (created_at, content, role) VALUES (?, ?, ?)
	`, earlier, "second", "assistant"); err != nil {
		t.Fatal(err)
	}

	turns, err := s.ReadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Content != "first" || turns[1].Content != "second" {
		t.Fatalf("read order must follow insertion order, got %q then %q",
			turns[0].Content, turns[1].Content)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.Append(ctx, "Hi", models.RoleUser); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatal(err)
	}

	turns, err := s.ReadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 0 {
		t.Fatalf("expected empty store after clear, got %d turns", len(turns))
	}
}

func TestDeleteByID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	keep, err := s.Append(ctx, "keep", models.RoleUser)
	if err != nil {
		t.Fatal(err)
	}
	drop, err := s.Append(ctx, "drop", models.RoleAssistant)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteByID(ctx, drop.ID); err != nil {
		t.Fatal(err)
	}

	turns, err := s.ReadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 1 || turns[0].ID != keep.ID {
		t.Fatalf("expected only turn %d to remain, got %+v", keep.ID, turns)
	}

	// Deleting a missing id is not an error.
	if err := s.DeleteByID(ctx, 9999); err != nil {
		t.Fatal(err)
	}
}

func TestAppendOnClosedStore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.Close()

	turn, err := s.Append(ctx, "Hi", models.RoleUser)
	if err == nil {
		t.Fatal("expected error from closed store")
	}
	if turn != nil {
		t.Fatalf("expected no turn from failed append, got %+v", turn)
	}
}
