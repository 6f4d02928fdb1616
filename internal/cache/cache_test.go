package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "cache.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGet(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	fixed := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	want := models.HabitListResponse{
		Habits: []models.Habit{{ID: "h1", IdentityStatement: "I am a person who reads"}},
		Total:  1,
	}
	if err := s.Put(ctx, "u1", "habits?status=active", want); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	var got models.HabitListResponse
	fetched, err := s.Get(ctx, "u1", "habits?status=active", &got)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !fetched.Equal(fixed) {
		t.Errorf("fetchedAt = %v, want %v", fetched, fixed)
	}
	if got.Total != 1 || len(got.Habits) != 1 || got.Habits[0].ID != "h1" {
		t.Errorf("got %+v", got)
	}

	// Snapshots are scoped per user
	if _, err := s.Get(ctx, "u2", "habits?status=active", &got); !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss for other user, got %v", err)
	}
}

func TestPutOverwrites(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "u1", "tags", []string{"a"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, "u1", "tags", []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	var tags []string
	if _, err := s.Get(ctx, "u1", "tags", &tags); err != nil || len(tags) != 2 {
		t.Errorf("tags = %v, err = %v", tags, err)
	}
}

func TestInvalidate(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for _, k := range []string{"habits?a", "habits?b", "tasks?a"} {
		if err := s.Put(ctx, "u1", k, k); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Invalidate(ctx, "u1", "habits"); err != nil {
		t.Fatal(err)
	}
	keys, err := s.Keys(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 1 || keys[0] != "tasks?a" {
		t.Errorf("keys = %v, want [tasks?a]", keys)
	}
}

func TestUsers(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if _, err := s.LastUser(ctx); !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss, got %v", err)
	}

	u := models.User{ID: "u1", Email: "a@b.co", CreatedAt: time.Now().UTC()}
	if err := s.PutUser(ctx, u); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, "u1", "tags", []string{"x"}); err != nil {
		t.Fatal(err)
	}

	got, err := s.LastUser(ctx)
	if err != nil || got.Email != "a@b.co" {
		t.Errorf("LastUser() = %+v, %v", got, err)
	}

	if err := s.ClearUser(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LastUser(ctx); !errors.Is(err, ErrMiss) {
		t.Errorf("user should be gone, got %v", err)
	}
	var tags []string
	if _, err := s.Get(ctx, "u1", "tags", &tags); !errors.Is(err, ErrMiss) {
		t.Errorf("snapshots should be gone, got %v", err)
	}
}

func TestClear(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_ = s.Put(ctx, "u1", "a", 1)
	_ = s.Put(ctx, "u2", "b", 2)

	n, err := s.Clear(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("cleared %d, want 2", n)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	s, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, "u1", "k", "v"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()
	var v string
	if _, err := s.Get(ctx, "u1", "k", &v); err != nil || v != "v" {
		t.Errorf("Get() = %q, %v", v, err)
	}
}

func TestSchemaVersion(t *testing.T) {
	s := setupTestStore(t)
	current, latest, err := s.SchemaVersion(context.Background())
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if latest == 0 || current != latest {
		t.Errorf("SchemaVersion = %d, %d; want a migrated store", current, latest)
	}
}
