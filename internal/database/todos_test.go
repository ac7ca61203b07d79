package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dwhalen/todo-list/internal/apperrors"
)

// newTestDB opens an in-memory sqlite database with the schema applied.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})
	return db
}

func strPtr(s string) *string { return &s }

func TestTodoRepository_ListAll_Empty(t *testing.T) {
	repo := NewTodoRepository(newTestDB(t))

	todos, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if todos == nil {
		t.Fatal("Expected empty slice, got nil")
	}
	if len(todos) != 0 {
		t.Fatalf("Expected 0 todos, got %d", len(todos))
	}
}

func TestTodoRepository_Insert(t *testing.T) {
	repo := NewTodoRepository(newTestDB(t))
	ctx := context.Background()

	before := time.Now().UTC().Add(-1 * time.Second)
	todo, err := repo.Insert(ctx, "Buy milk", nil)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if todo.ID <= 0 {
		t.Errorf("Expected positive id, got %d", todo.ID)
	}
	if todo.Title != "Buy milk" {
		t.Errorf("Expected title %q, got %q", "Buy milk", todo.Title)
	}
	if todo.Description != nil {
		t.Errorf("Expected nil description, got %q", *todo.Description)
	}
	if todo.Completed {
		t.Error("Expected completed=false on creation")
	}
	if todo.CreatedAt.Before(before) || todo.CreatedAt.After(time.Now().UTC().Add(1*time.Second)) {
		t.Errorf("Expected recent createdAt, got %s", todo.CreatedAt)
	}
}

func TestTodoRepository_Insert_IDsIncrease(t *testing.T) {
	repo := NewTodoRepository(newTestDB(t))
	ctx := context.Background()

	var lastID int64
	for i := 0; i < 5; i++ {
		todo, err := repo.Insert(ctx, "item", nil)
		if err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		if todo.ID <= lastID {
			t.Fatalf("Expected id > %d, got %d", lastID, todo.ID)
		}
		lastID = todo.ID
	}
}

func TestTodoRepository_Insert_DescriptionRoundTrip(t *testing.T) {
	repo := NewTodoRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.Insert(ctx, "With description", strPtr("the details"))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Description == nil || *got.Description != "the details" {
		t.Errorf("Expected description %q, got %v", "the details", got.Description)
	}
}

func TestTodoRepository_GetByID_NotFound(t *testing.T) {
	repo := NewTodoRepository(newTestDB(t))

	_, err := repo.GetByID(context.Background(), 42)
	if !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("Expected ErrTodoNotFound, got %v", err)
	}
}

func TestTodoRepository_UpdateCompleted(t *testing.T) {
	repo := NewTodoRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.Insert(ctx, "Toggle me", nil)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	updated, err := repo.UpdateCompleted(ctx, created.ID, true)
	if err != nil {
		t.Fatalf("UpdateCompleted failed: %v", err)
	}
	if !updated.Completed {
		t.Error("Expected completed=true after update")
	}
	if updated.ID != created.ID || updated.Title != created.Title {
		t.Error("Expected only the completed flag to change")
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("Expected createdAt to stay %s, got %s", created.CreatedAt, updated.CreatedAt)
	}
}

func TestTodoRepository_UpdateCompleted_NotFound(t *testing.T) {
	repo := NewTodoRepository(newTestDB(t))

	_, err := repo.UpdateCompleted(context.Background(), 99, true)
	if !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("Expected ErrTodoNotFound, got %v", err)
	}
}

func TestTodoRepository_DeleteByID(t *testing.T) {
	repo := NewTodoRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.Insert(ctx, "Delete me", nil)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	removed, err := repo.DeleteByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("DeleteByID failed: %v", err)
	}
	if !removed {
		t.Error("Expected removed=true for existing row")
	}

	if _, err := repo.GetByID(ctx, created.ID); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("Expected record to be gone, got %v", err)
	}

	// Deleting again is a no-op, not an error.
	removed, err = repo.DeleteByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("Second DeleteByID failed: %v", err)
	}
	if removed {
		t.Error("Expected removed=false for absent row")
	}
}

func TestTodoRepository_ListAll_Ordering(t *testing.T) {
	repo := NewTodoRepository(newTestDB(t))
	ctx := context.Background()

	first, err := repo.Insert(ctx, "first", nil)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	second, err := repo.Insert(ctx, "second", nil)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	third, err := repo.Insert(ctx, "third", nil)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	todos, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(todos) != 3 {
		t.Fatalf("Expected 3 todos, got %d", len(todos))
	}

	// Most recent first; same-second inserts fall back to id descending,
	// so the order is stable even without a timestamp gap.
	wantIDs := []int64{third.ID, second.ID, first.ID}
	for i, want := range wantIDs {
		if todos[i].ID != want {
			t.Errorf("Position %d: expected id %d, got %d", i, want, todos[i].ID)
		}
	}
}

func TestTodoRepository_StoreErrorOnClosedDB(t *testing.T) {
	db := newTestDB(t)
	repo := NewTodoRepository(db)
	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	_, err := repo.ListAll(context.Background())
	if !apperrors.IsStore(err) {
		t.Fatalf("Expected StoreError from closed database, got %v", err)
	}
}
