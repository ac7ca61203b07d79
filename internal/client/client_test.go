package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/dwhalen/todo-list/internal/apperrors"
	"github.com/dwhalen/todo-list/internal/database"
	"github.com/dwhalen/todo-list/internal/handlers"
	"github.com/dwhalen/todo-list/internal/service"
)

// newTestServer runs the real handler stack over an in-memory sqlite store.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	svc := service.NewTodoService(database.NewTodoRepository(db), nil)
	h := handlers.NewTodoHandler(svc, nil)

	r := mux.NewRouter()
	h.RegisterRoutes(r.PathPrefix("/api/v1/todos").Subrouter())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_RoundTrip(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	// Empty list.
	todos, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(todos) != 0 {
		t.Fatalf("Expected empty list, got %d", len(todos))
	}

	// Create with and without description.
	first, err := c.Create(ctx, "Buy milk", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if first.Description != nil {
		t.Errorf("Expected nil description, got %q", *first.Description)
	}

	second, err := c.Create(ctx, "Walk dog", "around the block")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if second.Description == nil || *second.Description != "around the block" {
		t.Errorf("Expected description set, got %v", second.Description)
	}
	if second.ID <= first.ID {
		t.Errorf("Expected increasing ids, got %d then %d", first.ID, second.ID)
	}

	// Newest first.
	todos, err = c.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(todos) != 2 || todos[0].ID != second.ID {
		t.Fatalf("Expected [%d %d], got %+v", second.ID, first.ID, todos)
	}

	// Toggle twice restores the original state.
	toggled, err := c.Toggle(ctx, first.ID)
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if !toggled.Completed {
		t.Error("Expected completed=true after toggle")
	}
	toggled, err = c.Toggle(ctx, first.ID)
	if err != nil {
		t.Fatalf("Second toggle failed: %v", err)
	}
	if toggled.Completed {
		t.Error("Expected completed=false after second toggle")
	}

	// Delete, then delete again: both succeed.
	if err := c.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := c.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Repeated delete failed: %v", err)
	}

	todos, err = c.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(todos) != 1 || todos[0].ID != second.ID {
		t.Fatalf("Expected only %d left, got %+v", second.ID, todos)
	}
}

func TestClient_ErrorMapping(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	_, err := c.Create(ctx, "   ", "")
	var verr *apperrors.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if verr.Message != "Title is required" {
		t.Errorf("Expected message %q, got %q", "Title is required", verr.Message)
	}

	_, err = c.Toggle(ctx, 42)
	if !apperrors.IsNotFound(err) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
}

func TestClient_ServerUnreachable(t *testing.T) {
	c := New("http://127.0.0.1:1")

	_, err := c.List(context.Background())
	if !apperrors.IsStore(err) {
		t.Fatalf("Expected StoreError for unreachable server, got %v", err)
	}
}

func TestClient_NonEnvelopeResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.List(context.Background()); !apperrors.IsStore(err) {
		t.Fatalf("Expected StoreError for malformed response, got %v", err)
	}
}
