package state

import (
	"testing"
	"time"

	"github.com/dwhalen/todo-list/internal/models"
)

func mkTodo(id int64, title string, completed bool) models.Todo {
	return models.Todo{
		ID:        id,
		Title:     title,
		Completed: completed,
		CreatedAt: time.Now().UTC(),
	}
}

func TestReconcileCreate_Prepends(t *testing.T) {
	t.Parallel()

	list := []models.Todo{mkTodo(2, "older", false), mkTodo(1, "oldest", false)}
	out := ReconcileCreate(list, mkTodo(3, "newest", false))

	if len(out) != 3 {
		t.Fatalf("Expected 3 todos, got %d", len(out))
	}
	if out[0].ID != 3 || out[1].ID != 2 || out[2].ID != 1 {
		t.Errorf("Expected order [3 2 1], got [%d %d %d]", out[0].ID, out[1].ID, out[2].ID)
	}
	if len(list) != 2 {
		t.Error("Expected input list unchanged")
	}
}

func TestReconcileToggle_PreservesPosition(t *testing.T) {
	t.Parallel()

	list := []models.Todo{mkTodo(3, "c", false), mkTodo(2, "b", false), mkTodo(1, "a", false)}
	updated := mkTodo(2, "b", true)

	out := ReconcileToggle(list, updated)

	if out[1].ID != 2 || !out[1].Completed {
		t.Errorf("Expected id 2 completed at position 1, got %+v", out[1])
	}
	if out[0].Completed || out[2].Completed {
		t.Error("Expected other records unchanged")
	}
	if list[1].Completed {
		t.Error("Expected input list unchanged")
	}
}

func TestReconcileToggle_UnknownIDLeavesListAlone(t *testing.T) {
	t.Parallel()

	list := []models.Todo{mkTodo(1, "a", false)}
	out := ReconcileToggle(list, mkTodo(9, "x", true))

	if len(out) != 1 || out[0].ID != 1 || out[0].Completed {
		t.Errorf("Expected list unchanged, got %+v", out)
	}
}

func TestReconcileDelete_RemovesMatching(t *testing.T) {
	t.Parallel()

	list := []models.Todo{mkTodo(3, "c", false), mkTodo(2, "b", false), mkTodo(1, "a", false)}
	out := ReconcileDelete(list, 2)

	if len(out) != 2 {
		t.Fatalf("Expected 2 todos, got %d", len(out))
	}
	if out[0].ID != 3 || out[1].ID != 1 {
		t.Errorf("Expected [3 1], got [%d %d]", out[0].ID, out[1].ID)
	}

	// Deleting an unknown id is a no-op.
	out = ReconcileDelete(out, 42)
	if len(out) != 2 {
		t.Errorf("Expected no-op for unknown id, got %d todos", len(out))
	}
}

func TestPartition(t *testing.T) {
	t.Parallel()

	list := []models.Todo{
		mkTodo(4, "d", true),
		mkTodo(3, "c", false),
		mkTodo(2, "b", true),
		mkTodo(1, "a", false),
	}

	active, completed := Partition(list)

	if len(active) != 2 || active[0].ID != 3 || active[1].ID != 1 {
		t.Errorf("Unexpected active partition: %+v", active)
	}
	if len(completed) != 2 || completed[0].ID != 4 || completed[1].ID != 2 {
		t.Errorf("Unexpected completed partition: %+v", completed)
	}
	// Non-destructive projection: the source order is untouched.
	if list[0].ID != 4 || list[3].ID != 1 {
		t.Error("Expected input list unchanged")
	}
}

func TestSession_PendingGuards(t *testing.T) {
	t.Parallel()

	s := NewSession()
	s.Replace([]models.Todo{mkTodo(1, "a", false), mkTodo(2, "b", false)})

	if !s.BeginToggle(1) {
		t.Fatal("Expected first toggle to be admitted")
	}
	// A second toggle and a delete for the same id are dropped.
	if s.BeginToggle(1) {
		t.Error("Expected concurrent toggle for same id to be dropped")
	}
	if s.BeginDelete(1) {
		t.Error("Expected delete to be dropped while toggle is pending")
	}
	// A different id is unaffected.
	if !s.BeginDelete(2) {
		t.Error("Expected operation on different id to proceed")
	}

	s.End(1)
	if s.Pending(1) {
		t.Error("Expected pending mark cleared after End")
	}
	if !s.BeginToggle(1) {
		t.Error("Expected toggle admitted after End")
	}
}

func TestSession_ApplyReconciliation(t *testing.T) {
	t.Parallel()

	s := NewSession()
	s.Replace([]models.Todo{mkTodo(1, "a", false)})

	s.ApplyCreate(mkTodo(2, "b", false))
	todos := s.Todos()
	if len(todos) != 2 || todos[0].ID != 2 {
		t.Errorf("Expected created record first, got %+v", todos)
	}

	s.BeginToggle(2)
	s.ApplyToggle(mkTodo(2, "b", true))
	if s.Pending(2) {
		t.Error("Expected pending mark cleared by ApplyToggle")
	}
	todos = s.Todos()
	if !todos[0].Completed {
		t.Error("Expected toggle reconciled into cache")
	}

	s.BeginDelete(1)
	s.ApplyDelete(1)
	if s.Pending(1) {
		t.Error("Expected pending mark cleared by ApplyDelete")
	}
	todos = s.Todos()
	if len(todos) != 1 || todos[0].ID != 2 {
		t.Errorf("Expected only id 2 left, got %+v", todos)
	}
}

func TestSession_FailureLeavesCacheUnchanged(t *testing.T) {
	t.Parallel()

	s := NewSession()
	s.Replace([]models.Todo{mkTodo(1, "a", false)})

	s.BeginToggle(1)
	// Simulate a failed operation: only End is called, no Apply.
	s.End(1)

	todos := s.Todos()
	if len(todos) != 1 || todos[0].Completed {
		t.Errorf("Expected cache unchanged after failure, got %+v", todos)
	}
	if s.Pending(1) {
		t.Error("Expected item interactive again after failure")
	}
}
