// Package state holds the client-side mirror of the todo list. The server
// is the authority; this cache is updated only from confirmed operation
// results and is discarded when the session ends.
//
// Reconcile functions are pure transforms over the list. The Session wraps
// them together with the per-id pending guards that debounce repeated
// toggle/delete requests while one is in flight.
package state

import (
	"sync"

	"github.com/dwhalen/todo-list/internal/models"
)

// ReconcileCreate prepends the created record, preserving most-recent-first
// order without a re-fetch.
func ReconcileCreate(todos []models.Todo, created models.Todo) []models.Todo {
	out := make([]models.Todo, 0, len(todos)+1)
	out = append(out, created)
	out = append(out, todos...)
	return out
}

// ReconcileToggle replaces the record with the matching id by the updated
// record, preserving its position. An unknown id leaves the list unchanged.
func ReconcileToggle(todos []models.Todo, updated models.Todo) []models.Todo {
	out := make([]models.Todo, len(todos))
	for i, t := range todos {
		if t.ID == updated.ID {
			out[i] = updated
		} else {
			out[i] = t
		}
	}
	return out
}

// ReconcileDelete removes the record with the matching id.
func ReconcileDelete(todos []models.Todo, id int64) []models.Todo {
	out := make([]models.Todo, 0, len(todos))
	for _, t := range todos {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

// Partition splits the list into active and completed subsets. It is a
// non-destructive projection, recomputed on every call.
func Partition(todos []models.Todo) (active, completed []models.Todo) {
	active = make([]models.Todo, 0, len(todos))
	completed = make([]models.Todo, 0, len(todos))
	for _, t := range todos {
		if t.Completed {
			completed = append(completed, t)
		} else {
			active = append(active, t)
		}
	}
	return active, completed
}

// Session is the per-session cache: the ordered todo list plus the sets of
// ids with an in-flight toggle or delete. The mutex matters only when the
// host is not single-threaded; bubbletea delivers messages serially, but the
// guards stay correct either way.
type Session struct {
	mu            sync.Mutex
	todos         []models.Todo
	pendingToggle map[int64]struct{}
	pendingDelete map[int64]struct{}
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{
		todos:         make([]models.Todo, 0),
		pendingToggle: make(map[int64]struct{}),
		pendingDelete: make(map[int64]struct{}),
	}
}

// Replace swaps in an authoritative list, e.g. after the initial load.
func (s *Session) Replace(todos []models.Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = append([]models.Todo(nil), todos...)
}

// Todos returns a copy of the cached list.
func (s *Session) Todos() []models.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Todo(nil), s.todos...)
}

// BeginToggle marks a toggle as in flight for id. It reports false, and
// marks nothing, when a toggle or delete is already pending for that id;
// the caller must drop the request, not queue it.
func (s *Session) BeginToggle(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingLocked(id) {
		return false
	}
	s.pendingToggle[id] = struct{}{}
	return true
}

// BeginDelete marks a delete as in flight for id, with the same drop
// semantics as BeginToggle.
func (s *Session) BeginDelete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingLocked(id) {
		return false
	}
	s.pendingDelete[id] = struct{}{}
	return true
}

// End clears any pending mark for id. Called on success and on failure; a
// failed operation leaves the list untouched but the control must become
// interactive again.
func (s *Session) End(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pendingToggle, id)
	delete(s.pendingDelete, id)
}

// Pending reports whether a toggle or delete is in flight for id.
func (s *Session) Pending(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingLocked(id)
}

func (s *Session) pendingLocked(id int64) bool {
	if _, ok := s.pendingToggle[id]; ok {
		return true
	}
	_, ok := s.pendingDelete[id]
	return ok
}

// ApplyCreate reconciles a confirmed create result into the cache.
func (s *Session) ApplyCreate(created models.Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = ReconcileCreate(s.todos, created)
}

// ApplyToggle reconciles a confirmed toggle result and clears the pending
// mark.
func (s *Session) ApplyToggle(updated models.Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = ReconcileToggle(s.todos, updated)
	delete(s.pendingToggle, updated.ID)
}

// ApplyDelete reconciles a confirmed delete and clears the pending mark.
func (s *Session) ApplyDelete(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = ReconcileDelete(s.todos, id)
	delete(s.pendingDelete, id)
}

// Partition returns the active and completed projections of the cache.
func (s *Session) Partition() (active, completed []models.Todo) {
	return Partition(s.Todos())
}
