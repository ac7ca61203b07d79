package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/dwhalen/todo-list/internal/apperrors"
	"github.com/dwhalen/todo-list/internal/service"
)

// TodoHandler handles todo-related requests
type TodoHandler struct {
	svc    *service.TodoService
	logger *zap.Logger
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(svc *service.TodoService, logger *zap.Logger) *TodoHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TodoHandler{svc: svc, logger: logger}
}

// RegisterRoutes registers todo routes on the given router.
// The router should already have the /todos prefix.
func (h *TodoHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListTodos).Methods("GET")
	r.HandleFunc("", h.CreateTodo).Methods("POST")
	r.HandleFunc("/{id}/toggle", h.ToggleTodo).Methods("POST")
	r.HandleFunc("/{id}", h.DeleteTodo).Methods("DELETE")
}

// ListTodos returns every todo, most recently created first
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.svc.List(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to retrieve todos")
		return
	}

	respondJSON(w, http.StatusOK, todos)
}

// CreateTodo creates a new todo
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var input service.CreateTodoInput
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&input); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	todo, err := h.svc.Create(r.Context(), input)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to create todo")
		return
	}

	respondJSON(w, http.StatusCreated, todo)
}

// ToggleTodo flips the completed flag of a todo
func (h *TodoHandler) ToggleTodo(w http.ResponseWriter, r *http.Request) {
	id := parseID(r)

	todo, err := h.svc.Toggle(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to toggle todo")
		return
	}

	respondJSON(w, http.StatusOK, todo)
}

// DeleteTodo removes a todo. Deleting an id that no longer exists still
// succeeds.
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id := parseID(r)

	removed, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to delete todo")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"deleted": removed})
}

// parseID extracts the {id} path variable. Anything that is not a positive
// integer comes back as 0, which the service rejects as a validation error.
func parseID(r *http.Request) int64 {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// respondServiceError maps the service error taxonomy to HTTP status codes.
// Store errors are logged server-side and answered with a generic message.
func (h *TodoHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, storeMessage string) {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", validationErr.Message)
		return
	}

	var notFoundErr *apperrors.NotFoundError
	if errors.As(err, &notFoundErr) {
		respondJSONError(w, http.StatusNotFound, "Not Found", notFoundErr.Message)
		return
	}

	h.logger.Error("store_operation_failed",
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.Error(err),
	)
	respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", storeMessage)
}
