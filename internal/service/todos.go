// Package service implements the four data-access operations: each one
// validates its input, performs exactly one logical store interaction, and
// returns the confirmed result.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dwhalen/todo-list/internal/apperrors"
	"github.com/dwhalen/todo-list/internal/database"
	"github.com/dwhalen/todo-list/internal/models"
	"github.com/dwhalen/todo-list/internal/validation"
)

// MaxTitleLength is the maximum length for a todo title
const MaxTitleLength = 10000

// CreateTodoInput is the input for Create. Description stays a pointer at
// every layer; trimming-to-nil happens here and nowhere else.
type CreateTodoInput struct {
	Title       string  `json:"title" validate:"max=10000"`
	Description *string `json:"description" validate:"omitempty,max=10000"`
}

// TodoService exposes List, Create, Toggle, and Delete over a todo repository.
type TodoService struct {
	repo   database.TodoRepositoryInterface
	logger *zap.Logger
}

// NewTodoService creates a new todo service
func NewTodoService(repo database.TodoRepositoryInterface, logger *zap.Logger) *TodoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TodoService{repo: repo, logger: logger}
}

// List returns all todos, most recently created first.
func (s *TodoService) List(ctx context.Context) ([]*models.Todo, error) {
	return s.repo.ListAll(ctx)
}

// Create validates the input and inserts a new todo. The title must be
// non-empty after trimming; an empty-after-trim description is stored as
// absent.
func (s *TodoService) Create(ctx context.Context, input CreateTodoInput) (*models.Todo, error) {
	if err := validation.Validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, apperrors.NewValidation(fmt.Sprintf("Validation failed: %s", verrs[0].Error()))
		}
		return nil, apperrors.NewValidation("Validation failed")
	}

	title := validation.SanitizeText(input.Title)
	if title == "" {
		return nil, apperrors.NewValidation("Title is required")
	}

	description := validation.NormalizeDescription(input.Description)

	todo, err := s.repo.Insert(ctx, title, description)
	if err != nil {
		return nil, err
	}

	s.logger.Info("todo_created",
		zap.Int64("id", todo.ID),
	)

	return todo, nil
}

// Toggle flips the completed flag of an existing todo and returns the
// updated record. The read-then-write is not atomic against concurrent
// toggles of the same id; the last writer wins.
func (s *TodoService) Toggle(ctx context.Context, id int64) (*models.Todo, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, database.ErrTodoNotFound) {
		return nil, apperrors.NewNotFound("Todo not found")
	}
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateCompleted(ctx, id, !current.Completed)
	if errors.Is(err, database.ErrTodoNotFound) {
		// Deleted between the read and the write.
		return nil, apperrors.NewNotFound("Todo not found")
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("todo_toggled",
		zap.Int64("id", updated.ID),
		zap.Bool("completed", updated.Completed),
	)

	return updated, nil
}

// Delete removes a todo. Deleting an id that does not exist is a success;
// the returned bool reports whether a row was actually removed.
func (s *TodoService) Delete(ctx context.Context, id int64) (bool, error) {
	if err := validateID(id); err != nil {
		return false, err
	}

	removed, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return false, err
	}

	s.logger.Info("todo_deleted",
		zap.Int64("id", id),
		zap.Bool("removed", removed),
	)

	return removed, nil
}

// validateID rejects non-positive ids with an explicit check. The store
// assigns ids starting at 1, so 0 is never legitimate.
func validateID(id int64) error {
	if id <= 0 {
		return apperrors.NewValidation("Todo ID is required")
	}
	return nil
}
