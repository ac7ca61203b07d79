package database

import (
	"context"

	"github.com/dwhalen/todo-list/internal/models"
)

// TodoRepositoryInterface defines the interface for todo repository operations
// This interface enables better testability by allowing mock implementations
type TodoRepositoryInterface interface {
	ListAll(ctx context.Context) ([]*models.Todo, error)
	Insert(ctx context.Context, title string, description *string) (*models.Todo, error)
	GetByID(ctx context.Context, id int64) (*models.Todo, error)
	UpdateCompleted(ctx context.Context, id int64, completed bool) (*models.Todo, error)
	DeleteByID(ctx context.Context, id int64) (bool, error)
}

// Ensure the concrete type implements the interface
var _ TodoRepositoryInterface = (*TodoRepository)(nil)
