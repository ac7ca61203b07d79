package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dwhalen/todo-list/internal/apperrors"
	"github.com/dwhalen/todo-list/internal/models"
)

// ErrTodoNotFound is returned when a todo id does not exist in the store.
var ErrTodoNotFound = errors.New("todo not found")

// TodoRepository handles todo database operations
type TodoRepository struct {
	db *DB
}

// NewTodoRepository creates a new todo repository
func NewTodoRepository(db *DB) *TodoRepository {
	return &TodoRepository{db: db}
}

// ListAll retrieves every todo, most recently created first. Rows sharing a
// created_at second are ordered by id descending, so the order is stable
// within a single read.
func (r *TodoRepository) ListAll(ctx context.Context) ([]*models.Todo, error) {
	query := r.db.rebind(`
		SELECT id, title, description, completed, created_at
		FROM todos
		ORDER BY created_at DESC, id DESC
	`)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewStore("list todos", err)
	}
	defer rows.Close()

	todos := make([]*models.Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, apperrors.NewStore("scan todo", err)
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStore("iterate todos", err)
	}

	return todos, nil
}

// Insert creates a new todo with the next id, completed=false, and the
// current time. The full created record is returned.
func (r *TodoRepository) Insert(ctx context.Context, title string, description *string) (*models.Todo, error) {
	todo := &models.Todo{
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   time.Now().UTC(),
	}

	if r.db.driver == "postgres" {
		query := r.db.rebind(`
			INSERT INTO todos (title, description, completed, created_at)
			VALUES (?, ?, ?, ?)
			RETURNING id
		`)
		err := r.db.QueryRowContext(ctx, query, title, description, false, todo.CreatedAt).Scan(&todo.ID)
		if err != nil {
			return nil, apperrors.NewStore("insert todo", err)
		}
		return todo, nil
	}

	query := `
		INSERT INTO todos (title, description, completed, created_at)
		VALUES (?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query, title, description, false, todo.CreatedAt)
	if err != nil {
		return nil, apperrors.NewStore("insert todo", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, apperrors.NewStore("insert todo", err)
	}
	todo.ID = id

	return todo, nil
}

// GetByID retrieves a todo by id, or ErrTodoNotFound.
func (r *TodoRepository) GetByID(ctx context.Context, id int64) (*models.Todo, error) {
	query := r.db.rebind(`
		SELECT id, title, description, completed, created_at
		FROM todos
		WHERE id = ?
	`)

	row := r.db.QueryRowContext(ctx, query, id)
	todo, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTodoNotFound
	}
	if err != nil {
		return nil, apperrors.NewStore("get todo", err)
	}

	return todo, nil
}

// UpdateCompleted sets the completed flag for a todo and returns the updated
// record. Returns ErrTodoNotFound if the id does not exist.
func (r *TodoRepository) UpdateCompleted(ctx context.Context, id int64, completed bool) (*models.Todo, error) {
	query := r.db.rebind(`UPDATE todos SET completed = ? WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, completed, id)
	if err != nil {
		return nil, apperrors.NewStore("update todo", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, apperrors.NewStore("update todo", err)
	}
	if affected == 0 {
		return nil, ErrTodoNotFound
	}

	return r.GetByID(ctx, id)
}

// DeleteByID removes a todo. Deleting an absent id is not an error; the
// returned bool reports whether a row was actually removed.
func (r *TodoRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	query := r.db.rebind(`DELETE FROM todos WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, apperrors.NewStore("delete todo", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewStore("delete todo", err)
	}

	return affected > 0, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(s scanner) (*models.Todo, error) {
	todo := &models.Todo{}
	var description sql.NullString

	err := s.Scan(
		&todo.ID,
		&todo.Title,
		&description,
		&todo.Completed,
		&todo.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		todo.Description = &description.String
	}

	return todo, nil
}
