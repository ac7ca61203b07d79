package models

import "time"

// Todo represents a single todo item. Description is nil when the user left
// the field blank; an empty string never reaches the store.
type Todo struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}
