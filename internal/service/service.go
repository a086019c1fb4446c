// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// All REST calls go through this interface; the store and commands
// never talk HTTP directly.
type Service interface {
	// ListTasks returns every task in backend order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task with the given title.
	// The returned task carries the backend-assigned ID.
	CreateTask(ctx context.Context, title string) (Task, error)

	// UpdateTask replaces the title and completed flag of task id.
	UpdateTask(ctx context.Context, id int64, task Task) error

	// DeleteTask deletes task id.
	DeleteTask(ctx context.Context, id int64) error
}
