package task

import (
	"context"
	"time"
)

type TaskRepository interface {
	Create(ctx context.Context, t Task) (Task, error)
	GetByID(ctx context.Context, id string) (Task, error)
	List(ctx context.Context, filter TaskFilter, now time.Time) ([]Task, int64, error)
	Update(ctx context.Context, req UpdateTaskRequest) error
	Delete(ctx context.Context, id string) error
	// Transition applies a status change only if the task is still in from.
	// It returns ErrTaskStatusChanged when another writer got there first.
	Transition(ctx context.Context, id string, from Status, t Task) (Task, error)
}
