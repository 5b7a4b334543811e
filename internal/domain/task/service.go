package task

import "context"

type TaskService interface {
	CreateTask(ctx context.Context, req CreateTaskRequest) (TaskResponse, error)
	ListTasks(ctx context.Context, filter TaskFilter) (ListTaskResponse, error)
	GetTask(ctx context.Context, id string) (TaskResponse, error)
	UpdateTask(ctx context.Context, req UpdateTaskRequest) (TaskResponse, error)
	DeleteTask(ctx context.Context, id string) error

	ShelveTask(ctx context.Context, id string) (TaskResponse, error)
	ReopenTask(ctx context.Context, id string) (TaskResponse, error)
	AcceptTask(ctx context.Context, id string) (TaskResponse, error)
	RejectTask(ctx context.Context, req RejectTaskRequest) (TaskResponse, error)

	GetMyTasks(ctx context.Context, filter TaskFilter) (ListTaskResponse, error)
	StartTask(ctx context.Context, id string) (TaskResponse, error)
	CompleteTask(ctx context.Context, req CompleteTaskRequest) (TaskResponse, error)
}
